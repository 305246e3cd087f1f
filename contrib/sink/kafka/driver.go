// Package kafka provides a taglog sink that publishes accepted events
// to a Kafka topic as JSON, using Sarama.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/taglog"
//	    sinkkafka "github.com/madcok-co/taglog/contrib/sink/kafka"
//	)
//
//	driver, err := sinkkafka.NewDriver(&sinkkafka.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "camera-log",
//	})
//	taglog.RegisterSink(driver)
package kafka

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/madcok-co/taglog"
)

// Event is the JSON payload published for each log event. The tag also
// serves as the partition key, so one subsystem's events stay ordered.
type Event struct {
	Time     time.Time `json:"time"`
	Severity string    `json:"severity"`
	Tag      string    `json:"tag"`
	Message  string    `json:"message"`
	Error    string    `json:"error,omitempty"`
}

// Driver implements taglog.Sink using a Sarama sync producer.
type Driver struct {
	producer sarama.SyncProducer
	topic    string

	mu      sync.Mutex
	lastErr error
}

// Config for the Kafka sink.
type Config struct {
	Brokers  []string
	Topic    string
	ClientID string
	Version  string // Kafka version, e.g., "2.8.0"

	RequiredAcks sarama.RequiredAcks
	Compression  sarama.CompressionCodec
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "taglog-events",
		ClientID:     "taglog",
		Version:      "2.8.0",
		RequiredAcks: sarama.WaitForLocal,
		Compression:  sarama.CompressionSnappy,
	}
}

// NewDriver creates a new Kafka sink, connecting a sync producer to the
// configured brokers.
func NewDriver(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	saramaCfg := sarama.NewConfig()
	version, err := sarama.ParseKafkaVersion(cfg.Version)
	if err != nil {
		version = sarama.V2_8_0_0
	}
	saramaCfg.Version = version
	saramaCfg.ClientID = cfg.ClientID
	saramaCfg.Producer.RequiredAcks = cfg.RequiredAcks
	saramaCfg.Producer.Compression = cfg.Compression
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return NewDriverWithProducer(producer, cfg.Topic), nil
}

// NewDriverWithProducer creates a sink from an existing producer.
func NewDriverWithProducer(producer sarama.SyncProducer, topic string) *Driver {
	return &Driver{
		producer: producer,
		topic:    topic,
	}
}

// Topic returns the topic events are published to.
func (d *Driver) Topic() string {
	return d.topic
}

// Log publishes the event. A failed publish is remembered and surfaced
// by the next Sync; logging itself never fails loudly.
func (d *Driver) Log(sev taglog.Severity, tag, message string, err error) {
	event := Event{
		Time:     time.Now().UTC(),
		Severity: sev.String(),
		Tag:      tag,
		Message:  message,
	}
	if err != nil {
		event.Error = err.Error()
	}

	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		d.recordErr(marshalErr)
		return
	}

	_, _, sendErr := d.producer.SendMessage(&sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(tag),
		Value: sarama.ByteEncoder(payload),
	})
	if sendErr != nil {
		d.recordErr(sendErr)
	}
}

func (d *Driver) recordErr(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}

// Sync reports and clears the last publish failure.
func (d *Driver) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.lastErr
	d.lastErr = nil
	return err
}

// Close shuts the underlying producer down.
func (d *Driver) Close() error {
	return d.producer.Close()
}

// Ensure Driver implements taglog.Sink
var _ taglog.Sink = (*Driver)(nil)
