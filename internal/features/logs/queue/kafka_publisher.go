package logs_queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	logs_core "logstream/internal/features/logs/core"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	eventHubKafkaPort    = "9093"
	eventHubSaslUsername = "$ConnectionString"
	kafkaBatchTimeout    = 50 * time.Millisecond
	kafkaDialTimeout     = 5 * time.Second
	DefaultMaxBatchBytes = 1024 * 1024
)

type KafkaSettings struct {
	Brokers       []string
	Topic         string
	SaslUsername  string
	SaslPassword  string
	IsTLS         bool
	MaxBatchBytes int
}

// EventHubKafkaSettings maps an Azure Event Hubs connection string onto the
// namespace's Kafka endpoint. EntityPath in the connection string overrides
// eventHubName.
func EventHubKafkaSettings(connectionString, eventHubName string) (*KafkaSettings, error) {
	var endpoint, entityPath string
	for _, part := range strings.Split(connectionString, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch strings.ToLower(key) {
		case "endpoint":
			endpoint = value
		case "entitypath":
			entityPath = value
		}
	}

	if endpoint == "" {
		return nil, errors.New("event hub connection string has no Endpoint")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Hostname() == "" {
		return nil, fmt.Errorf("event hub endpoint %q is invalid", endpoint)
	}

	topic := eventHubName
	if entityPath != "" {
		topic = entityPath
	}
	if topic == "" {
		return nil, errors.New("event hub name is empty")
	}

	return &KafkaSettings{
		Brokers:      []string{parsed.Hostname() + ":" + eventHubKafkaPort},
		Topic:        topic,
		SaslUsername: eventHubSaslUsername,
		SaslPassword: connectionString,
		IsTLS:        true,
	}, nil
}

// KafkaPublisher writes records to a Kafka topic. The underlying writer
// batches concurrent publishes; each Publish returns once its batch is
// acknowledged.
type KafkaPublisher struct {
	writer        *kafka.Writer
	dialer        *kafka.Dialer
	brokers       []string
	maxBatchBytes int
}

func NewKafkaPublisher(settings KafkaSettings) (*KafkaPublisher, error) {
	if len(settings.Brokers) == 0 || settings.Topic == "" {
		return nil, errors.New("kafka brokers and topic are required")
	}

	maxBatchBytes := settings.MaxBatchBytes
	if maxBatchBytes <= 0 {
		maxBatchBytes = DefaultMaxBatchBytes
	}

	var mechanism sasl.Mechanism
	if settings.SaslUsername != "" {
		mechanism = plain.Mechanism{
			Username: settings.SaslUsername,
			Password: settings.SaslPassword,
		}
	}

	var tlsConfig *tls.Config
	if settings.IsTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(settings.Brokers...),
		Topic:        settings.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: kafkaBatchTimeout,
		BatchBytes:   int64(maxBatchBytes),
		RequiredAcks: kafka.RequireAll,
		Transport: &kafka.Transport{
			DialTimeout: kafkaDialTimeout,
			SASL:        mechanism,
			TLS:         tlsConfig,
		},
	}

	return &KafkaPublisher{
		writer: writer,
		dialer: &kafka.Dialer{
			Timeout:       kafkaDialTimeout,
			SASLMechanism: mechanism,
			TLS:           tlsConfig,
		},
		brokers:       settings.Brokers,
		maxBatchBytes: maxBatchBytes,
	}, nil
}

func (p *KafkaPublisher) IsEnabled() bool {
	return true
}

func (p *KafkaPublisher) Publish(ctx context.Context, record logs_core.LogRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal log record: %w", err)
	}

	key := []byte(record.Source)
	if size := len(key) + len(payload); size > p.maxBatchBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", logs_core.ErrRecordTooLarge, size, p.maxBatchBytes)
	}

	// Keyed by source so each producer's records keep their order within a partition
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: payload,
	})

	// the writer also counts message framing against BatchBytes
	var tooLarge kafka.MessageTooLargeError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %d bytes with framing exceeds %d", logs_core.ErrRecordTooLarge, len(payload), p.maxBatchBytes)
	}

	if err != nil {
		return fmt.Errorf("failed to write to kafka: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Ping(ctx context.Context) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to reach kafka broker: %w", err)
	}

	return conn.Close()
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
