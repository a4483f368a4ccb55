package logs_queue

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"logstream/internal/config"
	logs_core "logstream/internal/features/logs/core"
	cache_utils "logstream/internal/util/cache"
	"logstream/internal/util/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

const testEventHubConnString = "Endpoint=sb://logs-ns.servicebus.windows.net/;" +
	"SharedAccessKeyName=send;SharedAccessKey=abc123/def+ghi=="

func Test_EventHubKafkaSettings_MapsNamespaceToKafkaEndpoint(t *testing.T) {
	settings, err := EventHubKafkaSettings(testEventHubConnString, "logstream")

	require.NoError(t, err)
	assert.Equal(t, []string{"logs-ns.servicebus.windows.net:9093"}, settings.Brokers)
	assert.Equal(t, "logstream", settings.Topic)
	assert.Equal(t, "$ConnectionString", settings.SaslUsername)
	assert.Equal(t, testEventHubConnString, settings.SaslPassword)
	assert.True(t, settings.IsTLS)
}

func Test_EventHubKafkaSettings_EntityPathOverridesName(t *testing.T) {
	settings, err := EventHubKafkaSettings(testEventHubConnString+";EntityPath=audit", "logstream")

	require.NoError(t, err)
	assert.Equal(t, "audit", settings.Topic)
}

func Test_EventHubKafkaSettings_WithInvalidInput_ReturnsError(t *testing.T) {
	_, err := EventHubKafkaSettings("SharedAccessKey=abc", "logstream")
	assert.Error(t, err)

	_, err = EventHubKafkaSettings(testEventHubConnString, "")
	assert.Error(t, err)
}

func Test_NewKafkaPublisher_WithoutBrokers_ReturnsError(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaSettings{Topic: "logstream"})

	assert.Error(t, err)
}

func Test_KafkaPublisher_Publish_RecordOverBatchLimit_ReturnsRecordTooLarge(t *testing.T) {
	publisher, err := NewKafkaPublisher(KafkaSettings{
		Brokers:       []string{"127.0.0.1:1"},
		Topic:         "logstream",
		MaxBatchBytes: 256,
	})
	require.NoError(t, err)
	defer publisher.Close()

	record := logs_core.LogRecord{
		ID:        "log-1",
		Source:    "auth-service",
		Message:   strings.Repeat("x", 512),
		Severity:  logs_core.SeverityInfo,
		CreatedAt: time.Now().UTC(),
	}

	err = publisher.Publish(context.Background(), record)

	assert.ErrorIs(t, err, logs_core.ErrRecordTooLarge)
}

func Test_KafkaPublisher_Publish_RecordJustUnderLimit_ReturnsRecordTooLarge(t *testing.T) {
	const maxBatchBytes = 256

	publisher, err := NewKafkaPublisher(KafkaSettings{
		Brokers:       []string{"127.0.0.1:1"},
		Topic:         "logstream",
		MaxBatchBytes: maxBatchBytes,
	})
	require.NoError(t, err)
	defer publisher.Close()

	record := logs_core.LogRecord{
		ID:        "log-1",
		Source:    "auth-service",
		Severity:  logs_core.SeverityInfo,
		CreatedAt: time.Now().UTC(),
	}
	encoded, err := json.Marshal(record)
	require.NoError(t, err)

	// payload plus key lands two bytes under the limit, framing pushes it over
	record.Message = strings.Repeat("x", maxBatchBytes-2-len(encoded)-len(record.Source))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = publisher.Publish(ctx, record)

	assert.ErrorIs(t, err, logs_core.ErrRecordTooLarge)
}

func Test_DisabledPublisher_PublishIsSilentNoop(t *testing.T) {
	publisher := DisabledPublisher{}

	assert.False(t, publisher.IsEnabled())
	assert.NoError(t, publisher.Publish(context.Background(), logs_core.LogRecord{ID: "x"}))
	assert.ErrorIs(t, publisher.Ping(context.Background()), logs_core.ErrSinkDisabled)
	assert.NoError(t, publisher.Close())
}

func Test_NewQueuePublisherFromEnv_SelectsDriver(t *testing.T) {
	disabled := newQueuePublisherFromEnv(config.EnvVariables{})
	assert.IsType(t, DisabledPublisher{}, disabled)

	kafkaPublisher := newQueuePublisherFromEnv(config.EnvVariables{
		EventHubConnString: testEventHubConnString,
		EventHubName:       "logstream",
		QueueMaxBatchBytes: 1024,
	})
	require.IsType(t, &KafkaPublisher{}, kafkaPublisher)
	assert.True(t, kafkaPublisher.IsEnabled())
	assert.NoError(t, kafkaPublisher.Close())

	broken := newQueuePublisherFromEnv(config.EnvVariables{
		QueueDriver:        config.QueueDriverKafka,
		EventHubConnString: "SharedAccessKey=abc",
		EventHubName:       "logstream",
	})
	assert.IsType(t, DisabledPublisher{}, broken)
}

func Test_ValkeyPublisher_Ping_WhenQueueKeyHoldsWrongType_ReportsDown(t *testing.T) {
	address := os.Getenv("TEST_VALKEY_ADDR")
	if address == "" {
		t.Skip("TEST_VALKEY_ADDR is not set")
	}

	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{address}})
	require.NoError(t, err)

	ctx := context.Background()
	queueKey := "test:publisher:" + time.Now().Format("150405.000000000")
	publisher := NewValkeyPublisher(cache_utils.NewValkeyQueueService(client), queueKey, 0, logger.GetLogger())
	defer publisher.Close()

	require.NoError(t, publisher.Ping(ctx))

	require.NoError(t, client.Do(ctx, client.B().Set().Key(queueKey).Value("scalar").Build()).Error())
	defer client.Do(ctx, client.B().Del().Key(queueKey).Build())

	assert.Error(t, publisher.Ping(ctx))
}
