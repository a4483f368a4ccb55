package logs_queue

import (
	"sync"

	"logstream/internal/cache"
	"logstream/internal/config"
	logs_core "logstream/internal/features/logs/core"
	cache_utils "logstream/internal/util/cache"
	"logstream/internal/util/logger"
)

var (
	queuePublisher     logs_core.QueuePublisher
	queuePublisherOnce sync.Once
)

// GetQueuePublisher builds the durable queue publisher selected by config.
// Configuration problems are logged and leave the queue disabled so
// ingestion keeps working locally.
func GetQueuePublisher() logs_core.QueuePublisher {
	queuePublisherOnce.Do(func() {
		queuePublisher = newQueuePublisherFromEnv(config.GetEnv())
	})

	return queuePublisher
}

func newQueuePublisherFromEnv(env config.EnvVariables) logs_core.QueuePublisher {
	log := logger.GetLogger()

	switch env.EffectiveQueueDriver() {
	case config.QueueDriverKafka:
		settings := &KafkaSettings{
			Brokers:      env.KafkaBrokerList(),
			Topic:        env.KafkaTopic,
			SaslUsername: env.KafkaSaslUsername,
			SaslPassword: env.KafkaSaslPassword,
			IsTLS:        env.KafkaIsTLS,
		}

		if env.EventHubConnString != "" {
			eventHubSettings, err := EventHubKafkaSettings(env.EventHubConnString, env.EventHubName)
			if err != nil {
				log.Error("Invalid Event Hub configuration, durable queue disabled", "error", err)
				return DisabledPublisher{}
			}
			settings = eventHubSettings
		}

		settings.MaxBatchBytes = env.QueueMaxBatchBytes

		publisher, err := NewKafkaPublisher(*settings)
		if err != nil {
			log.Error("Failed to create kafka publisher, durable queue disabled", "error", err)
			return DisabledPublisher{}
		}

		log.Info("Kafka queue publisher initialized", "topic", settings.Topic, "brokers", settings.Brokers)
		return publisher

	case config.QueueDriverValkey:
		client, err := cache.GetCache()
		if err != nil {
			log.Error("Failed to create valkey client, durable queue disabled", "error", err)
			return DisabledPublisher{}
		}

		log.Info("Valkey queue publisher initialized", "key", env.QueueValkeyKey)
		return NewValkeyPublisher(
			cache_utils.NewValkeyQueueService(client),
			env.QueueValkeyKey,
			env.QueueMaxBatchBytes,
			log,
		)

	default:
		log.Warn("Durable queue configuration missing, publishing disabled")
		return DisabledPublisher{}
	}
}
