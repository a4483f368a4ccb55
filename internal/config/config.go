package config

import (
	env_utils "logstream/internal/util/env"
	"logstream/internal/util/logger"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

const (
	QueueDriverKafka  = "kafka"
	QueueDriverValkey = "valkey"
)

type EnvVariables struct {
	IsTesting       bool
	BackendRootPath string

	EnvMode    env_utils.EnvMode `env:"ENV_MODE"    env-default:"development"`
	ServerPort string            `env:"SERVER_PORT" env-default:"4005"`

	// ingestion
	BufferCapacity     int           `env:"BUFFER_CAPACITY"       env-default:"200"`
	SinkTimeout        time.Duration `env:"SINK_TIMEOUT"          env-default:"3s"`
	IngestRateLimitRPS float64       `env:"INGEST_RATE_LIMIT_RPS" env-default:"0"`

	// persistent store
	DatabaseDsn      string        `env:"DATABASE_DSN"`
	StoreRetention   time.Duration `env:"STORE_RETENTION"    env-default:"0s"`
	StoreMaxRecords  int64         `env:"STORE_MAX_RECORDS"  env-default:"0"`
	StoreCleanupTick time.Duration `env:"STORE_CLEANUP_TICK" env-default:"1m"`

	// realtime
	SignalRConnectionString string        `env:"AZURE_SIGNALR_CONN_STR"`
	RealtimeTimeout         time.Duration `env:"REALTIME_TIMEOUT"       env-default:"3s"`
	RealtimeTokenTTL        time.Duration `env:"REALTIME_TOKEN_TTL"     env-default:"1h"`

	// durable queue
	QueueDriver        string `env:"QUEUE_DRIVER"`
	QueueMaxBatchBytes int    `env:"QUEUE_MAX_BATCH_BYTES"   env-default:"1048576"`
	KafkaBrokers       string `env:"KAFKA_BROKERS"`
	KafkaTopic         string `env:"KAFKA_TOPIC"             env-default:"logstream"`
	KafkaSaslUsername  string `env:"KAFKA_SASL_USERNAME"`
	KafkaSaslPassword  string `env:"KAFKA_SASL_PASSWORD"`
	KafkaIsTLS         bool   `env:"KAFKA_TLS"               env-default:"false"`
	EventHubConnString string `env:"AZURE_EVENTHUB_CONN_STR"`
	EventHubName       string `env:"AZURE_EVENTHUB_NAME"`
	QueueValkeyKey     string `env:"QUEUE_VALKEY_KEY"        env-default:"logstream:logs:queue"`

	// cache
	ValkeyHost     string `env:"VALKEY_HOST"`
	ValkeyPort     string `env:"VALKEY_PORT"     env-default:"6379"`
	ValkeyUsername string `env:"VALKEY_USERNAME"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"   env-default:"false"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

// KafkaBrokerList splits KAFKA_BROKERS on commas, dropping blanks.
func (e EnvVariables) KafkaBrokerList() []string {
	var brokers []string
	for _, broker := range strings.Split(e.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return brokers
}

// EffectiveQueueDriver resolves which durable queue to use. An explicit
// QUEUE_DRIVER wins, an Event Hubs connection string implies kafka, and
// anything else leaves the queue disabled.
func (e EnvVariables) EffectiveQueueDriver() string {
	switch strings.ToLower(strings.TrimSpace(e.QueueDriver)) {
	case QueueDriverKafka:
		return QueueDriverKafka
	case QueueDriverValkey:
		return QueueDriverValkey
	case "":
		if e.EventHubConnString != "" {
			return QueueDriverKafka
		}
	}

	return ""
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Info("No .env file found, using process environment only")
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	env.BackendRootPath = backendRoot

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.BufferCapacity <= 0 {
		log.Error("BUFFER_CAPACITY must be positive", "value", env.BufferCapacity)
		os.Exit(1)
	}

	if env.SinkTimeout <= 0 {
		log.Error("SINK_TIMEOUT must be positive", "value", env.SinkTimeout)
		os.Exit(1)
	}

	switch env.EffectiveQueueDriver() {
	case QueueDriverKafka:
		if env.EventHubConnString == "" && len(env.KafkaBrokerList()) == 0 {
			log.Error("QUEUE_DRIVER is kafka but neither KAFKA_BROKERS nor AZURE_EVENTHUB_CONN_STR is set")
			os.Exit(1)
		}
		if env.EventHubConnString != "" && env.EventHubName == "" {
			log.Error("AZURE_EVENTHUB_NAME is empty")
			os.Exit(1)
		}
	case QueueDriverValkey:
		if env.ValkeyHost == "" {
			log.Error("QUEUE_DRIVER is valkey but VALKEY_HOST is empty")
			os.Exit(1)
		}
	default:
		if env.QueueDriver != "" {
			log.Error("QUEUE_DRIVER is invalid", "driver", env.QueueDriver)
			os.Exit(1)
		}
		log.Warn("Durable queue is not configured, ingestion will stay local")
	}

	if env.StoreRetention < 0 || env.StoreMaxRecords < 0 {
		log.Error("STORE_RETENTION and STORE_MAX_RECORDS cannot be negative")
		os.Exit(1)
	}

	if env.StoreCleanupTick <= 0 {
		log.Error("STORE_CLEANUP_TICK must be positive", "value", env.StoreCleanupTick)
		os.Exit(1)
	}

	if env.DatabaseDsn == "" {
		log.Warn("DATABASE_DSN is empty, persistent store disabled")
	}

	if env.SignalRConnectionString == "" {
		log.Warn("AZURE_SIGNALR_CONN_STR is empty, realtime broadcast disabled")
	}

	log.Info("Environment variables loaded successfully!")
}
