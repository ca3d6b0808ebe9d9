package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	StorageMinio = "minio"
	StorageGCS   = "gcs"

	MQRabbitMQ = "rabbitmq"
	MQPubSub   = "pubsub"
)

type Config struct {
	Env          string `env:"ENV" envDefault:"production"`
	ServerPort   int    `env:"SERVER_PORT" envDefault:"4000"`
	StaticDir    string `env:"STATIC_DIR"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	Auth     AuthConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	MQ       MQConfig       `envPrefix:"MQ_"`
}

// AuthConfig holds the token signing secret and password hashing settings.
// It is read once at startup and never mutated.
type AuthConfig struct {
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	TokenIssuer string        `env:"TOKEN_ISSUER" envDefault:"notekeeper"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
}

type DatabaseConfig struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"notekeeper"`
	Password string `env:"PASSWORD" envDefault:"password"`
	DBName   string `env:"NAME" envDefault:"notekeeper_db"`
	UseSSL   bool   `env:"USE_SSL"`
}

// StorageConfig selects the object storage backend used for note exports.
// An empty Backend disables exports.
type StorageConfig struct {
	Backend string      `env:"BACKEND"`
	Minio   MinioConfig `envPrefix:"MINIO_"`
	GCS     GCSConfig   `envPrefix:"GCS_"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"note-exports"`
	UseSSL    bool   `env:"USE_SSL"`
}

type GCSConfig struct {
	Bucket          string `env:"BUCKET"`
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// MQConfig selects the broker used to hand export jobs to the worker.
// An empty Backend disables exports.
type MQConfig struct {
	Backend       string         `env:"BACKEND"`
	ExportChannel string         `env:"EXPORT_CHANNEL" envDefault:"note-exports"`
	RabbitMQ      RabbitMQConfig `envPrefix:"RABBITMQ_"`
	PubSub        PubSubConfig   `envPrefix:"PUBSUB_"`
}

type RabbitMQConfig struct {
	URL             string `env:"URL"`
	QueueDurable    bool   `env:"QUEUE_DURABLE" envDefault:"true"`
	QueueAutoDelete bool   `env:"QUEUE_AUTO_DELETE"`
	PrefetchCount   int    `env:"PREFETCH_COUNT" envDefault:"1"`
}

type PubSubConfig struct {
	ProjectID          string `env:"PROJECT_ID"`
	CredentialsFile    string `env:"CREDENTIALS_FILE"`
	SubscriptionSuffix string `env:"SUBSCRIPTION_SUFFIX" envDefault:"-sub"`
}

// LoadConfig reads configuration from the environment. In dev mode a local
// .env file is loaded first.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.MQ.Backend = strings.ToLower(strings.TrimSpace(cfg.MQ.Backend))

	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case "", StorageMinio, StorageGCS:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.MQ.Backend {
	case "", MQRabbitMQ, MQPubSub:
	default:
		return fmt.Errorf("unknown MQ_BACKEND %q", c.MQ.Backend)
	}
	return nil
}

// RequireSharedStore rejects the memory driver for commands that run in
// their own process, since their writes would never reach the server.
func (c Config) RequireSharedStore(command string) error {
	if c.Database.Driver == DriverMemory {
		return fmt.Errorf("%s needs a shared database: DB_DRIVER=%s keeps data inside one process", command, DriverMemory)
	}
	return nil
}

// ExportsEnabled reports whether both halves of the export pipeline are configured.
func (c Config) ExportsEnabled() bool {
	return c.Storage.Backend != "" && c.MQ.Backend != ""
}
