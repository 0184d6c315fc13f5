package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Media    MediaConfig
	Kafka    KafkaConfig
	Log      LogConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	URI        string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// DSN returns the connection string for the configured driver. An explicit
// URI always wins over the individual postgres fields.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	if d.URI != "" {
		return d.URI
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	URI          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// Enabled reports whether a Redis URI was configured.
func (r RedisConfig) Enabled() bool {
	return r.URI != ""
}

type JWTConfig struct {
	Secret         string
	ExpirationTime time.Duration
}

type MediaConfig struct {
	Backend       string // minio | gridfs | none
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicURL     string
	MongoURI      string
	MongoDB       string
	MaxUploadSize int64
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Client  string // kafka-go | sarama
}

// Enabled reports whether at least one broker was configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the process configuration once and caches it.
func LoadConfig() (*Config, error) {
	var err error
	once.Do(func() {
		if loadErr := godotenv.Load(); loadErr != nil {
			slog.Debug("No .env file found, using environment variables")
		}
		ConfigInstance, err = Load()
	})
	return ConfigInstance, err
}

// Load reads configuration from the environment without caching.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetString("SERVER_PORT"),
			ReadTimeout:    v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:    v.GetDuration("SERVER_IDLE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			URI:        v.GetString("DATABASE_URL"),
			Host:       v.GetString("POSTGRES_HOST"),
			Port:       v.GetString("POSTGRES_PORT"),
			User:       v.GetString("POSTGRES_USER"),
			Password:   v.GetString("POSTGRES_PASSWORD"),
			DBName:     v.GetString("POSTGRES_DB"),
			SSLMode:    v.GetString("POSTGRES_SSLMODE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Redis: RedisConfig{
			URI:          v.GetString("REDIS_URL"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			ExpirationTime: v.GetDuration("JWT_EXPIRATION"),
		},
		Media: MediaConfig{
			Backend:       strings.ToLower(v.GetString("MEDIA_BACKEND")),
			Endpoint:      v.GetString("MINIO_ENDPOINT"),
			AccessKey:     v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:     v.GetString("MINIO_SECRET_KEY"),
			Bucket:        v.GetString("MINIO_BUCKET"),
			UseSSL:        v.GetBool("MINIO_USE_SSL"),
			PublicURL:     v.GetString("MEDIA_PUBLIC_URL"),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDB:       v.GetString("MONGO_DB"),
			MaxUploadSize: v.GetInt64("MEDIA_MAX_UPLOAD_SIZE"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
			Client:  strings.ToLower(v.GetString("KAFKA_CLIENT")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:5173")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("SQLITE_PATH", "users.db")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "password")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DB", "social")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)

	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("JWT_EXPIRATION", 24*time.Hour)

	v.SetDefault("MEDIA_BACKEND", "none")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_BUCKET", "social-media")
	v.SetDefault("MONGO_DB", "social")
	v.SetDefault("MEDIA_MAX_UPLOAD_SIZE", 10<<20)

	v.SetDefault("KAFKA_TOPIC", "social.events")
	v.SetDefault("KAFKA_CLIENT", "kafka-go")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Media.Backend {
	case "minio", "gridfs", "none":
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND %q", c.Media.Backend)
	}
	switch c.Kafka.Client {
	case "kafka-go", "sarama":
	default:
		return fmt.Errorf("unsupported KAFKA_CLIENT %q", c.Kafka.Client)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
