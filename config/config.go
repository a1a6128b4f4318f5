package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Auth       AuthConfig       `yaml:"auth"`
	Firebase   FirebaseConfig   `yaml:"firebase"`
	Stripe     StripeConfig     `yaml:"stripe"`
	S3         S3Config         `yaml:"s3"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Worker     WorkerConfig     `yaml:"worker"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Address     string          `yaml:"address"`
	SwaggerDir  string          `yaml:"swagger_dir"`
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	if d.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", d.MaxConns)
	}
	return dsn
}

type RedisConfig struct {
	Addr                string `yaml:"addr"`
	Password            string `yaml:"password"`
	DB                  int    `yaml:"db"`
	PackagesCacheTTL    int    `yaml:"packages_cache_ttl_seconds"`
	WebhookDedupeTTLHrs int    `yaml:"webhook_dedupe_ttl_hours"`
}

func (r RedisConfig) PackagesTTL() time.Duration {
	return time.Duration(r.PackagesCacheTTL) * time.Second
}

func (r RedisConfig) WebhookDedupeTTL() time.Duration {
	return time.Duration(r.WebhookDedupeTTLHrs) * time.Hour
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

const (
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

type AuthConfig struct {
	Provider      string `yaml:"provider"`
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	Currency      string `yaml:"currency"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
}

type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Region != ""
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type WorkerConfig struct {
	ExpirationSweepMinutes    int `yaml:"expiration_sweep_minutes"`
	PendingTransactionTTLHour int `yaml:"pending_transaction_ttl_hours"`
}

func (w WorkerConfig) PendingTransactionTTL() time.Duration {
	return time.Duration(w.PendingTransactionTTLHour) * time.Hour
}

// LoadConfig reads the YAML file at path after loading an optional .env file.
// ${VAR} references in the YAML are expanded from the environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Name == "" {
		return errors.New("database name is required")
	}

	switch c.Auth.Provider {
	case AuthProviderLocal:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required for the local provider")
		}
	case AuthProviderFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("firebase.project_id is required for the firebase provider")
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}

	if c.Stripe.SecretKey != "" && c.Stripe.WebhookSecret == "" {
		return errors.New("stripe.webhook_secret is required when stripe.secret_key is set")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "travelbooking"
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimit.RPS == 0 {
		c.HTTP.RateLimit.RPS = 5
	}
	if c.HTTP.RateLimit.Burst == 0 {
		c.HTTP.RateLimit.Burst = 10
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":8081"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Redis.PackagesCacheTTL == 0 {
		c.Redis.PackagesCacheTTL = 60
	}
	if c.Redis.WebhookDedupeTTLHrs == 0 {
		c.Redis.WebhookDedupeTTLHrs = 72
	}
	brokers := c.Kafka.Brokers[:0]
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Kafka.Brokers = brokers
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Kafka.NotificationsTopic == "" {
		c.Kafka.NotificationsTopic = "notifications"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "travelbooking-worker"
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = AuthProviderLocal
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 72
	}
	if c.Stripe.Currency == "" {
		c.Stripe.Currency = "usd"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Worker.ExpirationSweepMinutes == 0 {
		c.Worker.ExpirationSweepMinutes = 15
	}
	if c.Worker.PendingTransactionTTLHour == 0 {
		c.Worker.PendingTransactionTTLHour = 24
	}
}
