package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"time"

	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
	"github.com/Temutjin2k/fare-predictor/pkg/configparser"
	"github.com/Temutjin2k/fare-predictor/pkg/logger"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode (fare-api | fare-recorder)")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Log         LogConfig
		Server      ServerConfig
		Model       ModelConfig
		Database    DatabaseConfig
		RabbitMQ    RabbitMQConfig
		Redis       RedisConfig
		Auth        AuthConfig
		ExternalAPI ExternalAPIConfig
		NewRelic    NewRelicConfig
		CORS        CORSConfig
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}

	ServerConfig struct {
		Host            string        `env:"SERVER_HOST" default:"0.0.0.0"`
		FareAPIPort     string        `env:"SERVER_FARE_API_PORT" default:"3000"`
		RecorderPort    string        `env:"SERVER_RECORDER_PORT" default:"3001"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
	}

	ModelConfig struct {
		Source      types.ModelSource `env:"MODEL_SOURCE" default:"file"`
		Path        string            `env:"MODEL_PATH" default:"models/final_model.json"`
		RemoteURL   string            `env:"MODEL_REMOTE_URL" default:"http://localhost:8500"`
		Timeout     time.Duration     `env:"MODEL_TIMEOUT" default:"5s"`
		LoadOnStart bool              `env:"MODEL_LOAD_ON_START" default:"true"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"fare_user"`
		Password string `env:"DATABASE_PASSWORD" default:"fare_pass"`
		Database string `env:"DATABASE_DATABASE" default:"fare_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"true"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	RedisConfig struct {
		Enabled  bool          `env:"REDIS_ENABLED" default:"false"`
		Host     string        `env:"REDIS_HOST" default:"localhost"`
		Port     string        `env:"REDIS_PORT" default:"6379"`
		Password string        `env:"REDIS_PASSWORD"`
		DB       int           `env:"REDIS_DB" default:"0"`
		TTL      time.Duration `env:"REDIS_TTL" default:"10m"`
	}

	AuthConfig struct {
		Enabled   bool          `env:"AUTH_ENABLED" default:"false"`
		JWTSecret string        `env:"AUTH_JWT_SECRET"`
		TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" default:"720h"`
		Issuer    string        `env:"AUTH_ISSUER" default:"fare-predictor"`
	}

	ExternalAPIConfig struct {
		LocationIQapiKey  string        `env:"LOCATIONIQ_API_KEY"`
		LocationIQBaseURL string        `env:"LOCATIONIQ_BASE_URL" default:"https://us1.locationiq.com"`
		LocationIQTimeout time.Duration `env:"LOCATIONIQ_TIMEOUT" default:"3s"`
	}

	NewRelicConfig struct {
		Enabled    bool   `env:"NEW_RELIC_ENABLED" default:"false"`
		AppName    string `env:"NEW_RELIC_APP_NAME" default:"fare-predictor"`
		LicenseKey string `env:"NEW_RELIC_LICENSE_KEY"`
	}

	CORSConfig struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetMaxConns() int32                { return c.MaxConns }
func (c DatabaseConfig) GetMinConns() int32                { return c.MinConns }
func (c DatabaseConfig) GetMaxConnLifetime() time.Duration { return c.MaxConnLifetime }
func (c DatabaseConfig) GetMaxConnIdleTime() time.Duration { return c.MaxConnIdleTime }

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func (c RedisConfig) GetAddr() string     { return net.JoinHostPort(c.Host, c.Port) }
func (c RedisConfig) GetPassword() string { return c.Password }
func (c RedisConfig) GetDB() int          { return c.DB }

func (c NewRelicConfig) IsEnabled() bool       { return c.Enabled }
func (c NewRelicConfig) GetAppName() string    { return c.AppName }
func (c NewRelicConfig) GetLicenseKey() string { return c.LicenseKey }

// Addr returns the listen address of the given service mode.
func (c ServerConfig) Addr(mode types.ServiceMode) string {
	port := c.FareAPIPort
	if mode == types.FareRecorder {
		port = c.RecorderPort
	}
	return net.JoinHostPort(c.Host, port)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}

// Validate checks values the parser cannot.
func (c *Config) Validate() error {
	switch c.Mode {
	case types.FareAPI, types.FareRecorder:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if !logger.ValidateLogLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	switch c.Model.Source {
	case types.ModelSourceFile:
		if c.Model.Path == "" {
			return errors.New("model path is required for file source")
		}
	case types.ModelSourceRemote:
		if c.Model.RemoteURL == "" {
			return errors.New("model remote url is required for remote source")
		}
	default:
		return fmt.Errorf("invalid model source %q", c.Model.Source)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("auth is enabled but AUTH_JWT_SECRET is empty")
	}
	return nil
}
