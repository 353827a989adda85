package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/configparser"
)

// Flags
var (
	modeFlag = flag.String("mode", "", "application mode (fare-service, migrate)")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Config contains all configuration variables of the fare server
type (
	Config struct {
		Mode types.ServiceMode

		Log       LogConfig
		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Services  ServicesConfig
		Auth      Auth
		FareGuide FareGuideConfig
		RateLimit RateLimitConfig
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL,default=DEBUG"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST,default=localhost"`
		Port     string `env:"DATABASE_PORT,default=5432"`
		User     string `env:"DATABASE_USER,default=fairfares_user"`
		Password string `env:"DATABASE_PASSWORD,default=fairfares_pass"`
		Database string `env:"DATABASE_DATABASE,default=fairfares_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS,default=20"`
		MinConns        int32         `env:"DATABASE_MINCONNS,default=2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME,default=30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME,default=5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST,default=localhost"`
		Port     string `env:"RABBITMQ_PORT,default=5672"`
		User     string `env:"RABBITMQ_USER,default=guest"`
		Password string `env:"RABBITMQ_PASSWORD,default=guest"`
	}

	ServicesConfig struct {
		FareService string `env:"SERVICES_FARE_SERVICE,default=8000"`
	}

	Auth struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL,default=168h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET,default=supersecretkey"`
	}

	FareGuideConfig struct {
		// Path to a fare guide file. Empty means the embedded guide.
		Path string `env:"FAREGUIDE_PATH"`
	}

	RateLimitConfig struct {
		LoginPerSecond int `env:"RATELIMIT_LOGIN_PER_SECOND,default=5"`
		LoginBurst     int `env:"RATELIMIT_LOGIN_BURST,default=10"`
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

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	mode := types.ServiceMode(*modeFlag)
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
	cfg.Mode = mode

	return nil
}

// ClientConfig configures the fairfares CLI and its controllers
type ClientConfig struct {
	Gateway GatewayConfig
	Session SessionConfig
	Track   TrackConfig
	Log     LogConfig
}

type (
	GatewayConfig struct {
		BaseURL string        `env:"GATEWAY_BASE_URL,default=http://localhost:8000"`
		Timeout time.Duration `env:"GATEWAY_TIMEOUT,default=15s"`
	}

	SessionConfig struct {
		// Empty means $XDG_CONFIG_HOME/fairfares/session.json (or the OS equivalent).
		Path string `env:"SESSION_PATH"`
	}

	TrackConfig struct {
		NoticeDelay time.Duration `env:"TRACK_NOTICE_DELAY,default=3s"`
	}
)

// NewClientConfig loads the optional .env and YAML files and decodes the client configuration.
func NewClientConfig(filepath, envFile string) (*ClientConfig, error) {
	if envFile != "" {
		if err := configparser.LoadDotEnv(envFile); err != nil {
			return nil, err
		}
	}

	cfg := &ClientConfig{}
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse client config: %w", err)
	}

	return cfg, nil
}

func (c DatabaseConfig) PoolLimits() (maxConns, minConns int32, maxLifetime, maxIdle time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}
