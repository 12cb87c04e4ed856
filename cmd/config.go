package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string `envconfig:"JWT_ISSUER"`

	OTPLength   int           `envconfig:"DELIVERY_OTP_LENGTH" default:"6"`
	OTPTTL      time.Duration `envconfig:"DELIVERY_OTP_TTL" default:"30m"`
	OTPRequired bool          `envconfig:"DELIVERY_OTP_REQUIRED" default:"true"`
	OTPHashCost int           `envconfig:"DELIVERY_OTP_HASH_COST" default:"10"`
	// OTPAttemptsPerMinute caps delivery proof submissions per actor; 0 disables it.
	OTPAttemptsPerMinute int `envconfig:"DELIVERY_OTP_ATTEMPTS_PER_MINUTE" default:"5"`

	RefundAllowPartial bool `envconfig:"REFUND_ALLOW_PARTIAL" default:"false"`
	OrderMaxAttempts   int  `envconfig:"ORDER_MAX_ATTEMPTS" default:"3"`

	OrderPendingTTL     time.Duration `envconfig:"ORDER_PENDING_TTL" default:"24h"`
	OrderExpirySchedule string        `envconfig:"ORDER_EXPIRY_SCHEDULE" default:"@every 1m"`
	OrderExpiryBatch    int           `envconfig:"ORDER_EXPIRY_BATCH_SIZE" default:"100"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
}

// LoadConfig reads the optional .env files and then the environment.
// Variables already set in the environment win over the files.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []error
	if c.OTPLength < 4 || c.OTPLength > 10 {
		problems = append(problems, fmt.Errorf("DELIVERY_OTP_LENGTH must be between 4 and 10, got %d", c.OTPLength))
	}
	if c.OTPTTL <= 0 {
		problems = append(problems, errors.New("DELIVERY_OTP_TTL must be positive"))
	}
	if c.OTPAttemptsPerMinute < 0 {
		problems = append(problems, errors.New("DELIVERY_OTP_ATTEMPTS_PER_MINUTE must not be negative"))
	}
	if c.OrderMaxAttempts < 1 {
		problems = append(problems, errors.New("ORDER_MAX_ATTEMPTS must be at least 1"))
	}
	if c.OrderPendingTTL <= 0 {
		problems = append(problems, errors.New("ORDER_PENDING_TTL must be positive"))
	}
	if c.OrderExpiryBatch < 1 {
		problems = append(problems, errors.New("ORDER_EXPIRY_BATCH_SIZE must be at least 1"))
	}
	return errors.Join(problems...)
}

// DSN is the PostgreSQL connection string in URL form.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return u.String()
}
