package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Kafka     KafkaConfig
	Account   AccountConfig
	Bootstrap BootstrapConfig
}

type AppConfig struct {
	AppName          string
	Environment      string
	HTTPPort         string
	LogLevel         string
	CORSAllowOrigins []string
}

// UpstreamConfig points at the ATS system of record.
type UpstreamConfig struct {
	APIURL   string
	Identity string
	Secret   string
	// Timeout of zero leaves upstream calls bounded only by their request context.
	Timeout time.Duration
	Debug   bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

type AccountConfig struct {
	ForgotPasswordCooldown time.Duration
}

type BootstrapConfig struct {
	OperatorEmail    string
	OperatorPassword string
	OperatorName     string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := parseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	boolean := func(key string) bool {
		raw := opt(key)
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:          req("APP_NAME"),
		Environment:      req("APP_ENV"),
		HTTPPort:         req("HTTP_PORT"),
		LogLevel:         optDefault("LOG_LEVEL", "info"),
		CORSAllowOrigins: splitList(opt("CORS_ALLOW_ORIGINS")),
	}

	cfg.Upstream = UpstreamConfig{
		APIURL:   req("API_URL"),
		Identity: req("API_IDENTITY"),
		Secret:   req("API_SECRET"),
		Timeout:  dur("API_TIMEOUT", 0),
		Debug:    boolean("API_DEBUG"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                optDefault("DB_PORT", "5432"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(integer("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(integer("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       integer("REDIS_DB", 0),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Kafka = KafkaConfig{
		Brokers: splitList(opt("KAFKA_BROKERS")),
		Topic:   optDefault("KAFKA_TOPIC", "ats.record-changes"),
	}

	cfg.Account = AccountConfig{
		ForgotPasswordCooldown: dur("FORGOT_PASSWORD_COOLDOWN", time.Minute),
	}

	cfg.Bootstrap = BootstrapConfig{
		OperatorEmail:    opt("BOOTSTRAP_OPERATOR_EMAIL"),
		OperatorPassword: getenv("BOOTSTRAP_OPERATOR_PASSWORD"),
		OperatorName:     optDefault("BOOTSTRAP_OPERATOR_NAME", "Administrator"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("30s") or bare seconds ("30").
func parseDuration(raw string) (time.Duration, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
