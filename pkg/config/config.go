package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "POKESHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "POKESHOP_APP_ENV"
	EnvPort           = "POKESHOP_APP_PORT"
	EnvDBDSN          = "POKESHOP_DB_DSN"
	EnvDBLegacyURL    = "POSTGRES_URL"
	EnvDBHost         = "POKESHOP_DB_HOST"
	EnvDBUser         = "POKESHOP_DB_USER"
	EnvDBName         = "POKESHOP_DB_NAME"
	EnvDBDriver       = "POKESHOP_DB_DRIVER"
	EnvUseSQLite      = "POKESHOP_USE_SQLITE"
	EnvSQLitePath     = "POKESHOP_SQLITE_PATH"
	EnvRedisURL       = "POKESHOP_REDIS_URL"
	EnvRequestTimeout = "POKESHOP_HTTP_REQUEST_TIMEOUT"
	EnvCORSOrigins    = "POKESHOP_HTTP_CORS_ORIGINS"
)

const (
	DriverPGX = "postgres"
	DriverPQ  = "pq"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.DB.validateDriver(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POKESHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"POKESHOP_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"POKESHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POKESHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type HTTPConfig struct {
	RequestTimeout  time.Duration `envconfig:"POKESHOP_HTTP_REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"POKESHOP_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	ReadHeader      time.Duration `envconfig:"POKESHOP_HTTP_READ_HEADER_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"POKESHOP_HTTP_CORS_ORIGINS" default:"*"`
	MaxBodyBytes    int64         `envconfig:"POKESHOP_HTTP_MAX_BODY_BYTES" default:"1048576"`
}

type DBConfig struct {
	DSN       string `envconfig:"POKESHOP_DB_DSN"`
	LegacyURL string `envconfig:"POSTGRES_URL"`
	Driver    string `envconfig:"POKESHOP_DB_DRIVER" default:"postgres"`

	SQLitePath string `envconfig:"POKESHOP_SQLITE_PATH" default:"file:pokeshop.db?_foreign_keys=on"`

	LegacyHost     string `envconfig:"POKESHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"POKESHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POKESHOP_DB_USER"`
	LegacyPassword string `envconfig:"POKESHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"POKESHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"POKESHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POKESHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POKESHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POKESHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POKESHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address disables idempotency replay.
type RedisConfig struct {
	URL            string        `envconfig:"POKESHOP_REDIS_URL"`
	Address        string        `envconfig:"POKESHOP_REDIS_ADDR"`
	Password       string        `envconfig:"POKESHOP_REDIS_PASSWORD"`
	DB             int           `envconfig:"POKESHOP_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"POKESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"POKESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"POKESHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"POKESHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"POKESHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"POKESHOP_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether enough settings are present to dial Redis.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite bool `envconfig:"POKESHOP_USE_SQLITE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.LegacyURL != "" {
		db.DSN = db.LegacyURL
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s, %s or %s are required", EnvDBDSN, EnvDBLegacyURL, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

func (db *DBConfig) validateDriver() error {
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case "", DriverPGX:
		db.Driver = DriverPGX
	case DriverPQ:
		db.Driver = DriverPQ
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DriverPGX, DriverPQ, db.Driver)
	}
	return nil
}
