package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Catalog      CatalogConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Cache.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"BREWERY_APP_ENV" required:"true"`
	Port            string        `envconfig:"BREWERY_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"BREWERY_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"BREWERY_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"BREWERY_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BREWERY_DB_DSN"`
	Driver string `envconfig:"BREWERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BREWERY_DB_HOST"`
	LegacyPort     int    `envconfig:"BREWERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BREWERY_DB_USER"`
	LegacyPassword string `envconfig:"BREWERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"BREWERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"BREWERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BREWERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BREWERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BREWERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BREWERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"BREWERY_REDIS_URL"`
	Address      string        `envconfig:"BREWERY_REDIS_ADDR"`
	Password     string        `envconfig:"BREWERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREWERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BREWERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BREWERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BREWERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREWERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BREWERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig selects and sizes the read-through cache backend.
type CacheConfig struct {
	Driver             string        `envconfig:"BREWERY_CACHE_DRIVER" default:"memory"`
	TTL                time.Duration `envconfig:"BREWERY_CACHE_TTL" default:"5m"`
	Capacity           int           `envconfig:"BREWERY_CACHE_CAPACITY" default:"10000"`
	NumShards          int           `envconfig:"BREWERY_CACHE_SHARDS" default:"64"`
	EvictionPercentage int           `envconfig:"BREWERY_CACHE_EVICTION_PERCENTAGE" default:"10"`
}

// UsesRedis reports whether cached payloads live in redis.
func (c CacheConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(c.Driver), CacheDriverRedis)
}

func (c CacheConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case CacheDriverRedis, CacheDriverMemory:
	default:
		return fmt.Errorf("%s must be one of %s, %s", EnvCacheDriver, CacheDriverRedis, CacheDriverMemory)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvCacheTTL)
	}
	return nil
}

// CatalogConfig tunes the beer catalog endpoints.
type CatalogConfig struct {
	DefaultPageSize int           `envconfig:"BREWERY_CATALOG_DEFAULT_PAGE_SIZE" default:"25"`
	MaxPageSize     int           `envconfig:"BREWERY_CATALOG_MAX_PAGE_SIZE" default:"100"`
	DeleteTimeout   time.Duration `envconfig:"BREWERY_CATALOG_DELETE_TIMEOUT" default:"10s"`
}

func (c CatalogConfig) validate() error {
	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 {
		return fmt.Errorf("catalog page sizes must be positive")
	}
	if c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("%s cannot exceed %s", EnvCatalogDefaultPageSize, EnvCatalogMaxPageSize)
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BREWERY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file::memory:?cache=shared"
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
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
