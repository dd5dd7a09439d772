package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "BREWERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

const (
	EnvAppEnv   = "BREWERY_APP_ENV"
	EnvPort     = "BREWERY_APP_PORT"
	EnvLogLevel = "BREWERY_LOG_LEVEL"

	EnvDBDSN    = "BREWERY_DB_DSN"
	EnvDBDriver = "BREWERY_DB_DRIVER"
	EnvDBHost   = "BREWERY_DB_HOST"
	EnvDBUser   = "BREWERY_DB_USER"
	EnvDBName   = "BREWERY_DB_NAME"

	EnvRedisURL = "BREWERY_REDIS_URL"

	EnvCacheDriver = "BREWERY_CACHE_DRIVER"
	EnvCacheTTL    = "BREWERY_CACHE_TTL"

	EnvCatalogDefaultPageSize = "BREWERY_CATALOG_DEFAULT_PAGE_SIZE"
	EnvCatalogMaxPageSize     = "BREWERY_CATALOG_MAX_PAGE_SIZE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
