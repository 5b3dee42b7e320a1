package config

const (
	EnvPrefix = "CARBON"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "CARBON_APP_ENV"
	EnvPort            = "CARBON_APP_PORT"
	EnvLogLevel        = "CARBON_LOG_LEVEL"
	EnvLogFormat       = "CARBON_LOG_FORMAT"
	EnvShutdownTimeout = "CARBON_SHUTDOWN_TIMEOUT"

	EnvDBDSN      = "CARBON_DB_DSN"
	EnvDBDriver   = "CARBON_DB_DRIVER"
	EnvDBHost     = "CARBON_DB_HOST"
	EnvDBPort     = "CARBON_DB_PORT"
	EnvDBUser     = "CARBON_DB_USER"
	EnvDBPassword = "CARBON_DB_PASSWORD"
	EnvDBName     = "CARBON_DB_NAME"
	EnvDBSSLMode  = "CARBON_DB_SSLMODE"

	EnvJWTSecret    = "CARBON_JWT_SECRET"
	EnvJWTAudience  = "CARBON_JWT_AUDIENCE"
	EnvAuthEndpoint = "CARBON_AUTH_ENDPOINT"

	EnvRedisURL  = "CARBON_REDIS_URL"
	EnvRedisAddr = "CARBON_REDIS_ADDR"

	EnvRateLimitWindow = "CARBON_RATE_LIMIT_WINDOW"
	EnvRateLimitWrites = "CARBON_RATE_LIMIT_WRITES"
	EnvIdempotencyTTL  = "CARBON_IDEMPOTENCY_TTL"
	EnvAutoMigrate     = "CARBON_AUTO_MIGRATE"
	EnvCORSOrigins     = "CARBON_CORS_ORIGINS"
)

// legacyDBEnvVars must all be present when no DSN is configured.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
