package config

const (
	EnvPrefix = "SEWTRACK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "SEWTRACK_APP_ENV"
	EnvPort       = "SEWTRACK_APP_PORT"
	EnvDBDSN      = "SEWTRACK_DB_DSN"
	EnvDBHost     = "SEWTRACK_DB_HOST"
	EnvDBUser     = "SEWTRACK_DB_USER"
	EnvDBName     = "SEWTRACK_DB_NAME"
	EnvRedisURL   = "SEWTRACK_REDIS_URL"
	EnvJWTSecret  = "SEWTRACK_JWT_SECRET"
	EnvJWTIssuer  = "SEWTRACK_JWT_ISSUER"
	EnvJWTExpMins = "SEWTRACK_JWT_EXPIRATION_MINUTES"
	EnvStorageDir = "SEWTRACK_STORAGE_DIR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
