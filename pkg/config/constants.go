package config

// EnvPrefix is passed to envconfig; we keep it empty because every variable
// already carries the MARGINDESK_ prefix in its tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names shared between Load, tests, and operational docs.
const (
	EnvAppEnv   = "MARGINDESK_APP_ENV"
	EnvPort     = "MARGINDESK_APP_PORT"
	EnvLogLevel = "MARGINDESK_LOG_LEVEL"

	EnvDBDSN    = "MARGINDESK_DB_DSN"
	EnvDBHost   = "MARGINDESK_DB_HOST"
	EnvDBUser   = "MARGINDESK_DB_USER"
	EnvDBName   = "MARGINDESK_DB_NAME"
	EnvRedisURL = "MARGINDESK_REDIS_URL"

	EnvJWTSecret              = "MARGINDESK_JWT_SECRET"
	EnvJWTIssuer              = "MARGINDESK_JWT_ISSUER"
	EnvJWTExpMins             = "MARGINDESK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MARGINDESK_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
