package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// envconfig tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "CAF_APP_ENV"

	EnvDBDSN  = "CAF_DB_DSN"
	EnvDBHost = "CAF_DB_HOST"
	EnvDBUser = "CAF_DB_USER"
	EnvDBName = "CAF_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
