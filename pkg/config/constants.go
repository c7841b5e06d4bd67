package config

// EnvPrefix is the envconfig prefix shared by every section.
const EnvPrefix = "SAITHONG"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "SAITHONG_APP_ENV"
	EnvPort       = "SAITHONG_APP_PORT"
	EnvDBDSN      = "SAITHONG_DB_DSN"
	EnvDBHost     = "SAITHONG_DB_HOST"
	EnvDBUser     = "SAITHONG_DB_USER"
	EnvDBName     = "SAITHONG_DB_NAME"
	EnvRedisURL   = "SAITHONG_REDIS_URL"
	EnvGeoDataset = "SAITHONG_GEO_DATASET_PATH"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
