package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "KAZIDOMI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "KAZIDOMI_DB_DSN"
	EnvDBHost = "KAZIDOMI_DB_HOST"
	EnvDBUser = "KAZIDOMI_DB_USER"
	EnvDBName = "KAZIDOMI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
