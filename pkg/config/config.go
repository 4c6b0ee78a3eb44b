package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KAZIDOMI_APP_ENV" required:"true"`
	Port         string `envconfig:"KAZIDOMI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KAZIDOMI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KAZIDOMI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"KAZIDOMI_DB_DSN"`

	LegacyHost     string `envconfig:"KAZIDOMI_DB_HOST"`
	LegacyPort     int    `envconfig:"KAZIDOMI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KAZIDOMI_DB_USER"`
	LegacyPassword string `envconfig:"KAZIDOMI_DB_PASSWORD"`
	LegacyName     string `envconfig:"KAZIDOMI_DB_NAME"`
	LegacySSLMode  string `envconfig:"KAZIDOMI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KAZIDOMI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KAZIDOMI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KAZIDOMI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KAZIDOMI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KAZIDOMI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KAZIDOMI_REDIS_ADDR"`
	Password     string        `envconfig:"KAZIDOMI_REDIS_PASSWORD"`
	DB           int           `envconfig:"KAZIDOMI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KAZIDOMI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KAZIDOMI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KAZIDOMI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KAZIDOMI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KAZIDOMI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KAZIDOMI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KAZIDOMI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KAZIDOMI_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KAZIDOMI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KAZIDOMI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KAZIDOMI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KAZIDOMI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KAZIDOMI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KAZIDOMI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KAZIDOMI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KAZIDOMI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KAZIDOMI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KAZIDOMI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KAZIDOMI_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KAZIDOMI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KAZIDOMI_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"KAZIDOMI_GCP_PROJECT_ID"`
	ApplicationCredentials string `envconfig:"KAZIDOMI_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"KAZIDOMI_PUBSUB_ORDERS_TOPIC" default:"kazidomi-order-events"`
	OrdersSubscription string `envconfig:"KAZIDOMI_PUBSUB_ORDERS_SUBSCRIPTION" default:"kazidomi-order-events-notifications"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"KAZIDOMI_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"KAZIDOMI_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"KAZIDOMI_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
