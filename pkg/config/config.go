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
	Seed          SeedConfig
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
	Env          string `envconfig:"CAF_APP_ENV" required:"true"`
	Port         string `envconfig:"CAF_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"CAF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAF_DB_DSN"`
	Driver string `envconfig:"CAF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAF_DB_HOST"`
	LegacyPort     int    `envconfig:"CAF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAF_DB_USER"`
	LegacyPassword string `envconfig:"CAF_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAF_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAF_REDIS_URL"`
	Password     string        `envconfig:"CAF_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. Login rate
// limiting is skipped when it is not.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CAF_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CAF_JWT_ISSUER" default:"caf-backend"`
	ExpirationMinutes int    `envconfig:"CAF_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAF_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAF_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAF_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAF_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAF_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CAF_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginPhoneLimit int           `envconfig:"CAF_AUTH_RATE_LIMIT_LOGIN_PHONE_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"CAF_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAF_AUTO_MIGRATE" default:"false"`
}

type SeedConfig struct {
	AdminNom       string `envconfig:"CAF_SEED_ADMIN_NOM" default:"Admin CAF"`
	AdminTelephone string `envconfig:"CAF_SEED_ADMIN_TELEPHONE" default:"0700000001"`
	AdminPassword  string `envconfig:"CAF_SEED_ADMIN_PASSWORD"`
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
