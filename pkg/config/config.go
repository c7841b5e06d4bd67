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
	Geo          GeoConfig
	Shipping     ShippingConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SAITHONG_APP_ENV" required:"true"`
	Port         string `envconfig:"SAITHONG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAITHONG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAITHONG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SAITHONG_DB_DSN"`
	Driver string `envconfig:"SAITHONG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAITHONG_DB_HOST"`
	LegacyPort     int    `envconfig:"SAITHONG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAITHONG_DB_USER"`
	LegacyPassword string `envconfig:"SAITHONG_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAITHONG_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAITHONG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAITHONG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAITHONG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAITHONG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAITHONG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAITHONG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SAITHONG_REDIS_ADDR"`
	Password     string        `envconfig:"SAITHONG_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAITHONG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAITHONG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAITHONG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAITHONG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAITHONG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAITHONG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// GeoConfig points at the static province/district/sub-district dataset
// loaded once at process start.
type GeoConfig struct {
	DatasetPath string `envconfig:"SAITHONG_GEO_DATASET_PATH" default:"data/thai_geography.json"`
}

// ShippingConfig holds the flat two-tier fee/ETA scheme used by checkout
// placement. Fees are baht amounts expressed as strings so decimal parsing
// owns precision, not env parsing.
type ShippingConfig struct {
	SameProvinceFee      string        `envconfig:"SAITHONG_SHIPPING_SAME_PROVINCE_FEE" default:"40"`
	CrossProvinceFee     string        `envconfig:"SAITHONG_SHIPPING_CROSS_PROVINCE_FEE" default:"80"`
	SameProvinceETAFrom  time.Duration `envconfig:"SAITHONG_SHIPPING_SAME_PROVINCE_ETA_FROM" default:"24h"`
	SameProvinceETATo    time.Duration `envconfig:"SAITHONG_SHIPPING_SAME_PROVINCE_ETA_TO" default:"48h"`
	CrossProvinceETAFrom time.Duration `envconfig:"SAITHONG_SHIPPING_CROSS_PROVINCE_ETA_FROM" default:"48h"`
	CrossProvinceETATo   time.Duration `envconfig:"SAITHONG_SHIPPING_CROSS_PROVINCE_ETA_TO" default:"120h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAITHONG_AUTO_MIGRATE" default:"false"`
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
