package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HEATING_DB_DRIVER.
const EnvPrefix = "HEATING"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the application configuration, read from configs/config.yml and the environment.
type Config struct {
	Port    string        `mapstructure:"port"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	Heating HeatingConfig `mapstructure:"heating"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	Path   string `mapstructure:"path"`   // sqlite file
	DSN    string `mapstructure:"dsn"`    // postgres connection string
}

// HeatingConfig tunes the resolution driver.
type HeatingConfig struct {
	EcoTempC float64       `mapstructure:"eco_temp_c"` // used until settings are stored
	MinTempC float64       `mapstructure:"min_temp_c"`
	MaxTempC float64       `mapstructure:"max_temp_c"`
	Tick     time.Duration `mapstructure:"tick"`
	Timezone string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "heating.db")
	v.SetDefault("db.dsn", "")
	v.SetDefault("heating.eco_temp_c", 17.0)
	v.SetDefault("heating.min_temp_c", 5.0)
	v.SetDefault("heating.max_temp_c", 30.0)
	v.SetDefault("heating.tick", 10*time.Second)
	v.SetDefault("heating.timezone", "Local")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Minute)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "zone-heating")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "heating")
}

// Load reads path (or configs/config.yml when path is empty), a .env file in the working
// directory if one exists, and HEATING_* environment overrides.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return errors.New("db.path is required for sqlite")
		}
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.Heating.MinTempC >= c.Heating.MaxTempC {
		return fmt.Errorf("heating.min_temp_c (%.1f) must be below heating.max_temp_c (%.1f)", c.Heating.MinTempC, c.Heating.MaxTempC)
	}
	if c.Heating.Tick <= 0 {
		return errors.New("heating.tick must be positive")
	}
	if _, err := c.Heating.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone used to interpret schedule wall-clock times.
func (h HeatingConfig) Location() (*time.Location, error) {
	if h.Timezone == "" || h.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return nil, fmt.Errorf("heating.timezone: %w", err)
	}
	return loc, nil
}
