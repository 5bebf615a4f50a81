package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Saved    SavedConfig    `mapstructure:"saved"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type HTTPConfig struct {
	Port        int           `mapstructure:"port" validate:"min=1,max=65535"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type CatalogConfig struct {
	Source      string        `mapstructure:"source" validate:"oneof=embedded file mysql"`
	SeedPath    string        `mapstructure:"seed_path" validate:"required_if=Source file"`
	LatencyMode string        `mapstructure:"latency_mode" validate:"oneof=none fixed simulated"`
	Latency     time.Duration `mapstructure:"latency" validate:"gte=0"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type SavedConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=memory file redis"`
	Path    string `mapstructure:"path" validate:"required_if=Backend file"`
	Key     string `mapstructure:"key" validate:"required"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.version", "dev")
	v.SetDefault("tracing.service_name", "listing-browser")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("catalog.source", "embedded")
	v.SetDefault("catalog.latency_mode", "none")
	v.SetDefault("catalog.latency", "0s")
	v.SetDefault("catalog.seed_path", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "listings")
	v.SetDefault("saved.backend", "file")
	v.SetDefault("saved.path", "./data")
	v.SetDefault("saved.key", "savedProperties")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "listing-browser:")
}

// LoadConfig reads config.yaml from the working directory or ./config.
// Environment variables override file values, e.g. CATALOG_SOURCE=mysql.
// A missing file is not an error; defaults apply.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func Validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	return config
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name)
}
