package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the relay and the pin client.
// Values are read from app.env in the given directory and can be overridden
// by environment variables of the same name.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	GinMode       string `mapstructure:"GIN_MODE"`

	UpstreamURL       string        `mapstructure:"UPSTREAM_URL"`
	UpstreamUserAgent string        `mapstructure:"UPSTREAM_USER_AGENT"`
	UpstreamTimeout   time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	RelayURL    string `mapstructure:"RELAY_URL"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`
	StorePath   string `mapstructure:"STORE_PATH"`

	DBSource string `mapstructure:"DB_SOURCE"`
	DBTable  string `mapstructure:"DB_TABLE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPrefix   string `mapstructure:"REDIS_PREFIX"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":      "0.0.0.0:4000",
	"GIN_MODE":            "release",
	"UPSTREAM_URL":        "https://nominatim.openstreetmap.org",
	"UPSTREAM_USER_AGENT": "PinDropTool/1.0 (contactme@pindroptool.com)",
	"UPSTREAM_TIMEOUT":    "0s",
	"CORS_ORIGINS":        "*",
	"LOG_LEVEL":           "info",
	"LOG_PRETTY":          false,
	"RELAY_URL":           "http://localhost:4000",
	"STORE_DRIVER":        "file",
	"STORE_PATH":          "pins.json",
	"DB_SOURCE":           "",
	"DB_TABLE":            "kv_store",
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"REDIS_PREFIX":        "pindrop:",
}

// LoadConfig reads configuration from app.env under path. A missing file is
// not an error; defaults and the environment are used instead.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}

	return config, nil
}
