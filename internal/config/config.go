package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	StaticPath    string        `mapstructure:"static_path"`
	ReadLimit     int64         `mapstructure:"read_limit"`
	PingPeriod    time.Duration `mapstructure:"ping_period"`
	Secret        string        `mapstructure:"secret"`
	LogLevel      string        `mapstructure:"log_level"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	CatalogPath   string        `mapstructure:"catalog_path"`
	Intents       IntentLimit   `mapstructure:"intents"`
	Blob          BlobConfig    `mapstructure:"blob"`
}

// IntentLimit bounds how many client messages one connection may send.
type IntentLimit struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type BlobConfig struct {
	Driver         string `mapstructure:"driver"`
	Dir            string `mapstructure:"dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	NATSURL        string `mapstructure:"nats_url"`
	Bucket         string `mapstructure:"bucket"`
}

const envPrefix = "AVAILABLE"

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName on top of the defaults. A missing file is not an
// error. AVAILABLE_* variables override both, e.g. AVAILABLE_BLOB_DRIVER.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "available-dev-secret")
	v.SetDefault("log_level", "info")
	v.SetDefault("sweep_interval", "15s")
	v.SetDefault("catalog_path", "config/availability-types.json")
	v.SetDefault("intents.rate", 10)
	v.SetDefault("intents.burst", 20)
	v.SetDefault("blob.driver", "fs")
	v.SetDefault("blob.dir", "./uploads")
	v.SetDefault("blob.max_upload_bytes", 25<<20)
	v.SetDefault("blob.nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("blob.bucket", "available-uploads")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Str("blob", cfg.Blob.Driver).
		Msg("config ready")
	return &cfg, nil
}
