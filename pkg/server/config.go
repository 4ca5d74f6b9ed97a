package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileConfig is the web server configuration file:
//
//	addr: ":8600"
//	shutdown_timeout: 10s
//	profiles: /etc/retail-atlas/sources.ini
type FileConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Profiles        string        `mapstructure:"profiles"`
}

func LoadConfig(path string) (*FileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("addr", ":8600")
	v.SetDefault("shutdown_timeout", "10s")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if cfg.Profiles == "" {
		return nil, fmt.Errorf("config %s: profiles path is required", path)
	}
	return &cfg, nil
}
