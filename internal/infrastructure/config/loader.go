package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration from the XDG config dir
// (~/.config/nosuspend/config.toml), applying defaults and NOSUSPEND_*
// environment overrides. A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "nosuspend"))
	}

	v.SetEnvPrefix("NOSUSPEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("app_name", defaults.AppName)
	v.SetDefault("reason", defaults.Reason)
	v.SetDefault("run.suspend", defaults.Run.Suspend)
	v.SetDefault("run.display", defaults.Run.Display)
	v.SetDefault("run.away_mode", defaults.Run.AwayMode)
	v.SetDefault("run.inherit", defaults.Run.Inherit)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
