// Package config loads the nosuspend configuration file.
package config

// Config is the full configuration tree.
type Config struct {
	// AppName is the application name reported to inhibitor
	// endpoints.
	AppName string `mapstructure:"app_name"`

	// Reason is the default human-readable reason reported to
	// inhibitor endpoints; the run command overrides it with the
	// wrapped command line.
	Reason string `mapstructure:"reason"`

	Run     RunConfig     `mapstructure:"run"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RunConfig holds the default inhibition request of the run command.
type RunConfig struct {
	Suspend  bool `mapstructure:"suspend"`
	Display  bool `mapstructure:"display"`
	AwayMode bool `mapstructure:"away_mode"`
	Inherit  bool `mapstructure:"inherit"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults: inhibit suspend only,
// inherit the surrounding state, warn-level console logging.
func DefaultConfig() Config {
	return Config{
		AppName: "nosuspend",
		Reason:  "nosuspend scope active",
		Run: RunConfig{
			Suspend: true,
			Display: false,
			Inherit: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
