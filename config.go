package main

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the process settings. Every field can be set by flag or by
// an ACRN_-prefixed environment variable, e.g. ACRN_CONFIG_DIR.
type Config struct {
	// Addr is the host:port to serve the frontend API on.
	Addr string `mapstructure:"addr"`

	// ConfigDir replaces the per-user config directory as the parent of
	// .acrn-configurator/. Empty means the platform default.
	ConfigDir string `mapstructure:"config-dir"`

	// Static is a directory holding the built frontend. Empty serves the
	// embedded placeholder page.
	Static string `mapstructure:"static"`

	// LogFormat can be json or simple
	LogFormat string `mapstructure:"log-format"`

	// MaxHistory caps each history list. Zero means unbounded.
	MaxHistory int `mapstructure:"max-history"`

	// Watch reloads history when another process changes config.json.
	Watch bool `mapstructure:"watch"`

	// WindowIdle closes windows that have had no websocket client for this
	// long. Zero keeps them until they are closed explicitly.
	WindowIdle time.Duration `mapstructure:"window-idle"`
}

func addFlags(fl *pflag.FlagSet) {
	fl.String("addr", "127.0.0.1:8080", "address to listen on")
	fl.String("config-dir", "", "directory holding .acrn-configurator (default: user config dir)")
	fl.String("static", "", "directory of the built frontend")
	fl.String("log-format", "simple", "log format: simple or json")
	fl.Int("max-history", 0, "maximum entries per history list, 0 for no limit")
	fl.Bool("watch", true, "reload history when config.json changes on disk")
	fl.Duration("window-idle", 10*time.Minute, "close windows with no client for this long, 0 to disable")
}

func readConfig(fl *pflag.FlagSet) (Config, error) {
	vi := viper.New()
	vi.SetEnvPrefix("ACRN")
	vi.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vi.AutomaticEnv()

	var conf Config
	if err := vi.BindPFlags(fl); err != nil {
		return conf, err
	}
	if err := vi.Unmarshal(&conf); err != nil {
		return conf, err
	}
	return conf, nil
}
