package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	cooklang "github.com/goliatone/go-cooklang"
)

const envPrefix = "COOKLANG"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	verbose    bool
	store      string
	dsn        string
}

// loadConfig layers DefaultConfig, an optional YAML file, COOKLANG_*
// environment variables and finally the global flags.
func loadConfig(flags globalFlags) (cooklang.Config, error) {
	v := viper.New()
	setDefaults(v, cooklang.DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
	} else {
		v.SetConfigName("cooklang")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cooklang")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cooklang.Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg cooklang.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cooklang.Config{}, fmt.Errorf("decode config: %w", err)
	}

	if flags.store != "" {
		cfg.Store.Driver = flags.store
	}
	if flags.dsn != "" {
		cfg.Store.DSN = flags.dsn
	}
	if flags.verbose {
		cfg.Features.Logger = true
		cfg.Logging.Level = "debug"
		if cfg.Logging.Provider == "" {
			cfg.Logging.Provider = "console"
		}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults cooklang.Config) {
	v.SetDefault("loader.base_path", defaults.Loader.BasePath)
	v.SetDefault("loader.pattern", defaults.Loader.Pattern)
	v.SetDefault("loader.recursive", defaults.Loader.Recursive)
	v.SetDefault("store.enabled", defaults.Store.Enabled)
	v.SetDefault("store.driver", defaults.Store.Driver)
	v.SetDefault("store.dsn", defaults.Store.DSN)
	v.SetDefault("render.format", defaults.Render.Format)
	v.SetDefault("render.hard_wraps", defaults.Render.HardWraps)
	v.SetDefault("render.safe_mode", defaults.Render.SafeMode)
	v.SetDefault("render.extensions", defaults.Render.Extensions)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("features.store", defaults.Features.Store)
	v.SetDefault("features.watch", defaults.Features.Watch)
	v.SetDefault("features.logger", defaults.Features.Logger)
	v.SetDefault("logging.provider", defaults.Logging.Provider)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.add_source", defaults.Logging.AddSource)
	v.SetDefault("logging.focus", defaults.Logging.Focus)
}
