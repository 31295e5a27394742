package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrStoreFeatureRequired indicates the store section is enabled while the feature flag is off.
var ErrStoreFeatureRequired = errors.New("cooklang config: store feature must be enabled to configure the store")

// ErrStoreDSNRequired reports a database driver configured without a DSN.
var ErrStoreDSNRequired = errors.New("cooklang config: store dsn is required for database drivers")

// ErrWatchRequiresStore keeps the watcher behind the store, which it refreshes.
var ErrWatchRequiresStore = errors.New("cooklang config: watch feature requires the store feature")
var ErrLoaderBasePathRequired = errors.New("cooklang config: loader base path is required")
var ErrFieldsInvalid = errors.New("cooklang config: invalid field values")
var ErrLoggingProviderRequired = errors.New("cooklang config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("cooklang config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("cooklang config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("cooklang config: logging format is invalid")

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported render formats.
const (
	FormatCooklang = "cook"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Config aggregates feature flags and component settings for the module.
type Config struct {
	Loader   LoaderConfig  `mapstructure:"loader"`
	Store    StoreConfig   `mapstructure:"store"`
	Render   RenderConfig  `mapstructure:"render"`
	Watch    WatchConfig   `mapstructure:"watch"`
	Features Features      `mapstructure:"features"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// LoaderConfig controls recipe discovery on disk.
type LoaderConfig struct {
	BasePath  string `mapstructure:"base_path"`
	Pattern   string `mapstructure:"pattern"`
	Recursive bool   `mapstructure:"recursive"`
}

// StoreConfig selects the parsed-recipe cache backend.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
}

// RenderConfig mirrors interfaces.ParseOptions plus the output format.
type RenderConfig struct {
	Format     string   `mapstructure:"format"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
	Extensions []string `mapstructure:"extensions"`
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Features toggles module functionality.
type Features struct {
	Store  bool `mapstructure:"store"`
	Watch  bool `mapstructure:"watch"`
	Logger bool `mapstructure:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns a configuration that loads *.cook files from the
// working directory into an in-memory store.
func DefaultConfig() Config {
	return Config{
		Loader: LoaderConfig{
			BasePath:  ".",
			Pattern:   "*.cook",
			Recursive: true,
		},
		Store: StoreConfig{
			Enabled: true,
			Driver:  DriverMemory,
		},
		Render: RenderConfig{
			Format:     FormatCooklang,
			Extensions: []string{"gfm"},
			SafeMode:   true,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Features: Features{
			Store: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate runs field rules first, then cross-section consistency checks.
// Every failure matches one of the package sentinels with errors.Is.
func (cfg Config) Validate() error {
	if err := cfg.validateFields(); err != nil {
		return fmt.Errorf("%w: %w", ErrFieldsInvalid, err)
	}

	if strings.TrimSpace(cfg.Loader.BasePath) == "" {
		return ErrLoaderBasePathRequired
	}
	if cfg.Store.Enabled {
		if !cfg.Features.Store {
			return ErrStoreFeatureRequired
		}
		if normalize(cfg.Store.Driver) != DriverMemory && strings.TrimSpace(cfg.Store.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStoreDSNRequired, normalize(cfg.Store.Driver))
		}
	}
	if cfg.Features.Watch && !cfg.Features.Store {
		return ErrWatchRequiresStore
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func (cfg Config) validateFields() error {
	return validation.Errors{
		"loader.pattern": validation.Validate(cfg.Loader.Pattern,
			validation.Required,
			validation.By(validGlob),
		),
		"store.driver": validation.Validate(normalize(cfg.Store.Driver),
			validation.Required,
			validation.In(DriverMemory, DriverSQLite, DriverPostgres).Error("must be memory, sqlite or postgres"),
		),
		"render.format": validation.Validate(normalize(cfg.Render.Format),
			validation.Required,
			validation.In(FormatCooklang, FormatMarkdown, FormatHTML).Error("must be cook, markdown or html"),
		),
		"watch.debounce": validation.Validate(int64(cfg.Watch.Debounce),
			validation.Min(int64(0)).Error("must not be negative"),
		),
	}.Filter()
}

func validGlob(value any) error {
	pattern, _ := value.(string)
	if strings.TrimSpace(pattern) == "" {
		return validation.NewError("cooklang.config.pattern_blank", "pattern must not be blank")
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return validation.NewError("cooklang.config.pattern_invalid", "pattern is not a valid glob")
	}
	return nil
}

// NormalizeDriver lowercases and trims a driver name.
func NormalizeDriver(driver string) string {
	return normalize(driver)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
