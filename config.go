package cooklang

import "github.com/goliatone/go-cooklang/internal/runtimeconfig"

var (
	ErrStoreFeatureRequired    = runtimeconfig.ErrStoreFeatureRequired
	ErrStoreDSNRequired        = runtimeconfig.ErrStoreDSNRequired
	ErrWatchRequiresStore      = runtimeconfig.ErrWatchRequiresStore
	ErrLoaderBasePathRequired  = runtimeconfig.ErrLoaderBasePathRequired
	ErrFieldsInvalid           = runtimeconfig.ErrFieldsInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	DriverMemory   = runtimeconfig.DriverMemory
	DriverSQLite   = runtimeconfig.DriverSQLite
	DriverPostgres = runtimeconfig.DriverPostgres

	FormatCooklang = runtimeconfig.FormatCooklang
	FormatMarkdown = runtimeconfig.FormatMarkdown
	FormatHTML     = runtimeconfig.FormatHTML
)

type (
	Config        = runtimeconfig.Config
	LoaderConfig  = runtimeconfig.LoaderConfig
	StoreConfig   = runtimeconfig.StoreConfig
	RenderConfig  = runtimeconfig.RenderConfig
	WatchConfig   = runtimeconfig.WatchConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
