package main

import (
	"io"

	"github.com/spf13/cobra"

	cooklang "github.com/goliatone/go-cooklang"
	"github.com/goliatone/go-cooklang/internal/logging/console"
)

type cli struct {
	flags  globalFlags
	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	app := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "cooklang",
		Short: "Parse, render and validate Cooklang recipes",
		Long: `cooklang works with recipes written in the Cooklang markup language.

Configuration is read from --config, or cooklang.yaml in the current
directory or $HOME/.config/cooklang. Every key can be overridden with a
COOKLANG_ environment variable, e.g. COOKLANG_RENDER_FORMAT=markdown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is ./cooklang.yaml)")
	root.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().StringVar(&app.flags.store, "store", "", "recipe cache driver: memory, sqlite or postgres")
	root.PersistentFlags().StringVar(&app.flags.dsn, "dsn", "", "data source name for database stores")

	root.AddCommand(
		newParseCommand(app),
		newRenderCommand(app),
		newValidateCommand(app),
		newWatchCommand(app),
	)
	return root
}

// module builds a cooklang.Module from the layered configuration after
// applying mutate.
func (app *cli) module(mutate func(*cooklang.Config)) (*cooklang.Module, error) {
	cfg, err := loadConfig(app.flags)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}

	var opts []cooklang.Option
	if cfg.Features.Logger && cfg.Logging.Provider == "console" {
		level, _ := console.ParseLevel(cfg.Logging.Level)
		opts = append(opts, cooklang.WithLoggerProvider(console.NewProvider(console.Options{
			Writer:   app.stderr,
			MinLevel: &level,
		})))
	}
	return cooklang.New(cfg, opts...)
}
