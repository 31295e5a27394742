package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cooklang "github.com/goliatone/go-cooklang"
	"github.com/goliatone/go-cooklang/internal/schema"
)

var errValidationFailed = errors.New("validation failed")

func newParseCommand(app *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed recipe as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := cooklang.ParseFile(args[0])
			if err != nil {
				return err
			}

			switch strings.ToLower(output) {
			case "json":
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			case "yaml", "yml":
				enc := yaml.NewEncoder(app.stdout)
				enc.SetIndent(2)
				if err := enc.Encode(r); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported output %q: use json or yaml", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output encoding: json or yaml")
	return cmd
}

func newRenderCommand(app *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a recipe as Cooklang, Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := app.module(func(cfg *cooklang.Config) {
				if format != "" {
					cfg.Render.Format = format
				}
			})
			if err != nil {
				return err
			}
			defer module.Close()

			r, err := cooklang.ParseFile(args[0])
			if err != nil {
				return err
			}
			out, err := module.Render(r)
			if err != nil {
				return err
			}
			if _, err := app.stdout.Write(out); err != nil {
				return err
			}
			if len(out) > 0 && out[len(out)-1] != '\n' {
				_, err = fmt.Fprintln(app.stdout)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: cook, markdown or html (default from config)")
	return cmd
}

func newValidateCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Parse recipes and check them against the recipe schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := validateFile(path); err != nil {
					failed++
					fmt.Fprintf(app.stdout, "FAIL %s: %v\n", path, err)
					for _, issue := range schema.Issues(err) {
						fmt.Fprintf(app.stdout, "  %s: %s\n", issue.Location, issue.Message)
					}
					continue
				}
				fmt.Fprintf(app.stdout, "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d recipes", errValidationFailed, failed, len(args))
			}
			return nil
		},
	}
}

func validateFile(path string) error {
	r, err := cooklang.ParseFile(path)
	if err != nil {
		return err
	}
	return cooklang.ValidateSchema(r)
}

func newWatchCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Load a recipe directory into the cache and keep it in sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := app.module(func(cfg *cooklang.Config) {
				cfg.Loader.BasePath = args[0]
				cfg.Store.Enabled = true
				cfg.Features.Store = true
				cfg.Features.Watch = true
			})
			if err != nil {
				return err
			}
			defer module.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			events, err := module.Repository().Subscribe(ctx)
			if err != nil {
				return err
			}

			printed := make(chan struct{})
			go func() {
				defer close(printed)
				for evt := range events {
					fmt.Fprintf(app.stdout, "%s %s\n", evt.Type, evt.Path)
				}
			}()

			recipes, loadErr := module.LoadDirectory(ctx, ".")
			if loadErr != nil {
				fmt.Fprintf(app.stderr, "some recipes failed to load: %v\n", loadErr)
			}
			fmt.Fprintf(app.stderr, "watching %s (%d recipes loaded)\n", args[0], len(recipes))

			err = module.Watch(ctx, ".")
			cancel()
			<-printed
			return err
		},
	}
}
