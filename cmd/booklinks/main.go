package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/booklinks/internal/app"
)

var version = "0.1.0"

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := app.Config{}

	cmd := &cobra.Command{
		Use:   "booklinks [flags] <path>...",
		Short: "Link quoted section mentions across the chapters of a markdown book",
		Long: `booklinks indexes every heading of a multi-chapter markdown book and turns
curly-quoted mentions of those headings into links: an anchor link when the
heading is in the same chapter, a reference link plus a footer definition
when it lives in another chapter.

Paths may be chapter files or directories of chapters.

Example:
  booklinks src/
  booklinks --dry-run --flag-dead-links src/ch08-02-strings.md src/ch11-01-writing-tests.md
  booklinks --save-flags dead.txt --whitelist whitelist.txt src/`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Paths = args
			cfg.Output = cmd.OutOrStdout()
			if err := prepareConfig(&cfg, configPath); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&cfg.FlagDeadLinks, "flag-dead-links", "f", false, "Report mentions that reference no known section")
	f.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Print the replacements without modifying any document")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Do not print previews or dead link reports")
	f.BoolVarP(&cfg.AnyExtension, "ignore-md", "i", false, "Accept explicitly named files without the .md extension")
	f.BoolVarP(&cfg.References, "references", "r", false, "Print the heading index that mentions are resolved against")
	f.StringVar(&cfg.SaveFlagsPath, "save-flags", "", "Write the sorted dead references to a new file instead of printing them")
	f.StringVar(&cfg.WhitelistPath, "whitelist", "", "File of curly-quoted passages that are never linked nor flagged")
	f.StringArrayVar(&cfg.ReservedTitles, "reserved", nil, "Heading title left out of the index; repeat for several (default Summary)")
	f.IntVar(&cfg.Workers, "workers", 0, "Documents rewritten in parallel (0 = one per CPU)")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose logging")
	f.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	return cmd
}

// prepareConfig layers dotenv, config file and environment under the flags
// already parsed into cfg.
func prepareConfig(cfg *app.Config, configPath string) error {
	if err := app.LoadEnvFiles(".env"); err != nil {
		return err
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(cfg, fc)
	}
	app.ApplyEnvToConfig(cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return app.ValidateConfig(*cfg)
}

func run(ctx context.Context, cfg app.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
