package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bagtoad/scenegen/internal/config"
	"github.com/bagtoad/scenegen/internal/dataset"
	"github.com/bagtoad/scenegen/internal/logging"
	"github.com/bagtoad/scenegen/internal/report"
	"github.com/bagtoad/scenegen/internal/validator"
)

var (
	errIncomplete = errors.New("dataset is incomplete")
	errPartial    = errors.New("some images could not be written")
)

type options struct {
	validateOnly bool
	force        bool
	configPath   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "scenegen",
		Short: "Generate synthetic satellite-style fixture images",
		Long: `scenegen renders synthetic top-down terrain scenes (urban, vegetation,
water, agricultural and mixed) and writes the fixture set used by the
image analysis tests: a single image, a before/after change pair, three
batch images and two extra images.

Settings come from flags, then a YAML config file (--config, or
~/.scenegen/config.yaml when present), then built-in defaults.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(opts.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.NewConsole(cfg.LogLevel)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, opts, log)
		},
	}

	config.BindFlags(rootCmd.Flags())
	rootCmd.Flags().BoolVarP(&opts.validateOnly, "validate", "v", false, "Only validate existing images")
	rootCmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Regenerate even if a complete dataset exists")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")

	return rootCmd
}

func run(ctx context.Context, out io.Writer, cfg config.Config, opts options, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dsOpts, err := cfg.AssemblerOptions()
	if err != nil {
		return err
	}
	ext := dsOpts.Encoder.Ext()

	if opts.validateOnly {
		result, err := validator.Validate(cfg.OutputDir, ext)
		if err != nil {
			return err
		}
		report.PrintValidation(out, result)
		if !result.Complete {
			return errIncomplete
		}
		return nil
	}

	if !opts.force {
		populated, err := validator.Populated(cfg.OutputDir)
		if err != nil {
			return err
		}
		if populated {
			result, err := validator.Validate(cfg.OutputDir, ext)
			if err != nil {
				return err
			}
			if result.Complete {
				fmt.Fprintf(out, "%s already holds a complete dataset, skipping generation (use --force to regenerate)\n", cfg.OutputDir)
				return nil
			}
			log.Info().Strs("missing", result.Missing).Msg("dataset incomplete, regenerating")
		}
	}

	fmt.Fprintf(out, "Generating test images in %s (seed %d)...\n", cfg.OutputDir, cfg.Seed)
	m, err := dataset.New(dsOpts, log).Assemble(ctx, cfg.OutputDir)
	if m != nil {
		report.PrintManifest(out, m)
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if n := len(m.Failed()); n > 0 {
		return fmt.Errorf("%w: %d failed", errPartial, n)
	}
	return nil
}
