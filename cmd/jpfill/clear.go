package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/log"
	"github.com/nao1215/jpfill/internal/pipeline"
)

// NewClearCmd creates the clear command.
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [file|url...]",
		Short: "Reset the form controls of HTML pages",
		Long: `Clear resets the native form controls of each page: text values are
emptied, checkboxes and radios unchecked and selects reset. Password,
hidden and file inputs are left untouched.

Examples:
  # Reset a previously filled page
  jpfill clear filled.html > blank.html

  # Reset several pages into a directory
  jpfill clear -o out/ a.html b.html`,
		Args: cobra.ArbitraryArgs,
		RunE: runClearCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Directory for the cleared pages (default: stdout for a single input)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jpfill in current or home directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for loading each page")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for fetched pages")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum size of a fetched page in bytes (0 for no limit)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of pages cleared concurrently")

	return cmd
}

func runClearCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.Inputs = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}
	if cfg.File, err = loadSettingsFile(cfg.ConfigFilePath); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if len(cfg.Inputs) > 1 && cfg.OutputDir == "" {
		return errOutputDirRequired
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runClear(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runClear resets every input and writes the resulting pages.
func runClear(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	loader := newFetchLoader(cfg, logger)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			p := pipeline.New(pipeline.WithLogger(logger))
			p.AddSteps(
				pipeline.NewLoadStep(loader, cfg.File),
				pipeline.NewClearStep(logger),
				pipeline.NewRenderStep(cfg.OutputDir),
			)
			return p
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	jobs, err := bp.ProcessBatch(ctx, cfg.Inputs)

	failed := 0
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if msg := job.Report.Data().ErrorMessage; msg != "" {
			failed++
			fmt.Fprintf(stderr, "Clear error for %s: %s\n", job.Input, msg)
			continue
		}
		if cfg.OutputDir == "" {
			if _, err := io.WriteString(stdout, job.HTML); err != nil {
				return fmt.Errorf("failed to write page: %w", err)
			}
		} else {
			fmt.Fprintf(stderr, "Wrote %s\n", job.OutputPath)
		}
		fmt.Fprintf(stderr, "Cleared %d fields in %s\n", job.Count, job.Input)
	}

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(cfg.Inputs))
	}
	return nil
}
