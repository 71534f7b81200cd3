package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/daily-git/internal/config"
	"github.com/naka-gawa/daily-git/internal/report"
	"github.com/naka-gawa/daily-git/internal/usecase"
)

func runDaily(cmd *cobra.Command, args []string, deps dependencies) error {
	days, err := parseDays(args)
	if err != nil {
		return err
	}
	// Arguments are valid from here on; failures below are not usage errors.
	cmd.SilenceUsage = true

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	file, err := deps.configFile()
	if err != nil {
		return fmt.Errorf("failed to locate config file: %w", err)
	}
	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fetcher, err := deps.newFetcher(cfg.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progress := newProgress(cmd.ErrOrStderr())
	aggregator := usecase.NewAggregator(fetcher, cfg.Username, logger,
		usecase.WithClock(deps.now),
		usecase.WithObserver(progress),
	)
	result, err := aggregator.BuildReport(ctx, days)
	progress.finish()
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(cmd.OutOrStdout(), time.Local)
	renderer.Window(result.Since)
	renderer.Daily(result)
	renderer.Summary(result)

	limit, err := fetcher.RateLimit(ctx)
	if err != nil {
		logger.WithError(err).Warn("Error occurred while loading the rate limit.")
		return nil
	}
	renderer.RateLimit(limit)
	return nil
}

func newLogger(out io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
