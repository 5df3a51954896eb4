// cmd/jsonlinkcheck/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thomsbe/slubjsonlinkcheck/internal/adapters/output"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/ports"
	"github.com/thomsbe/slubjsonlinkcheck/internal/core/usecases"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/config"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/httpclient"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/logx"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/ui"
)

var (
	// Set via -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: jsonlinkcheck -i <dataset.jsonl> [-f field,field...]")
		fmt.Fprintln(os.Stderr, "Try: jsonlinkcheck -h for help")
		os.Exit(2)
	}

	if cfg.PrintVersion {
		fmt.Printf("jsonlinkcheck %s (%s, %s)\n", version, commit, date)
		return
	}

	logger := buildLogger(cfg)
	presenter := buildPresenter(cfg, logger)
	defer presenter.Close()

	logger.Debug("configuration loaded", "config", cfg.String())

	ctx, cancel := rootContextWithSignals()
	defer cancel()

	client := httpclient.New(httpclient.Config{
		Timeout:         cfg.Timeout(),
		RetryBackoff:    cfg.BackoffBase,
		MaxRetryBackoff: cfg.BackoffMax,
		MaxInFlight:     cfg.MaxConns,
		RateLimit:       cfg.RatePerSec,
	}, logger)

	checker := usecases.NewReachabilityChecker(client, usecases.CheckerConfig{
		MaxAttempts:     cfg.Retries,
		FollowRedirects: cfg.FollowRedirects,
		MaxRedirectHops: cfg.MaxRedirectHops,
	}, logger)

	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = output.DerivePath(cfg.Input, cfg.Suffix)
	}

	runner := usecases.NewRunner(usecases.RunnerOptions{
		InputPath:          cfg.Input,
		OutputPath:         outputPath,
		TimeoutReportPath:  cfg.TimeoutFile,
		RedirectReportPath: cfg.RedirectsFile,
		Fields:             cfg.Fields,
		ChunkSize:          cfg.ChunkSize,
		Threads:            cfg.Threads,
		Concurrency:        cfg.Concurrency,
		DeleteTimeouts:     cfg.DeleteTimeouts,
		FollowRedirects:    cfg.FollowRedirects,
		CountLines:         cfg.Visual,
		Checker:            checker,
		Presenter:          presenter,
		Logger:             logger,
	})

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Err(err, "phase", "run")
		presenter.Error(fmt.Sprintf("processing failed: %v", err))
		// os.Exit skips the deferred Close, which would leave a live
		// progress bar owning the terminal.
		presenter.Close()
		os.Exit(1)
	}

	logger.Info("result written",
		"path", outputPath,
		"records", summary.RecordsWritten)
}

// buildLogger picks the log level from the configuration. The visual
// presenter owns the terminal, so logging drops to errors only.
func buildLogger(cfg config.Config) logx.Logger {
	if cfg.Visual {
		return logx.NewSilent()
	}
	if cfg.Verbose {
		return logx.NewWithLevel(logx.LevelDebug)
	}
	return logx.New()
}

func buildPresenter(cfg config.Config, logger logx.Logger) ports.Presenter {
	if cfg.Visual {
		return ui.NewPTermPresenter()
	}
	return ui.NewLogPresenter(logger, cfg.Verbose)
}

// rootContextWithSignals creates the root context cancelled by SIGINT or
// SIGTERM. The returned cancel releases the signal handler.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		close(ch)
		baseCancel()
	}
	return base, cleanup
}
