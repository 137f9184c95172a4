package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aicf-dev/aicf/internal/adminserver"
	"github.com/aicf-dev/aicf/internal/aicf"
	"github.com/aicf-dev/aicf/internal/config"
	"github.com/aicf-dev/aicf/internal/cycle"
	"github.com/aicf-dev/aicf/internal/logging"
	"github.com/aicf-dev/aicf/internal/sources"
	"github.com/aicf-dev/aicf/internal/sources/augment"
	"github.com/aicf-dev/aicf/internal/sources/claudecli"
	"github.com/aicf-dev/aicf/internal/sources/claudedesktop"
	"github.com/aicf-dev/aicf/internal/sources/warp"
	"github.com/aicf-dev/aicf/internal/telemetry"
)

var (
	watchSources    []string
	watchIntervalMs int
	watchDaemon     bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchSources, "source", nil, "restrict this run to these sources (default: project's enabled sources)")
	watchCmd.Flags().IntVar(&watchIntervalMs, "interval", 0, "override the polling interval in milliseconds for this run")
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "keep running cycles until interrupted, instead of running one and exiting")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the ingestion pipeline once, or continuously with --daemon",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	aicfDir := filepath.Join(root, ".aicf")

	ambientCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading ambient config: %w", err)
	}

	if watchIntervalMs > 0 {
		watcherCfg, err := config.LoadWatcherConfig(aicfDir)
		if err != nil {
			return fmt.Errorf("loading watcher config: %w", err)
		}
		watcherCfg.PollingIntervalMs = watchIntervalMs
		if err := config.SaveWatcherConfig(aicfDir, watcherCfg); err != nil {
			return fmt.Errorf("saving watcher config: %w", err)
		}
	}
	if len(watchSources) > 0 {
		watcherCfg, err := config.LoadWatcherConfig(aicfDir)
		if err != nil {
			return fmt.Errorf("loading watcher config: %w", err)
		}
		restricted := make([]aicf.Source, 0, len(watchSources))
		for _, s := range watchSources {
			src, err := parseSourceArg(s)
			if err != nil {
				return err
			}
			restricted = append(restricted, src)
		}
		watcherCfg.EnabledSources = restricted
		if err := config.SaveWatcherConfig(aicfDir, watcherCfg); err != nil {
			return fmt.Errorf("saving watcher config: %w", err)
		}
	}

	logger, err := logging.New(ambientCfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logging.Sync(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	telemetryProvider, err := telemetry.New(ctx, "aicf", os.Stderr)
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer telemetryProvider.Shutdown(context.Background())

	counters, err := telemetry.NewCycleCounters(telemetryProvider.Meter("github.com/aicf-dev/aicf/internal/cycle"))
	if err != nil {
		return fmt.Errorf("registering cycle counters: %w", err)
	}

	readers, err := buildReaders()
	if err != nil {
		return fmt.Errorf("building source readers: %w", err)
	}

	runner, err := cycle.NewRunner(root, logger, telemetryProvider.Tracer("github.com/aicf-dev/aicf/internal/cycle"), counters, readers)
	if err != nil {
		return fmt.Errorf("building runner: %w", err)
	}

	var admin *adminserver.Server
	if ambientCfg.AdminAddr != "" {
		admin = adminserver.NewServer(ambientCfg.AdminAddr, adminserver.NewHealthState(), adminserver.NewMetrics(), logger)
		go func() {
			if err := admin.Start(); err != nil {
				logger.Error("admin server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			admin.Shutdown(shutdownCtx)
		}()
	}

	if !watchDaemon {
		summary, err := runner.RunOnce(ctx)
		if admin != nil {
			admin.OnCycle(summary, err)
		}
		if err != nil {
			return fmt.Errorf("running cycle: %w", err)
		}
		cmd.Printf("Cycle complete: %d record(s) read, %d chunk(s) written, %d session(s) written\n",
			summary.RecordsRead, summary.ChunksWritten, summary.SessionsWritten)
		return nil
	}

	loop, err := cycle.NewLoop(runner)
	if err != nil {
		return fmt.Errorf("building loop: %w", err)
	}
	if admin != nil {
		loop.OnCycle = admin.OnCycle
	}

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("loop failed: %w", err)
	}
	return nil
}

func buildReaders() ([]sources.Reader, error) {
	var readers []sources.Reader

	augmentReader, err := augment.New()
	if err != nil {
		return nil, fmt.Errorf("building augment reader: %w", err)
	}
	readers = append(readers, augmentReader)

	claudeCLIReader, err := claudecli.New()
	if err != nil {
		return nil, fmt.Errorf("building claude-cli reader: %w", err)
	}
	readers = append(readers, claudeCLIReader)

	claudeDesktopReader, err := claudedesktop.New()
	if err != nil {
		return nil, fmt.Errorf("building claude-desktop reader: %w", err)
	}
	readers = append(readers, claudeDesktopReader)

	warpReader, err := warp.New()
	if err != nil {
		return nil, fmt.Errorf("building warp reader: %w", err)
	}
	readers = append(readers, warpReader)

	return readers, nil
}
