// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/edfsim/edfsim/checkpoint"
	"github.com/edfsim/edfsim/generator"
	"github.com/edfsim/edfsim/pkg/config"
	simerrors "github.com/edfsim/edfsim/pkg/errors"
	"github.com/edfsim/edfsim/pkg/logging"
	"github.com/edfsim/edfsim/pkg/metrics"
	"github.com/edfsim/edfsim/pkg/retry"
	"github.com/edfsim/edfsim/pkg/taskfile"
	"github.com/edfsim/edfsim/scheduler"
	"github.com/edfsim/edfsim/task"
)

var (
	// Version is set at build time.
	Version = "dev"

	rootCmd = &cobra.Command{
		Use:     "edfsim-cli",
		Short:   "Discrete-event EDF scheduling simulator",
		Version: Version,
		RunE:    runSimulation,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("tasksystem", "tasksystem.json", "path to the task-system input file")
	flags.String("checkpoint", "checkpoint.json", "path to read/write the checkpoint file")
	flags.Bool("resume", false, "resume from --checkpoint instead of starting fresh")
	flags.Uint("seed", 1, "random stream seed")
	flags.Int64("breaktime", 0, "virtual-time budget for this run")
	flags.Int64("speed", 1, "processor speed (work units completed per tick)")
	flags.Bool("overrun-break", false, "stop on the first detected overrun")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text, json")
	flags.Bool("prometheus", false, "serve run counters in Prometheus exposition format while the run is in progress")
	flags.String("prometheus-addr", ":9090", "address to serve /metrics on when --prometheus is set")

	for _, name := range []string{"tasksystem", "checkpoint", "resume", "seed", "breaktime", "speed", "overrun-break", "log-level", "log-format", "prometheus", "prometheus-addr"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	runID := uuid.NewString()

	cfg := config.NewDefault()
	cfg.Load(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.NewLogger(cfg.LoggingConfig(runID))
	log.Info("starting run", "tasksystem", cfg.TaskSystemPath, "breaktime", cfg.BreakTime, "seed", cfg.Seed)

	sys, err := loadTaskSystem(cfg.TaskSystemPath)
	if err != nil {
		log.Error("failed to load task system", "error", err)
		return err
	}
	log.Info("task system loaded", "tasks", sys.Len())

	var collector metrics.Collector = metrics.NewInMemoryCollector()
	var promSrv *http.Server
	if viper.GetBool("prometheus") {
		promCollector := metrics.NewPrometheusCollector()
		collector = promCollector
		promSrv = startPrometheusServer(promCollector, viper.GetString("prometheus-addr"), log)
	}

	gen := generator.New(sys, cfg.Seed, !cfg.Resume)
	evl, err := buildEventLoop(gen, cfg, log)
	if err != nil {
		log.Error("failed to build event loop", "error", err)
		return err
	}
	evl.SetObservers(collector, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// runMu is held while Run and the normal checkpoint write are in
	// progress, so a signal-triggered dump only happens between them.
	var runMu sync.Mutex
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Warn("received termination signal, writing checkpoint before exit")
		runMu.Lock()
		if err := writeCheckpoint(ctx, evl, cfg.CheckpointPath); err != nil {
			log.Error("checkpoint write on signal failed", "error", err)
		}
		stopPrometheusServer(ctx, promSrv, log)
		cancel()
		os.Exit(1)
	}()

	runMu.Lock()
	result := evl.Run(cfg.BreakTime, cfg.Speed, cfg.OverrunBreak)

	if err := writeCheckpoint(ctx, evl, cfg.CheckpointPath); err != nil {
		runMu.Unlock()
		log.Error("checkpoint write failed", "error", err)
		return err
	}
	runMu.Unlock()

	stopPrometheusServer(ctx, promSrv, log)
	printSummary(result, evl, collector)
	return nil
}

// startPrometheusServer serves collector's Prometheus exposition handler on
// addr in the background, logging (rather than failing the run on) any
// error other than a graceful shutdown.
func startPrometheusServer(collector *metrics.PrometheusCollector, addr string, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("serving prometheus metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("prometheus metrics server failed", "error", err)
		}
	}()
	return srv
}

// stopPrometheusServer shuts srv down if it was started; srv is nil when
// --prometheus was not set.
func stopPrometheusServer(ctx context.Context, srv *http.Server, log logging.Logger) {
	if srv == nil {
		return
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("prometheus metrics server shutdown failed", "error", err)
	}
}

func loadTaskSystem(path string) (*task.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edfsim-cli: opening task system file: %w", err)
	}
	defer f.Close()

	return taskfile.Load(f)
}

func buildEventLoop(gen *generator.Generator, cfg *config.Config, log logging.Logger) (*scheduler.EventLoop, error) {
	if !cfg.Resume {
		return scheduler.New(gen, true)
	}

	f, err := os.Open(cfg.CheckpointPath)
	if err != nil {
		return nil, fmt.Errorf("edfsim-cli: opening checkpoint for resume: %w", err)
	}
	defer f.Close()

	snap, err := checkpoint.Read(f)
	if err != nil {
		return nil, fmt.Errorf("edfsim-cli: reading checkpoint: %w", err)
	}

	evl, err := scheduler.New(gen, false)
	if err != nil {
		return nil, err
	}
	if err := evl.Load(snap); err != nil {
		return nil, fmt.Errorf("edfsim-cli: restoring checkpoint: %w", err)
	}
	log.Info("resumed from checkpoint", "now", snap.Now, "jobs", len(snap.Jobs))
	return evl, nil
}

func writeCheckpoint(ctx context.Context, evl *scheduler.EventLoop, path string) error {
	backoff := retry.NewExponentialBackoff()
	err := retry.Do(ctx, backoff, func() error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return checkpoint.Write(f, evl.Dump())
	})
	if err != nil {
		return simerrors.Wrap(simerrors.CodeCheckpointIO, "writing checkpoint", err)
	}
	return nil
}

func printSummary(result scheduler.Result, evl *scheduler.EventLoop, collector metrics.Collector) {
	p := message.NewPrinter(language.English)
	stats := collector.Stats()
	if result == scheduler.OK {
		p.Printf("%d: End of simulation with %d events servicing %d jobs\n",
			evl.Now(), stats.EventsDone, stats.JobsDone)
	} else {
		p.Printf("%d: End of simulation (%s) with %d events servicing %d jobs\n",
			evl.Now(), result, stats.EventsDone, stats.JobsDone)
	}
	if stats.DeadlineMisses > 0 {
		p.Printf("%d deadline miss(es) recorded\n", stats.DeadlineMisses)
	}
	if stats.Overruns > 0 {
		p.Printf("%d overrun(s) recorded\n", stats.Overruns)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
