package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spacemeshos/provebench/bench"
	"github.com/spacemeshos/provebench/config"
	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/logging"
	"github.com/spacemeshos/provebench/prover"
	"github.com/spacemeshos/provebench/template"
	"github.com/spacemeshos/provebench/verifier"
)

// provebench binary version.
// It should be passed during the build with '-ldflags "-X main.version="'.
var version = "unknown"

// provebenchMain is the true entry point for provebench. This function is required since
// defers created in the top-level scope of a main method aren't executed if
// os.Exit() is called.
func provebenchMain() error {
	fmt.Println("Running initial setup...")

	// Start with a default Config, take the worker count from the environment,
	// then let the config file and finally the command line override it.
	cfg := config.DefaultConfig()
	workers, workersErr := config.WorkersFromEnv()
	cfg.Workers = workers

	cfg, err := config.ParseFlags(cfg)
	if err != nil {
		return err
	}
	cfg, configFileErr := config.ReadConfigFile(cfg)
	if configFileErr != nil && !errors.Is(configFileErr, config.ErrConfigFileUnreadable) {
		return configFileErr
	}
	cfg, err = config.ParseFlags(cfg)
	if err != nil {
		return err
	}

	// Initialize logging
	logLevel := zap.InfoLevel
	if cfg.DebugLog {
		logLevel = zap.DebugLevel
	}
	logger := logging.New(logLevel, cfg.LogFile, cfg.JSONLog).With(zap.Stringer("run_id", uuid.New()))
	defer func() { _ = logger.Sync() }()
	ctx := logging.NewContext(context.Background(), logger)

	logger.Sugar().Infof("version: %s, workers: %d, duration: %v, hash: %s", version, cfg.Workers, cfg.Duration, cfg.Hash)
	// Warn about an unreadable config file only once logging is set up.
	if configFileErr != nil {
		logger.Warn("ignoring config file", zap.Error(configFileErr))
	}
	if workersErr != nil && !cfg.WorkersOverridden() {
		logger.Info("using default worker count", zap.Uint("default", bench.DefaultWorkers), zap.Error(workersErr))
	}

	if cfg.MetricsListen != "" {
		logger.Info("serving metrics", zap.String("address", cfg.MetricsListen))
		go func() {
			if err := http.ListenAndServe(cfg.MetricsListen, metricsHandler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	} else {
		// Disable go default unbounded memory profiler.
		runtime.MemProfileRate = 0
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	newHash, err := hash.New(cfg.Hash)
	if err != nil {
		return err
	}
	tpl := template.Genesis()
	if cfg.Difficulty != 0 {
		tpl.DifficultyTarget = cfg.Difficulty
	}
	circuit, err := prover.NewCircuit(tpl, newHash, rand.Reader)
	if err != nil {
		return fmt.Errorf("creating circuit: %w", err)
	}
	p := prover.New(cfg.ProverOptions()...)

	// Warm-up attempts cannot be cancelled, so an interrupt keeps its default
	// action until the challenge starts.
	if err := bench.Warmup[*prover.Circuit, *prover.Proof](ctx, int(cfg.WarmupWorkers), circuit, p); err != nil {
		return fmt.Errorf("warm-up: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	fmt.Println("Done! Running proving challenge...")

	res, err := bench.Run[*prover.Circuit, *prover.Proof](ctx, cfg.Bench(), circuit, p, verifier.PoSW{})
	if err != nil {
		return fmt.Errorf("running proving challenge: %w", err)
	}

	fmt.Println("Finished!")
	fmt.Printf("%d proofs generated.\n", res.Total)
	fmt.Printf("tps is :%v\n", res.Throughput())
	return nil
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := provebenchMain(); err != nil {
		// Errors of the flag utility were already printed by it.
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
