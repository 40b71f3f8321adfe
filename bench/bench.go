// Package bench runs a time-boxed proving challenge over a pool of workers and
// counts the proofs that pass verification.
package bench

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/logging"
	"github.com/spacemeshos/provebench/signal"
)

// Circuit is the per-worker proving state. Clone must return a copy that
// shares no mutable state with the original.
type Circuit[C any] interface {
	Clone() C
}

// Prover runs a single proving attempt. It should return soon after term is raised.
type Prover[C, P any] interface {
	ProveOnce(circuit C, term *signal.Terminator, rng *rand.Rand) (P, error)
}

// Verifier checks a proof against the circuit it was produced on.
type Verifier[C, P any] interface {
	Verify(circuit C, proof P) bool
}

// Run measures how many verified proofs cfg.Workers workers generate within cfg.Duration.
// Every worker proves on its own clone of circuit. After the budget elapses (or ctx is
// cancelled) the shared terminator is raised and one result per worker is collected.
//
// A proof that fails verification is an integrity violation: Run does not return, the
// process panics.
func Run[C Circuit[C], P any](
	ctx context.Context,
	cfg Config,
	circuit C,
	prover Prover[C, P],
	verifier Verifier[C, P],
) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).Named("bench")
	result := &Result{Budget: cfg.Duration}
	if cfg.Workers == 0 {
		logger.Info("no workers configured, skipping proving challenge")
		return result, nil
	}

	seed, err := newSeed()
	if err != nil {
		return nil, fmt.Errorf("seeding workers: %w", err)
	}

	term := signal.NewTerminator()
	results := make(chan WorkerResult, cfg.Workers)
	start := time.Now()
	for id := 0; id < cfg.Workers; id++ {
		w := &worker[C, P]{
			id:       id,
			start:    start,
			budget:   cfg.Duration,
			circuit:  circuit.Clone(),
			prover:   prover,
			verifier: verifier,
			term:     term,
			rng:      newRand(seed, id),
			logger:   logger.With(zap.Int("worker", id)),
		}
		go w.run(results)
	}
	logger.Info("workers started", zap.Int("workers", cfg.Workers), zap.Duration("budget", cfg.Duration))

	timer := time.NewTimer(cfg.Duration)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		logger.Warn("interrupted, ending proving challenge early", zap.Duration("elapsed", time.Since(start)))
	}
	term.Raise()
	logger.Debug("terminator raised", zap.Duration("elapsed", time.Since(start)))

	collect(logger, cfg, results, result)
	result.Elapsed = time.Since(start)
	throughputMetric.Set(result.Throughput())

	logger.Info("proving challenge finished", zap.Object("result", result))
	return result, nil
}

func collect(logger *zap.Logger, cfg Config, results <-chan WorkerResult, result *Result) {
	var grace <-chan time.Time
	if cfg.ShutdownGrace > 0 {
		t := time.NewTimer(cfg.ShutdownGrace)
		defer t.Stop()
		grace = t.C
	}

	var errs *multierror.Error
	for received := 0; received < cfg.Workers; received++ {
		select {
		case r := <-results:
			result.Workers = append(result.Workers, r)
			result.Total += r.Proofs
			if r.Reason == StopPanicked {
				errs = multierror.Append(errs, r.Err)
			}
		case <-grace:
			result.Missing = cfg.Workers - received
			logger.Warn("workers did not report in time, counting them as zero",
				zap.Int("missing", result.Missing),
				zap.Duration("grace", cfg.ShutdownGrace),
			)
			result.WorkerErrors = errs.ErrorOrNil()
			return
		}
	}
	result.WorkerErrors = errs.ErrorOrNil()
	if result.WorkerErrors != nil {
		logger.Warn("some workers failed", zap.Error(result.WorkerErrors))
	}
}

func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func newRand(seed uint64, id int) *rand.Rand {
	return rand.New(rand.NewSource(seed + uint64(id)))
}
