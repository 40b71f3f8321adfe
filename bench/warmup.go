package bench

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/provebench/logging"
	"github.com/spacemeshos/provebench/signal"
)

// Warmup runs one proving attempt on each of workers goroutines and waits for all of
// them. It absorbs one-time initialization cost before a challenge is timed.
// Outcomes of the attempts are discarded. ctx only carries the logger: attempts
// are not cancelled, so Warmup returns once every attempt did.
func Warmup[C Circuit[C], P any](ctx context.Context, workers int, circuit C, prover Prover[C, P]) error {
	logger := logging.FromContext(ctx).Named("warmup")
	seed, err := newSeed()
	if err != nil {
		return fmt.Errorf("seeding warm-up workers: %w", err)
	}

	// Never raised: warm-up attempts run to completion.
	term := signal.NewTerminator()
	start := time.Now()
	var eg errgroup.Group
	for id := 0; id < workers; id++ {
		id := id
		c := circuit.Clone()
		rng := newRand(seed, id)
		eg.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.Warn("warm-up attempt panicked", zap.Int("worker", id), zap.Any("panic", r))
				}
			}()
			// The attempt only primes the prover; its proof or error is not used.
			_, _ = prover.ProveOnce(c, term, rng)
			return nil
		})
	}
	_ = eg.Wait()
	logger.Info("warm-up done", zap.Int("workers", workers), zap.Duration("took", time.Since(start)))
	return nil
}
