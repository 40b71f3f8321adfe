package bench

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/signal"
)

var (
	ErrProofVerificationFailed = errors.New("proof verification failed, contestant disqualified")
	ErrWorkerPanicked          = errors.New("worker panicked")
)

// IntegrityViolation is the panic value of a worker that produced a proof
// failing verification.
type IntegrityViolation struct {
	Worker int
}

func (v *IntegrityViolation) Error() string {
	return fmt.Sprintf("worker %d: %v", v.Worker, ErrProofVerificationFailed)
}

func (v *IntegrityViolation) Unwrap() error {
	return ErrProofVerificationFailed
}

type worker[C, P any] struct {
	id       int
	start    time.Time
	budget   time.Duration
	circuit  C
	prover   Prover[C, P]
	verifier Verifier[C, P]
	term     *signal.Terminator
	rng      *rand.Rand
	logger   *zap.Logger
}

// run proves until the budget elapses, the terminator is raised or an attempt fails.
// The result is sent on every exit path except an integrity violation, which
// brings the whole process down.
func (w *worker[C, P]) run(results chan<- WorkerResult) {
	res := WorkerResult{ID: w.id}
	defer func() {
		if r := recover(); r != nil {
			if v, ok := r.(*IntegrityViolation); ok {
				panic(v)
			}
			res.Reason = StopPanicked
			res.Err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanicked, w.id, r)
			w.logger.Error("prover panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		workerStopsMetric.WithLabelValues(res.Reason.String()).Inc()
		w.logger.Debug("worker stopped",
			zap.Stringer("reason", res.Reason),
			zap.Uint64("proofs", res.Proofs),
			zap.Uint64("attempts", res.Attempts),
			zap.NamedError("cause", res.Err),
		)
		results <- res
	}()

	for {
		if time.Since(w.start) > w.budget {
			res.Reason = StopDeadline
			return
		}
		if w.term.IsRaised() {
			res.Reason = StopTerminated
			return
		}

		res.Attempts++
		attemptsMetric.Inc()
		began := time.Now()
		proof, err := w.prover.ProveOnce(w.circuit, w.term, w.rng)
		attemptLatencyMetric.Observe(time.Since(began).Seconds())
		if err != nil {
			res.Reason = StopProverError
			res.Err = err
			return
		}

		if !w.verifier.Verify(w.circuit, proof) {
			w.logger.Error("proof verification failed", zap.Uint64("proofs", res.Proofs))
			panic(&IntegrityViolation{Worker: w.id})
		}
		res.Proofs++
		proofsMetric.Inc()
	}
}
