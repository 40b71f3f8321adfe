package bench_test

import (
	"errors"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/signal"
)

var errStubFailure = errors.New("stub prover failure")

type stubCircuit struct{}

func (stubCircuit) Clone() stubCircuit { return stubCircuit{} }

type stubProof struct{}

// sleepyProver succeeds after a fixed delay and counts every attempt.
type sleepyProver struct {
	delay    time.Duration
	attempts *atomic.Uint64
}

func newSleepyProver(delay time.Duration) sleepyProver {
	return sleepyProver{delay: delay, attempts: atomic.NewUint64(0)}
}

func (p sleepyProver) ProveOnce(stubCircuit, *signal.Terminator, *rand.Rand) (stubProof, error) {
	p.attempts.Inc()
	time.Sleep(p.delay)
	return stubProof{}, nil
}

// cancellableProver never finds a proof; it returns once the terminator is raised.
type cancellableProver struct{}

func (cancellableProver) ProveOnce(_ stubCircuit, term *signal.Terminator, _ *rand.Rand) (stubProof, error) {
	<-term.Done()
	return stubProof{}, errStubFailure
}

type failingProver struct{}

func (failingProver) ProveOnce(stubCircuit, *signal.Terminator, *rand.Rand) (stubProof, error) {
	return stubProof{}, errStubFailure
}

type panickingProver struct{}

func (panickingProver) ProveOnce(stubCircuit, *signal.Terminator, *rand.Rand) (stubProof, error) {
	panic("prover exploded")
}

// blockingProver ignores the terminator and returns only when released.
type blockingProver struct {
	release chan struct{}
}

func (p blockingProver) ProveOnce(stubCircuit, *signal.Terminator, *rand.Rand) (stubProof, error) {
	<-p.release
	return stubProof{}, errStubFailure
}

type acceptingVerifier struct{}

func (acceptingVerifier) Verify(stubCircuit, stubProof) bool { return true }

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(stubCircuit, stubProof) bool { return false }
