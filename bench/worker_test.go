package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/signal"
)

type quickProver struct{}

func (quickProver) ProveOnce(struct{}, *signal.Terminator, *rand.Rand) (struct{}, error) {
	time.Sleep(time.Millisecond)
	return struct{}{}, nil
}

type trustingVerifier struct{}

func (trustingVerifier) Verify(struct{}, struct{}) bool { return true }

func newTestWorker(t *testing.T, budget time.Duration, term *signal.Terminator) *worker[struct{}, struct{}] {
	return &worker[struct{}, struct{}]{
		start:    time.Now(),
		budget:   budget,
		prover:   quickProver{},
		verifier: trustingVerifier{},
		term:     term,
		rng:      newRand(1, 0),
		logger:   zaptest.NewLogger(t),
	}
}

// runWorker runs w to completion and returns everything it sent.
func runWorker(t *testing.T, w *worker[struct{}, struct{}]) []WorkerResult {
	results := make(chan WorkerResult, 2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(results)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "worker did not stop")
	}
	close(results)

	var sent []WorkerResult
	for res := range results {
		sent = append(sent, res)
	}
	return sent
}

func TestWorker_StopsAtDeadline(t *testing.T) {
	r := require.New(t)
	term := signal.NewTerminator()

	start := time.Now()
	sent := runWorker(t, newTestWorker(t, 50*time.Millisecond, term))
	r.Less(time.Since(start), time.Second)

	r.Len(sent, 1)
	res := sent[0]
	r.Equal(StopDeadline, res.Reason)
	r.NoError(res.Err)
	r.Positive(res.Proofs)
	r.Equal(res.Attempts, res.Proofs)
	r.False(term.IsRaised(), "the worker must not depend on the terminator")
}

func TestWorker_StopsWhenTerminated(t *testing.T) {
	r := require.New(t)
	term := signal.NewTerminator()
	term.Raise()

	sent := runWorker(t, newTestWorker(t, time.Hour, term))
	r.Len(sent, 1)
	r.Equal(StopTerminated, sent[0].Reason)
	r.Zero(sent[0].Attempts)
}
