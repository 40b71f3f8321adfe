package bench

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// StopReason tells why a worker left its proving loop.
type StopReason int

const (
	// StopDeadline means the worker saw the time budget elapse.
	StopDeadline StopReason = iota
	// StopTerminated means the worker saw the terminator raised.
	StopTerminated
	// StopProverError means an attempt failed or was cancelled.
	StopProverError
	// StopPanicked means the prover panicked.
	StopPanicked
)

func (r StopReason) String() string {
	switch r {
	case StopDeadline:
		return "deadline"
	case StopTerminated:
		return "terminated"
	case StopProverError:
		return "prover_error"
	case StopPanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// WorkerResult is reported exactly once by every worker.
type WorkerResult struct {
	ID       int
	Proofs   uint64
	Attempts uint64
	Reason   StopReason
	// Err is the error that stopped the worker, if any.
	Err error
}

// Result is the aggregate outcome of a proving challenge.
type Result struct {
	// Total is the sum of Proofs over Workers.
	Total   uint64
	Budget  time.Duration
	Elapsed time.Duration
	Workers []WorkerResult
	// Missing is the number of workers that did not report within the shutdown grace.
	Missing int
	// WorkerErrors combines the errors of workers that panicked.
	WorkerErrors error
}

// Throughput returns verified proofs per second of budget.
func (r *Result) Throughput() float64 {
	if r.Budget <= 0 {
		return 0
	}
	return float64(r.Total) / r.Budget.Seconds()
}

// implement zap.ObjectMarshaler interface.
func (r *Result) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("total", r.Total)
	enc.AddDuration("budget", r.Budget)
	enc.AddDuration("elapsed", r.Elapsed)
	enc.AddInt("workers", len(r.Workers))
	enc.AddInt("missing", r.Missing)
	enc.AddFloat64("throughput", r.Throughput())
	return nil
}
