package prover

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/shared"
	"github.com/spacemeshos/provebench/signal"
)

const (
	// DefaultCheckInterval is how many nonces are tried between two terminator checks.
	DefaultCheckInterval = 1 << 10

	// DefaultMaxNonces bounds a single attempt. An attempt that exhausts it fails with
	// ErrAttemptExhausted. Zero means unbounded.
	DefaultMaxNonces = 1 << 26
)

var (
	ErrTerminated       = errors.New("proving terminated")
	ErrAttemptExhausted = errors.New("nonce space of the attempt exhausted")

	hashesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "provebench",
		Subsystem: "prover",
		Name:      "hashes_total",
		Help:      "Number of computed candidate digests",
	})
)

// Proof is a nonce whose digest, together with the circuit public inputs,
// satisfies the difficulty target.
type Proof struct {
	Nonce  uint64
	Digest []byte
}

type options struct {
	checkInterval uint64
	maxNonces     uint64
}

type OptionFunc func(*options)

func WithCheckInterval(interval uint64) OptionFunc {
	return func(o *options) {
		o.checkInterval = interval
	}
}

func WithMaxNonces(limit uint64) OptionFunc {
	return func(o *options) {
		o.maxNonces = limit
	}
}

// PoSW searches for a nonce making H(commitment || salt || nonce) start with
// DifficultyTarget zero bits. It holds no per-attempt state and is safe for
// concurrent use with distinct circuits.
type PoSW struct {
	opts options
}

func New(opts ...OptionFunc) *PoSW {
	o := options{
		checkInterval: DefaultCheckInterval,
		maxNonces:     DefaultMaxNonces,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.checkInterval == 0 {
		o.checkInterval = 1
	}
	return &PoSW{opts: o}
}

// ProveOnce re-randomizes the circuit and runs one proving attempt.
// It returns ErrTerminated once term is raised, checking it every
// check interval nonces.
func (p *PoSW) ProveOnce(c *Circuit, term *signal.Terminator, rng *rand.Rand) (*Proof, error) {
	c.randomize(rng)
	hasher := shared.NewPowHasher(c.newHash, c.commitment, c.salt[:])

	var digest []byte
	for nonce := uint64(0); p.opts.maxNonces == 0 || nonce < p.opts.maxNonces; nonce++ {
		if nonce%p.opts.checkInterval == 0 && term.IsRaised() {
			hashesCounter.Add(float64(nonce))
			return nil, ErrTerminated
		}

		digest = hasher.Hash(nonce, digest[:0])
		if shared.CheckLeadingZeroBits(digest, c.target) {
			hashesCounter.Add(float64(nonce + 1))
			return &Proof{Nonce: nonce, Digest: append([]byte(nil), digest...)}, nil
		}
	}

	hashesCounter.Add(float64(p.opts.maxNonces))
	return nil, ErrAttemptExhausted
}
