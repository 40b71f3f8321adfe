package signal

import (
	"go.uber.org/atomic"
)

// Terminator is a one-shot cancellation flag shared between a single writer
// and any number of readers. Once raised it stays raised.
type Terminator struct {
	raised atomic.Bool

	// done is closed on the first Raise.
	done chan struct{}
}

func NewTerminator() *Terminator {
	return &Terminator{done: make(chan struct{})}
}

// Raise sets the flag. It reports whether this call performed the transition;
// raising an already raised terminator has no further effect.
func (t *Terminator) Raise() bool {
	if !t.raised.CompareAndSwap(false, true) {
		return false
	}
	close(t.done)
	return true
}

// IsRaised returns the current state of the flag.
func (t *Terminator) IsRaised() bool {
	return t.raised.Load()
}

// Done returns a channel that is closed once the terminator is raised.
func (t *Terminator) Done() <-chan struct{} {
	return t.done
}
