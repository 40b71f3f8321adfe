package prover

import (
	"fmt"
	"io"

	"golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/template"
)

const saltSize = 32

// Circuit is the mutable proving state bound to a block template.
// Each attempt re-randomizes the salt, so a circuit must not be shared between
// goroutines; use Clone to give every worker its own copy.
type Circuit struct {
	newHash    hash.Factory
	commitment []byte
	target     uint
	salt       [saltSize]byte
}

// NewCircuit binds a circuit to the template and seeds its salt from rng.
func NewCircuit(tpl *template.BlockTemplate, newHash hash.Factory, rng io.Reader) (*Circuit, error) {
	commitment, err := tpl.Commitment(newHash)
	if err != nil {
		return nil, fmt.Errorf("computing template commitment: %w", err)
	}
	c := &Circuit{
		newHash:    newHash,
		commitment: commitment,
		target:     tpl.DifficultyTarget,
	}
	if _, err := io.ReadFull(rng, c.salt[:]); err != nil {
		return nil, fmt.Errorf("seeding circuit: %w", err)
	}
	return c, nil
}

// Clone returns an independent deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	clone := *c
	clone.commitment = append([]byte(nil), c.commitment...)
	return &clone
}

// DifficultyTarget is the number of leading zero bits a proof digest must have.
func (c *Circuit) DifficultyTarget() uint {
	return c.target
}

// PublicInputs returns the data a verifier needs besides the proof itself.
func (c *Circuit) PublicInputs() []byte {
	inputs := make([]byte, 0, len(c.commitment)+saltSize)
	inputs = append(inputs, c.commitment...)
	return append(inputs, c.salt[:]...)
}

// HashFunc returns the hash the circuit is proven with.
func (c *Circuit) HashFunc() hash.Factory {
	return c.newHash
}

func (c *Circuit) randomize(rng *rand.Rand) {
	for i := 0; i < saltSize; i += 8 {
		v := rng.Uint64()
		for j := 0; j < 8; j++ {
			c.salt[i+j] = byte(v >> (8 * j))
		}
	}
}
