package verifier

import (
	"bytes"

	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/prover"
	"github.com/spacemeshos/provebench/shared"
)

// Verify recomputes the proof digest from the public inputs and checks it
// against the difficulty target. It has no side effects.
func Verify(newHash hash.Factory, difficultyTarget uint, publicInputs []byte, proof *prover.Proof) bool {
	if proof == nil {
		return false
	}
	digest := shared.NewPowHasher(newHash, publicInputs).Hash(proof.Nonce, nil)
	if !bytes.Equal(digest, proof.Digest) {
		return false
	}
	return shared.CheckLeadingZeroBits(digest, difficultyTarget)
}

// PoSW verifies proofs produced by prover.PoSW against the circuit they were proven on.
type PoSW struct{}

func (PoSW) Verify(c *prover.Circuit, proof *prover.Proof) bool {
	return Verify(c.HashFunc(), c.DifficultyTarget(), c.PublicInputs(), proof)
}
