package hash

import (
	"errors"
	"fmt"
	gohash "hash"

	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
)

// Size is the digest size, in bytes, of every supported hash.
const Size = 32

var ErrUnknownHash = errors.New("unknown hash")

// Kind names a hash function proofs can be computed with.
type Kind string

const (
	SHA256 Kind = "sha256"
	Blake3 Kind = "blake3"
)

// Factory creates a fresh hash.Hash instance.
type Factory func() gohash.Hash

// New returns a factory for the hash of the given kind.
func New(kind Kind) (Factory, error) {
	switch kind {
	case SHA256:
		return sha256.New, nil
	case Blake3:
		return func() gohash.Hash { return blake3.New() }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHash, kind)
	}
}

// UnmarshalFlag implements flags.Unmarshaler.
func (k *Kind) UnmarshalFlag(value string) error {
	if _, err := New(Kind(value)); err != nil {
		return err
	}
	*k = Kind(value)
	return nil
}

func (k Kind) String() string {
	return string(k)
}
