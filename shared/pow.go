package shared

import (
	"encoding/binary"
	"hash"
)

// PowHasher hashes a fixed input followed by a little-endian nonce.
// It reuses its buffers and is NOT thread-safe; use one instance per goroutine.
type PowHasher struct {
	h     hash.Hash
	input []byte
}

func NewPowHasher(newHash func() hash.Hash, inputs ...[]byte) *PowHasher {
	h := &PowHasher{h: newHash(), input: []byte{}}
	for _, in := range inputs {
		h.input = append(h.input, in...)
	}
	h.input = append(h.input, make([]byte, 8)...) // placeholder for nonce
	return h
}

// Hash computes H(inputs || nonce) and appends the digest to output.
func (p *PowHasher) Hash(nonce uint64, output []byte) []byte {
	nonceBytes := p.input[len(p.input)-8:]
	binary.LittleEndian.PutUint64(nonceBytes, nonce)

	p.h.Reset()
	p.h.Write(p.input)
	return p.h.Sum(output)
}

// CheckLeadingZeroBits checks if the first 'expected' bits of the byte array are all zero.
func CheckLeadingZeroBits(data []byte, expected uint) bool {
	if len(data)*8 < int(expected) {
		return false
	}
	for i := 0; i < int(expected/8); i++ {
		if data[i] != 0 {
			return false
		}
	}
	if expected%8 != 0 {
		if data[expected/8]>>(8-expected%8) != 0 {
			return false
		}
	}

	return true
}
