// Package template holds the block template a proving challenge is bound to.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"hash"

	"github.com/spacemeshos/go-scale"
)

// MaxTransactions bounds the number of transactions a template may carry.
const MaxTransactions = 1 << 16

// DefaultDifficultyTarget is the number of leading zero bits a proof digest
// must have for the genesis template.
const DefaultDifficultyTarget = 12

var ErrTooManyTransactions = errors.New("too many transactions in template")

type Hash32 [32]byte

// Record is an output record, as minted by the coinbase transaction.
type Record struct {
	Owner Hash32
	Value uint64
	Nonce Hash32
}

func (r *Record) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, r.Owner[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, r.Value)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, r.Nonce[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

type Transaction struct {
	ID  Hash32
	Fee uint64
}

func (t *Transaction) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, t.ID[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, t.Fee)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// BlockTemplate is the set of block fields a proof commits to.
// Scale encoding is implemented by hand so the field order is fixed.
type BlockTemplate struct {
	PreviousBlockHash  Hash32
	Height             uint32
	Timestamp          int64
	DifficultyTarget   uint
	CumulativeWeight   uint64
	PreviousLedgerRoot Hash32
	Transactions       []Transaction
	Coinbase           Record
}

func (t *BlockTemplate) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeByteArray(enc, t.PreviousBlockHash[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, v := range []uint64{uint64(t.Height), uint64(t.Timestamp), uint64(t.DifficultyTarget), t.CumulativeWeight} {
		n, err := scale.EncodeCompact64(enc, v)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, t.PreviousLedgerRoot[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact32(enc, uint32(len(t.Transactions)))
		if err != nil {
			return total, fmt.Errorf("encoding transactions length: %w", err)
		}
		total += n
		for i := range t.Transactions {
			n, err := t.Transactions[i].EncodeScale(enc)
			if err != nil {
				return total, err
			}
			total += n
		}
	}
	{
		n, err := t.Coinbase.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Commitment returns the digest of the scale-encoded template.
func (t *BlockTemplate) Commitment(newHash func() hash.Hash) ([]byte, error) {
	if len(t.Transactions) > MaxTransactions {
		return nil, fmt.Errorf("%w: %d", ErrTooManyTransactions, len(t.Transactions))
	}
	var buf bytes.Buffer
	if _, err := t.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	h := newHash()
	h.Write(buf.Bytes())
	return h.Sum(nil), nil
}

// Clone returns a deep copy of the template.
func (t *BlockTemplate) Clone() *BlockTemplate {
	c := *t
	c.Transactions = append([]Transaction(nil), t.Transactions...)
	return &c
}
