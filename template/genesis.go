package template

import (
	"github.com/minio/sha256-simd"
)

const (
	genesisTimestamp    = 1640995200 // 2022-01-01T00:00:00Z
	genesisCoinbaseMint = 1_000_000_000
)

// Genesis returns the template of the block following genesis.
// It is deterministic, so every run of the challenge proves against the same block.
func Genesis() *BlockTemplate {
	coinbase := Record{
		Owner: sha256.Sum256([]byte("genesis coinbase owner")),
		Value: genesisCoinbaseMint,
		Nonce: sha256.Sum256([]byte("genesis coinbase nonce")),
	}
	return &BlockTemplate{
		PreviousBlockHash:  sha256.Sum256([]byte("genesis block")),
		Height:             1,
		Timestamp:          genesisTimestamp,
		DifficultyTarget:   DefaultDifficultyTarget,
		CumulativeWeight:   0,
		PreviousLedgerRoot: sha256.Sum256([]byte("genesis ledger root")),
		Transactions: []Transaction{
			{ID: sha256.Sum256(coinbase.Owner[:]), Fee: 0},
		},
		Coinbase: coinbase,
	}
}
