package main

import (
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/shared"
	"github.com/spacemeshos/provebench/template"
)

func TestLoadConfig(t *testing.T) {
	r := require.New(t)

	cfg, err := loadConfig(nil)
	r.NoError(err)
	r.EqualValues(template.DefaultDifficultyTarget, cfg.Difficulty)
	r.Equal(hash.SHA256, cfg.Hash)
	r.False(cfg.CPU)

	cfg, err = loadConfig([]string{"-n", "5", "--hash", "blake3", "-c"})
	r.NoError(err)
	r.EqualValues(5, cfg.Difficulty)
	r.Equal(hash.Blake3, cfg.Hash)
	r.True(cfg.CPU)

	_, err = loadConfig([]string{"--hash", "md5"})
	var flagsErr *flags.Error
	r.ErrorAs(err, &flagsErr)
}

func TestMeasure(t *testing.T) {
	for _, kind := range []hash.Kind{hash.SHA256, hash.Blake3} {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			r := require.New(t)
			m, err := measure(&config{Difficulty: 6, Hash: kind})
			r.NoError(err)
			r.True(shared.CheckLeadingZeroBits(m.proof.Digest, 6))
			r.Equal(m.proof.Nonce+1, m.hashes)
		})
	}
}
