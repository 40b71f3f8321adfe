package main

import (
	"github.com/jessevdk/go-flags"

	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/template"
)

const (
	defaultDifficulty = template.DefaultDifficultyTarget
	defaultCPU        = false
)

// config defines the configuration options for bench.
type config struct {
	Difficulty uint      `short:"n" description:"leading zero bits a proof must have"`
	Hash       hash.Kind `long:"hash" description:"hash used for proving (sha256 or blake3)"`
	CPU        bool      `short:"c" description:"whether to enable CPU profiling"`
}

// loadConfig initializes and parses the config using the given command line options.
func loadConfig(args []string) (*config, error) {
	// Default config.
	cfg := config{
		Difficulty: defaultDifficulty,
		Hash:       hash.SHA256,
		CPU:        defaultCPU,
	}

	// Parse command line options.
	if _, err := flags.NewParser(&cfg, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	return &cfg, nil
}
