// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2017-2019 The Spacemesh developers

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/spacemeshos/provebench/bench"
	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/prover"
)

// WorkersEnvVar selects the number of proving workers.
const WorkersEnvVar = "WORKER_NUM"

var (
	ErrInvalidWorkers = errors.New("invalid worker count")
	// ErrConfigFileUnreadable is returned, together with a usable config, when the
	// config file could not be opened.
	ErrConfigFileUnreadable = errors.New("config file unreadable")
)

// Config defines the configuration options for provebench.
//
//nolint:lll
type Config struct {
	ConfigFile string `short:"c" long:"configfile" description:"Path to configuration file"`

	Duration      time.Duration `short:"d" long:"duration"       description:"Time budget of the proving challenge"`
	Workers       uint          `short:"w" long:"workers"        description:"Number of proving workers (overrides $WORKER_NUM)"`
	WarmupWorkers uint          `long:"warmup-workers"           description:"Number of single-attempt workers run before the challenge"`
	ShutdownGrace time.Duration `long:"shutdown-grace"           description:"How long to wait for workers after the budget elapsed (0 waits forever)"`

	Difficulty    uint      `long:"difficulty"     description:"Leading zero bits a proof must have (0 keeps the template target)"`
	Hash          hash.Kind `long:"hash"           description:"Hash used for proving (sha256 or blake3)"`
	CheckInterval uint64    `long:"check-interval" description:"Nonces tried between two cancellation checks"`
	MaxNonces     uint64    `long:"max-nonces"     description:"Nonces tried by a single attempt before it fails (0 for no limit)"`

	LogFile  string `long:"logfile"  description:"Also write logs to this file"`
	DebugLog bool   `long:"debuglog" description:"Enable debug logs"`
	JSONLog  bool   `long:"jsonlog"  description:"Whether to log in JSON format"`

	CPUProfile    string `long:"cpuprofile" description:"Write CPU profile to the specified file"`
	MetricsListen string `long:"metrics"    description:"Serve prometheus metrics on this address (e.g. localhost:9100)"`

	workersSet bool
}

// DefaultConfig returns a config with default hardcoded values.
func DefaultConfig() *Config {
	return &Config{
		Duration:      bench.DefaultDuration,
		Workers:       bench.DefaultWorkers,
		WarmupWorkers: bench.DefaultWarmupWorkers,
		ShutdownGrace: bench.DefaultShutdownGrace,
		Hash:          hash.SHA256,
		CheckInterval: prover.DefaultCheckInterval,
		MaxNonces:     prover.DefaultMaxNonces,
	}
}

// WorkersFromEnv reads the worker count from $WORKER_NUM.
// If it is unset or not a positive integer the default is returned together
// with the reason it was used.
func WorkersFromEnv() (uint, error) {
	value, ok := os.LookupEnv(WorkersEnvVar)
	if !ok {
		return bench.DefaultWorkers, fmt.Errorf("%w: $%s is not set", ErrInvalidWorkers, WorkersEnvVar)
	}
	n, err := strconv.ParseUint(value, 10, 0)
	if err != nil {
		return bench.DefaultWorkers, fmt.Errorf("%w: parsing $%s: %v", ErrInvalidWorkers, WorkersEnvVar, err)
	}
	if n == 0 {
		return bench.DefaultWorkers, fmt.Errorf("%w: $%s must be positive", ErrInvalidWorkers, WorkersEnvVar)
	}
	return uint(n), nil
}

// ParseFlags reads values from command line arguments.
func ParseFlags(preCfg *Config) (*Config, error) {
	return ParseArgs(preCfg, os.Args[1:])
}

// ParseArgs reads values from the given arguments.
func ParseArgs(preCfg *Config, args []string) (*Config, error) {
	parser := flags.NewParser(preCfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	preCfg.trackWorkers(parser)
	return preCfg, nil
}

// ReadConfigFile reads values from the ini file named by ConfigFile, if any.
// Malformed files are an error. A file that cannot be read is not: the config
// is returned unchanged together with an error wrapping ErrConfigFileUnreadable,
// which the caller should log as a warning.
func ReadConfigFile(preCfg *Config) (*Config, error) {
	if preCfg.ConfigFile == "" {
		return preCfg, nil
	}
	parser := flags.NewParser(preCfg, flags.Default)
	if err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise the file possibly doesn't exist
		// which is OK.
		var iniError *flags.IniError
		if errors.As(err, &iniError) {
			return nil, err
		}
		return preCfg, fmt.Errorf("%w: %v", ErrConfigFileUnreadable, err)
	}
	preCfg.trackWorkers(parser)
	return preCfg, nil
}

// WorkersOverridden reports whether the command line or the config file set
// the worker count.
func (c *Config) WorkersOverridden() bool {
	return c.workersSet
}

func (c *Config) trackWorkers(parser *flags.Parser) {
	if opt := parser.FindOptionByLongName("workers"); opt != nil && opt.IsSet() {
		c.workersSet = true
	}
}

// Bench returns the challenge settings of the config.
func (c *Config) Bench() bench.Config {
	return bench.Config{
		Duration:      c.Duration,
		Workers:       int(c.Workers),
		ShutdownGrace: c.ShutdownGrace,
	}
}

// ProverOptions returns the prover settings of the config.
func (c *Config) ProverOptions() []prover.OptionFunc {
	return []prover.OptionFunc{
		prover.WithCheckInterval(c.CheckInterval),
		prover.WithMaxNonces(c.MaxNonces),
	}
}
