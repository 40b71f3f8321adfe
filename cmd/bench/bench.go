package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
	"time"

	xrand "golang.org/x/exp/rand"

	"github.com/spacemeshos/provebench/hash"
	"github.com/spacemeshos/provebench/prover"
	"github.com/spacemeshos/provebench/signal"
	"github.com/spacemeshos/provebench/template"
	"github.com/spacemeshos/provebench/verifier"
)

var errVerificationFailed = errors.New("failed to verify proof")

type measurement struct {
	proof     *prover.Proof
	hashes    uint64
	proveTime time.Duration
	verifTime time.Duration
}

// measure generates one proof on a fresh genesis template and verifies it.
func measure(cfg *config) (*measurement, error) {
	newHash, err := hash.New(cfg.Hash)
	if err != nil {
		return nil, err
	}
	tpl := template.Genesis()
	tpl.DifficultyTarget = cfg.Difficulty
	circuit, err := prover.NewCircuit(tpl, newHash, rand.Reader)
	if err != nil {
		return nil, err
	}

	seed := uint64(time.Now().UnixNano())
	t1 := time.Now()
	proof, err := prover.New(prover.WithMaxNonces(0)).ProveOnce(circuit, signal.NewTerminator(), xrand.New(xrand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate proof: %w", err)
	}
	m := &measurement{proof: proof, hashes: proof.Nonce + 1, proveTime: time.Since(t1)}

	t1 = time.Now()
	if !(verifier.PoSW{}).Verify(circuit, proof) {
		return nil, errVerificationFailed
	}
	m.verifTime = time.Since(t1)
	return m, nil
}

// bench times a single proof and its verification.
func main() {
	runtime.MemProfileRate = 0
	println("Memory profiling disabled.")

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if cfg.CPU {
		dir, err := os.Getwd()
		if err != nil {
			log.Fatal("cant get current dir", err)
		}

		profFilePath := path.Join(dir, "./CPU.prof")
		fmt.Printf("CPU profile: %s\n", profFilePath)

		f, err := os.Create(profFilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()

		println("Cpu profiling enabled and started...")
	}

	fmt.Printf("difficulty: %d bits, hash: %s\n", cfg.Difficulty, cfg.Hash)
	println("Computing proof...")
	m, err := measure(cfg)
	if err != nil {
		log.Fatal(err)
	}

	e, e1 := m.proveTime, m.verifTime
	fmt.Printf("Proof generated in %s (%f)\n", e, e.Seconds())
	fmt.Printf("Proof nonce: %d, digest: %x\n", m.proof.Nonce, m.proof.Digest)
	fmt.Printf("Hash rate: %.0f hashes-per-sec\n", float64(m.hashes)/e.Seconds())
	fmt.Printf("Proof verified in %s (%f)\n", e1, e1.Seconds())

	fmt.Printf("%d %d %f %f\n", cfg.Difficulty, m.hashes, e.Seconds(), e1.Seconds())
}
