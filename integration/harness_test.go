package integration

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	r := require.New(t)
	out := []byte("Running initial setup...\nDone! Running proving challenge...\nFinished!\n42 proofs generated.\ntps is :2.1\n")

	report, err := parseReport(out)
	r.NoError(err)
	r.EqualValues(42, report.Proofs)
	r.InDelta(2.1, report.Throughput, 1e-9)
	r.Len(report.Lines, 5)

	_, err = parseReport([]byte("Finished!\n"))
	r.ErrorIs(err, ErrMalformedReport)

	_, err = parseReport([]byte("many proofs generated.\ntps is :1\n"))
	r.ErrorIs(err, ErrMalformedReport)
}

func TestProvebench(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the provebench binary")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	baseDir := t.TempDir()

	t.Run("workers from environment", func(t *testing.T) {
		r := require.New(t)
		report, err := Run(ctx, Config{
			BaseDir: baseDir,
			Env:     []string{"WORKER_NUM=2"},
			Args:    []string{"--duration=1s", "--warmup-workers=2", "--difficulty=6"},
		})
		r.NoError(err)
		r.Equal([]string{
			"Running initial setup...",
			"Done! Running proving challenge...",
			"Finished!",
		}, report.Lines[:3])
		r.Positive(report.Proofs)
		r.InDelta(float64(report.Proofs), report.Throughput, 1e-6, "throughput divides by a 1s budget")
		r.NotContains(report.Stderr, "using default worker count")
	})

	t.Run("unparsable worker count falls back to default", func(t *testing.T) {
		r := require.New(t)
		report, err := Run(ctx, Config{
			BaseDir: baseDir,
			Env:     []string{"WORKER_NUM=lots"},
			Args:    []string{"--duration=1s", "--warmup-workers=1", "--difficulty=4"},
		})
		r.NoError(err)
		r.Contains(report.Stderr, "using default worker count")
		r.Contains(report.Stderr, "workers: 100")
	})

	t.Run("command line worker count hides env fallback", func(t *testing.T) {
		r := require.New(t)
		report, err := Run(ctx, Config{
			BaseDir: baseDir,
			Env:     []string{"WORKER_NUM=lots"},
			Args:    []string{"--duration=1s", "--warmup-workers=1", "--difficulty=4", "--workers=2"},
		})
		r.NoError(err)
		r.NotContains(report.Stderr, "using default worker count")
		r.Contains(report.Stderr, "workers: 2")
	})
}

func TestProvebench_Interrupt(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the provebench binary")
	}
	if runtime.GOOS == "windows" {
		t.Skip("sending an interrupt is not supported on windows")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	baseDir := t.TempDir()

	t.Run("during warm-up kills the process", func(t *testing.T) {
		r := require.New(t)
		// Warm-up attempts at this difficulty never finish.
		p, err := Start(ctx, Config{
			BaseDir: baseDir,
			Env:     []string{"WORKER_NUM=1"},
			Args:    []string{"--warmup-workers=1", "--max-nonces=0", "--difficulty=200"},
		})
		r.NoError(err)
		r.NoError(p.WaitForLine(ctx, "Running initial setup..."))
		r.NoError(p.Interrupt())

		exited := make(chan error, 1)
		go func() { exited <- p.Wait() }()
		select {
		case err := <-exited:
			var exitErr *exec.ExitError
			r.ErrorAs(err, &exitErr)
			r.Equal(-1, exitErr.ExitCode(), "terminated by the signal")
		case <-time.After(10 * time.Second):
			r.FailNow("provebench still running after interrupt")
		}
	})

	t.Run("during the challenge ends it early", func(t *testing.T) {
		r := require.New(t)
		p, err := Start(ctx, Config{
			BaseDir: baseDir,
			Env:     []string{"WORKER_NUM=2"},
			Args:    []string{"--duration=1h", "--warmup-workers=1", "--difficulty=4"},
		})
		r.NoError(err)
		r.NoError(p.WaitForLine(ctx, "Done! Running proving challenge..."))
		r.NoError(p.Interrupt())

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		r.NoError(p.WaitForLine(waitCtx, "Finished!"))
		r.NoError(p.Wait())
	})
}
