package integration

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var ErrMalformedReport = errors.New("malformed report")

// Config describes one invocation of the provebench binary.
type Config struct {
	// BaseDir is where the binary is built.
	BaseDir string
	// Env is appended to the current environment, e.g. "WORKER_NUM=4".
	Env  []string
	Args []string
}

// Report is what the binary printed on stdout.
type Report struct {
	Lines      []string
	Proofs     uint64
	Throughput float64
	// Stderr holds the log output.
	Stderr string
}

// Run builds provebench if needed, runs it to completion and parses its report.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	path, err := provebenchExecutablePath(cfg.BaseDir)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, cfg.Args...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running provebench: %w\nstderr:\n%s", err, stderr.String())
	}

	report, err := parseReport(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	report.Stderr = stderr.String()
	return report, nil
}

func parseReport(out []byte) (*Report, error) {
	report := &Report{}
	var haveProofs, haveTps bool
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		report.Lines = append(report.Lines, line)
		switch {
		case strings.HasSuffix(line, " proofs generated."):
			n, err := strconv.ParseUint(strings.TrimSuffix(line, " proofs generated."), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: proofs line %q: %v", ErrMalformedReport, line, err)
			}
			report.Proofs = n
			haveProofs = true
		case strings.HasPrefix(line, "tps is :"):
			tps, err := strconv.ParseFloat(strings.TrimPrefix(line, "tps is :"), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: tps line %q: %v", ErrMalformedReport, line, err)
			}
			report.Throughput = tps
			haveTps = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveProofs || !haveTps {
		return nil, fmt.Errorf("%w: missing totals in %q", ErrMalformedReport, report.Lines)
	}
	return report, nil
}

// Process is a provebench binary running in the background.
type Process struct {
	cmd   *exec.Cmd
	lines chan string
	out   *io.PipeWriter
}

// Start builds provebench if needed and starts it without waiting for it to exit.
// Its stdout is available line by line through WaitForLine.
func Start(ctx context.Context, cfg Config) (*Process, error) {
	path, err := provebenchExecutablePath(cfg.BaseDir)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	cmd := exec.CommandContext(ctx, path, cfg.Args...)
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting provebench: %w", err)
	}

	p := &Process{cmd: cmd, lines: make(chan string, 64), out: pw}
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
	}()
	return p, nil
}

// WaitForLine reads stdout until line was printed.
func (p *Process) WaitForLine(ctx context.Context, line string) error {
	for {
		select {
		case l, ok := <-p.lines:
			if !ok {
				return fmt.Errorf("stdout closed before %q", line)
			}
			if l == line {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Interrupt sends SIGINT to the process.
func (p *Process) Interrupt() error {
	return p.cmd.Process.Signal(os.Interrupt)
}

// Wait waits for the process to exit.
func (p *Process) Wait() error {
	err := p.cmd.Wait()
	_ = p.out.Close()
	return err
}
