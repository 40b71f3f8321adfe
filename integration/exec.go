package integration

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

var (
	// compileMtx guards access to the executable path so that the project is
	// only compiled once.
	compileMtx sync.Mutex

	// executablePath is the path to the compiled executable. This is an empty
	// string until the initial compilation. It should not be accessed directly;
	// use the provebenchExecutablePath() function instead.
	executablePath string
)

// provebenchExecutablePath returns a path to the provebench executable.
// To ensure the code tests against the most up-to-date version, this method
// compiles provebench the first time it is called. After that, the
// generated binary is used for subsequent requests.
func provebenchExecutablePath(baseDir string) (string, error) {
	compileMtx.Lock()
	defer compileMtx.Unlock()

	if len(executablePath) != 0 {
		return executablePath, nil
	}

	outputPath := filepath.Join(baseDir, "provebench")
	if runtime.GOOS == "windows" {
		outputPath += ".exe"
	}

	cmd := exec.Command(
		"go", "build", "-o", outputPath, "github.com/spacemeshos/provebench",
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to build provebench: %v\n%s", err, out)
	}

	// Save executable path so future calls do not recompile.
	executablePath = outputPath
	return executablePath, nil
}
