// Test environment helpers for tally integration tests.
package integration

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	tallyBin string
	buildErr error
)

// TestMain builds the tally binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}

	tmpDir, err := os.MkdirTemp("", "tally-test-*")
	if err != nil {
		buildErr = err
		os.Exit(m.Run())
	}
	tallyBin = filepath.Join(tmpDir, "tally")

	cmd := exec.Command("go", "build", "-o", tallyBin, "./cmd/tally")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = fmt.Errorf("building tally: %w\n%s", err, output)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above working directory")
		}
		dir = parent
	}
}

// testEnv is an isolated config/data directory pair for one test.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

// newTestEnv creates an isolated environment using the given backend.
func newTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("tally binary unavailable: %v", buildErr)
	}

	env := &testEnv{
		t:         t,
		configDir: t.TempDir(),
		dataDir:   t.TempDir(),
	}

	config := fmt.Sprintf("storage:\n  type: %s\n", backend)
	if err := os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

// cmdResult captures one tally invocation.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// run executes tally with the environment's directories.
func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()

	cmd := exec.Command(tallyBin, args...)
	cmd.Env = append(os.Environ(),
		"TALLY_CONFIG_DIR="+e.configDir,
		"TALLY_DATA_DIR="+e.dataDir,
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		e.t.Fatalf("running tally %v: %v", args, err)
	}

	return cmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}
}

// mustRun executes tally and fails the test on a non-zero exit.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	result := e.run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("tally %v exited %d\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}
