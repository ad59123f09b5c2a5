//go:build e2e

// cli_harness_test.go provides a test harness for E2E testing of the
// ralph-loop CLI.
//
// The CLIHarness builds the binary once per test and runs commands in an
// isolated workspace with controlled environment variables.
package integration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// CLIHarness manages a ralph-loop binary for E2E testing.
type CLIHarness struct {
	// BinaryPath is the path to the built ralph-loop binary.
	BinaryPath string

	// WorkDir is the working directory commands run in. Relative default
	// paths such as .ralph/tasks_list.json resolve against it.
	WorkDir string

	// EnvVars are added to the test's environment for each command.
	EnvVars map[string]string

	t *testing.T
}

// CLIResult contains the output from a CLI command execution.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Success returns true if the command completed with exit code 0.
func (r *CLIResult) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// NewCLIHarness builds the ralph-loop binary and creates a test workspace.
func NewCLIHarness(t *testing.T) *CLIHarness {
	t.Helper()

	projectRoot := findProjectRoot(t)
	require.NotEmpty(t, projectRoot, "could not find project root (directory containing go.mod)")

	tmpDir := t.TempDir()
	binaryPath := filepath.Join(tmpDir, "ralph-loop")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/ralph-loop")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build ralph-loop binary: %s", output)

	workDir := filepath.Join(tmpDir, "workspace")
	require.NoError(t, os.MkdirAll(workDir, 0o755))

	return &CLIHarness{
		BinaryPath: binaryPath,
		WorkDir:    workDir,
		EnvVars:    make(map[string]string),
		t:          t,
	}
}

// SetEnv sets an environment variable for subsequent command executions.
func (h *CLIHarness) SetEnv(key, value string) {
	h.EnvVars[key] = value
}

// Run executes a command with a 30 second timeout.
func (h *CLIHarness) Run(args ...string) *CLIResult {
	h.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := h.Command(ctx, args...)
	var stdout, stderr SafeBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	return h.result(cmd.Run(), &stdout, &stderr)
}

// Command prepares a command without starting it, for tests that need to
// signal the running process.
func (h *CLIHarness) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Dir = h.WorkDir
	cmd.Env = os.Environ()
	for k, v := range h.EnvVars {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	return cmd
}

// Wait waits for a started command and collects its result.
func (h *CLIHarness) Wait(cmd *exec.Cmd, stdout, stderr *SafeBuffer) *CLIResult {
	return h.result(cmd.Wait(), stdout, stderr)
}

func (h *CLIHarness) result(err error, stdout, stderr *SafeBuffer) *CLIResult {
	result := &CLIResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}
	return result
}

// SafeBuffer is a bytes.Buffer that can be read while a command writes.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// WriteFile writes content to a path relative to the workspace.
func (h *CLIHarness) WriteFile(rel, content string, mode os.FileMode) string {
	h.t.Helper()

	path := filepath.Join(h.WorkDir, rel)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(h.t, os.WriteFile(path, []byte(content), mode))
	return path
}

// findProjectRoot walks up from the current directory to the directory
// containing go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// RequireSuccess fails the test if the command result indicates failure.
func (h *CLIHarness) RequireSuccess(result *CLIResult, msg string) {
	h.t.Helper()
	if !result.Success() {
		h.t.Fatalf("%s: exit=%d err=%v\nstdout: %s\nstderr: %s",
			msg, result.ExitCode, result.Err, result.Stdout, result.Stderr)
	}
}
