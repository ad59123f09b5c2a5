package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/ralph-loop/internal/tasks"
)

// WriteTasksFile writes list as a task list file in dir and returns its path.
func WriteTasksFile(t *testing.T, dir string, list []tasks.Task) string {
	t.Helper()

	data, err := json.MarshalIndent(list, "", "  ")
	require.NoError(t, err)
	return WriteTestFile(t, dir, "tasks_list.json", string(data))
}

// WriteTestFile writes content to dir/name, creating parent directories.
func WriteTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteScript writes an executable sh script to dir/name and returns its
// path. The agent's instructions arrive as the script's last argument.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}
