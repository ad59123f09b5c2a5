package agent

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/ralph-loop/internal/config"
	"github.com/thruflo/ralph-loop/internal/logging"
	"github.com/thruflo/ralph-loop/internal/testutil"
)

func testOptions(stdout, stderr *bytes.Buffer) Options {
	return Options{
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Logger: logging.NewWriter(&bytes.Buffer{}, logging.LevelDebug),
	}
}

func TestNew_SelectsVariant(t *testing.T) {
	t.Parallel()

	simple := New(config.AgentClaude, config.AgentSpec{Command: []string{"true"}, Mode: config.ModeSimple}, Options{})
	_, ok := simple.(*Simple)
	assert.True(t, ok)

	streaming := New(config.AgentCursor, config.AgentSpec{Command: []string{"true"}, Mode: config.ModeStreaming}, Options{})
	_, ok = streaming.(*Streaming)
	assert.True(t, ok)
}

func TestAvailable(t *testing.T) {
	t.Parallel()

	assert.True(t, Available(config.AgentSpec{Command: []string{"sh"}}))
	assert.False(t, Available(config.AgentSpec{Command: []string{"ralph-loop-no-such-agent"}}))
	assert.False(t, Available(config.AgentSpec{}))
}

func TestSimple_PassesInstructionsAsLastArgument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "agent.sh", `for a in "$@"; do echo "arg:$a"; done
echo "to stderr" >&2`)

	var stdout, stderr bytes.Buffer
	inv := NewSimple(config.AgentClaude, config.AgentSpec{
		Command:      []string{script, "-p"},
		Instructions: "do one task",
	}, testOptions(&stdout, &stderr))

	ctx, cancel := testutil.AgentContext(t)
	defer cancel()

	require.NoError(t, inv.Invoke(ctx))
	assert.Equal(t, "arg:-p\narg:do one task\n", stdout.String())
	assert.Equal(t, "to stderr\n", stderr.String())
}

func TestSimple_NotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
	}{
		{"bare name", "ralph-loop-no-such-agent"},
		{"absolute path", filepath.Join(t.TempDir(), "missing-agent")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			inv := NewSimple(config.AgentOpencode, config.AgentSpec{Command: []string{tt.command}}, testOptions(&stdout, &stderr))

			err := inv.Invoke(context.Background())
			require.Error(t, err)
			assert.True(t, IsNotFound(err))

			var ae *Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, config.AgentOpencode, ae.Agent)
			assert.Equal(t, tt.command, ae.Command)
			assert.Equal(t, "agent command not found: "+tt.command+". Please ensure the agent is installed and available in PATH.", err.Error())
		})
	}
}

func TestSimple_ExitCode(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	inv := NewSimple(config.AgentClaude, config.AgentSpec{Command: []string{"sh", "-c", "exit 3"}}, testOptions(&stdout, &stderr))

	err := inv.Invoke(context.Background())
	require.Error(t, err)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindExit, ae.Kind)
	assert.Equal(t, 3, ae.ExitCode)
	assert.Equal(t, "agent command sh failed with exit code 3", err.Error())
	assert.False(t, IsNotFound(err))
	assert.False(t, IsInterrupted(err))
}

func TestSimple_SignalledChildIsInterrupted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
	}{
		{"killed by SIGTERM", "kill -TERM $$"},
		{"exit 130", "exit 130"},
		{"exit 143", "exit 143"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			inv := NewSimple(config.AgentClaude, config.AgentSpec{Command: []string{"sh", "-c", tt.script}}, testOptions(&stdout, &stderr))

			err := inv.Invoke(context.Background())
			require.Error(t, err)
			assert.True(t, IsInterrupted(err), "got %v", err)
			assert.Equal(t, "agent command sh was interrupted", err.Error())
		})
	}
}

func TestSimple_CancelSendsSIGTERM(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	marker := filepath.Join(dir, "terminated")
	script := testutil.WriteScript(t, dir, "agent.sh", `trap 'echo term > `+marker+`; exit 143' TERM
echo ready
while :; do sleep 0.1; done`)

	var stdout, stderr bytes.Buffer
	inv := NewSimple(config.AgentClaude, config.AgentSpec{Command: []string{script}}, testOptions(&stdout, &stderr))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inv.Invoke(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(10 * time.Second):
		t.Fatal("Invoke did not return after cancellation")
	}
	assert.FileExists(t, marker)
}

func TestStreaming_RendersEvents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stream := testutil.WriteTestFile(t, dir, "stream.jsonl", testutil.SampleStream)
	script := testutil.WriteScript(t, dir, "agent.sh", `cat `+stream+`
echo "stderr noise" >&2`)

	var stdout, stderr bytes.Buffer
	inv := NewStreaming(config.AgentCursor, config.AgentSpec{
		Command:      []string{script},
		Instructions: "go",
		Mode:         config.ModeStreaming,
	}, testOptions(&stdout, &stderr))

	ctx, cancel := testutil.AgentContext(t)
	defer cancel()

	require.NoError(t, inv.Invoke(ctx))

	out := stdout.String()
	assert.Contains(t, out, "🤖 Using model: composer-1")
	assert.Contains(t, out, "Tool #2: Creating main.go")
	assert.Contains(t, out, "📊 Final stats: 2 tools, 20 chars generated")
	assert.NotContains(t, out, "stderr noise")
	assert.Empty(t, stderr.String())
}

func TestStreaming_ExitCodeAfterStream(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	inv := NewStreaming(config.AgentCursor, config.AgentSpec{
		Command: []string{"sh", "-c", `echo '{"type":"system","subtype":"init","model":"m"}'; exit 2`},
		Mode:    config.ModeStreaming,
	}, testOptions(&stdout, &stderr))

	err := inv.Invoke(context.Background())

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.ExitCode)
	assert.Contains(t, stdout.String(), "Using model: m")
}

func TestStreaming_NotFound(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	inv := NewStreaming(config.AgentCursor, config.AgentSpec{
		Command: []string{"ralph-loop-no-such-agent"},
		Mode:    config.ModeStreaming,
	}, testOptions(&stdout, &stderr))

	err := inv.Invoke(context.Background())
	assert.True(t, IsNotFound(err))
}

func TestStreaming_CancelStopsReading(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script := testutil.WriteScript(t, dir, "agent.sh", `echo '{"type":"system","subtype":"init","model":"m"}'
exec sleep 30`)

	var stdout, stderr bytes.Buffer
	inv := NewStreaming(config.AgentCursor, config.AgentSpec{Command: []string{script}, Mode: config.ModeStreaming}, testOptions(&stdout, &stderr))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	start := time.Now()
	go func() { done <- inv.Invoke(ctx) }()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Less(t, time.Since(start), 10*time.Second)
	case <-time.After(10 * time.Second):
		t.Fatal("Invoke did not return after cancellation")
	}
}

func TestInvoke_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	for _, inv := range []Invoker{
		NewSimple(config.AgentClaude, config.AgentSpec{Command: []string{"true"}}, testOptions(&stdout, &stderr)),
		NewStreaming(config.AgentCursor, config.AgentSpec{Command: []string{"true"}}, testOptions(&stdout, &stderr)),
	} {
		assert.True(t, errors.Is(inv.Invoke(ctx), context.Canceled))
	}
}

func TestMockInvoker(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	m := &MockInvoker{InvokeFunc: func(_ context.Context, call int) error {
		if call == 2 {
			return boom
		}
		return nil
	}}

	inv := m.Factory()(config.AgentClaude, config.AgentSpec{}, Options{})
	assert.NoError(t, inv.Invoke(context.Background()))
	assert.ErrorIs(t, inv.Invoke(context.Background()), boom)
	assert.Equal(t, 2, m.Calls())
}
