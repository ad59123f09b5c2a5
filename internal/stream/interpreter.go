package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const (
	initialBufSize = 64 * 1024
	maxLineSize    = 16 * 1024 * 1024
)

// Summary describes what was seen on one stream.
type Summary struct {
	Model string
	// Text is the accumulated assistant output.
	Text string
	// Chars is the length of Text in characters.
	Chars int
	Tools int
	// DurationMS is the agent-reported duration from the result event.
	DurationMS string
	// Completed is true once a result event has been seen.
	Completed bool
}

// Interpreter renders stream-json events as progress lines on w.
type Interpreter struct {
	w   io.Writer
	now func() time.Time
	// maxLine bounds a single line; longer lines are skipped.
	maxLine int

	text    strings.Builder
	summary Summary
	start   time.Time
}

// NewInterpreter creates an Interpreter writing to w.
func NewInterpreter(w io.Writer) *Interpreter {
	return &Interpreter{w: w, now: time.Now, maxLine: maxLineSize}
}

// Consume reads r line by line until EOF or until ctx is done, rendering
// each event as it arrives. Lines that are not JSON events, or that are
// longer than 16 MiB, are skipped.
//
// If r is an io.Closer it is closed when ctx is cancelled so that a blocked
// read returns immediately. Consume panics if r is nil.
func (i *Interpreter) Consume(ctx context.Context, r io.Reader) (*Summary, error) {
	if r == nil {
		panic("stream: Consume called with nil reader")
	}

	i.reset()

	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	br := bufio.NewReaderSize(r, initialBufSize)
	var readErr error
	for {
		line, skipped, err := readLine(br, i.maxLine)
		if ctx.Err() != nil {
			break
		}
		if !skipped && len(line) > 0 {
			if ev, ok := ParseEvent(string(line)); ok {
				i.Handle(ev)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}

	summary := i.Summary()
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if readErr != nil {
		return summary, fmt.Errorf("failed to read agent output: %w", readErr)
	}
	return summary, nil
}

// readLine returns the next line without its newline. A line longer than
// limit is read to its end and reported as skipped.
func readLine(br *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	skipped := false
	for {
		frag, err := br.ReadSlice('\n')
		if !skipped {
			if len(line)+len(bytes.TrimSuffix(frag, []byte("\n"))) > limit {
				skipped = true
				line = nil
			} else {
				line = append(line, frag...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return bytes.TrimSuffix(line, []byte("\n")), skipped, err
	}
}

// Handle renders a single event and updates the running summary.
func (i *Interpreter) Handle(ev *Event) {
	if i.start.IsZero() {
		i.start = i.now()
	}

	switch ev.Type {
	case EventSystem:
		if ev.Subtype != SubtypeInit {
			return
		}
		model := ev.Model
		if model == "" {
			model = "unknown"
		}
		i.summary.Model = model
		fmt.Fprintf(i.w, "🤖 Using model: %s\n", model)

	case EventAssistant:
		text := ev.Text()
		if text == "" {
			return
		}
		i.text.WriteString(text)
		i.summary.Chars += utf8.RuneCountInString(text)
		fmt.Fprintf(i.w, "\r📝 Generating: %d chars", i.summary.Chars)

	case EventToolCall:
		i.handleToolCall(ev)

	case EventResult:
		i.summary.DurationMS = ev.Duration()
		i.summary.Completed = true
		elapsed := int(i.now().Sub(i.start).Seconds())
		fmt.Fprintf(i.w, "\n\n🎯 Completed in %sms (%ds total)\n", i.summary.DurationMS, elapsed)
		fmt.Fprintf(i.w, "📊 Final stats: %d tools, %d chars generated\n", i.summary.Tools, i.summary.Chars)
	}
}

func (i *Interpreter) handleToolCall(ev *Event) {
	tc := ev.ToolCall
	if tc == nil {
		tc = &ToolCall{}
	}

	switch ev.Subtype {
	case SubtypeStarted:
		// Every started call counts, including tools we do not describe.
		i.summary.Tools++
		switch {
		case tc.Write != nil:
			fmt.Fprintf(i.w, "\n🔧 Tool #%d: Creating %s\n", i.summary.Tools, pathOrUnknown(tc.Write))
		case tc.Read != nil:
			fmt.Fprintf(i.w, "\n📖 Tool #%d: Reading %s\n", i.summary.Tools, pathOrUnknown(tc.Read))
		}

	case SubtypeCompleted:
		switch {
		case tc.Write != nil:
			if s := success(tc.Write); s != nil {
				fmt.Fprintf(i.w, " ✅ Created %d lines (%s)\n", s.LinesCreated, humanize.Bytes(uint64(max(s.FileSize, 0))))
			}
		case tc.Read != nil:
			if s := success(tc.Read); s != nil {
				fmt.Fprintf(i.w, " ✅ Read %d lines\n", s.TotalLines)
			}
		}
	}
}

// Summary returns a snapshot of what has been seen so far.
func (i *Interpreter) Summary() *Summary {
	s := i.summary
	s.Text = i.text.String()
	return &s
}

func (i *Interpreter) reset() {
	i.text.Reset()
	i.summary = Summary{}
	i.start = i.now()
}

func pathOrUnknown(inv *ToolInvocation) string {
	if inv.Args.Path == "" {
		return "unknown"
	}
	return inv.Args.Path
}

func success(inv *ToolInvocation) *ToolSuccess {
	if inv.Result == nil {
		return nil
	}
	return inv.Result.Success
}
