// Package linear provides a synchronous, line-buffered renderer for terminals
// and CI logs.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/spvbuild/internal/core/ports"
	"go.trai.ch/spvbuild/internal/ui/output"
	"go.trai.ch/spvbuild/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer prints job progress in chronological order. Compiler stdout goes
// to stdout, prefixed with the job name; compiler diagnostics and status
// lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu       sync.Mutex
	plan     map[string]int
	planSize int
	jobs     map[string]*jobState // spanID -> job state
}

type jobState struct {
	name      string
	startTime time.Time
	out       bytes.Buffer
	diag      bytes.Buffer
}

func (j *jobState) buffer(stream ports.LogStream) *bytes.Buffer {
	if stream == ports.StreamStderr {
		return &j.diag
	}
	return &j.out
}

// NewRenderer creates a new Renderer. Nil writers select os.Stdout and
// os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		plan:   make(map[string]int),
		jobs:   make(map[string]*jobState),
	}
}

// SetOutput redirects compiler output and status lines.
func (r *Renderer) SetOutput(stdout, stderr io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stdout = stdout
	r.stderr = stderr
	r.output = output.NewWithProfile(stderr, output.ColorProfileANSI)
}

// Start is a no-op; the renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of jobs that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		r.flushLocked(job)
	}
	return nil
}

// Wait is a no-op; the renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the number of planned jobs and remembers their order.
func (r *Renderer) OnPlanEmit(jobs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plan = make(map[string]int, len(jobs))
	for i, name := range jobs {
		r.plan[name] = i + 1
	}
	r.planSize = len(jobs)

	_, _ = fmt.Fprintf(r.stderr, "Compiling %d shader(s)\n", len(jobs))
}

// OnJobStart prints a start line.
func (r *Renderer) OnJobStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[spanID] = &jobState{name: name, startTime: startTime}

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	if pos, ok := r.plan[name]; ok {
		_, _ = fmt.Fprintf(r.stderr, "%s Starting (%d/%d)...\n", prefix, pos, r.planSize)
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnJobLog prints every complete line in data and keeps the remainder until
// more output arrives or the job completes. Each stream is buffered on its
// own.
func (r *Renderer) OnJobLog(spanID string, stream ports.LogStream, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}

	buf := job.buffer(stream)
	buf.Write(data)
	for {
		idx := bytes.IndexByte(buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := buf.Next(idx + 1)
		r.printLineLocked(job.name, stream, line)
	}
}

// OnJobComplete flushes remaining output and prints the job's outcome.
func (r *Renderer) OnJobComplete(spanID string, endTime time.Time, err error, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}
	r.flushLocked(job)
	delete(r.jobs, spanID)

	duration := endTime.Sub(job.startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s]", job.name)

	switch {
	case err != nil:
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
	case cached:
		symbol := r.output.String(style.Tilde).Foreground(termenv.ANSIYellow).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Cached\n", prefix, symbol)
	default:
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
	}
}

// flushLocked prints trailing partial lines. Must be called with r.mu held.
func (r *Renderer) flushLocked(job *jobState) {
	for _, stream := range []ports.LogStream{ports.StreamStdout, ports.StreamStderr} {
		buf := job.buffer(stream)
		if buf.Len() > 0 {
			r.printLineLocked(job.name, stream, buf.Bytes())
			buf.Reset()
		}
	}
}

// printLineLocked prints a line with the job name prefix. Diagnostics go to
// stderr in the error color. Must be called with r.mu held.
func (r *Renderer) printLineLocked(name string, stream ports.LogStream, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	if stream == ports.StreamStderr {
		text := r.output.String(string(line)).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "[%s] %s\n", name, text)
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
