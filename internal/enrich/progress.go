package enrich

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Event is a single progress update during an enrichment run.
type Event struct {
	Type      string // "info", "step", "warn"
	Candidate int
	Total     int
	Message   string
}

// Emitter receives progress events.
type Emitter interface {
	Emit(ev Event)
	Close()
}

// TextEmitter formats progress events as plain lines, one per event.
type TextEmitter struct {
	W io.Writer
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev Event) {
	switch ev.Type {
	case "step":
		fmt.Fprintf(e.W, "[%d/%d] %s\n", ev.Candidate, ev.Total, ev.Message)
	case "warn":
		fmt.Fprintf(e.W, "Warning: %s\n", ev.Message)
	default:
		fmt.Fprintf(e.W, "%s\n", ev.Message)
	}
}

// Close is a no-op for text output.
func (e *TextEmitter) Close() {}

// SpinnerEmitter shows progress on an interactive terminal.
type SpinnerEmitter struct {
	s *spinner.Spinner
	w io.Writer
}

// NewStderrEmitter returns a spinner-backed emitter when stderr is a TTY
// and a plain text emitter otherwise.
func NewStderrEmitter() Emitter {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return &TextEmitter{W: os.Stderr}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	_ = s.Color("cyan")
	return &SpinnerEmitter{s: s, w: os.Stderr}
}

// Emit updates the spinner suffix; warnings interrupt the spinner so they
// stay visible.
func (e *SpinnerEmitter) Emit(ev Event) {
	switch ev.Type {
	case "step":
		e.s.Suffix = fmt.Sprintf(" [%d/%d] %s", ev.Candidate, ev.Total, ev.Message)
		if !e.s.Active() {
			e.s.Start()
		}
	case "warn":
		e.s.Stop()
		fmt.Fprintf(e.w, "Warning: %s\n", ev.Message)
		e.s.Start()
	default:
		e.s.Stop()
		fmt.Fprintf(e.w, "%s\n", ev.Message)
		e.s.Start()
	}
}

// Close stops the spinner.
func (e *SpinnerEmitter) Close() {
	e.s.Stop()
}

// nopEmitter discards events; used when no emitter is configured.
type nopEmitter struct{}

func (nopEmitter) Emit(Event) {}
func (nopEmitter) Close()     {}
