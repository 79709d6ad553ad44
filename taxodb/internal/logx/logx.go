// Package logx carries the logger handle and stopwatch that every component
// receives at construction.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

// Logger writes tagged messages. Verbose messages go to out and are dropped
// unless verbose is on; warnings and errors go to errOut.
type Logger struct {
	out      io.Writer
	errOut   io.Writer
	verbose  bool
	warnings atomic.Int64

	verboseTag *color.Color
	warnTag    *color.Color
	errorTag   *color.Color
}

// Options configures a Logger.
type Options struct {
	Out     io.Writer
	ErrOut  io.Writer
	Verbose bool
	Color   bool
}

func New(opts Options) *Logger {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	l := &Logger{
		out:        opts.Out,
		errOut:     opts.ErrOut,
		verbose:    opts.Verbose,
		verboseTag: color.New(color.FgCyan),
		warnTag:    color.New(color.FgYellow, color.Bold),
		errorTag:   color.New(color.FgRed, color.Bold),
	}
	if opts.Color {
		l.verboseTag.EnableColor()
		l.warnTag.EnableColor()
		l.errorTag.EnableColor()
	} else {
		l.verboseTag.DisableColor()
		l.warnTag.DisableColor()
		l.errorTag.DisableColor()
	}
	return l
}

// Discard returns a logger that prints nothing but still counts warnings.
func Discard() *Logger {
	return New(Options{Out: io.Discard, ErrOut: io.Discard})
}

func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

func (l *Logger) Verbosef(format string, args ...any) {
	if !l.Verbose() {
		return
	}
	l.print(l.out, l.verboseTag, "[VERBOSE]", format, args...)
}

// Warnf reports a non-fatal condition and counts it.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.warnings.Add(1)
	l.print(l.errOut, l.warnTag, "[WARNING]", format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.print(l.errOut, l.errorTag, "[ERROR]", format, args...)
}

// Printf writes an untagged line to out regardless of verbosity.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	_, _ = fmt.Fprintf(l.out, format+"\n", args...)
}

// Warnings returns how many warnings were emitted so far.
func (l *Logger) Warnings() int64 {
	if l == nil {
		return 0
	}
	return l.warnings.Load()
}

func (l *Logger) print(w io.Writer, tag *color.Color, label, format string, args ...any) {
	if format == "" {
		format = "No message"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", tag.Sprint(label), fmt.Sprintf(format, args...))
}
