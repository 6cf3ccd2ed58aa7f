// Package faults converts uncaught generation failures into compact,
// sanitized diagnostics. Raw panic traces are never surfaced to the user:
// frames outside this module are collapsed so the diagnostic shows only the
// parts a user can act on.
package faults

import (
	"fmt"
	"runtime"
	"strings"
)

// modulePrefix identifies our own call frames in a trail.
const modulePrefix = "github.com/lorenzotomasini/guardrail"

// ellipsis replaces each run of consecutive foreign frames.
const ellipsis = "  ..."

// Frame is one entry of a fault's call trail, outermost first.
type Frame struct {
	Function string
	File     string
	Line     int
}

// ExecutionFaultError is the sanitized form of an unstructured generation
// failure. It carries the spec path that was being processed, the original
// failure's summary, and the filtered frame trail.
type ExecutionFaultError struct {
	SpecPath string
	Summary  string
	Trace    []string
}

func (e *ExecutionFaultError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error generating from spec %s: %s", e.SpecPath, e.Summary)
	for _, line := range e.Trace {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

// Sanitize filters a raw fault's frame trail into a bounded diagnostic.
// Frames belonging to this module produce one formatted line each; each run
// of consecutive foreign frames collapses into a single ellipsis marker.
func Sanitize(specPath, summary string, frames []Frame) *ExecutionFaultError {
	var trace []string
	foreignRun := false
	for _, f := range frames {
		if strings.HasPrefix(f.Function, modulePrefix) {
			trace = append(trace, fmt.Sprintf("  at %s (%s:%d)", f.Function, f.File, f.Line))
			foreignRun = false
			continue
		}
		if !foreignRun {
			trace = append(trace, ellipsis)
			foreignRun = true
		}
	}

	return &ExecutionFaultError{
		SpecPath: specPath,
		Summary:  summary,
		Trace:    trace,
	}
}

// Capture recovers the current goroutine's call trail, outermost frame
// first, skipping the given number of innermost callers.
func Capture(skip int) []Frame {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	// runtime yields innermost first; the sanitizer wants outermost first.
	iter := runtime.CallersFrames(pcs[:n])
	var inner []Frame
	for {
		f, more := iter.Next()
		inner = append(inner, Frame{Function: f.Function, File: f.File, Line: f.Line})
		if !more {
			break
		}
	}
	out := make([]Frame, len(inner))
	for i, f := range inner {
		out[len(inner)-1-i] = f
	}
	return out
}

// Boundary runs fn under a fault boundary for the given spec path. Panics
// are recovered and sanitized; errors that the classifier does not
// recognize as typed failures are wrapped the same way. Typed failures pass
// through untouched.
func Boundary(specPath string, typed func(error) bool, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Sanitize(specPath, fmt.Sprint(r), Capture(2))
		}
	}()

	err = fn()
	if err != nil && !typed(err) {
		err = Sanitize(specPath, err.Error(), nil)
	}
	return err
}
