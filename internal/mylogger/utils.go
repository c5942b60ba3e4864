package mylogger

import (
	"path/filepath"
	"runtime"
)

// captureFrames collects stack trace frames above the logging call site.
func captureFrames(skip, depth int) []stackFrame {
	pc := make([]uintptr, depth)
	n := runtime.Callers(skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var stack []stackFrame
	for {
		frame, more := frames.Next()
		stack = append(stack, stackFrame{
			Func:   filepath.Base(frame.Function),
			Source: filepath.Join(filepath.Base(filepath.Dir(frame.File)), filepath.Base(frame.File)),
			Line:   frame.Line,
		})
		if !more {
			break
		}
	}
	return stack
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}
