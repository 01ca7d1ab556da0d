// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package rvmlog provides the opt-in trace sink shared by the execution
// engine, the disassembler sweep, and the debugger driver. Nothing is
// logged unless a caller installs a Logger and enables it; the default
// is a silent no-op so library consumers never pay for tracing they
// didn't ask for.
package rvmlog

// Logger receives trace lines from the toolchain's core packages.
type Logger interface {
	Log(msg string)
}

type noopLogger struct{}

func (l *noopLogger) Log(msg string) {}

var (
	defaultLogger Logger = &noopLogger{}
	logger               = defaultLogger

	enabled = false
)

// SetLogger installs impl as the trace sink. Passing nil restores the
// no-op default.
func SetLogger(impl Logger) {
	if impl == nil {
		logger = defaultLogger
	} else {
		logger = impl
	}
}

// SetEnabled turns tracing on or off without disturbing the installed
// Logger.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether tracing is currently turned on.
func Enabled() bool {
	return enabled
}

// Log forwards msg to the installed Logger if tracing is enabled.
func Log(msg string) {
	if enabled {
		logger.Log(msg)
	}
}
