// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/findrep/pkg/process"
)

// 🎯 Logger writes run results to the console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FormatElapsed renders a duration as fractional seconds at float32 precision.
func FormatElapsed(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 32)
}

// 📝 Report prints the summary of a finished run
func (l *Logger) Report(r *process.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	red := color.New(color.FgRed)
	blue := color.New(color.FgBlue)
	green := color.New(color.FgGreen)

	fmt.Fprintf(l.console, "Replaced %s with %s on %s out of %s lines \n in %s seconds\n",
		red.Sprint(r.Search),
		blue.Sprint(r.Replace),
		red.Sprint(strconv.Itoa(r.Changed)),
		green.Sprint(strconv.Itoa(r.Lines)),
		green.Sprint(FormatElapsed(r.Elapsed)))
	fmt.Fprintf(l.console, "File written to %s\n", green.Sprint(r.Output))

	l.zlog.Info().
		Str("search", r.Search).
		Str("replace", r.Replace).
		Int("lines", r.Lines).
		Int("changed", r.Changed).
		Int("replacements", r.Replacements).
		Dur("elapsed", r.Elapsed).
		Str("output", r.Output).
		Msg("replacement complete")
}

// ❌ Failure prints an error that ended the run
func (l *Logger) Failure(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	printer := pterm.Error.
		WithPrefix(pterm.Prefix{Text: "Error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgLightWhite)}).
		WithWriter(l.console)
	printer.Println(err.Error())

	l.zlog.Error().Err(err).Msg("run failed")
}
