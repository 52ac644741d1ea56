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

// Package process runs one find-and-replace pass from an input file to an
// output file.
//
// Every line read produces exactly one line written, in order. Lines are
// split on '\n' with a preceding '\r' removed, and every written line ends
// in a single '\n'.
package process

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	units "github.com/docker/go-units"
	"github.com/rs/zerolog"
	"github.com/walteh/findrep/pkg/config"
	"github.com/walteh/findrep/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidUTF8 is returned when a line is not valid UTF-8.
var ErrInvalidUTF8 = errors.Base("stream did not contain valid UTF-8")

// 📊 Report summarizes a completed run
type Report struct {
	Input        string        // Path that was read
	Output       string        // Path that was written
	Search       string        // Term that was searched for
	Replace      string        // Term that was substituted
	Lines        int           // Lines processed
	Changed      int           // Lines that matched the search term
	Replacements int           // Occurrences substituted across all lines
	BytesRead    int64         // Bytes consumed from the input
	BytesWritten int64         // Bytes written to the output
	Elapsed      time.Duration // Wall-clock time of the run
}

// OutputCreateError reports that the output file could not be created. The
// input was opened but no line was read.
type OutputCreateError struct {
	Path string
	Err  error
}

func (e *OutputCreateError) Error() string {
	return "creating output file " + e.Path + ": " + e.Err.Error()
}

func (e *OutputCreateError) Unwrap() error {
	return e.Err
}

type options struct {
	now func() time.Time
}

// Option configures Process.
type Option func(*options)

// WithClock replaces time.Now for elapsed time measurement.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// 🏃 Process reads cfg.Input line by line and writes every line, with the
// search term replaced on matching lines, to cfg.Output.
//
// A failure to create the output is returned as *OutputCreateError so callers
// can treat it apart from read and write failures.
func Process(ctx context.Context, cfg config.Config, opts ...Option) (*Report, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	start := o.now()

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("config", cfg.String()).Msg("starting run")

	in, err := os.Open(cfg.Input)
	if err != nil {
		return nil, errors.Errorf("opening input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(cfg.Output)
	if err != nil {
		return nil, &OutputCreateError{Path: cfg.Output, Err: err}
	}
	defer out.Close()

	replacer := match.NewReplacer(cfg.Search, cfg.Replace, cfg.CaseSensitive)
	replacer.PreserveCase = cfg.PreserveCase

	report := &Report{
		Input:   cfg.Input,
		Output:  cfg.Output,
		Search:  cfg.Search,
		Replace: cfg.Replace,
	}

	if err := Stream(ctx, in, out, replacer, report); err != nil {
		return nil, err
	}

	if err := out.Close(); err != nil {
		return nil, errors.Errorf("closing output file: %w", err)
	}

	report.Elapsed = o.now().Sub(start)

	logger.Debug().
		Str("read", units.HumanSize(float64(report.BytesRead))).
		Str("written", units.HumanSize(float64(report.BytesWritten))).
		Int("lines", report.Lines).
		Int("changed", report.Changed).
		Dur("elapsed", report.Elapsed).
		Msg("run finished")

	return report, nil
}

// 🔄 Stream copies lines from r to w, replacing matches with rep, and
// accumulates counters into report. Output is buffered and flushed before
// Stream returns, including when it fails partway, so every line processed
// before the failure reaches w.
func Stream(ctx context.Context, r io.Reader, w io.Writer, rep *match.Replacer, report *Report) (err error) {
	logger := zerolog.Ctx(ctx)
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer func() {
		if err != nil {
			_ = bw.Flush()
		}
	}()

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("processing line %d: %w", n, err)
		}

		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return errors.Errorf("reading line %d: %w", n, readErr)
		}
		if raw == "" {
			break
		}
		report.BytesRead += int64(len(raw))

		line := raw
		if strings.HasSuffix(line, "\n") {
			line = strings.TrimSuffix(line[:len(line)-1], "\r")
		}
		if !utf8.ValidString(line) {
			return errors.Errorf("reading line %d: %w", n, ErrInvalidUTF8)
		}

		if rep.Match(line) {
			report.Replacements += rep.Count(line)
			line = rep.Replace(line)
			report.Changed++
			logger.Debug().Int("line", n).Msg("replaced")
		}

		if _, err := bw.WriteString(line); err != nil {
			return errors.Errorf("writing line %d: %w", n, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Errorf("writing line %d: %w", n, err)
		}
		report.BytesWritten += int64(len(line) + 1)
		report.Lines++

		if readErr != nil {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Errorf("flushing output: %w", err)
	}
	return nil
}
