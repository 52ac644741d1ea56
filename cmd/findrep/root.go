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

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/findrep/pkg/config"
	"github.com/walteh/findrep/pkg/log"
	"github.com/walteh/findrep/pkg/process"
	"gitlab.com/tozd/go/errors"
)

// requiredFlags must be given on the command line unless a job file sets them.
var requiredFlags = []string{"input", "output", "search", "replace"}

// rootOpts holds everything parsed from the command line
type rootOpts struct {
	cfg        config.Config
	configFile string
	strict     bool
	debug      bool
	quiet      bool
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.New(stderr, zerolog.Nop()).Failure(err)
		return 1
	}
	return 0
}

// newRootCmd creates the findrep command
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "findrep",
		Short: "Replace a substring on every line of a text file",
		Long: `findrep reads an input file line by line, replaces every occurrence of a
search term on matching lines and writes all lines to an output file.

Matching is case-insensitive unless --case-sensitive is given. In
case-insensitive mode matching lines are lowercased before replacement;
use --preserve-case to only rewrite the matched text.`,
		Example: `  findrep -i notes.txt -o notes.new.txt -s apple -r orange
  findrep -i notes.txt -o notes.new.txt -s Apple -r Orange --case-sensitive
  findrep --config job.hcl --output other.txt`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(o.setupLogging(cmd.Context(), stdout, stderr))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addRootFlags(cmd, o)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// addRootFlags adds the run flags to the root command
func addRootFlags(cmd *cobra.Command, o *rootOpts) {
	flags := cmd.Flags()
	flags.StringVarP(&o.cfg.Input, "input", "i", "", "the input file to read from")
	flags.StringVarP(&o.cfg.Output, "output", "o", "", "the output file to write to")
	flags.StringVarP(&o.cfg.Search, "search", "s", "", "the string to search for")
	flags.StringVarP(&o.cfg.Replace, "replace", "r", "", "the string to replace with")
	flags.BoolVarP(&o.cfg.CaseSensitive, "case-sensitive", "c", false, "case sensitive search")
	flags.BoolVarP(&o.cfg.PreserveCase, "preserve-case", "p", false, "keep the casing of unmatched text in case-insensitive mode")
	flags.StringVar(&o.configFile, "config", "", "job file (.hcl, .yaml, .yml or .json) supplying defaults for the flags above")
	flags.BoolVar(&o.strict, "strict", false, "exit with an error when the output file cannot be created")

	cmd.PersistentFlags().BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&o.quiet, "quiet", "q", false, "disable structured logging")
}

// setupLogging stores the zerolog and console loggers in the context
func (o *rootOpts) setupLogging(ctx context.Context, stdout, stderr io.Writer) context.Context {
	level := zerolog.WarnLevel
	switch {
	case o.quiet:
		level = zerolog.Disabled
	case o.debug:
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(stdout, zlog))
}

// resolveConfig merges the job file, if any, with the flags that were set
func (o *rootOpts) resolveConfig(ctx context.Context, flags *pflag.FlagSet) (config.Config, error) {
	if o.configFile == "" {
		if missing := missingFlags(flags, nil); len(missing) > 0 {
			return config.Config{}, errors.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
		}
		return o.cfg, nil
	}

	file, err := config.Load(ctx, o.configFile)
	if err != nil {
		return config.Config{}, errors.Errorf("loading config: %w", err)
	}
	if missing := missingFlags(flags, file); len(missing) > 0 {
		return config.Config{}, errors.Errorf("required flag(s) %s not set in flags or %s", strings.Join(missing, ", "), o.configFile)
	}

	var cfg config.Config
	file.Apply(&cfg)

	if flags.Changed("input") {
		cfg.Input = o.cfg.Input
	}
	if flags.Changed("output") {
		cfg.Output = o.cfg.Output
	}
	if flags.Changed("search") {
		cfg.Search = o.cfg.Search
	}
	if flags.Changed("replace") {
		cfg.Replace = o.cfg.Replace
	}
	if flags.Changed("case-sensitive") {
		cfg.CaseSensitive = o.cfg.CaseSensitive
	}
	if flags.Changed("preserve-case") {
		cfg.PreserveCase = o.cfg.PreserveCase
	}

	return cfg, nil
}

// missingFlags lists the required flags set neither on the command line nor in file
func missingFlags(flags *pflag.FlagSet, file *config.File) []string {
	var missing []string
	for _, name := range requiredFlags {
		if flags.Changed(name) || (file != nil && file.IsSet(name)) {
			continue
		}
		missing = append(missing, fmt.Sprintf("%q", name))
	}
	return missing
}

// run performs one find-and-replace pass and prints its report
func (o *rootOpts) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	console := log.FromContext(ctx)

	cfg, err := o.resolveConfig(ctx, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	report, err := process.Process(ctx, cfg)
	if err != nil {
		var createErr *process.OutputCreateError
		if errors.As(err, &createErr) && !o.strict {
			console.Failure(err)
			return nil
		}
		return err
	}

	console.Report(report)
	return nil
}
