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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func disableStyling(t *testing.T) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		args       func(dir string) []string
		setup      func(t *testing.T, dir string)
		wantCode   int
		wantStdout []string
		wantStderr []string
		wantOutput *string
	}{
		{
			name:  "case_insensitive",
			input: "apple pie\nbanana\nAPPLE tart\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "out.txt"), "-s", "apple", "-r", "orange"}
			},
			wantStdout: []string{
				"Replaced apple with orange on 2 out of 3 lines",
				"File written to ",
			},
			wantOutput: ptr("orange pie\nbanana\norange tart\n"),
		},
		{
			name:  "case_sensitive_long_flags",
			input: "apple pie\nbanana\nAPPLE tart\n",
			args: func(dir string) []string {
				return []string{"--input", filepath.Join(dir, "in.txt"), "--output", filepath.Join(dir, "out.txt"), "--search", "apple", "--replace", "orange", "--case-sensitive"}
			},
			wantStdout: []string{"on 1 out of 3 lines"},
			wantOutput: ptr("orange pie\nbanana\nAPPLE tart\n"),
		},
		{
			name:  "preserve_case",
			input: "Big APPLE Tart\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "out.txt"), "-s", "apple", "-r", "orange", "-p"}
			},
			wantOutput: ptr("Big orange Tart\n"),
		},
		{
			name:  "empty_replace_value",
			input: "a-b\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "out.txt"), "-s", "-", "-r", ""}
			},
			wantOutput: ptr("ab\n"),
		},
		{
			name:  "missing_required_flags",
			input: "x\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt")}
			},
			wantCode:   1,
			wantStderr: []string{`required flag(s) "output", "search", "replace" not set`},
		},
		{
			name: "missing_input",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "missing.txt"), "-o", filepath.Join(dir, "out.txt"), "-s", "a", "-r", "b"}
			},
			wantCode:   1,
			wantStderr: []string{"opening input file"},
		},
		{
			name:  "output_create_failure_is_reported",
			input: "apple\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "nope", "out.txt"), "-s", "apple", "-r", "orange"}
			},
			wantCode:   0,
			wantStdout: []string{"Error", "creating output file"},
		},
		{
			name:  "output_create_failure_strict",
			input: "apple\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "nope", "out.txt"), "-s", "apple", "-r", "orange", "--strict"}
			},
			wantCode:   1,
			wantStderr: []string{"creating output file"},
		},
		{
			name:  "invalid_utf8",
			input: "ok\n\xff\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "out.txt"), "-s", "a", "-r", "b"}
			},
			wantCode:   1,
			wantStderr: []string{"reading line 2"},
		},
		{
			name:  "in_place_rejected",
			input: "apple\n",
			args: func(dir string) []string {
				return []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "in.txt"), "-s", "apple", "-r", "orange"}
			},
			wantCode:   1,
			wantStderr: []string{"must be different files"},
		},
		{
			name:  "job_file_with_override",
			input: "Apple\n",
			setup: func(t *testing.T, dir string) {
				job := `
input   = "` + filepath.Join(dir, "in.txt") + `"
output  = "` + filepath.Join(dir, "ignored.txt") + `"
search  = "apple"
replace = "pear"
`
				require.NoError(t, os.WriteFile(filepath.Join(dir, "job.hcl"), []byte(job), 0o644))
			},
			args: func(dir string) []string {
				return []string{"--config", filepath.Join(dir, "job.hcl"), "-o", filepath.Join(dir, "out.txt"), "-c"}
			},
			wantStdout: []string{"on 0 out of 1 lines"},
			wantOutput: ptr("Apple\n"),
		},
		{
			name:  "job_file_missing_keys",
			input: "x\n",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "job.yaml"), []byte("search: x\n"), 0o644))
			},
			args: func(dir string) []string {
				return []string{"--config", filepath.Join(dir, "job.yaml"), "-i", filepath.Join(dir, "in.txt")}
			},
			wantCode:   1,
			wantStderr: []string{`required flag(s) "output", "replace" not set in flags or`},
		},
		{
			name: "unexpected_argument",
			args: func(dir string) []string {
				return []string{"stray"}
			},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disableStyling(t)

			dir := t.TempDir()
			if tt.input != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte(tt.input), 0o644), "writing input file")
			}
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			code := execute(context.Background(), append(tt.args(dir), "-q"), stdout, stderr)

			assert.Equal(t, tt.wantCode, code, "exit code should match (stderr: %s)", stderr.String())
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr.String(), want)
			}
			if tt.wantOutput != nil {
				data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
				require.NoError(t, err, "reading output file")
				assert.Equal(t, *tt.wantOutput, string(data))
			}
			if tt.wantCode != 0 {
				assert.NotContains(t, stdout.String(), "File written to")
			}
		})
	}
}

func TestExecuteMissingInputLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.txt")

	code := execute(context.Background(), []string{"-i", filepath.Join(dir, "missing.txt"), "-o", output, "-s", "a", "-r", "b", "-q"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, 1, code)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err), "output file should not be created")
}

func TestExecuteDebugLogging(t *testing.T) {
	disableStyling(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte("a\n"), 0o644))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := execute(context.Background(), []string{"-i", filepath.Join(dir, "in.txt"), "-o", filepath.Join(dir, "out.txt"), "-s", "a", "-r", "b", "--debug"}, stdout, stderr)
	require.Equal(t, 0, code)

	assert.Contains(t, stderr.String(), "starting run")
	assert.Contains(t, stderr.String(), "run finished")
	assert.Contains(t, stdout.String(), "Replaced a with b on 1 out of 1 lines")
}

func TestVersionCommand(t *testing.T) {
	stdout := &bytes.Buffer{}
	code := execute(context.Background(), []string{"version", "--json"}, stdout, &bytes.Buffer{})
	require.Equal(t, 0, code)

	var info VersionInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)

	stdout.Reset()
	code = execute(context.Background(), []string{"version"}, stdout, &bytes.Buffer{})
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "findrep ")
}

func ptr[T any](v T) *T {
	return &v
}
