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

// Package match decides whether a line contains a search term and rewrites
// the line with every occurrence substituted.
//
// Two case modes are supported. Case-sensitive mode compares bytes exactly.
// Case-insensitive mode lowercases both the line and the search term before
// comparing, and [ReplaceAll] builds its result from the lowercased line, so
// casing outside the matched spans is lost. [ReplaceAllPreserveCase] is the
// alternative that only rewrites the matched spans.
//
// An empty search term matches every line. Replacing an empty term inserts
// the replacement before the first rune, between every pair of runes and
// after the last rune, the same as [strings.ReplaceAll] does.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matches reports whether line contains search.
func Matches(line, search string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(line, search)
	}
	return strings.Contains(strings.ToLower(line), strings.ToLower(search))
}

// ReplaceAll substitutes every non-overlapping occurrence of search in line
// with replace, scanning left to right.
//
// In case-insensitive mode the whole line is lowercased first.
func ReplaceAll(line, search, replace string, caseSensitive bool) string {
	if caseSensitive {
		return strings.ReplaceAll(line, search, replace)
	}
	return strings.ReplaceAll(strings.ToLower(line), strings.ToLower(search), replace)
}

// ReplaceAllPreserveCase substitutes every occurrence of search in line,
// compared case-insensitively, leaving the text between matches untouched.
func ReplaceAllPreserveCase(line, search, replace string) string {
	needle := []rune(strings.ToLower(search))
	if len(needle) == 0 {
		return strings.ReplaceAll(line, "", replace)
	}

	var b strings.Builder
	b.Grow(len(line))

	last := 0
	for i := 0; i < len(line); {
		if n := foldedPrefixLen(line[i:], needle); n > 0 {
			b.WriteString(line[last:i])
			b.WriteString(replace)
			i += n
			last = i
			continue
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
	}
	if last == 0 {
		return line
	}
	b.WriteString(line[last:])
	return b.String()
}

// Count returns the number of non-overlapping occurrences of search in line.
// For an empty search it returns one more than the rune count of line.
func Count(line, search string, caseSensitive bool) int {
	if caseSensitive {
		return strings.Count(line, search)
	}
	return strings.Count(strings.ToLower(line), strings.ToLower(search))
}

// foldedPrefixLen returns the byte length of the prefix of s whose lowercase
// runes equal needle, or 0 when s does not start with needle.
func foldedPrefixLen(s string, needle []rune) int {
	n := 0
	for _, want := range needle {
		if n >= len(s) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(s[n:])
		if unicode.ToLower(r) != want {
			return 0
		}
		n += size
	}
	return n
}
