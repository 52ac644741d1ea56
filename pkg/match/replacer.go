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

package match

// Replacer applies one search/replace pair to lines in a fixed case mode.
type Replacer struct {
	Search        string
	Replacement   string
	CaseSensitive bool
	// PreserveCase keeps the casing of unmatched text in case-insensitive
	// mode. It has no effect when CaseSensitive is set.
	PreserveCase bool
}

// NewReplacer creates a Replacer for the given pair.
func NewReplacer(search, replace string, caseSensitive bool) *Replacer {
	return &Replacer{
		Search:        search,
		Replacement:   replace,
		CaseSensitive: caseSensitive,
	}
}

// Match reports whether line contains the search term.
func (r *Replacer) Match(line string) bool {
	return Matches(line, r.Search, r.CaseSensitive)
}

// Replace returns line with every occurrence of the search term substituted.
func (r *Replacer) Replace(line string) string {
	if !r.CaseSensitive && r.PreserveCase {
		return ReplaceAllPreserveCase(line, r.Search, r.Replacement)
	}
	return ReplaceAll(line, r.Search, r.Replacement, r.CaseSensitive)
}

// Count returns how many occurrences of the search term line holds.
func (r *Replacer) Count(line string) int {
	return Count(line, r.Search, r.CaseSensitive)
}
