/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Matcher recognizes speaker lines of the form <speaker><separator><content>.
// The pattern must expose at least two capture groups: speaker and content.
// A syntactic match is still rejected when the trimmed speaker name reaches
// maxNameLength runes, which guards against narration lines that merely
// contain a colon.
type Matcher struct {
	re            *regexp.Regexp
	maxNameLength int
}

// NewMatcher compiles the speaker pattern. Compile errors surface here, at
// construction time, never per line.
func NewMatcher(pattern string, maxNameLength int) (*Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("speaker pattern: %w", err)
	}
	if re.NumSubexp() < 2 {
		return nil, fmt.Errorf("speaker pattern needs speaker and content groups: %q", pattern)
	}
	if maxNameLength <= 0 {
		return nil, fmt.Errorf("max speaker name length must be positive, got %d", maxNameLength)
	}
	return &Matcher{re: re, maxNameLength: maxNameLength}, nil
}

// Match reports the (speaker, content) pair for a speaker line, or ok=false
// when the line is a continuation or narration. "No match" is a normal
// outcome, never an error.
func (m *Matcher) Match(line string) (speaker, content string, ok bool) {
	groups := m.re.FindStringSubmatch(strings.TrimSpace(line))
	if groups == nil {
		return "", "", false
	}
	speaker = strings.TrimSpace(groups[1])
	if utf8.RuneCountInString(speaker) >= m.maxNameLength {
		return "", "", false
	}
	return speaker, groups[2], true
}
