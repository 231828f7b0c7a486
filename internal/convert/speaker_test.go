/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"strings"
	"testing"
)

const testSpeakerPattern = `^([\p{L}\p{N}_\s]+?)\s*[：:]\s*(.*)$`

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(testSpeakerPattern, 50)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return m
}

func TestMatcherFullwidthAndASCIIColon(t *testing.T) {
	m := newTestMatcher(t)
	cases := []struct {
		line, speaker, content string
	}{
		{"高松灯：今天天气真好", "高松灯", "今天天气真好"},
		{"LAYER: let's go", "LAYER", "let's go"},
		{"  户山香澄 ： 大家好  ", "户山香澄", "大家好"},
		{"千早爱音：", "千早爱音", ""},
	}
	for _, c := range cases {
		speaker, content, ok := m.Match(c.line)
		if !ok {
			t.Fatalf("Match(%q) = no match", c.line)
		}
		if speaker != c.speaker || content != c.content {
			t.Fatalf("Match(%q) = (%q, %q), want (%q, %q)", c.line, speaker, content, c.speaker, c.content)
		}
	}
}

func TestMatcherNoMatch(t *testing.T) {
	m := newTestMatcher(t)
	for _, line := range []string{
		"这是一行没有冒号的旁白",
		"",
		"……",
	} {
		if _, _, ok := m.Match(line); ok {
			t.Fatalf("Match(%q) matched unexpectedly", line)
		}
	}
}

func TestMatcherNameLengthGuard(t *testing.T) {
	m, err := NewMatcher(testSpeakerPattern, 5)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if _, _, ok := m.Match("灯：短名字可以"); !ok {
		t.Fatalf("short name rejected")
	}
	// Guard is strict less-than, measured in runes.
	long := strings.Repeat("名", 5)
	if _, _, ok := m.Match(long + "：太长了"); ok {
		t.Fatalf("name of max length must be rejected")
	}
}

func TestNewMatcherFailsFast(t *testing.T) {
	if _, err := NewMatcher("([unclosed", 50); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := NewMatcher(`^(\w+)$`, 50); err == nil {
		t.Fatalf("expected group-count error for single-group pattern")
	}
	if _, err := NewMatcher(testSpeakerPattern, 0); err == nil {
		t.Fatalf("expected error for non-positive max name length")
	}
}
