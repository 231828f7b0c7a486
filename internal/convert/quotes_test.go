/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import "testing"

var cjkPairs = map[string]string{"“": "”", "「": "」"}

func TestRemoveQuotesStripsMatchedPair(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"“你好”", "你好"},
		{"「おはよう」", "おはよう"},
		{"  “ 前后有空格 ”  ", "前后有空格"},
	}
	for _, c := range cases {
		if got := RemoveQuotes(c.in, cjkPairs); got != c.want {
			t.Fatalf("RemoveQuotes(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRemoveQuotesLeavesMismatched(t *testing.T) {
	cases := []string{
		"“只有开头",
		"只有结尾”",
		"“错配」",
		"没有引号",
	}
	for _, in := range cases {
		if got := RemoveQuotes(in, cjkPairs); got != in {
			t.Fatalf("RemoveQuotes(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestRemoveQuotesSinglePass(t *testing.T) {
	// Nested same-pair quotes keep their inner layer.
	got := RemoveQuotes("““双层””", cjkPairs)
	if got != "“双层”" {
		t.Fatalf("nested strip = %q, want one layer removed", got)
	}
	if again := RemoveQuotes(got, cjkPairs); again != "双层" {
		t.Fatalf("second pass = %q, want inner layer removed", again)
	}
}

func TestRemoveQuotesEdgeCases(t *testing.T) {
	if got := RemoveQuotes("  x  ", cjkPairs); got != "x" {
		t.Fatalf("short input must still be trimmed, got %q", got)
	}
	if got := RemoveQuotes("“有引号”", nil); got != "“有引号”" {
		t.Fatalf("empty pair set must leave quotes, got %q", got)
	}
	if got := RemoveQuotes("", cjkPairs); got != "" {
		t.Fatalf("empty input = %q, want empty", got)
	}
	// Idempotence on already-normalized text.
	if got := RemoveQuotes("早上好", cjkPairs); got != "早上好" {
		t.Fatalf("normalized text changed to %q", got)
	}
}

func TestActivePairs(t *testing.T) {
	pairs := ActivePairs([][]string{
		{"“", "”"},
		{"「"},
		nil,
		{`"`, `"`},
	})
	if len(pairs) != 2 {
		t.Fatalf("expected 2 valid pairs, got %v", pairs)
	}
	if pairs["“"] != "”" || pairs[`"`] != `"` {
		t.Fatalf("unexpected pair table: %v", pairs)
	}
}
