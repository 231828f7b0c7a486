/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"strings"
	"testing"
)

func TestNewTalkActionDefaults(t *testing.T) {
	a := NewTalkAction(nil, "户山香澄", "你好")
	if a.Type != "talk" || !a.Wait || a.Delay != 0 || a.Close {
		t.Fatalf("unexpected defaults: %+v", a)
	}
	if a.Characters == nil || a.Motions == nil || a.Voices == nil {
		t.Fatalf("slices must be non-nil: %+v", a)
	}
	data, err := EncodeJSON(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"characters": []`) {
		t.Fatalf("empty characters must encode as [], got %s", s)
	}
	if strings.Contains(s, "null") {
		t.Fatalf("talk action must not contain null: %s", s)
	}
}

func TestTalkActionKeyOrder(t *testing.T) {
	a := NewTalkAction([]int{1}, "香澄", "……")
	data, err := EncodeJSON(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(data)
	order := []string{`"type"`, `"delay"`, `"wait"`, `"characters"`, `"name"`, `"body"`, `"motions"`, `"voices"`, `"close"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(s, key)
		if idx < 0 {
			t.Fatalf("missing key %s in %s", key, s)
		}
		if idx < last {
			t.Fatalf("key %s out of order in %s", key, s)
		}
		last = idx
	}
}

func TestNewLayoutActionMirrorsSides(t *testing.T) {
	a := NewLayoutAction(5, "005_casual-2023", SideCenter, 0)
	if a.SideFrom != a.SideTo || a.SideFromOffsetX != a.SideToOffsetX {
		t.Fatalf("appear layout must mirror from/to: %+v", a)
	}
	if a.LayoutType != "appear" || !a.Wait {
		t.Fatalf("unexpected defaults: %+v", a)
	}
}

func TestEncodeJSONKeepsLiteralText(t *testing.T) {
	a := NewTalkAction([]int{1}, "香澄", `她说："早上好"<完>`)
	data, err := EncodeJSON(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(data)
	if strings.Contains(s, `\u`) {
		t.Fatalf("output must not escape non-ASCII or HTML: %s", s)
	}
	if !strings.Contains(s, "<完>") {
		t.Fatalf("angle brackets must stay literal: %s", s)
	}
	if strings.HasSuffix(s, "\n") {
		t.Fatalf("output must not carry a trailing newline")
	}
}

func TestConversionResultNullSettings(t *testing.T) {
	res := NewConversionResult()
	data, err := EncodeJSON(res)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"background": null`) || !strings.Contains(s, `"bgm": null`) {
		t.Fatalf("unset background/bgm must encode as null: %s", s)
	}
	if !strings.Contains(s, `"actions": []`) {
		t.Fatalf("empty actions must encode as []: %s", s)
	}
}
