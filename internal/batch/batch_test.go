/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package batch

import (
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"bestdoriconv/internal/convert"
)

func testEngine(t *testing.T) Engine {
	t.Helper()
	m, err := convert.NewMatcher(`^([\p{L}\p{N}_\s]+?)\s*[：:]\s*(.*)$`, 50)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return Engine{
		Matcher:         m,
		NarratorDefault: " ",
		CharacterMapping: map[string][]int{
			"高松灯": {36},
			"要乐奈": {38},
		},
		DefaultCostumes: map[int]string{36: "036_casual-2023"},
		OutputIDRemap:   map[int]int{337: 1},
	}
}

func waitCompleted(t *testing.T, p *Processor, taskID string) Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, ok := p.Status(taskID)
		if !ok {
			t.Fatalf("task %s vanished", taskID)
		}
		if snap.Status == StatusCompleted {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s did not complete in time", taskID)
	return Snapshot{}
}

func TestBatchConvertsFiles(t *testing.T) {
	p := NewProcessor()
	taskID, err := p.Start(testEngine(t), []FileInput{
		{Name: "scene1.txt", Content: "高松灯：你好\n要乐奈：嗯"},
		{Name: "scene2.txt", Content: "要乐奈：再见"},
	}, Options{NarratorName: " "})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := waitCompleted(t, p, taskID)
	if len(snap.Results) != 2 || len(snap.Errors) != 0 {
		t.Fatalf("results=%d errors=%v", len(snap.Results), snap.Errors)
	}
	if snap.Progress != 100 {
		t.Fatalf("progress = %v, want 100", snap.Progress)
	}
	names := map[string]string{}
	for _, r := range snap.Results {
		names[r.Name] = r.Content
	}
	content, ok := names["scene1.json"]
	if !ok {
		t.Fatalf("missing renamed result, got %v", snap.Results)
	}
	actions := gjson.Get(content, "actions").Array()
	if len(actions) != 2 || actions[0].Get("name").String() != "高松灯" {
		t.Fatalf("unexpected conversion output: %s", content)
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	p := NewProcessor()
	taskID, err := p.Start(testEngine(t), []FileInput{
		{Name: "good.txt", Content: "高松灯：你好"},
		{Name: "bad.docx", Content: "binary", Encoding: "base64"},
	}, Options{NarratorName: " "})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := waitCompleted(t, p, taskID)
	if len(snap.Results) != 1 {
		t.Fatalf("good file must still convert, results=%v", snap.Results)
	}
	if len(snap.Errors) != 1 || !strings.Contains(snap.Errors[0], "bad.docx") {
		t.Fatalf("errors must name the failed file: %v", snap.Errors)
	}
	var sawError bool
	for _, line := range snap.Logs {
		if strings.HasPrefix(line, "[ERROR]") {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("logs must record the failure: %v", snap.Logs)
	}
}

func TestBatchRejectsEmptyFileList(t *testing.T) {
	p := NewProcessor()
	if _, err := p.Start(testEngine(t), nil, Options{}); err == nil {
		t.Fatalf("expected error for empty file list")
	}
}

func TestBatchUnknownTask(t *testing.T) {
	p := NewProcessor()
	if _, ok := p.Status("nope"); ok {
		t.Fatalf("unknown task must not resolve")
	}
}

func TestBatchCharacterMappingOverride(t *testing.T) {
	p := NewProcessor()
	taskID, err := p.Start(testEngine(t), []FileInput{
		{Name: "scene.txt", Content: "自定义角色：台词"},
	}, Options{
		NarratorName:     " ",
		CharacterMapping: map[string][]int{"自定义角色": {99}},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := waitCompleted(t, p, taskID)
	if len(snap.Results) != 1 {
		t.Fatalf("results=%v errors=%v", snap.Results, snap.Errors)
	}
	chars := gjson.Get(snap.Results[0].Content, "actions.0.characters").Array()
	if len(chars) != 1 || chars[0].Int() != 99 {
		t.Fatalf("override mapping not applied: %s", snap.Results[0].Content)
	}
}

func TestJSONName(t *testing.T) {
	cases := map[string]string{
		"scene.txt":      "scene.json",
		"dir/scene.md":   "scene.json",
		"noext":          "noext.json",
		"multi.part.txt": "multi.part.json",
	}
	for in, want := range cases {
		if got := jsonName(in); got != want {
			t.Fatalf("jsonName(%q) = %q, want %q", in, got, want)
		}
	}
}
