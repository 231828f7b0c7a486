/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package extract

import (
	"strings"
	"testing"
)

func TestTextPlainPassthrough(t *testing.T) {
	got, err := Text("script.txt", []byte("高松灯：你好\n要乐奈：嗯"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "高松灯：你好\n要乐奈：嗯" {
		t.Fatalf("plain text changed: %q", got)
	}
}

func TestTextUnknownExtensionTreatedAsPlain(t *testing.T) {
	got, err := Text("script.log", []byte("一行文本"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "一行文本" {
		t.Fatalf("got %q", got)
	}
}

func TestTextRejectsDocx(t *testing.T) {
	_, err := Text("script.docx", []byte{0x50, 0x4b})
	if err == nil || !strings.Contains(err.Error(), ".docx") {
		t.Fatalf("expected docx rejection, got %v", err)
	}
}

func TestMarkdownFlattens(t *testing.T) {
	source := "# 第一幕\n\n高松灯：**你好**\n\n- 要乐奈：嗯\n"
	got, err := Markdown(source)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(got, "<") || strings.Contains(got, "#") || strings.Contains(got, "*") {
		t.Fatalf("markup left in output: %q", got)
	}
	for _, want := range []string{"第一幕", "高松灯：你好", "要乐奈：嗯"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if !strings.Contains(got, "\n\n") {
		t.Fatalf("paragraphs must be blank-line separated: %q", got)
	}
}

func TestMarkdownUnescapesEntities(t *testing.T) {
	got, err := Markdown("旁白：时间 &lt;三点&gt; 了\n")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(got, "<三点>") {
		t.Fatalf("entities not unescaped: %q", got)
	}
}

func TestDecodeTextLatin1Fallback(t *testing.T) {
	got, err := Text("legacy.txt", []byte{0x63, 0x61, 0x66, 0xe9})
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "café" {
		t.Fatalf("latin-1 fallback = %q", got)
	}
}
