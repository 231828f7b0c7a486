/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package extract turns uploaded files into the plain newline-delimited text
// the conversion engine expects. Plain text passes through, Markdown is
// rendered and flattened. Word documents are rejected; the web client is
// expected to convert those before upload.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
)

var htmlTags = regexp.MustCompile(`<[^>]+>`)

// Text extracts the script text from an uploaded file based on its
// extension. Unknown extensions are treated as plain text.
func Text(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return "", fmt.Errorf("unsupported file type .docx, convert %s to plain text first", filename)
	case ".md":
		return Markdown(decodeText(content))
	default:
		return decodeText(content), nil
	}
}

// Markdown renders the document and strips the markup, leaving one paragraph
// per blank-line separated block.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	text := htmlTags.ReplaceAllString(buf.String(), "")
	text = html.UnescapeString(text)
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

// decodeText prefers UTF-8 and degrades to a byte-per-rune latin-1 read for
// legacy exports instead of failing the upload.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	runes := make([]rune, 0, len(content))
	for _, b := range content {
		runes = append(runes, rune(b))
	}
	return string(runes)
}
