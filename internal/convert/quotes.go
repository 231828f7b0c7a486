/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package convert holds the conversion engine: quote normalization, speaker
// line matching, the script action builder and the structured project
// translator. Everything here is pure and synchronous; configuration tables
// are passed in read-only and never mutated.
package convert

import "strings"

// RemoveQuotes strips at most one matched pair of wrapping quote characters
// from text. The active pair set maps an opening quote to its required
// closing quote; the caller decides which categories are active. Single-pass
// only: nested quotes keep their inner layers, mismatched quotes are left
// alone. The returned text is always whitespace-trimmed.
func RemoveQuotes(text string, activePairs map[string]string) string {
	stripped := strings.TrimSpace(text)
	runes := []rune(stripped)
	if len(runes) < 2 || len(activePairs) == 0 {
		return stripped
	}
	closing, ok := activePairs[string(runes[0])]
	if !ok || string(runes[len(runes)-1]) != closing {
		return stripped
	}
	return strings.TrimSpace(string(runes[1 : len(runes)-1]))
}

// ActivePairs builds an opening→closing map from a selected list of
// [open, close] pairs. Entries that are not two-element pairs are ignored,
// matching the tolerant contract of the request payloads.
func ActivePairs(selected [][]string) map[string]string {
	pairs := make(map[string]string, len(selected))
	for _, p := range selected {
		if len(p) == 2 && p[0] != "" && p[1] != "" {
			pairs[p[0]] = p[1]
		}
	}
	return pairs
}
