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

	"bestdoriconv/internal/domain"
)

// positionRotation is the auto-position cycle for first-appearing characters.
var positionRotation = []string{domain.SideLeftInside, domain.SideCenter, domain.SideRightInside}

// ManualPosition is a caller-supplied stage position for one character name.
type ManualPosition struct {
	Position string `json:"position"`
	OffsetX  int    `json:"offset"`
}

// PositionConfig selects automatic position rotation or explicit per-name
// placement for layout emission.
type PositionConfig struct {
	AutoPositionMode bool                      `json:"autoPositionMode"`
	ManualPositions  map[string]ManualPosition `json:"manualPositions"`
}

// ScriptOptions carries everything a single script conversion needs. Maps are
// read-only for the duration of the call; callers sharing tables across
// goroutines must not mutate them mid-conversion.
type ScriptOptions struct {
	NarratorName     string
	ActiveQuotePairs map[string]string
	CharacterMapping map[string][]int

	EnableLive2D     bool
	CostumeOverrides map[string]string // per speaker name, wins over DefaultCostumes
	DefaultCostumes  map[int]string    // per primary character ID
	OutputIDRemap    map[int]int
	Position         *PositionConfig // nil means auto rotation
}

// ScriptBuilder is the line state machine. One builder handles one
// conversion run; construct a fresh one per call.
type ScriptBuilder struct {
	matcher *Matcher
	opts    ScriptOptions

	speaker string
	lines   []string

	appearanceOrder map[string]int
	actions         []domain.Action
}

// NewScriptBuilder readies a builder for a single run.
func NewScriptBuilder(matcher *Matcher, opts ScriptOptions) *ScriptBuilder {
	return &ScriptBuilder{
		matcher:         matcher,
		opts:            opts,
		speaker:         opts.NarratorName,
		appearanceOrder: make(map[string]int),
	}
}

// Convert walks the script line by line and returns the result envelope.
// Malformed lines never fail: anything unmatched is absorbed as narration or
// continuation of the active speaker's block.
func (b *ScriptBuilder) Convert(text string) domain.ConversionResult {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			// Hard break: finalize and fall back to the narrator.
			b.finalize()
			b.speaker = b.opts.NarratorName
			b.lines = nil
			continue
		}
		if speaker, content, ok := b.matcher.Match(line); ok {
			if speaker != b.speaker && len(b.lines) > 0 {
				b.finalize()
				b.lines = nil
			}
			b.speaker = speaker
			b.lines = append(b.lines, content)
			continue
		}
		b.lines = append(b.lines, line)
	}
	b.finalize()

	result := domain.NewConversionResult()
	result.Actions = append(result.Actions, b.actions...)
	return result
}

// finalize flushes the accumulated block into actions. Empty bodies after
// quote stripping are dropped silently.
func (b *ScriptBuilder) finalize() {
	if len(b.lines) == 0 {
		return
	}
	body := RemoveQuotes(strings.Join(b.lines, "\n"), b.opts.ActiveQuotePairs)
	if body == "" {
		return
	}
	characterIDs := b.opts.CharacterMapping[b.speaker]
	if b.opts.EnableLive2D && len(characterIDs) > 0 && b.speaker != b.opts.NarratorName {
		if _, seen := b.appearanceOrder[b.speaker]; !seen {
			order := len(b.appearanceOrder)
			b.appearanceOrder[b.speaker] = order
			b.actions = append(b.actions, b.buildLayout(b.speaker, characterIDs[0], order))
		}
	}
	b.actions = append(b.actions, domain.NewTalkAction(b.remapIDs(characterIDs), b.speaker, body))
}

// buildLayout emits the one-time appearance action for a speaker. Costume
// precedence: per-name override, then the per-ID default table, then empty.
func (b *ScriptBuilder) buildLayout(name string, primaryID, order int) domain.LayoutAction {
	position, offset := b.resolvePosition(name, order)
	costume := b.opts.CostumeOverrides[name]
	if costume == "" {
		costume = b.opts.DefaultCostumes[primaryID]
	}
	return domain.NewLayoutAction(b.remapID(primaryID), costume, position, offset)
}

func (b *ScriptBuilder) resolvePosition(name string, order int) (string, int) {
	if b.opts.Position == nil || b.opts.Position.AutoPositionMode {
		return positionRotation[order%len(positionRotation)], 0
	}
	manual, ok := b.opts.Position.ManualPositions[name]
	if !ok || manual.Position == "" {
		return domain.SideCenter, manual.OffsetX
	}
	return manual.Position, manual.OffsetX
}

func (b *ScriptBuilder) remapID(id int) int {
	if mapped, ok := b.opts.OutputIDRemap[id]; ok {
		return mapped
	}
	return id
}

func (b *ScriptBuilder) remapIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.remapID(id))
	}
	return out
}

// ConvertScript is the one-shot entry point used by the HTTP and batch
// layers.
func ConvertScript(text string, matcher *Matcher, opts ScriptOptions) domain.ConversionResult {
	return NewScriptBuilder(matcher, opts).Convert(text)
}
