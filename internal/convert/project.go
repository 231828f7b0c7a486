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

// speakerJoin separates co-speaker display names on a shared talk line.
const speakerJoin = " & "

// ProjectOptions configures the structured project translation.
type ProjectOptions struct {
	NarratorName     string
	ActiveQuotePairs map[string]string
	OutputIDRemap    map[int]int

	// Cosmetic playback padding: spaces appended at the end of each body and
	// spaces inserted before every embedded newline.
	AppendSpaces              int
	AppendSpacesBeforeNewline int
}

// ConvertProject maps pre-segmented editor actions straight onto the output
// schema. No line parsing happens here; segmentation and speaker attribution
// already exist in the input. Unknown action types are skipped so newer
// editor exports still convert.
func ConvertProject(project domain.ProjectFile, opts ProjectOptions) domain.ConversionResult {
	result := domain.NewConversionResult()
	result.Server = project.Settings.Server
	result.Voice = project.Settings.Voice
	result.Background = project.Settings.Background
	result.BGM = project.Settings.BGM

	for _, action := range project.Actions {
		switch action.Type {
		case "talk":
			if talk, ok := translateTalk(action, opts); ok {
				result.Actions = append(result.Actions, talk)
			}
		case "layout":
			result.Actions = append(result.Actions, translateLayout(action, opts))
		}
	}
	return result
}

func translateTalk(action domain.ProjectAction, opts ProjectOptions) (domain.TalkAction, bool) {
	body := RemoveQuotes(action.Text, opts.ActiveQuotePairs)
	if body == "" {
		return domain.TalkAction{}, false
	}
	body = applyPadding(body, opts)

	characters := make([]int, 0, len(action.Speakers))
	names := make([]string, 0, len(action.Speakers))
	for _, sp := range action.Speakers {
		characters = append(characters, remapOutputID(sp.CharacterID, opts.OutputIDRemap))
		if name := strings.TrimSpace(sp.Name); name != "" {
			names = append(names, name)
		}
	}
	name := strings.Join(names, speakerJoin)
	if name == "" {
		name = opts.NarratorName
	}

	talk := domain.NewTalkAction(characters, name, body)
	for _, m := range action.Motions {
		talk.Motions = append(talk.Motions, domain.MotionDirective{
			Character:  remapOutputID(m.Character, opts.OutputIDRemap),
			Motion:     m.Motion,
			Expression: m.Expression,
			Delay:      m.Delay,
		})
	}
	return talk, true
}

func translateLayout(action domain.ProjectAction, opts ProjectOptions) domain.LayoutAction {
	layout := domain.NewLayoutAction(
		remapOutputID(action.CharacterID, opts.OutputIDRemap),
		action.Costume,
		action.Position.From.Side,
		action.Position.From.OffsetX,
	)
	if action.LayoutType != "" {
		layout.LayoutType = action.LayoutType
	}
	// Positions are explicit here; from and to can differ (movement).
	layout.SideTo = action.Position.To.Side
	layout.SideToOffsetX = action.Position.To.OffsetX
	layout.Motion = action.InitialState.Motion
	layout.Expression = action.InitialState.Expression
	return layout
}

// applyPadding adds the caller's cosmetic spacing: before each embedded
// newline and at the end of the body. Semantic content is unchanged.
func applyPadding(body string, opts ProjectOptions) string {
	if opts.AppendSpacesBeforeNewline > 0 {
		pad := strings.Repeat(" ", opts.AppendSpacesBeforeNewline)
		body = strings.ReplaceAll(body, "\n", pad+"\n")
	}
	if opts.AppendSpaces > 0 {
		body += strings.Repeat(" ", opts.AppendSpaces)
	}
	return body
}

func remapOutputID(id int, remap map[int]int) int {
	if mapped, ok := remap[id]; ok {
		return mapped
	}
	return id
}
