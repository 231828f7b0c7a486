/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the output action schema consumed by the playback engine
// and the structured project representation exported by the UI editors.
// Struct field order is significant: encoding/json emits keys in declaration
// order and the playback side expects the canonical ordering.

// Stage position vocabulary used by auto-position rotation. Callers may also
// supply custom side names; these are just the built-in rotation slots.
const (
	SideLeftInside  = "leftInside"
	SideCenter      = "center"
	SideRightInside = "rightInside"
)

// Action is one emitted unit of playback instruction, either a TalkAction or
// a LayoutAction. Emission order is significant.
type Action interface {
	ActionType() string
}

// MotionDirective is a per-character motion/expression cue attached to a talk
// action. Character holds the output (remapped) character ID.
type MotionDirective struct {
	Character  int    `json:"character"`
	Motion     string `json:"motion"`
	Expression string `json:"expression"`
	Delay      int    `json:"delay"`
}

// TalkAction is one spoken line attributed to a speaker (or the narrator).
// Delay, Wait and Close are playback directives the converter never varies;
// they are emitted for schema compatibility.
type TalkAction struct {
	Type       string            `json:"type"`
	Delay      int               `json:"delay"`
	Wait       bool              `json:"wait"`
	Characters []int             `json:"characters"`
	Name       string            `json:"name"`
	Body       string            `json:"body"`
	Motions    []MotionDirective `json:"motions"`
	Voices     []string          `json:"voices"`
	Close      bool              `json:"close"`
}

// NewTalkAction builds a talk action with the fixed playback defaults.
// Slices are never nil so they serialize as [] rather than null.
func NewTalkAction(characters []int, name, body string) TalkAction {
	if characters == nil {
		characters = []int{}
	}
	return TalkAction{
		Type:       "talk",
		Wait:       true,
		Characters: characters,
		Name:       name,
		Body:       body,
		Motions:    []MotionDirective{},
		Voices:     []string{},
	}
}

func (TalkAction) ActionType() string { return "talk" }

// LayoutAction is a stage-presence event for exactly one character.
type LayoutAction struct {
	Type            string `json:"type"`
	Delay           int    `json:"delay"`
	Wait            bool   `json:"wait"`
	LayoutType      string `json:"layoutType"`
	Character       int    `json:"character"`
	Costume         string `json:"costume"`
	Motion          string `json:"motion"`
	Expression      string `json:"expression"`
	SideFrom        string `json:"sideFrom"`
	SideFromOffsetX int    `json:"sideFromOffsetX"`
	SideTo          string `json:"sideTo"`
	SideToOffsetX   int    `json:"sideToOffsetX"`
}

// NewLayoutAction builds an "appear" layout action with playback defaults.
func NewLayoutAction(character int, costume, side string, offsetX int) LayoutAction {
	return LayoutAction{
		Type:            "layout",
		Wait:            true,
		LayoutType:      "appear",
		Character:       character,
		Costume:         costume,
		SideFrom:        side,
		SideFromOffsetX: offsetX,
		SideTo:          side,
		SideToOffsetX:   offsetX,
	}
}

func (LayoutAction) ActionType() string { return "layout" }

// ConversionResult is the top-level output envelope.
type ConversionResult struct {
	Server     int      `json:"server"`
	Voice      string   `json:"voice"`
	Background *string  `json:"background"`
	BGM        *string  `json:"bgm"`
	Actions    []Action `json:"actions"`
}

// NewConversionResult returns an envelope with an empty, non-nil action list.
func NewConversionResult() ConversionResult {
	return ConversionResult{Actions: []Action{}}
}
