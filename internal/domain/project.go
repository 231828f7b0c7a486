/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Structured project representation: the richer, UI-authored input where
// speakers, motions and stage positions are already explicit. Unlike raw
// script text this needs no line-level parsing, only translation.

// ProjectSettings are the global playback settings carried through verbatim
// into the conversion result envelope.
type ProjectSettings struct {
	Server     int     `json:"server"`
	Voice      string  `json:"voice"`
	Background *string `json:"background"`
	BGM        *string `json:"bgm"`
}

// ProjectSpeaker identifies one co-speaker of a talk action.
type ProjectSpeaker struct {
	CharacterID int    `json:"characterId"`
	Name        string `json:"name"`
}

// ProjectPosition is one endpoint of a layout movement.
type ProjectPosition struct {
	Side    string `json:"side"`
	OffsetX int    `json:"offsetX"`
}

// ProjectMovement pairs the from/to endpoints of a layout action.
type ProjectMovement struct {
	From ProjectPosition `json:"from"`
	To   ProjectPosition `json:"to"`
}

// ProjectInitialState carries the optional initial motion/expression of a
// layout action.
type ProjectInitialState struct {
	Motion     string `json:"motion"`
	Expression string `json:"expression"`
}

// ProjectAction is one pre-segmented editor action. Talk and layout actions
// share the struct; which fields are meaningful depends on Type. Unknown
// types are skipped by the translator (forward compatibility).
type ProjectAction struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// talk fields
	Text     string            `json:"text"`
	Speakers []ProjectSpeaker  `json:"speakers"`
	Motions  []MotionDirective `json:"motions"`

	// layout fields
	CharacterID   int                 `json:"characterId"`
	CharacterName string              `json:"characterName"`
	LayoutType    string              `json:"layoutType"`
	Costume       string              `json:"costume"`
	Position      ProjectMovement     `json:"position"`
	InitialState  ProjectInitialState `json:"initialState"`
}

// ProjectFile is the top-level editor export.
type ProjectFile struct {
	Version     string          `json:"version"`
	ProjectName string          `json:"projectName"`
	Settings    ProjectSettings `json:"settings"`
	Actions     []ProjectAction `json:"actions"`
}
