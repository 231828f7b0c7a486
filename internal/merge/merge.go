/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package merge concatenates actions from multiple already-converted result
// files or pre-conversion project files. Input actions travel as raw JSON so
// the author's key order survives verbatim; only the project mode touches
// them, rewriting each action's id in place.
package merge

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"bestdoriconv/internal/domain"
)

// Merge modes.
const (
	ModeFlat    = "bestdori"
	ModeProject = "project"
)

// File is one named input document.
type File struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// flatResult fixes the output key order for converted result files:
// server, voice, background, bgm, actions.
type flatResult struct {
	Server     json.RawMessage   `json:"server"`
	Voice      json.RawMessage   `json:"voice"`
	Background json.RawMessage   `json:"background"`
	BGM        json.RawMessage   `json:"bgm"`
	Actions    []json.RawMessage `json:"actions"`
}

// projectResult fixes the output key order for editor progress files:
// version, actions.
type projectResult struct {
	Version json.RawMessage   `json:"version"`
	Actions []json.RawMessage `json:"actions"`
}

// Merge combines the files in input order. Every file must carry an actions
// array; the error names the first offending file. The returned bytes are
// the merged object, indented, with key order preserved.
func Merge(mode string, files []File) (json.RawMessage, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one file is required")
	}
	for _, f := range files {
		if !gjson.GetBytes(f.Data, "actions").IsArray() {
			name := f.Name
			if name == "" {
				name = "unknown"
			}
			return nil, fmt.Errorf("file %s is missing an actions array", name)
		}
	}
	switch mode {
	case ModeFlat:
		return mergeFlat(files)
	case ModeProject:
		return mergeProject(files)
	default:
		return nil, fmt.Errorf("unsupported merge mode: %s", mode)
	}
}

// mergeFlat takes the envelope from the first file and concatenates all
// actions untouched.
func mergeFlat(files []File) (json.RawMessage, error) {
	base := files[0].Data
	out := flatResult{
		Server:     rawField(base, "server", "0"),
		Voice:      rawField(base, "voice", `""`),
		Background: rawField(base, "background", "null"),
		BGM:        rawField(base, "bgm", "null"),
		Actions:    []json.RawMessage{},
	}
	for _, f := range files {
		for _, a := range gjson.GetBytes(f.Data, "actions").Array() {
			out.Actions = append(out.Actions, json.RawMessage(a.Raw))
		}
	}
	return encodeOrdered(out)
}

// mergeProject concatenates editor progress files, regenerating a
// collision-free id per action so independently authored files can coexist.
func mergeProject(files []File) (json.RawMessage, error) {
	base := files[0].Data
	out := projectResult{
		Version: rawField(base, "version", `"1.0"`),
		Actions: []json.RawMessage{},
	}
	for _, f := range files {
		for index, a := range gjson.GetBytes(f.Data, "actions").Array() {
			ts := stampID() + int64(index)
			var id string
			switch a.Get("type").String() {
			case "talk":
				id = fmt.Sprintf("action-id-%d-%d", ts, index)
			case "layout":
				id = fmt.Sprintf("layout-action-%d-%d-%d", ts, a.Get("characterId").Int(), index)
			default:
				id = fmt.Sprintf("action-%d-%d", ts, index)
			}
			rewritten, err := sjson.SetBytes([]byte(a.Raw), "id", id)
			if err != nil {
				return nil, fmt.Errorf("rewrite action id in %s: %w", f.Name, err)
			}
			out.Actions = append(out.Actions, rewritten)
		}
	}
	return encodeOrdered(out)
}

// stampID perturbs the current unix-ms timestamp so two actions rewritten in
// the same millisecond still diverge.
func stampID() int64 {
	return time.Now().UnixMilli() + int64(rand.Intn(10000))
}

func rawField(data json.RawMessage, key, fallback string) json.RawMessage {
	if v := gjson.GetBytes(data, key); v.Exists() {
		return json.RawMessage(v.Raw)
	}
	return json.RawMessage(fallback)
}

// encodeOrdered goes through the shared encoder so embedded raw JSON keeps
// its non-ASCII and angle-bracket characters literal.
func encodeOrdered(v any) (json.RawMessage, error) {
	return domain.EncodeJSON(v)
}
