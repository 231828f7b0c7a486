/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// Request payload schemas. Validated before decoding so malformed shapes get
// a precise 400 instead of a half-populated struct.

const mergeRequestSchema = `{
  "type": "object",
  "required": ["mode", "files"],
  "properties": {
    "mode": {"type": "string", "enum": ["bestdori", "project"]},
    "files": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["data"],
        "properties": {
          "name": {"type": "string"},
          "data": {"type": "object"}
        }
      }
    }
  }
}`

const projectFileSchema = `{
  "type": "object",
  "required": ["actions"],
  "properties": {
    "version": {"type": "string"},
    "projectName": {"type": "string"},
    "settings": {"type": "object"},
    "actions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"}
        }
      }
    }
  }
}`

var (
	mergeSchema   = gojsonschema.NewStringLoader(mergeRequestSchema)
	projectSchema = gojsonschema.NewStringLoader(projectFileSchema)
)

// validateSchema runs document bytes against a schema loader and folds the
// failures into one error.
func validateSchema(schema gojsonschema.JSONLoader, doc []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid payload: %s", strings.Join(msgs, "; "))
}
