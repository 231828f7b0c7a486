/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bestdoriconv/internal/batch"
	"bestdoriconv/internal/convert"
	"bestdoriconv/internal/domain"
	"bestdoriconv/internal/extract"
	"bestdoriconv/internal/merge"
	"bestdoriconv/internal/telemetry"
)

type convertTextRequest struct {
	Text               string                  `json:"text"`
	NarratorName       *string                 `json:"narrator_name"`
	SelectedQuotePairs [][]string              `json:"selected_quote_pairs"`
	CharacterMapping   map[string][]int        `json:"character_mapping"`
	EnableLive2D       bool                    `json:"enable_live2d"`
	CostumeMapping     map[string]string       `json:"costume_mapping"`
	PositionConfig     *convert.PositionConfig `json:"position_config"`
}

// handleConvertText converts raw newline-delimited script text.
func (s *Server) handleConvertText(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	var req convertTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no text provided"))
		return
	}

	opts := s.scriptOptions(req)
	res := convert.ConvertScript(req.Text, s.matcher, opts)
	data, err := domain.EncodeJSON(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	telemetry.Event("convert_text", map[string]any{"actions": len(res.Actions)})
	writeJSON(w, http.StatusOK, map[string]any{"result": string(data)})
}

// scriptOptions assembles per-call converter options: request overrides on
// top of the configured tables.
func (s *Server) scriptOptions(req convertTextRequest) convert.ScriptOptions {
	conv := s.cfg.Converter
	mapping := conv.CloneCharacterMapping()
	if len(req.CharacterMapping) > 0 {
		mapping = req.CharacterMapping
	}
	narrator := conv.Parsing.DefaultNarratorName
	if req.NarratorName != nil {
		narrator = *req.NarratorName
	}
	nameOverrides, idDefaults := splitCostumeMapping(req.CostumeMapping, conv.CloneDefaultCostumes())
	return convert.ScriptOptions{
		NarratorName:     narrator,
		ActiveQuotePairs: convert.ActivePairs(req.SelectedQuotePairs),
		CharacterMapping: mapping,
		EnableLive2D:     req.EnableLive2D,
		CostumeOverrides: nameOverrides,
		DefaultCostumes:  idDefaults,
		OutputIDRemap:    conv.CloneOutputIDRemap(),
		Position:         req.PositionConfig,
	}
}

// splitCostumeMapping sorts a client costume table into per-name overrides
// and per-ID defaults. Web clients send numeric-string keys for IDs, so a
// key that parses as an integer overlays the default costume table instead.
func splitCostumeMapping(custom map[string]string, idDefaults map[int]string) (map[string]string, map[int]string) {
	nameOverrides := make(map[string]string)
	for key, costume := range custom {
		if id, err := strconv.Atoi(key); err == nil {
			idDefaults[id] = costume
			continue
		}
		nameOverrides[key] = costume
	}
	return nameOverrides, idDefaults
}

type convertProjectRequest struct {
	ProjectFile               json.RawMessage `json:"projectFile"`
	QuoteConfig               [][]string      `json:"quoteConfig"`
	NarratorName              *string         `json:"narratorName"`
	AppendSpaces              int             `json:"appendSpaces"`
	AppendSpacesBeforeNewline int             `json:"appendSpacesBeforeNewline"`
	Text                      *string         `json:"text"`
}

// handleConvertProject converts a structured editor project.
func (s *Server) handleConvertProject(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	var req convertProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if len(req.ProjectFile) == 0 {
		if req.Text != nil {
			// Old clients still posting {text: ...} against the project API.
			writeError(w, http.StatusBadRequest, fmt.Errorf("API mismatch, refresh the page or clear the cache"))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid project file"))
		return
	}
	if err := validateSchema(projectSchema, req.ProjectFile); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var project domain.ProjectFile
	if err := json.Unmarshal(req.ProjectFile, &project); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode project file: %w", err))
		return
	}

	narrator := s.cfg.Converter.Parsing.DefaultNarratorName
	if req.NarratorName != nil {
		narrator = *req.NarratorName
	}
	res := convert.ConvertProject(project, convert.ProjectOptions{
		NarratorName:              narrator,
		ActiveQuotePairs:          convert.ActivePairs(req.QuoteConfig),
		OutputIDRemap:             s.cfg.Converter.CloneOutputIDRemap(),
		AppendSpaces:              req.AppendSpaces,
		AppendSpacesBeforeNewline: req.AppendSpacesBeforeNewline,
	})
	data, err := domain.EncodeJSON(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	telemetry.Event("convert_project", map[string]any{"actions": len(res.Actions)})
	writeJSON(w, http.StatusOK, map[string]any{"result": string(data)})
}

// handleUpload extracts plain text from an uploaded script file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no file uploaded"))
		return
	}
	defer func() { _ = file.Close() }()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no file selected"))
		return
	}
	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	text, err := extract.Text(header.Filename, content)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file processing failed: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": text})
}

// handleDownload hands converted JSON back as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	var req struct {
		Content  string `json:"content"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	filename := sanitizeFilename(req.Filename)
	if filename == "" {
		filename = "result.json"
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, req.Content)
}

// sanitizeFilename strips path components from a client filename.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimLeft(name, ".")
}

// handleSegmentText groups raw text into blank-line separated paragraphs.
func (s *Server) handleSegmentText(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	segments := []string{}
	var current []string
	for _, line := range strings.Split(req.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			current = append(current, trimmed)
			continue
		}
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = nil
		}
	}
	if len(current) > 0 {
		segments = append(segments, strings.Join(current, "\n"))
	}
	writeJSON(w, http.StatusOK, map[string]any{"segments": segments})
}

// handleConfig exposes the converter tables the web client needs.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	conv := s.cfg.Converter
	writeJSON(w, http.StatusOK, map[string]any{
		"character_mapping": conv.CharacterMapping,
		"parsing":           conv.Parsing,
		"patterns":          conv.Patterns,
		"quotes":            conv.Quotes,
	})
}

// handleCostumes exposes the costume catalogs and per-ID defaults.
func (s *Server) handleCostumes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	conv := s.cfg.Converter
	writeJSON(w, http.StatusOK, map[string]any{
		"costume_mapping":  conv.CostumeCatalog,
		"default_costumes": conv.DefaultCostumes,
	})
}

// handleMerge combines multiple converted or project files.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read request: %w", err))
		return
	}
	if err := validateSchema(mergeSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Mode  string       `json:"mode"`
		Files []merge.File `json:"files"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	result, err := merge.Merge(req.Mode, req.Files)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	telemetry.Event("merge", map[string]any{"mode": req.Mode, "files": len(req.Files)})
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

type batchStartRequest struct {
	Files              []batch.FileInput       `json:"files"`
	NarratorName       *string                 `json:"narrator_name"`
	SelectedQuotePairs [][]string              `json:"selected_quote_pairs"`
	CharacterMapping   map[string][]int        `json:"character_mapping"`
	EnableLive2D       bool                    `json:"enable_live2d"`
	CostumeMapping     map[string]string       `json:"costume_mapping"`
	PositionConfig     *convert.PositionConfig `json:"position_config"`
}

// handleBatchStart launches a background batch conversion.
func (s *Server) handleBatchStart(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.maxBody(w, r)
	var req batchStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}
	conv := s.cfg.Converter
	narrator := conv.Parsing.DefaultNarratorName
	if req.NarratorName != nil {
		narrator = *req.NarratorName
	}
	engine := batch.Engine{
		Matcher:          s.matcher,
		NarratorDefault:  conv.Parsing.DefaultNarratorName,
		CharacterMapping: conv.CloneCharacterMapping(),
		DefaultCostumes:  conv.CloneDefaultCostumes(),
		OutputIDRemap:    conv.CloneOutputIDRemap(),
	}
	taskID, err := s.batch.Start(engine, req.Files, batch.Options{
		NarratorName:       narrator,
		SelectedQuotePairs: req.SelectedQuotePairs,
		CharacterMapping:   req.CharacterMapping,
		EnableLive2D:       req.EnableLive2D,
		CostumeMapping:     req.CostumeMapping,
		Position:           req.PositionConfig,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	telemetry.Event("batch_started", map[string]any{"files": len(req.Files)})
	writeJSON(w, http.StatusOK, map[string]any{"task_id": taskID})
}

// handleBatchStatus reports progress for a running or finished task.
func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	taskID := strings.TrimPrefix(r.URL.Path, "/api/batch_convert/status/")
	if taskID == "" || strings.Contains(taskID, "/") {
		writeError(w, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	snap, ok := s.batch.Status(taskID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task not found"))
		return
	}
	resp := map[string]any{
		"status":      snap.Status,
		"progress":    snap.Progress,
		"status_text": snap.StatusText,
		"logs":        snap.Logs,
	}
	if snap.Status == batch.StatusCompleted {
		resp["results"] = snap.Results
		resp["errors"] = snap.Errors
	}
	writeJSON(w, http.StatusOK, resp)
}
