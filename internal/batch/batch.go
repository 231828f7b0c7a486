/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package batch fans independent single-file conversions out across a worker
// pool. One file's failure never aborts its siblings; errors and panics are
// captured per file and reported through the task status. Completion order,
// not submission order, drives progress.
package batch

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"bestdoriconv/internal/convert"
	"bestdoriconv/internal/domain"
	"bestdoriconv/internal/extract"
	applog "bestdoriconv/internal/log"
)

// completedTTL is how long a finished task stays queryable after its first
// completed status poll.
const completedTTL = 5 * time.Minute

// Task states.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// FileInput is one file submitted for batch conversion. Encoding "base64"
// marks content carried as a data URL; everything else is taken as text.
type FileInput struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Options are the per-batch conversion settings shared by all files.
type Options struct {
	NarratorName       string
	SelectedQuotePairs [][]string
	CharacterMapping   map[string][]int // optional override of the configured table
	EnableLive2D       bool
	CostumeMapping     map[string]string
	Position           *convert.PositionConfig
}

// FileResult is one successfully converted file, renamed to its .json twin.
type FileResult struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Snapshot is the externally visible task state.
type Snapshot struct {
	Status     string       `json:"status"`
	Progress   float64      `json:"progress"`
	StatusText string       `json:"status_text"`
	Logs       []string     `json:"logs"`
	Results    []FileResult `json:"results,omitempty"`
	Errors     []string     `json:"errors,omitempty"`
}

type task struct {
	mu       sync.Mutex
	status   string
	progress float64
	text     string
	logs     []string
	results  []FileResult
	errors   []string
}

func (t *task) snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := Snapshot{
		Status:     t.status,
		Progress:   t.progress,
		StatusText: t.text,
		Logs:       append([]string(nil), t.logs...),
	}
	if t.status == StatusCompleted {
		snap.Results = make([]FileResult, len(t.results))
		copy(snap.Results, t.results)
		snap.Errors = make([]string, len(t.errors))
		copy(snap.Errors, t.errors)
	}
	return snap
}

// Engine holds the per-worker conversion inputs, snapshotted once at batch
// start so a concurrent config reload cannot skew a running batch.
type Engine struct {
	Matcher          *convert.Matcher
	NarratorDefault  string
	CharacterMapping map[string][]int
	DefaultCostumes  map[int]string
	OutputIDRemap    map[int]int
}

// Processor owns the task store and the pool size.
type Processor struct {
	tasks   *cache.Cache
	workers int
}

// NewProcessor sizes the pool at min(NumCPU, 4), matching the conversion
// workload: CPU-bound but short per file.
func NewProcessor() *Processor {
	workers := runtime.NumCPU()
	if workers > 4 {
		workers = 4
	}
	return &Processor{
		tasks:   cache.New(cache.NoExpiration, time.Minute),
		workers: workers,
	}
}

// Start validates the request, registers a task and converts in the
// background. The returned ID is the handle for Status polling.
func (p *Processor) Start(engine Engine, files []FileInput, opts Options) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no files provided")
	}
	taskID := uuid.NewString()
	t := &task{
		status: StatusRunning,
		text:   "preparing...",
		logs:   []string{"INFO: task started, dispatching workers"},
	}
	p.tasks.Set(taskID, t, cache.NoExpiration)
	go p.run(taskID, t, engine, files, opts)
	return taskID, nil
}

// Status returns the current snapshot. The first poll that sees a completed
// task arms its expiry; the entry lingers for completedTTL and then goes away.
func (p *Processor) Status(taskID string) (Snapshot, bool) {
	v, ok := p.tasks.Get(taskID)
	if !ok {
		return Snapshot{}, false
	}
	t := v.(*task)
	snap := t.snapshot()
	if snap.Status == StatusCompleted {
		p.tasks.Set(taskID, t, completedTTL)
	}
	return snap, true
}

func (p *Processor) run(taskID string, t *task, engine Engine, files []FileInput, opts Options) {
	logger := applog.WithComponent("batch").With("task_id", taskID)
	logger.Info("batch conversion started", "files", len(files), "workers", p.workers)

	mapping := engine.CharacterMapping
	if len(opts.CharacterMapping) > 0 {
		mapping = opts.CharacterMapping
	}
	scriptOpts := convert.ScriptOptions{
		NarratorName:     opts.NarratorName,
		ActiveQuotePairs: convert.ActivePairs(opts.SelectedQuotePairs),
		CharacterMapping: mapping,
		EnableLive2D:     opts.EnableLive2D,
		CostumeOverrides: opts.CostumeMapping,
		DefaultCostumes:  engine.DefaultCostumes,
		OutputIDRemap:    engine.OutputIDRemap,
		Position:         opts.Position,
	}
	if scriptOpts.NarratorName == "" {
		scriptOpts.NarratorName = engine.NarratorDefault
	}

	total := len(files)
	var done int

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(p.workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			result, err := convertOne(engine.Matcher, scriptOpts, file)

			t.mu.Lock()
			if err != nil {
				msg := fmt.Sprintf("conversion failed: %s - %v", file.Name, err)
				t.errors = append(t.errors, msg)
				t.logs = append(t.logs, "[ERROR] "+msg)
			} else {
				t.results = append(t.results, result)
				t.logs = append(t.logs, "[SUCCESS] converted: "+file.Name)
			}
			done++
			t.progress = float64(done) / float64(total) * 100
			t.text = fmt.Sprintf("processing... (%d/%d)", done, total)
			t.mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; per-file failures live in the task state.
	_ = g.Wait()

	t.mu.Lock()
	t.status = StatusCompleted
	t.progress = 100
	t.text = fmt.Sprintf("done, succeeded: %d, failed: %d", len(t.results), len(t.errors))
	t.logs = append(t.logs, "INFO: "+t.text)
	succeeded, failed := len(t.results), len(t.errors)
	t.mu.Unlock()

	logger.Info("batch conversion finished", "succeeded", succeeded, "failed", failed)
}

// convertOne handles a single file start to finish. Panics inside the engine
// are turned into a per-file error so the batch keeps going.
func convertOne(matcher *convert.Matcher, opts convert.ScriptOptions, file FileInput) (result FileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion panicked: %v", r)
		}
	}()
	text, err := fileText(file)
	if err != nil {
		return FileResult{}, err
	}
	res := convert.ConvertScript(text, matcher, opts)
	data, err := domain.EncodeJSON(res)
	if err != nil {
		return FileResult{}, fmt.Errorf("encode result: %w", err)
	}
	return FileResult{Name: jsonName(file.Name), Content: string(data)}, nil
}

func fileText(file FileInput) (string, error) {
	if file.Encoding == "base64" {
		// Data URL form: "data:...;base64,<payload>".
		parts := strings.SplitN(file.Content, ",", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid base64 payload")
		}
		raw, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return "", fmt.Errorf("decode base64 payload: %w", err)
		}
		return extract.Text(file.Name, raw)
	}
	return extract.Text(file.Name, []byte(file.Content))
}

// jsonName swaps the extension for .json, keeping only the base name.
func jsonName(filename string) string {
	base := path.Base(filename)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".json"
}
