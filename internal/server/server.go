/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package server exposes the conversion engine over HTTP. Handlers stay
// thin: decode, validate, call into convert/merge/batch, encode. All JSON
// request payloads are schema-checked before any business logic runs.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"bestdoriconv/internal/batch"
	"bestdoriconv/internal/config"
	"bestdoriconv/internal/convert"
	"bestdoriconv/internal/crash"
	applog "bestdoriconv/internal/log"
	"bestdoriconv/internal/telemetry"
	"bestdoriconv/internal/version"
)

// Server wires configuration, the compiled speaker matcher and the batch
// processor to the HTTP mux.
type Server struct {
	cfg     config.AppConfig
	matcher *convert.Matcher
	batch   *batch.Processor
	log     *slog.Logger
	mux     *http.ServeMux
}

// New builds a server. The speaker pattern compiles here; a bad pattern
// fails startup rather than a request.
func New(cfg config.AppConfig) (*Server, error) {
	matcher, err := convert.NewMatcher(cfg.Converter.Patterns.SpeakerPattern, cfg.Converter.Parsing.MaxSpeakerNameLength)
	if err != nil {
		return nil, fmt.Errorf("configure speaker matcher: %w", err)
	}
	s := &Server{
		cfg:     cfg,
		matcher: matcher,
		batch:   batch.NewProcessor(),
		log:     applog.WithComponent("server"),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	// Health endpoints
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	s.mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(version.String()))
	})

	s.mux.HandleFunc("/api/convert", s.handleConvertText)
	s.mux.HandleFunc("/api/convert_project", s.handleConvertProject)
	s.mux.HandleFunc("/api/upload", s.handleUpload)
	s.mux.HandleFunc("/api/download", s.handleDownload)
	s.mux.HandleFunc("/api/segment-text", s.handleSegmentText)
	s.mux.HandleFunc("/api/config", s.handleConfig)
	s.mux.HandleFunc("/api/costumes", s.handleCostumes)
	s.mux.HandleFunc("/api/merge", s.handleMerge)
	s.mux.HandleFunc("/api/batch_convert/start", s.handleBatchStart)
	s.mux.HandleFunc("/api/batch_convert/status/", s.handleBatchStatus)
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.withRecovery(s.withAccessLog(s.mux))
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("listening", slog.String("addr", s.cfg.Server.Addr))
	telemetry.Event("server_started", nil)
	return srv.ListenAndServe()
}

// maxBody caps request bodies at the configured upload limit.
func (s *Server) maxBody(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.cfg.Server.MaxUploadMB)
	if limit <= 0 {
		limit = 16
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit<<20)
}

// withRecovery keeps a panicking handler from taking the process down: the
// panic becomes a crash report and a 500.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := debug.Stack()
				s.log.Error("panic in handler", slog.Any("panic", rec), slog.String("path", r.URL.Path))
				if path, err := crash.Report(rec, stack); err == nil {
					s.log.Info("crash report written", slog.String("path", path))
				}
				writeError(w, http.StatusInternalServerError, fmt.Errorf("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("dur", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
