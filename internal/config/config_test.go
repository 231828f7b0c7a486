/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults must validate: %v", err)
	}
	if len(cfg.Converter.CharacterMapping) == 0 {
		t.Fatalf("character mapping empty")
	}
	if cfg.Converter.CharacterMapping["高松灯"][0] != 36 {
		t.Fatalf("unexpected mapping for 高松灯: %v", cfg.Converter.CharacterMapping["高松灯"])
	}
	if len(cfg.Converter.Quotes.QuoteCategories) != 6 {
		t.Fatalf("expected 6 quote categories, got %d", len(cfg.Converter.Quotes.QuoteCategories))
	}
	if cfg.Converter.DefaultCostumes[36] != "036_casual-2023" {
		t.Fatalf("default costume for 36 = %q", cfg.Converter.DefaultCostumes[36])
	}
	if cfg.Converter.OutputIDRemap[337] != 1 {
		t.Fatalf("output remap for 337 = %d", cfg.Converter.OutputIDRemap[337])
	}
}

func TestLoadFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not persisted: %v", err)
	}
	// Second load reads the written file.
	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("second LoadFile: %v", err)
	}
	if again.Converter.Patterns.SpeakerPattern != cfg.Converter.Patterns.SpeakerPattern {
		t.Fatalf("roundtrip changed pattern: %q", again.Converter.Patterns.SpeakerPattern)
	}
}

func TestLoadFileMergesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "server:\n  addr: \":9090\"\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Logging.Level != "debug" {
		t.Fatalf("file values not merged: %+v", cfg.Server)
	}
	// Tables missing from the file keep the shipped defaults.
	if len(cfg.Converter.CharacterMapping) == 0 || len(cfg.Converter.Quotes.QuotePairs) == 0 {
		t.Fatalf("defaults lost on partial merge")
	}
}

func TestEnvOverridesAddr(t *testing.T) {
	t.Setenv(EnvAddr, ":7070")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("Addr = %q, want env override", cfg.Server.Addr)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source {
		t.Fatalf("logging env overrides not applied: %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadPattern(t *testing.T) {
	cfg := Defaults()
	cfg.Converter.Patterns.SpeakerPattern = "([unclosed"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected pattern compile error")
	}
	cfg = Defaults()
	cfg.Converter.Patterns.SpeakerPattern = `^(\w+)$`
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected group-count error")
	}
}

func TestValidateRejectsBadQuoteTables(t *testing.T) {
	cfg := Defaults()
	cfg.Converter.Quotes.QuoteCategories["broken"] = []string{"only-open"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected quote category error")
	}
	cfg = Defaults()
	cfg.Converter.Quotes.QuotePairs["“"] = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected quote pair error")
	}
}

func TestMergeKeepsQuotesFromStaleConfigs(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Converter.Quotes.QuotePairs = map[string]string{"“": "”"}
	src.Converter.Quotes.QuoteCategories = map[string][]string{"only one": {"“", "”"}}
	mergeInto(&dst, &src)
	if len(dst.Converter.Quotes.QuoteCategories) != 6 {
		t.Fatalf("stale quote config must not replace defaults, got %d categories", len(dst.Converter.Quotes.QuoteCategories))
	}
}

func TestCloneTablesAreCopies(t *testing.T) {
	cfg := Defaults().Converter
	mapping := cfg.CloneCharacterMapping()
	mapping["高松灯"][0] = 999
	delete(mapping, "要乐奈")
	if cfg.CharacterMapping["高松灯"][0] != 36 {
		t.Fatalf("clone shares backing array with original")
	}
	if _, ok := cfg.CharacterMapping["要乐奈"]; !ok {
		t.Fatalf("clone delete leaked into original")
	}
	costumes := cfg.CloneDefaultCostumes()
	costumes[36] = "changed"
	if cfg.DefaultCostumes[36] != "036_casual-2023" {
		t.Fatalf("costume clone leaked into original")
	}
}
