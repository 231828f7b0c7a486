/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the service configuration from a YAML file with
// environment overrides. Besides the usual server/logging knobs it carries
// the converter tables: character name→ID mapping, costume catalogs, the
// speaker-line pattern and the quote pair sets. Tables are validated at load
// time so a bad pattern or malformed pair can never surface mid-conversion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string `yaml:"addr" json:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb" json:"max_upload_mb"`
}

// GeneralConfig holds application-wide toggles.
type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in" json:"telemetry_opt_in"`
}

// LoggingConfig mirrors internal/log.Options.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Source bool   `yaml:"source" json:"source"`
	File   string `yaml:"file" json:"file"`
}

// ParsingConfig controls the speaker line matcher and narrator fallback.
type ParsingConfig struct {
	MaxSpeakerNameLength int    `yaml:"max_speaker_name_length" json:"max_speaker_name_length"`
	DefaultNarratorName  string `yaml:"default_narrator_name" json:"default_narrator_name"`
}

// PatternsConfig holds the configurable line patterns.
type PatternsConfig struct {
	SpeakerPattern string `yaml:"speaker_pattern" json:"speaker_pattern"`
}

// QuotesConfig holds the quote pair table and the named categories the UI
// offers for selection. A category value is an [open, close] pair.
type QuotesConfig struct {
	QuotePairs      map[string]string   `yaml:"quote_pairs" json:"quote_pairs"`
	QuoteCategories map[string][]string `yaml:"quote_categories" json:"quote_categories"`
}

// ConverterConfig bundles every read-only table the conversion engine needs.
type ConverterConfig struct {
	CharacterMapping map[string][]int `yaml:"character_mapping" json:"character_mapping"`
	CostumeCatalog   map[int][]string `yaml:"costume_mapping" json:"costume_mapping"`
	DefaultCostumes  map[int]string   `yaml:"default_costumes" json:"default_costumes"`
	OutputIDRemap    map[int]int      `yaml:"output_id_remap" json:"output_id_remap"`
	Parsing          ParsingConfig    `yaml:"parsing" json:"parsing"`
	Patterns         PatternsConfig   `yaml:"patterns" json:"patterns"`
	Quotes           QuotesConfig     `yaml:"quotes" json:"quotes"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Server        ServerConfig    `yaml:"server"`
	General       GeneralConfig   `yaml:"general"`
	Logging       LoggingConfig   `yaml:"logging"`
	Converter     ConverterConfig `yaml:"converter"`
}

// Env var names used as overrides.
const (
	EnvAddr           = "BSC_ADDR"
	EnvConfigPath     = "BSC_CONFIG"
	EnvTelemetryOptIn = "BSC_TELEMETRY_OPT_IN"
	EnvLogLevel       = "BSC_LOG_LEVEL"
	EnvLogFormat      = "BSC_LOG_FORMAT"
	EnvLogSource      = "BSC_LOG_SOURCE"
	EnvLogFile        = "BSC_LOG_FILE"
)

// DefaultFileName is the config file looked up next to the working directory
// when BSC_CONFIG is not set.
const DefaultFileName = "config.yaml"

// Load reads the config file (creating it with defaults on first run),
// applies env overrides and validates the converter tables.
func Load() (AppConfig, error) {
	path := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if path == "" {
		path = DefaultFileName
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit path, used by tests.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// First run: persist the defaults so users have a file to edit.
			if werr := Save(cfg, path); werr != nil {
				return cfg, fmt.Errorf("write default config: %w", werr)
			}
			applyEnvOverrides(&cfg)
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	mergeInto(&cfg, &fileCfg)
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes the config YAML.
func Save(cfg AppConfig, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate fails fast on configuration the engine cannot run with. Pattern
// compile errors surface at load time, not per line.
func (c AppConfig) Validate() error {
	re, err := regexp.Compile(c.Converter.Patterns.SpeakerPattern)
	if err != nil {
		return fmt.Errorf("speaker_pattern: %w", err)
	}
	if re.NumSubexp() < 2 {
		return fmt.Errorf("speaker_pattern must capture speaker and content groups: %q", c.Converter.Patterns.SpeakerPattern)
	}
	if c.Converter.Parsing.MaxSpeakerNameLength <= 0 {
		return fmt.Errorf("max_speaker_name_length must be positive, got %d", c.Converter.Parsing.MaxSpeakerNameLength)
	}
	for label, pair := range c.Converter.Quotes.QuoteCategories {
		if len(pair) != 2 {
			return fmt.Errorf("quote category %q must be an [open, close] pair", label)
		}
	}
	for opening, closing := range c.Converter.Quotes.QuotePairs {
		if opening == "" || closing == "" {
			return fmt.Errorf("quote pair %q -> %q has an empty side", opening, closing)
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Server.Addr) != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Server.MaxUploadMB != 0 {
		dst.Server.MaxUploadMB = src.Server.MaxUploadMB
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	mergeConverter(&dst.Converter, &src.Converter)
}

// mergeConverter overlays file-provided tables on the defaults. A table that
// is present in the file replaces the default wholesale; a missing table
// keeps the defaults (the original service topped up partial configs the
// same way).
func mergeConverter(dst *ConverterConfig, src *ConverterConfig) {
	if len(src.CharacterMapping) > 0 {
		dst.CharacterMapping = src.CharacterMapping
	}
	if len(src.CostumeCatalog) > 0 {
		dst.CostumeCatalog = src.CostumeCatalog
	}
	if len(src.DefaultCostumes) > 0 {
		dst.DefaultCostumes = src.DefaultCostumes
	}
	if len(src.OutputIDRemap) > 0 {
		dst.OutputIDRemap = src.OutputIDRemap
	}
	if src.Parsing.MaxSpeakerNameLength != 0 {
		dst.Parsing.MaxSpeakerNameLength = src.Parsing.MaxSpeakerNameLength
	}
	if src.Parsing.DefaultNarratorName != "" {
		dst.Parsing.DefaultNarratorName = src.Parsing.DefaultNarratorName
	}
	if strings.TrimSpace(src.Patterns.SpeakerPattern) != "" {
		dst.Patterns.SpeakerPattern = src.Patterns.SpeakerPattern
	}
	// Stale configs from before the six quote categories existed are topped
	// up rather than trusted.
	if len(src.Quotes.QuotePairs) > 0 && len(src.Quotes.QuoteCategories) >= 6 {
		dst.Quotes = src.Quotes
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.TelemetryOptIn = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// CloneCharacterMapping returns a deep copy safe to hand to a worker.
func (c ConverterConfig) CloneCharacterMapping() map[string][]int {
	out := make(map[string][]int, len(c.CharacterMapping))
	for name, ids := range c.CharacterMapping {
		out[name] = append([]int(nil), ids...)
	}
	return out
}

// CloneDefaultCostumes returns a copy of the per-ID default costume table.
func (c ConverterConfig) CloneDefaultCostumes() map[int]string {
	out := make(map[int]string, len(c.DefaultCostumes))
	for id, costume := range c.DefaultCostumes {
		out[id] = costume
	}
	return out
}

// CloneOutputIDRemap returns a copy of the output identity alias table.
func (c ConverterConfig) CloneOutputIDRemap() map[int]int {
	out := make(map[int]int, len(c.OutputIDRemap))
	for from, to := range c.OutputIDRemap {
		out[from] = to
	}
	return out
}
