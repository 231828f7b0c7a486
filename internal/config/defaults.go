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

import "fmt"

// Defaults returns the shipped configuration: the full Bestdori character
// roster with costume catalogs, the default speaker-line pattern and the six
// quote categories the UI exposes.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Server:        ServerConfig{Addr: ":8080", MaxUploadMB: 16},
		General:       GeneralConfig{TelemetryOptIn: false},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Converter: ConverterConfig{
			CharacterMapping: defaultCharacterMapping(),
			CostumeCatalog:   defaultCostumeCatalog(),
			DefaultCostumes:  defaultCostumes(),
			OutputIDRemap:    defaultOutputIDRemap(),
			Parsing:          ParsingConfig{MaxSpeakerNameLength: 50, DefaultNarratorName: " "},
			// Go's \w is ASCII-only, so the speaker group spells out the
			// Unicode letter/number classes to keep CJK names matching.
			Patterns: PatternsConfig{SpeakerPattern: `^([\p{L}\p{N}_\s]+?)\s*[：:]\s*(.*)$`},
			Quotes: QuotesConfig{
				QuotePairs: map[string]string{
					`"`: `"`,
					"“": "”",
					"'": "'",
					"‘": "’",
					"「": "」",
					"『": "』",
				},
				QuoteCategories: map[string][]string{
					"中文引号 “...”":  {"“", "”"},
					"中文单引号 ‘...’": {"‘", "’"},
					"日文引号 「...」":  {"「", "」"},
					"日文书名号 『...』": {"『", "』"},
					`英文双引号 "..."`: {`"`, `"`},
					"英文单引号 '...'": {"'", "'"},
				},
			},
		},
	}
}

func defaultCharacterMapping() map[string][]int {
	return map[string][]int{
		// Poppin'Party
		"户山香澄": {1},
		"花园多惠": {2},
		"牛込里美": {3},
		"山吹沙绫": {4},
		"市谷有咲": {5},
		// Afterglow
		"美竹兰":   {6},
		"青叶摩卡":  {7},
		"上原绯玛丽": {8},
		"宇田川巴":  {9},
		"羽泽鸫":   {10},
		// Hello, Happy World!
		"弦卷心":  {11},
		"濑田薰":  {12},
		"北泽育美": {13},
		"松原花音": {14},
		"奥泽美咲": {15},
		// Pastel*Palettes
		"丸山彩":  {16},
		"冰川日菜": {17},
		"白鹭千圣": {18},
		"大和麻弥": {19},
		"若宫伊芙": {20},
		// Roselia
		"凑友希那":  {21},
		"冰川纱夜":  {22},
		"今井莉莎":  {23},
		"宇田川亚子": {24},
		"白金燐子":  {25},
		// Morfonica
		"仓田真白": {26},
		"桐谷透子": {27},
		"广町七深": {28},
		"二叶筑紫": {29},
		"八潮瑠唯": {30},
		// RAISE A SUILEN
		"LAYER":   {31},
		"LOCK":    {32},
		"MASKING": {33},
		"PAREO":   {34},
		"CHU²":    {35},
		// MyGO!!!!!
		"高松灯":  {36},
		"千早爱音": {37},
		"要乐奈":  {38},
		"长崎素世": {39},
		"椎名立希": {40},
		// Sumimi
		"纯田真奈": {229},
		// Ave Mujica
		"三角初华":  {337},
		"若叶睦":   {338},
		"八幡海铃":  {339},
		"祐天寺若麦": {340},
		"丰川祥子":  {341},
	}
}

func defaultCostumeCatalog() map[int][]string {
	return map[int][]string{
		// Poppin'Party
		1: {"001_school_summer-2023", "001_school_winter-2023", "001_casual-2023", "001_live_r_2023"},
		2: {"002_school_summer-2023", "002_school_winter-2023", "002_casual-2023", "002_live_r_2023"},
		3: {"003_school_summer-2023", "003_school_winter-2023", "003_casual-2023", "003_live_r_2023"},
		4: {"004_school_summer-2023", "004_school_winter-2023", "004_casual-2023", "004_live_r_2023"},
		5: {"005_school_summer-2023", "005_school_winter-2023", "005_casual-2023", "005_live_r_2023"},
		// Afterglow
		6:  {"006_school_summer-2023", "006_school_winter-2023", "006_casual-2023", "006_live_r_2023"},
		7:  {"007_school_summer-2023", "007_school_winter-2023", "007_casual-2023", "007_live_r_2023"},
		8:  {"008_school_summer-2023", "008_school_winter-2023", "008_casual-2023", "008_live_r_2023"},
		9:  {"009_school_summer-2023", "009_school_winter-2023", "009_casual-2023", "009_live_r_2023"},
		10: {"010_school_summer-2023", "010_school_winter-2023", "010_casual-2023", "010_live_r_2023"},
		// Hello, Happy World!
		11: {"011_school_summer-2023", "011_school_winter-2023", "011_casual-2023", "011_live_r_2023"},
		12: {"012_school_summer_s2", "012_school_winter_s2", "012_casual-2023", "012_live_r_2023"},
		13: {"013_school_summer-2023", "013_school_winter-2023", "013_casual-2023", "013_live_r_2023"},
		14: {"014_school_summer", "014_school_winter_v3", "014_casual-2023", "014_live_r_2023"},
		15: {"015_school_summer-2023", "015_school_winter-2023", "015_casual-2023", "015_live_r_2023"},
		// Pastel*Palettes
		16: {"016_school_summer", "016_school_winter", "016_casual-2023", "016_live_r_2023"},
		17: {"017_school_summer_s2", "017_school_winter_s2", "017_casual-2023", "017_live_r_2023"},
		18: {"018_school_summer", "018_school_winter", "018_casual-2023", "018_live_r_2023"},
		19: {"019_school_summer_s2", "019_school_winter_s2", "019_casual-2023", "019_live_r_2023"},
		20: {"020_school_summer-2023", "020_school_winter-2023", "020_casual-2023", "020_live_r_2023"},
		// Roselia
		21: {"021_school_summer_s2", "021_school_winter_s2", "021_casual-2023", "021_live_r_2023"},
		22: {"022_school_summer", "022_school_winter_v3", "022_casual-2023", "022_live_r_2023"},
		23: {"023_school_summer_s2", "023_school_winter_s2", "023_casual-2023", "023_live_r_2023"},
		24: {"024_school_summer-2023", "024_school_winter-2023", "024_casual-2023", "024_live_r_2023"},
		25: {"025_school_summer", "025_school_winter_v3", "025_casual-2023", "025_live_r_2023"},
		// Morfonica
		26: {"026_school_summer-2023", "026_school_winter-2023", "026_casual-2023", "026_live_r_2023"},
		27: {"027_school_summer-2023", "027_school_winter-2023", "027_casual-2023", "027_live_r_2023"},
		28: {"028_school_summer-2023", "028_school_winter-2023", "028_casual-2023", "028_live_r_2023"},
		29: {"029_school_summer-2023", "029_school_winter-2023", "029_casual-2023", "029_live_r_2023"},
		30: {"030_school_summer-2023", "030_school_winter-2023", "030_casual-2023", "030_live_r_2023"},
		// RAISE A SUILEN
		31: {"031_live_r_2023", "031_casual-2023"},
		32: {"032_school_summer-2023", "032_school_winter-2023", "032_live_r_2023", "032_casual-2023"},
		33: {"033_school_winter", "033_live_r_2023", "033_casual-2023"},
		34: {"034_school_winter-2023", "034_live_r_2023", "034_casual-2023"},
		35: {"035_school_winter-2023", "035_live_r_2023", "035_casual-2023"},
		// MyGO!!!!!
		36: {"036_school_summer-2023", "036_school_winter-2023", "036_live_default", "036_casual-2023"},
		37: {"037_school_summer-2023", "037_school_winter-2023", "037_live_default", "037_casual-2023"},
		38: {"038_school_summer-2023", "038_school_winter-2023", "038_live_default", "038_casual-2023", "343_event_286_story_01"},
		39: {"039_school_summer-2023", "039_school_winter-2023", "039_live_default", "039_casual-2023"},
		40: {"040_school_summer-2023", "040_school_winter-2023", "040_live_default", "040_casual-2023"},
		// Sumimi
		229: {"229_sumimi"},
		// Ave Mujica
		337: {"337_sumimi", "337_school_summer-2023", "337_school_winter-2023", "337_casual-2023", "337_casual-2023_nocap", "337_event_297_story_01"},
		338: {"338_school_summer-2023", "338_school_winter-2023", "338_casual-2023", "338_event_297_story_01"},
		339: {"339_school_summer-2023", "339_school_winter-2023", "339_casual-2023", "339_event_297_story_01"},
		340: {"340_casual-2023", "340_event_297_story_01"},
		341: {"341_jh_school_winter-2023", "341_school_summer-2023", "341_school_winter-2023", "341_casual-2023", "341_event_297_story_01"},
	}
}

func defaultCostumes() map[int]string {
	out := make(map[int]string, 46)
	for id := 1; id <= 40; id++ {
		out[id] = fmt.Sprintf("%03d_casual-2023", id)
	}
	out[229] = "229_sumimi"
	for id := 337; id <= 341; id++ {
		out[id] = fmt.Sprintf("%03d_casual-2023", id)
	}
	return out
}

// defaultOutputIDRemap aliases Ave Mujica and Sumimi character IDs onto the
// Pastel*Palettes slots for output, since the playback side has no icons for
// the newer IDs yet.
func defaultOutputIDRemap() map[int]int {
	return map[int]int{
		229: 6, // 纯田真奈
		337: 1, // 三角初华
		338: 2, // 若叶睦
		339: 3, // 八幡海铃
		340: 4, // 祐天寺若麦
		341: 5, // 丰川祥子
	}
}
