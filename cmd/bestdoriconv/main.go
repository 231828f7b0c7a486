/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	"bestdoriconv/internal/config"
	"bestdoriconv/internal/crash"
	applog "bestdoriconv/internal/log"
	"bestdoriconv/internal/server"
	"bestdoriconv/internal/telemetry"
	"bestdoriconv/internal/version"
)

func usage() {
	fmt.Println("Bestdori script converter service")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  bestdoriconv version|-v|--version   Show version")
	fmt.Println("  bestdoriconv serve                  Run the HTTP API (default)")
	fmt.Println()
	fmt.Println("Configuration is read from config.yaml (override with BSC_CONFIG);")
	fmt.Println("BSC_ADDR and BSC_LOG_* take precedence over the file.")
}

func main() {
	defer crash.Recover()

	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		case "serve":
		default:
			usage()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("main")

	if cfg.General.TelemetryOptIn {
		telemetry.InitDefault()
	}

	srv, err := server.New(cfg)
	if err != nil {
		l.Error("startup failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := srv.Start(); err != nil {
		l.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}
