/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"log"
	"time"
)

const logDate string = `2006-01-02T15:04:05.000-07:00`

// logf mirrors the teacher's verbose-gated logger (errors.go), generalized
// to the subsystem-tagged format used across internal/engine, internal/hub
// and internal/store ("ENGINE:", "HUB:", "STORE:" in place of "GAMES:").
func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}
	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}
