// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package logging supplies the production interpreter.Slogger: a
// level-filtered wrapper around the standard library's log.Logger,
// the same choice interpreter's own stdSlogger default makes. No
// structured-logging library is introduced — Tosca carries none in its
// own tree, so neither do we (see DESIGN.md).
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/nockrt/nockrt/noun"
)

// Level mirrors the %slog priority convention (0 is the most verbose,
// matching the reference runtime's slog priority levels) while giving
// operators symbolic names to set via --log-level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses the --log-level flag value. Unrecognized input is
// rejected rather than silently defaulted, so a typo'd flag fails fast
// at startup instead of quietly dropping log output.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unrecognized level %q", s)
	}
}

// priorityLevel maps a raw %slog priority (spec §4.E hint tags) onto
// one of our four levels; priorities above 2 collapse to LevelError,
// matching the reference runtime's treatment of anything past its own
// highest named priority as an error-class message.
func priorityLevel(priority uint64) Level {
	switch priority {
	case 0:
		return LevelDebug
	case 1:
		return LevelInfo
	case 2:
		return LevelWarn
	default:
		return LevelError
	}
}

// Logger is interpreter.Slogger's production implementation: every
// %slog hint lands here, filtered by minimum level, formatted through
// the standard library the same way interpreter.stdSlogger does.
type Logger struct {
	min Level
	out *log.Logger
}

// New builds a Logger writing to w, discarding any %slog whose
// priority maps below min.
func New(min Level, w io.Writer) *Logger {
	return &Logger{min: min, out: log.New(w, "", log.LstdFlags)}
}

// Slog implements interpreter.Slogger.
func (l *Logger) Slog(priority uint64, message noun.Noun) {
	lvl := priorityLevel(priority)
	if lvl < l.min {
		return
	}
	l.out.Printf("[%s] slog[%d]: %v", lvl, priority, message)
}
