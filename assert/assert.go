// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package assert implements level-gated invariant checks: a global,
// adjustable assertion level. Level 0 disables assertions entirely
// (production default for hot paths); level 1 enables host-side checks
// with file/line/function diagnostics; level 2 additionally annotates the
// panic as originating from a "device-proxy" check, for code paths that
// stand in for an assertion a real accelerator kernel would also run.
package assert

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// Level controls which assertions That and Device evaluate.
type Level int32

const (
	LevelNone Level = iota
	LevelHost
	LevelHostAndDevice
)

var level atomic.Int32

func init() {
	level.Store(int32(LevelHost))
}

// SetLevel changes the global assertion level.
func SetLevel(l Level) { level.Store(int32(l)) }

// CurrentLevel reports the global assertion level.
func CurrentLevel() Level { return Level(level.Load()) }

// That panics with a file/line/function-annotated message if cond is
// false and the current level is >= LevelHost.
func That(cond bool, format string, args ...any) {
	if CurrentLevel() < LevelHost {
		return
	}
	if !cond {
		panic(diagnose(1, format, args...))
	}
}

// Device is for checks that mirror an assertion a device kernel would also
// perform; it only fires at LevelHostAndDevice, so host-only test runs can
// disable the extra cost of double-checking device-side invariants.
func Device(cond bool, format string, args ...any) {
	if CurrentLevel() < LevelHostAndDevice {
		return
	}
	if !cond {
		panic("device-proxy " + diagnose(1, format, args...))
	}
}

func diagnose(skip int, format string, args ...any) string {
	pc, file, line, ok := runtime.Caller(skip + 1)
	msg := fmt.Sprintf(format, args...)
	if !ok {
		return fmt.Sprintf("assertion failed: %s", msg)
	}
	fn := runtime.FuncForPC(pc)
	name := "?"
	if fn != nil {
		name = fn.Name()
	}
	return fmt.Sprintf("assertion failed at %s:%d (%s): %s", file, line, name, msg)
}
