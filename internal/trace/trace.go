// Package trace provides lightweight, opt-in logging gated by an
// explicit Enable call rather than firing on every run. lpcat and
// lpshift call Enable under -v; no package in this repository calls
// Printf, so enabling it produces no output.
package trace

import (
	"log"
	"sync/atomic"
)

var enabled atomic.Bool

// Enable turns tracing on, typically called once from main when -v is set.
func Enable() { enabled.Store(true) }

// Disable turns tracing back off.
func Disable() { enabled.Store(false) }

// Enabled reports whether tracing is currently on.
func Enabled() bool { return enabled.Load() }

// Printf logs format/args via the standard logger, prefixed with a tag,
// when tracing is enabled; otherwise it is a no-op.
func Printf(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	log.Printf("[asptools] "+format, args...)
}
