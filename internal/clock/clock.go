// Package clock centralises time lookups so that run timestamps can be
// pinned in tests.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since returns the elapsed time measured against NowFunc.
func Since(t time.Time) time.Duration { return Now().Sub(t) }
