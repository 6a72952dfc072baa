// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Edge and flow-run identifiers are produced here; callers should treat them
// as opaque strings.
package idgen
