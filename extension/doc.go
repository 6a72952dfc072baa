// Package extension provides the registry of action services that flow
// definitions refer to by name, e.g. "printer.print" or "constant".
package extension
