// Package executor defines the scoped session a flow run submits work to:
// helper functions producing pending values, task runs awaiting their
// upstream results and inputs, and the single blocking gather. The local and
// inline sub-packages provide concurrent and synchronous backends.
package executor
