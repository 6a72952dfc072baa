// Package model groups the flow definition types: the task graph (graph), run
// states (state), run results (result), output serializers (serializer) and
// the action service contract (types).
package model
