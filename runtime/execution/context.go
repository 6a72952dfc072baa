package execution

import (
	"context"
	"reflect"
)

// Context keys populated for every flow run
const (
	FlowKey          = "flow"
	FlowIDKey        = "flow_id"
	FlowNamespaceKey = "flow_namespace"
	FlowNameKey      = "flow_name"
	FlowVersionKey   = "flow_version"
	FlowRunIDKey     = "flow_run_id"
	ParamsKey        = "params"
	DateKey          = "dt"
	AsOfDateKey      = "as_of_dt"
	LastDateKey      = "last_dt"
)

// Context represents the execution context shared by all tasks of a flow run
type Context map[string]interface{}

// Merge returns a copy of c with values from others; later values win.
func (c Context) Merge(others ...map[string]interface{}) Context {
	ret := make(Context, len(c))
	for k, v := range c {
		ret[k] = v
	}
	for _, other := range others {
		for k, v := range other {
			ret[k] = v
		}
	}
	return ret
}

func (c Context) text(key string) string {
	if value, ok := c[key].(string); ok {
		return value
	}
	return ""
}

func (c Context) FlowID() string { return c.text(FlowIDKey) }

func (c Context) FlowName() string { return c.text(FlowNameKey) }

func (c Context) FlowNamespace() string { return c.text(FlowNamespaceKey) }

func (c Context) FlowVersion() string { return c.text(FlowVersionKey) }

func (c Context) FlowRunID() string { return c.text(FlowRunIDKey) }

// Params returns run parameters
func (c Context) Params() map[string]interface{} {
	if value, ok := c[ParamsKey].(map[string]interface{}); ok {
		return value
	}
	return nil
}

// Param returns a single run parameter
func (c Context) Param(name string) (interface{}, bool) {
	value, ok := c.Params()[name]
	return value, ok
}

var contextKey = KeyOf[Context]()

// WithContext returns ctx carrying the execution context
func WithContext(ctx context.Context, execContext Context) context.Context {
	return context.WithValue(ctx, contextKey, execContext)
}

// FromContext returns the execution context attached to ctx, or nil.
func FromContext(ctx context.Context) Context {
	return ContextValue[Context](ctx)
}

// ContextValue returns the value of the provided type from the context
func ContextValue[T any](ctx context.Context) T {
	key := KeyOf[T]()
	if value := ctx.Value(key); value != nil {
		return value.(T)
	}
	var t T
	return t
}

// KeyOf returns the reflect.Type of the provided type
func KeyOf[T any]() reflect.Type {
	var a T
	return reflect.TypeOf(a)
}
