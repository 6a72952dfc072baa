package runner

import (
	"context"
	"fmt"
	"reflect"

	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/runtime/future"
	"github.com/viant/flowrun/service/executor"
)

// decodeCache memoizes decoded upstream results within one run. It is only
// used from the submitting goroutine.
type decodeCache struct {
	client  executor.Client
	results map[string]*future.Future[*result.RunResult]
	decoded map[string]*future.Future[any]
}

func newDecodeCache(client executor.Client, results map[string]*future.Future[*result.RunResult]) *decodeCache {
	return &decodeCache{client: client, results: results, decoded: make(map[string]*future.Future[any])}
}

// value returns the decoded result of task, submitting the decode only once.
func (c *decodeCache) value(ctx context.Context, task *graph.Task) *future.Future[any] {
	if pending, ok := c.decoded[task.Name]; ok {
		return pending
	}
	pending := c.client.Submit(ctx, "decode:"+task.Name, decodeResult(task, c.results[task.Name]), false)
	c.decoded[task.Name] = pending
	return pending
}

// element returns the value at index of the decoded result of task.
func (c *decodeCache) element(ctx context.Context, task *graph.Task, index int) *future.Future[any] {
	source := c.value(ctx, task)
	key := fmt.Sprintf("index:%s:%d", task.Name, index)
	return c.client.Submit(ctx, key, func(ctx context.Context) (interface{}, error) {
		value, err := source.Await(ctx)
		if err != nil {
			return nil, err
		}
		return elementAt(task, value, index)
	}, true)
}

func decodeResult(task *graph.Task, pending *future.Future[*result.RunResult]) executor.HelperFunc {
	return func(ctx context.Context) (interface{}, error) {
		if pending == nil {
			return nil, nil
		}
		upstream, err := pending.Await(ctx)
		if err != nil {
			return nil, err
		}
		raw, ok := upstream.Raw()
		if !ok {
			return nil, nil
		}
		value, err := task.Decode(raw)
		if err != nil {
			return nil, &graph.DecodeError{Task: task.Name, Err: err}
		}
		return value, nil
	}
}

func elementAt(task *graph.Task, value interface{}, index int) (interface{}, error) {
	if value == nil {
		return nil, graph.Failf("cannot index result of %s: result was empty", task.Name)
	}
	if items, ok := value.([]interface{}); ok {
		if index >= len(items) {
			return nil, graph.Failf("index %d out of range for result of %s (len %d)", index, task.Name, len(items))
		}
		return items[index], nil
	}
	if text, ok := value.(string); ok {
		runes := []rune(text)
		if index >= len(runes) {
			return nil, graph.Failf("index %d out of range for result of %s (len %d)", index, task.Name, len(runes))
		}
		return string(runes[index]), nil
	}
	rValue := reflect.ValueOf(value)
	switch rValue.Kind() {
	case reflect.Slice, reflect.Array:
		if index >= rValue.Len() {
			return nil, graph.Failf("index %d out of range for result of %s (len %d)", index, task.Name, rValue.Len())
		}
		return rValue.Index(index).Interface(), nil
	}
	return nil, graph.Failf("cannot index result of %s: unsupported type %T", task.Name, value)
}
