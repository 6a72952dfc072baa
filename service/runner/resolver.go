package runner

import (
	"context"

	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/runtime/future"
)

// resolveInputs builds the keyed inputs of task from its incoming edges.
// Ordering edges carry no data and are skipped.
func resolveInputs(ctx context.Context, flow *graph.Flow, task *graph.Task, cache *decodeCache) map[string]*future.Future[any] {
	inputs := make(map[string]*future.Future[any])
	for _, edge := range flow.EdgesTo(task) {
		if !edge.HasData() {
			continue
		}
		if index, ok := edge.Index(); ok {
			inputs[edge.Key()] = cache.element(ctx, edge.Upstream(), index)
			continue
		}
		inputs[edge.Key()] = cache.value(ctx, edge.Upstream())
	}
	return inputs
}
