// Package flowrun executes task DAGs as dataflow runs.
//
// A flow is a set of named tasks connected by edges. Keyed edges pass the
// upstream task output (or an indexed element of it) to the downstream task as
// a named input; unkeyed edges only order execution. Every task is submitted
// to an executor up front and data dependencies are expressed as pending
// values, so a run blocks exactly once, when gathering task results. The flow
// state is then derived from the terminal tasks.
//
// The root package exposes a Service facade wiring the flow loader, action
// registry, executors, run events and tracing:
//
//	srv, _ := flowrun.New()
//	flow, _ := srv.LoadFlow(ctx, "etl.yaml")
//	run, _ := srv.Run(ctx, flow, map[string]interface{}{"region": "us"})
//	fmt.Println(run.State.Kind())
package flowrun
