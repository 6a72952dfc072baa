package graph

import (
	"fmt"
	"strings"

	"github.com/viant/flowrun/internal/idgen"
	"github.com/viant/flowrun/model/state"
)

// Flow is a named directed acyclic graph of tasks. The flow owns its tasks in
// an index table; edges refer to tasks by pointer, no back-pointers are kept.
type Flow struct {
	ID         string           `json:"id,omitempty" yaml:"id,omitempty"`
	Namespace  string           `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name       string           `json:"name" yaml:"name"`
	Version    string           `json:"version,omitempty" yaml:"version,omitempty"`
	Parameters state.Parameters `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	tasks    []*Task
	index    map[string]int
	edges    []*Edge
	edgeKeys map[EdgeKey]bool
}

// FlowOption customises a flow
type FlowOption func(f *Flow)

// WithFlowID sets flow identity
func WithFlowID(id string) FlowOption {
	return func(f *Flow) {
		f.ID = id
	}
}

// WithNamespace sets flow namespace
func WithNamespace(namespace string) FlowOption {
	return func(f *Flow) {
		f.Namespace = namespace
	}
}

// WithVersion sets flow version
func WithVersion(version string) FlowOption {
	return func(f *Flow) {
		f.Version = version
	}
}

// WithParameter declares a flow parameter
func WithParameter(name string, required bool) FlowOption {
	return func(f *Flow) {
		f.Parameters.Add(name, required)
	}
}

// NewFlow creates an empty flow
func NewFlow(name string, opts ...FlowOption) *Flow {
	ret := &Flow{Name: name}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.ID == "" {
		ret.ID = idgen.New()
	}
	return ret
}

func (f *Flow) init() {
	if f.index == nil {
		f.index = make(map[string]int)
		f.edgeKeys = make(map[EdgeKey]bool)
	}
}

// AddTask adds a task; names have to be unique within the flow.
func (f *Flow) AddTask(tasks ...*Task) error {
	f.init()
	for _, task := range tasks {
		if task == nil || task.Name == "" {
			return invalidf("task name was empty")
		}
		if _, ok := f.index[task.Name]; ok {
			return invalidf("duplicate task name %s", task.Name)
		}
		f.index[task.Name] = len(f.tasks)
		f.tasks = append(f.tasks, task)
	}
	return nil
}

// AddEdge adds an edge between two tasks of the flow. Adding an edge equal to
// an existing one is a no-op.
func (f *Flow) AddEdge(edge *Edge) error {
	f.init()
	for _, task := range []*Task{edge.upstream, edge.downstream} {
		if !f.owns(task) {
			return invalidf("task %s is not part of flow %s", task.Name, f.Name)
		}
	}
	if edge.upstream == edge.downstream {
		return invalidf("task %s cannot depend on itself", edge.upstream.Name)
	}
	if f.edgeKeys[edge.HashKey()] {
		return nil
	}
	for _, existing := range f.EdgesTo(edge.downstream) {
		if edge.key != "" && existing.key == edge.key {
			return invalidf("task %s already receives argument %s", edge.downstream.Name, edge.key)
		}
	}
	if f.reaches(edge.downstream, edge.upstream) {
		return invalidf("edge %v would create a cycle", edge)
	}
	f.edges = append(f.edges, edge)
	f.edgeKeys[edge.HashKey()] = true
	return nil
}

// Connect creates and adds an edge between two tasks referenced by name.
func (f *Flow) Connect(upstream, downstream string, opts ...EdgeOption) (*Edge, error) {
	up, ok := f.Task(upstream)
	if !ok {
		return nil, invalidf("unknown upstream task %s", upstream)
	}
	down, ok := f.Task(downstream)
	if !ok {
		return nil, invalidf("unknown downstream task %s", downstream)
	}
	edge, err := NewEdge(up, down, opts...)
	if err != nil {
		return nil, err
	}
	if err = f.AddEdge(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

func (f *Flow) owns(task *Task) bool {
	if task == nil {
		return false
	}
	idx, ok := f.index[task.Name]
	return ok && f.tasks[idx] == task
}

// reaches returns true when to is reachable from from.
func (f *Flow) reaches(from, to *Task) bool {
	visited := map[*Task]bool{}
	pending := []*Task{from}
	for len(pending) > 0 {
		task := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if task == to {
			return true
		}
		if visited[task] {
			continue
		}
		visited[task] = true
		for _, edge := range f.edges {
			if edge.upstream == task {
				pending = append(pending, edge.downstream)
			}
		}
	}
	return false
}

// Task returns a task by name
func (f *Flow) Task(name string) (*Task, bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.tasks[idx], true
}

// Tasks returns tasks in insertion order
func (f *Flow) Tasks() []*Task {
	return append([]*Task(nil), f.tasks...)
}

// Edges returns edges in insertion order
func (f *Flow) Edges() []*Edge {
	return append([]*Edge(nil), f.edges...)
}

// EdgesTo returns edges terminating at task
func (f *Flow) EdgesTo(task *Task) []*Edge {
	var result []*Edge
	for _, edge := range f.edges {
		if edge.downstream == task {
			result = append(result, edge)
		}
	}
	return result
}

// EdgesFrom returns edges originating at task
func (f *Flow) EdgesFrom(task *Task) []*Edge {
	var result []*Edge
	for _, edge := range f.edges {
		if edge.upstream == task {
			result = append(result, edge)
		}
	}
	return result
}

// UpstreamTasks returns distinct tasks task depends on
func (f *Flow) UpstreamTasks(task *Task) []*Task {
	return distinct(f.EdgesTo(task), (*Edge).Upstream)
}

// DownstreamTasks returns distinct tasks depending on task
func (f *Flow) DownstreamTasks(task *Task) []*Task {
	return distinct(f.EdgesFrom(task), (*Edge).Downstream)
}

func distinct(edges []*Edge, selector func(*Edge) *Task) []*Task {
	var result []*Task
	seen := map[*Task]bool{}
	for _, edge := range edges {
		task := selector(edge)
		if seen[task] {
			continue
		}
		seen[task] = true
		result = append(result, task)
	}
	return result
}

// TerminalTasks returns tasks without downstream dependents
func (f *Flow) TerminalTasks() []*Task {
	hasDownstream := map[*Task]bool{}
	for _, edge := range f.edges {
		hasDownstream[edge.upstream] = true
	}
	var result []*Task
	for _, task := range f.tasks {
		if !hasDownstream[task] {
			result = append(result, task)
		}
	}
	return result
}

// RequiredParams returns names of parameters a run has to supply
func (f *Flow) RequiredParams() []string {
	return f.Parameters.Required()
}

// SortedTasks returns tasks in topological order; ties keep insertion order.
func (f *Flow) SortedTasks() ([]*Task, error) {
	inDegree := make([]int, len(f.tasks))
	next := make([][]int, len(f.tasks))
	for _, edge := range f.edges {
		up, down := f.index[edge.upstream.Name], f.index[edge.downstream.Name]
		next[up] = append(next[up], down)
		inDegree[down]++
	}
	result := make([]*Task, 0, len(f.tasks))
	done := make([]bool, len(f.tasks))
	for len(result) < len(f.tasks) {
		ready := -1
		for i := range f.tasks {
			if !done[i] && inDegree[i] == 0 {
				ready = i
				break
			}
		}
		if ready == -1 {
			var remaining []string
			for i, task := range f.tasks {
				if !done[i] {
					remaining = append(remaining, task.Name)
				}
			}
			return nil, invalidf("flow %s has a cycle among tasks: %s", f.Name, strings.Join(remaining, ", "))
		}
		done[ready] = true
		result = append(result, f.tasks[ready])
		for _, down := range next[ready] {
			inDegree[down]--
		}
	}
	return result, nil
}

// Validate checks the flow structure
func (f *Flow) Validate() error {
	if f.Name == "" {
		return invalidf("flow name was empty")
	}
	for _, edge := range f.edges {
		if !f.owns(edge.upstream) || !f.owns(edge.downstream) {
			return invalidf("edge %v refers to a task outside of flow %s", edge, f.Name)
		}
	}
	for _, task := range f.tasks {
		if task.Fn == nil {
			return invalidf("task %s has no function", task.Name)
		}
	}
	if _, err := f.SortedTasks(); err != nil {
		return err
	}
	return nil
}

func (f *Flow) String() string {
	if f.Namespace == "" {
		return fmt.Sprintf("<Flow: %s>", f.Name)
	}
	return fmt.Sprintf("<Flow: %s/%s>", f.Namespace, f.Name)
}
