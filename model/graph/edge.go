package graph

import (
	"encoding/json"
	"fmt"

	"github.com/viant/flowrun/internal/idgen"
)

// Edge is an immutable dependency between two tasks. An edge without a key is
// a pure ordering constraint and carries no data.
type Edge struct {
	id         string
	upstream   *Task
	downstream *Task
	key        string
	index      *int
}

// EdgeOption customises edge construction
type EdgeOption func(e *Edge) error

// WithKey sets the argument name the upstream result is passed under.
func WithKey(key string) EdgeOption {
	return func(e *Edge) error {
		e.key = key
		return nil
	}
}

// WithIndex passes only the element at index of the upstream result.
func WithIndex(index int) EdgeOption {
	return func(e *Edge) error {
		if index < 0 {
			return invalidf("upstream index must not be negative: %d", index)
		}
		e.index = &index
		return nil
	}
}

// WithID sets edge identity; it has to be a valid UUID.
func WithID(id string) EdgeOption {
	return func(e *Edge) error {
		normalized, err := idgen.Normalize(id)
		if err != nil {
			return invalidf("invalid edge id %q: %v", id, err)
		}
		e.id = normalized
		return nil
	}
}

// NewEdge creates an edge from upstream to downstream.
func NewEdge(upstream, downstream *Task, opts ...EdgeOption) (*Edge, error) {
	if upstream == nil || downstream == nil {
		return nil, invalidf("edge requires both upstream and downstream task")
	}
	ret := &Edge{upstream: upstream, downstream: downstream}
	for _, opt := range opts {
		if err := opt(ret); err != nil {
			return nil, err
		}
	}
	if ret.key != "" && !IsValidIdentifier(ret.key) {
		return nil, invalidf("key must be a valid identifier (received %q)", ret.key)
	}
	if ret.index != nil && ret.key == "" {
		return nil, invalidf("upstream index %d requires a key", *ret.index)
	}
	if ret.id == "" {
		ret.id = idgen.New()
	}
	return ret, nil
}

func (e *Edge) ID() string { return e.id }

func (e *Edge) Upstream() *Task { return e.upstream }

func (e *Edge) Downstream() *Task { return e.downstream }

func (e *Edge) Key() string { return e.key }

// Index returns the upstream index and whether it is set.
func (e *Edge) Index() (int, bool) {
	if e.index == nil {
		return 0, false
	}
	return *e.index, true
}

// HasData returns true when the edge passes the upstream result downstream.
func (e *Edge) HasData() bool { return e.key != "" }

// EdgeKey is a comparable edge identity consistent with Equal.
type EdgeKey struct {
	Upstream   *Task
	Downstream *Task
	Key        string
}

// HashKey returns the edge identity; id and index are excluded.
func (e *Edge) HashKey() EdgeKey {
	return EdgeKey{Upstream: e.upstream, Downstream: e.downstream, Key: e.key}
}

// Equal reports whether both edges connect the same tasks with the same key.
func (e *Edge) Equal(other *Edge) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.HashKey() == other.HashKey()
}

func (e *Edge) String() string {
	if e.key == "" {
		return fmt.Sprintf("<Edge: %s to %s>", e.upstream, e.downstream)
	}
	return fmt.Sprintf("<Edge: %s to %s (key=%s)>", e.upstream, e.downstream, e.key)
}

// EdgeSpec is the serializable form of an edge, tasks are referenced by name.
type EdgeSpec struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Upstream   string `json:"upstream" yaml:"upstream"`
	Downstream string `json:"downstream" yaml:"downstream"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	Index      *int   `json:"index,omitempty" yaml:"index,omitempty"`
}

// Spec returns the serializable form of the edge
func (e *Edge) Spec() *EdgeSpec {
	ret := &EdgeSpec{ID: e.id, Upstream: e.upstream.Name, Downstream: e.downstream.Name, Key: e.key}
	if e.index != nil {
		index := *e.index
		ret.Index = &index
	}
	return ret
}

// Options returns edge options reproducing s
func (s *EdgeSpec) Options() []EdgeOption {
	var ret []EdgeOption
	if s.ID != "" {
		ret = append(ret, WithID(s.ID))
	}
	if s.Key != "" {
		ret = append(ret, WithKey(s.Key))
	}
	if s.Index != nil {
		ret = append(ret, WithIndex(*s.Index))
	}
	return ret
}

func (e *Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Spec())
}
