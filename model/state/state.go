package state

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/viant/flowrun/internal/clock"
)

// Kind represents the current kind of a task or flow run state
type Kind string

const (
	KindPending   Kind = "pending"
	KindWaiting   Kind = "waiting"
	KindFailed    Kind = "failed"
	KindSucceeded Kind = "succeeded"
	KindSkipped   Kind = "skipped"
)

// IsFinished returns true for kinds that will not transition any further
// without external input.
func (k Kind) IsFinished() bool {
	switch k {
	case KindFailed, KindSucceeded, KindSkipped:
		return true
	}
	return false
}

// State is the predicate and mutator surface the flow runner relies on.
type State interface {
	Kind() Kind
	Message() string
	IsPending() bool
	IsWaiting() bool
	IsFailed() bool
	IsSuccessful() bool
	IsFinished() bool
	Wait(reason string)
	Fail(reason string)
	Succeed()
}

// Base implements State; it is embedded by TaskState and FlowState.
type Base struct {
	mux       sync.RWMutex
	kind      Kind
	message   string
	updatedAt time.Time
}

func (b *Base) Kind() Kind {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return b.kind
}

func (b *Base) Message() string {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return b.message
}

// UpdatedAt returns the time of the last transition.
func (b *Base) UpdatedAt() time.Time {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return b.updatedAt
}

func (b *Base) IsPending() bool { return b.Kind() == KindPending }
func (b *Base) IsWaiting() bool { return b.Kind() == KindWaiting }
func (b *Base) IsFailed() bool  { return b.Kind() == KindFailed }

// IsSuccessful returns true for succeeded and skipped states; a skipped task
// never fails its flow.
func (b *Base) IsSuccessful() bool {
	kind := b.Kind()
	return kind == KindSucceeded || kind == KindSkipped
}

func (b *Base) IsFinished() bool { return b.Kind().IsFinished() }

func (b *Base) Wait(reason string) { b.set(KindWaiting, reason) }
func (b *Base) Fail(reason string) { b.set(KindFailed, reason) }
func (b *Base) Succeed()           { b.set(KindSucceeded, "") }

// Skip marks the state as skipped.
func (b *Base) Skip(reason string) { b.set(KindSkipped, reason) }

func (b *Base) set(kind Kind, message string) {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.kind = kind
	b.message = message
	b.updatedAt = clock.Now()
}

func (b *Base) String() string {
	kind, message := b.Kind(), b.Message()
	if message == "" {
		return string(kind)
	}
	return string(kind) + ": " + message
}

type encoded struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) MarshalJSON() ([]byte, error) {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return json.Marshal(encoded{Kind: b.kind, Message: b.message, UpdatedAt: b.updatedAt})
}

func (b *Base) UnmarshalJSON(data []byte) error {
	var e encoded
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	b.mux.Lock()
	defer b.mux.Unlock()
	b.kind, b.message, b.updatedAt = e.Kind, e.Message, e.UpdatedAt
	return nil
}

// TaskState represents the run state of a single task
type TaskState struct {
	Base
}

// FlowState represents the aggregate run state of a flow
type FlowState struct {
	Base
}

// NewTaskState creates a task state of the supplied kind
func NewTaskState(kind Kind, message string) *TaskState {
	ret := &TaskState{}
	ret.set(kind, message)
	return ret
}

// NewFlowState creates a pending flow state
func NewFlowState() *FlowState {
	ret := &FlowState{}
	ret.set(KindPending, "")
	return ret
}

var (
	_ State = (*TaskState)(nil)
	_ State = (*FlowState)(nil)
)
