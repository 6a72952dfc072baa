package event

import "time"

// Event types published by the flow runner
const (
	FlowStarted   = "flow.started"
	TaskSubmitted = "task.submitted"
	FlowFinished  = "flow.finished"
)

type Context struct {
	FlowID      string `json:"flowID"`
	FlowName    string `json:"flowName,omitempty"`
	FlowRunID   string `json:"flowRunID"`
	TaskName    string `json:"taskName,omitempty"`
	EventType   string `json:"eventType"`
	Action      string `json:"action,omitempty"`
	TimeTakenMs int    `json:"timeTakenMs,omitempty"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
