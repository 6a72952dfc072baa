package executor

import "errors"

var (
	ErrClientClosed = errors.New("executor client closed")
	ErrNoFunction   = errors.New("task has no function")
)
