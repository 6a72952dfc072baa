package runner

import (
	"errors"
	"strings"
)

// ErrMissingParameter is matched by every *MissingParameterError.
var ErrMissingParameter = errors.New("missing required parameter")

// MissingParameterError reports required flow parameters absent from a run.
type MissingParameterError struct {
	Names []string
}

func (e *MissingParameterError) Error() string {
	return "a required parameter was not provided: " + strings.Join(e.Names, ", ")
}

func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }
