// Package constant provides an action returning its "value" input, which
// makes static data available to downstream tasks through edges.
package constant

import (
	"context"
	"reflect"

	"github.com/viant/flowrun/model/types"
)

const name = "constant"

// ValueKey is the input returned by the action
const ValueKey = "value"

type Service struct{}

type Output struct {
	value interface{}
}

func (o *Output) Value() interface{} { return o.value }

func New() *Service {
	return &Service{}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "value",
			Description: "Returns the value input unchanged.",
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

func (s *Service) Method(name string) (types.Executable, error) {
	if name != "value" {
		return nil, types.NewMethodNotFoundError(name)
	}
	return s.value, nil
}

func (s *Service) value(ctx context.Context, in, out interface{}) error {
	inputs, ok := in.(map[string]interface{})
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.value = inputs[ValueKey]
	return nil
}
