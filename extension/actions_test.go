package extension

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowrun/model/types"
	"github.com/viant/flowrun/service/action/constant"
	"github.com/viant/flowrun/service/action/nop"
	"github.com/viant/flowrun/service/action/printer"
)

type greetInput struct {
	Name string
}

type greetOutput struct {
	Greeting string
}

type greeter struct{}

func (greeter) Name() string { return "greeter" }

func (greeter) Methods() types.Signatures {
	return []types.Signature{{Name: "greet", Input: reflect.TypeOf(&greetInput{}), Output: reflect.TypeOf(&greetOutput{})}}
}

func (greeter) Method(name string) (types.Executable, error) {
	return func(ctx context.Context, in, out interface{}) error {
		out.(*greetOutput).Greeting = "hello " + in.(*greetInput).Name
		return nil
	}, nil
}

func TestActions_Func(t *testing.T) {
	buffer := &bytes.Buffer{}
	actions := NewActions(nop.New(), printer.New(buffer), constant.New(), greeter{})
	assert.Equal(t, []string{"constant", "greeter", "nop", "printer"}, actions.Names())

	testCases := []struct {
		description string
		action      string
		inputs      map[string]interface{}
		expect      interface{}
		expectError bool
	}{
		{description: "nop", action: "nop", expect: nil},
		{description: "constant", action: "constant", inputs: map[string]interface{}{"value": []interface{}{1, 2}}, expect: []interface{}{1, 2}},
		{description: "printer with method", action: "printer.print", inputs: map[string]interface{}{"b": 2, "a": "x"}, expect: map[string]interface{}{"b": 2, "a": "x"}},
		{description: "typed input", action: "greeter.greet", inputs: map[string]interface{}{"Name": "flow"}, expect: &greetOutput{Greeting: "hello flow"}},
		{description: "unknown service", action: "mailer", expectError: true},
		{description: "unknown method", action: "printer.scan", expectError: true},
	}

	for _, testCase := range testCases {
		fn, err := actions.Func(testCase.action)
		if testCase.expectError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		output, err := fn(context.Background(), testCase.inputs)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, output, testCase.description)
	}
	assert.Equal(t, "a: x\nb: 2\n", buffer.String())
}
