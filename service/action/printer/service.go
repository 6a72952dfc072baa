package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/viant/flowrun/model/types"
)

const name = "printer"

// Service prints task inputs, one "key: value" line per input.
type Service struct {
	writer io.Writer
	mux    sync.Mutex
}

// Output passes inputs through to downstream tasks
type Output struct {
	values map[string]interface{}
}

func (o *Output) Value() interface{} { return o.values }

// New creates a printer writing to w, os.Stdout when nil.
func New(w io.Writer) *Service {
	if w == nil {
		w = os.Stdout
	}
	return &Service{writer: w}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "print",
			Description: "Prints task inputs to the configured writer.",
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "print":
		return s.print, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) print(ctx context.Context, in, out interface{}) error {
	inputs, ok := in.(map[string]interface{})
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, k := range keys {
		value := inputs[k]
		if text, ok := value.(string); ok {
			builder.WriteString(fmt.Sprintf("%s: %s\n", k, text))
			continue
		}
		data, err := sonic.ConfigStd.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to print %v: %w", k, err)
		}
		builder.WriteString(fmt.Sprintf("%s: %s\n", k, data))
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, err := io.WriteString(s.writer, builder.String()); err != nil {
		return err
	}
	output.values = inputs
	return nil
}
