package extension

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/types"
	"github.com/viant/structology/conv"
)

// Actions provides action service
type Actions struct {
	services  map[string]types.Service
	converter *conv.Converter
	mux       sync.RWMutex
}

// Lookup returns a service by name
func (s *Actions) Lookup(name string) types.Service {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.services[name]
}

// Register registers a service
func (s *Actions) Register(services ...types.Service) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, service := range services {
		s.services[service.Name()] = service
	}
}

// Names returns registered service names
func (s *Actions) Names() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]string, 0, len(s.services))
	for name := range s.services {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Func resolves an action reference into a task function. The reference is
// either "service.method" or "service", the latter selecting the first
// method the service declares.
func (s *Actions) Func(action string) (graph.Func, error) {
	serviceName, methodName := action, ""
	if idx := strings.LastIndex(action, "."); idx != -1 {
		serviceName, methodName = action[:idx], action[idx+1:]
	}
	service := s.Lookup(serviceName)
	if service == nil {
		return nil, fmt.Errorf("service %v not found", serviceName)
	}
	signatures := service.Methods()
	if methodName == "" {
		if len(signatures) == 0 {
			return nil, fmt.Errorf("service %v has no methods", serviceName)
		}
		methodName = signatures[0].Name
	}
	signature := signatures.Lookup(methodName)
	if signature == nil {
		return nil, types.NewMethodNotFoundError(methodName)
	}
	method, err := service.Method(methodName)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", methodName, serviceName, err)
	}
	return s.adapt(signature, method), nil
}

func (s *Actions) adapt(signature *types.Signature, method types.Executable) graph.Func {
	return func(ctx context.Context, inputs map[string]interface{}) (interface{}, error) {
		var input interface{} = inputs
		if signature.Input != nil {
			input = newInstancePtr(signature.Input)
			if len(inputs) > 0 {
				if err := s.converter.Convert(inputs, input); err != nil {
					return nil, fmt.Errorf("failed to convert %v input: %w", signature.Name, err)
				}
			}
		}
		output := newInstancePtr(signature.Output)
		if err := method(ctx, input, output); err != nil {
			return nil, err
		}
		if valuer, ok := output.(types.Valuer); ok {
			return valuer.Value(), nil
		}
		return output, nil
	}
}

// newInstancePtr creates a new instance pointer of the given type
func newInstancePtr(t reflect.Type) interface{} {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

// NewActions creates a new action service
func NewActions(services ...types.Service) *Actions {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	ret := &Actions{
		services:  make(map[string]types.Service),
		converter: conv.NewConverter(options),
	}
	ret.Register(services...)
	return ret
}
