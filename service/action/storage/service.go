// Package storage provides list, read and write actions over viant/afs
// supported storage (file, mem, cloud object stores).
package storage

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/flowrun/model/types"
)

const name = "storage"

// Service provides storage operations
type Service struct {
	fs afs.Service
}

// New creates a storage service
func New(fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "read",
			Description: "Returns content of url.",
			Input:       reflect.TypeOf(&ReadInput{}),
			Output:      reflect.TypeOf(&ReadOutput{}),
		},
		{
			Name:        "write",
			Description: "Writes data to url.",
			Input:       reflect.TypeOf(&WriteInput{}),
			Output:      reflect.TypeOf(&WriteOutput{}),
		},
		{
			Name:        "list",
			Description: "Lists assets under url.",
			Input:       reflect.TypeOf(&ListInput{}),
			Output:      reflect.TypeOf(&ListOutput{}),
		},
	}
}

func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "read":
		return s.read, nil
	case "write":
		return s.write, nil
	case "list":
		return s.list, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) read(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ReadInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ReadOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Read(ctx, input, output)
}

func (s *Service) write(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*WriteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*WriteOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Write(ctx, input, output)
}

func (s *Service) list(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ListInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ListOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.List(ctx, input, output)
}
