package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/viant/afs/file"
)

type WriteInput struct {
	URL  string      `json:"url"`
	Data interface{} `json:"data"`
}

type WriteOutput struct {
	Asset *Asset `json:"asset"`
}

func (o *WriteOutput) Value() interface{} { return o.Asset.URL }

// Write uploads data to the input URL; non string data is written as JSON.
func (s *Service) Write(ctx context.Context, input *WriteInput, output *WriteOutput) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	var data []byte
	switch actual := input.Data.(type) {
	case string:
		data = []byte(actual)
	case []byte:
		data = actual
	default:
		var err error
		if data, err = sonic.ConfigStd.Marshal(actual); err != nil {
			return fmt.Errorf("failed to encode data for %s: %w", input.URL, err)
		}
	}
	if err := s.fs.Upload(ctx, input.URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", input.URL, err)
	}
	object, err := s.fs.Object(ctx, input.URL)
	if err != nil {
		return fmt.Errorf("failed to get object for %s: %w", input.URL, err)
	}
	output.Asset = &Asset{
		URL:         input.URL,
		Name:        filepath.Base(input.URL),
		Size:        object.Size(),
		ModTime:     object.ModTime(),
		ContentType: ContentType(input.URL),
	}
	return nil
}
