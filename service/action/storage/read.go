package storage

import (
	"context"
	"fmt"
)

type ReadInput struct {
	URL string `json:"url"`
}

type ReadOutput struct {
	Content string `json:"content"`
}

func (o *ReadOutput) Value() interface{} { return o.Content }

// Read returns the content of the input URL
func (s *Service) Read(ctx context.Context, input *ReadInput, output *ReadOutput) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	data, err := s.fs.DownloadWithURL(ctx, input.URL)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input.URL, err)
	}
	output.Content = string(data)
	return nil
}
