package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

type ListInput struct {
	URL       string `json:"url"`
	Recursive bool   `json:"recursive,omitempty"`
}

type ListOutput struct {
	Assets []*Asset `json:"assets,omitempty"`
}

// Value returns listed asset URLs, so an indexed edge can select one of them
func (o *ListOutput) Value() interface{} {
	ret := make([]interface{}, 0, len(o.Assets))
	for _, asset := range o.Assets {
		ret = append(ret, asset.URL)
	}
	return ret
}

// List lists files under the input URL; the listed location itself is skipped.
func (s *Service) List(ctx context.Context, input *ListInput, output *ListOutput) error {
	if input.URL == "" {
		return fmt.Errorf("url was empty")
	}
	var options []storage.Option
	if input.Recursive {
		options = append(options, option.NewRecursive(true))
	}
	objects, err := s.fs.List(ctx, input.URL, options...)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", input.URL, err)
	}
	root := url.Path(input.URL)
	for _, object := range objects {
		if object.IsDir() && url.Path(object.URL()) == root {
			continue
		}
		output.Assets = append(output.Assets, &Asset{
			URL:         object.URL(),
			Name:        path.Base(object.URL()),
			IsDir:       object.IsDir(),
			Size:        object.Size(),
			ModTime:     object.ModTime(),
			ContentType: ContentType(object.URL()),
		})
	}
	return nil
}
