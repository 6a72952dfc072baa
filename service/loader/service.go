// Package loader builds flows from YAML definitions. Task actions are resolved
// through the extension registry; loaded definitions are cached per URL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/flowrun/extension"
	"github.com/viant/flowrun/internal/clock"
	"github.com/viant/flowrun/internal/yml"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/serializer"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/flowrun/service/dao"
	"github.com/viant/flowrun/service/dao/store"
	"github.com/viant/flowrun/service/meta"
	"gopkg.in/yaml.v3"
)

// Definition is a parsed flow together with its source.
type Definition struct {
	URL      string
	Source   []byte
	Flow     *graph.Flow
	LoadedAt time.Time
}

// Service loads flow definitions
type Service struct {
	meta    *meta.Service
	actions *extension.Actions
	cache   dao.Service[string, Definition]
	logger  zerolog.Logger
}

// New creates a loader resolving task actions with actions.
func New(actions *extension.Actions, opts ...Option) *Service {
	ret := &Service{
		actions: actions,
		cache:   store.NewMemoryStore[string, Definition](func(d *Definition) string { return d.URL }),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.meta == nil {
		ret.meta = meta.New(nil, "")
	}
	return ret
}

// Load returns the flow defined at URL, using the cached definition if any.
// A URL without extension is assumed to be a .yaml file.
func (s *Service) Load(ctx context.Context, URL string) (*graph.Flow, error) {
	URL = s.meta.URL(normalizeURL(URL))
	definition, err := s.cache.Load(ctx, URL)
	if err == nil {
		return definition.Flow, nil
	}
	if !errors.Is(err, dao.ErrNotFound) {
		return nil, err
	}
	return s.Refresh(ctx, URL)
}

// Refresh downloads and parses the flow at URL replacing any cached version.
func (s *Service) Refresh(ctx context.Context, URL string) (*graph.Flow, error) {
	URL = s.meta.URL(normalizeURL(URL))
	data, err := s.meta.Download(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow from %s: %w", URL, err)
	}
	return s.Upsert(ctx, URL, data)
}

// Upsert parses data and caches it under URL.
func (s *Service) Upsert(ctx context.Context, URL string, data []byte) (*graph.Flow, error) {
	URL = s.meta.URL(normalizeURL(URL))
	flow, err := s.decode(nameFromURL(URL), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flow from %s: %w", URL, err)
	}
	definition := &Definition{URL: URL, Source: data, Flow: flow, LoadedAt: clock.Now()}
	if err = s.cache.Save(ctx, definition); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("url", URL).Str("flow", flow.Name).Int("tasks", len(flow.Tasks())).Msg("flow loaded")
	return flow, nil
}

// Definitions returns cached definitions
func (s *Service) Definitions(ctx context.Context) ([]*Definition, error) {
	return s.cache.List(ctx)
}

// DecodeYAML decodes a flow from YAML without caching it.
func (s *Service) DecodeYAML(data []byte) (*graph.Flow, error) {
	return s.decode("", data)
}

func (s *Service) decode(defaultName string, data []byte) (*graph.Flow, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	root := (*yml.Node)(&node).Root()
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected flow mapping", root.Line)
	}

	flow := graph.NewFlow(defaultName)
	var tasksNode, edgesNode *yml.Node
	err := root.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "id":
			flow.ID = valueNode.Value
		case "name":
			flow.Name = valueNode.Value
		case "namespace":
			flow.Namespace = valueNode.Value
		case "version":
			flow.Version = valueNode.Value
		case "parameters":
			return valueNode.Items(func(_ int, item *yml.Node) error {
				param := &state.Parameter{}
				if err := item.Decode(param); err != nil {
					return fmt.Errorf("line %d: invalid parameter: %w", item.Line, err)
				}
				if param.Name == "" {
					return fmt.Errorf("line %d: parameter name was empty", item.Line)
				}
				flow.Parameters = append(flow.Parameters, param)
				return nil
			})
		case "tasks":
			tasksNode = valueNode
		case "edges":
			edgesNode = valueNode
		default:
			return fmt.Errorf("line %d: unsupported flow attribute %q", valueNode.Line, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if flow.Name == "" {
		flow.Name = generateAnonymousName()
	}
	if tasksNode != nil {
		if err = tasksNode.Pairs(func(name string, taskNode *yml.Node) error {
			task, err := s.parseTask(name, taskNode)
			if err != nil {
				return err
			}
			return flow.AddTask(task)
		}); err != nil {
			return nil, err
		}
	}
	if edgesNode != nil {
		if err = edgesNode.Items(func(_ int, item *yml.Node) error {
			spec := &graph.EdgeSpec{}
			if err := item.Decode(spec); err != nil {
				return fmt.Errorf("line %d: invalid edge: %w", item.Line, err)
			}
			if _, err := flow.Connect(spec.Upstream, spec.Downstream, spec.Options()...); err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	if err = flow.Validate(); err != nil {
		return nil, err
	}
	return flow, nil
}

func (s *Service) parseTask(name string, node *yml.Node) (*graph.Task, error) {
	task := &graph.Task{Name: name}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "action":
			task.Action = valueNode.Value
		case "description":
			task.Description = valueNode.Value
		case "input":
			input, ok := valueNode.Interface().(map[string]interface{})
			if !ok {
				return fmt.Errorf("line %d: task %s input has to be a mapping", valueNode.Line, name)
			}
			task.Input = input
		case "serializer":
			codec, err := serializer.Lookup(valueNode.Value)
			if err != nil {
				return fmt.Errorf("line %d: task %s: %w", valueNode.Line, name, err)
			}
			task.Serializer = codec
		case "trigger":
			trigger, err := parseTrigger(valueNode.Value)
			if err != nil {
				return fmt.Errorf("line %d: task %s: %w", valueNode.Line, name, err)
			}
			task.Trigger = trigger
		default:
			return fmt.Errorf("line %d: unsupported task attribute %q", valueNode.Line, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if task.Action == "" {
		return nil, fmt.Errorf("task %s: action was empty", name)
	}
	if task.Fn, err = s.actions.Func(task.Action); err != nil {
		return nil, fmt.Errorf("task %s: %w", name, err)
	}
	return task, nil
}

func parseTrigger(value string) (graph.Trigger, error) {
	for _, candidate := range []graph.Trigger{graph.AllSuccessful, graph.AllFinished} {
		if strings.EqualFold(value, string(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unsupported trigger %q", value)
}

func normalizeURL(URL string) string {
	if filepath.Ext(URL) == "" {
		return URL + ".yaml"
	}
	return URL
}

// nameFromURL extracts flow name from URL (file name without extension)
func nameFromURL(URL string) string {
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var counter int32

func generateAnonymousName() string {
	return fmt.Sprintf("anonymous-%d", atomic.AddInt32(&counter, 1))
}
