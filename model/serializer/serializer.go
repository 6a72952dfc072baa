// Package serializer encodes task outputs into raw bytes and decodes them back
// for downstream tasks.
package serializer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

func init() {
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
}

// Serializer converts task output to and from its raw representation
type Serializer interface {
	Name() string
	Encode(value interface{}) ([]byte, error)
	Decode(data []byte) (interface{}, error)
}

const (
	JSONName = "json"
	YAMLName = "yaml"
	GobName  = "gob"
)

// JSON serializer backed by sonic
type JSON struct{}

func (JSON) Name() string { return JSONName }

func (JSON) Encode(value interface{}) ([]byte, error) {
	return sonic.ConfigStd.Marshal(value)
}

func (JSON) Decode(data []byte) (interface{}, error) {
	var value interface{}
	if err := sonic.ConfigStd.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// YAML serializer
type YAML struct{}

func (YAML) Name() string { return YAMLName }

func (YAML) Encode(value interface{}) ([]byte, error) {
	return yaml.Marshal(value)
}

func (YAML) Decode(data []byte) (interface{}, error) {
	var value interface{}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// Gob serializer; concrete types other than builtins must be gob.Register-ed.
type Gob struct{}

func (Gob) Name() string { return GobName }

func (Gob) Encode(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	iv := value
	if err := gob.NewEncoder(&buf).Encode(&iv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Decode(data []byte) (interface{}, error) {
	var value interface{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// Default returns the serializer used when a task does not declare one.
func Default() Serializer { return JSON{} }

// Lookup returns a serializer by name; empty name resolves to Default.
func Lookup(name string) (Serializer, error) {
	switch strings.ToLower(name) {
	case "", JSONName:
		return JSON{}, nil
	case YAMLName, "yml":
		return YAML{}, nil
	case GobName:
		return Gob{}, nil
	}
	return nil, fmt.Errorf("unsupported serializer: %s", name)
}
