package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Kind tags which input shape a Spec carries.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindMapping
	KindDescriptor
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindDescriptor:
		return "descriptor"
	default:
		return "none"
	}
}

// Spec is user-supplied provider input in one of three shapes: a
// "provider[:model]" string, a mapping, or an already canonical descriptor.
type Spec struct {
	kind       Kind
	text       string
	mapping    map[string]any
	descriptor Descriptor
}

// FromString wraps a "provider[:model]" string.
func FromString(s string) Spec {
	return Spec{kind: KindString, text: s}
}

// FromMap wraps a mapping with provider/name, deployment/location and model keys.
func FromMap(m map[string]any) Spec {
	clone := make(map[string]any, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return Spec{kind: KindMapping, mapping: clone}
}

// FromDescriptor wraps a canonical descriptor.
func FromDescriptor(d Descriptor) Spec {
	return Spec{kind: KindDescriptor, descriptor: d}
}

// Kind reports the shape carried by the spec.
func (s Spec) Kind() Kind {
	return s.kind
}

// IsZero reports whether the spec carries nothing.
func (s Spec) IsZero() bool {
	return s.kind == KindNone
}

// Descriptor coerces the spec into its canonical descriptor.
func (s Spec) Descriptor() (Descriptor, error) {
	return Coerce(s)
}

// UnmarshalYAML accepts a scalar ("openai:gpt-4o") or a mapping node.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var text string
		if err := node.Decode(&text); err != nil {
			return fmt.Errorf("provider: decode spec: %w", err)
		}
		*s = FromString(text)
		return nil
	case yaml.MappingNode:
		var m map[string]any
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("provider: decode spec: %w", err)
		}
		*s = FromMap(m)
		return nil
	default:
		return fmt.Errorf("provider: line %d: spec must be a string or mapping", node.Line)
	}
}

// UnmarshalJSON accepts a JSON string or object.
func (s *Spec) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return fmt.Errorf("provider: decode spec: %w", err)
		}
		*s = FromString(text)
	case len(trimmed) > 0 && trimmed[0] == '{':
		var m map[string]any
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return fmt.Errorf("provider: decode spec: %w", err)
		}
		*s = FromMap(m)
	default:
		return fmt.Errorf("provider: spec must be a JSON string or object, got %s", trimmed)
	}
	return nil
}

// MarshalYAML writes the spec back in the shape it was given.
func (s Spec) MarshalYAML() (any, error) {
	return s.raw(), nil
}

// MarshalJSON writes the spec back in the shape it was given.
func (s Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.raw())
}

func (s Spec) raw() any {
	switch s.kind {
	case KindString:
		return s.text
	case KindMapping:
		return s.mapping
	case KindDescriptor:
		return s.descriptor
	default:
		return nil
	}
}

// Coerce normalizes any supported spec shape into a Descriptor.
func Coerce(value any) (Descriptor, error) {
	switch v := value.(type) {
	case Descriptor:
		return v, nil
	case *Descriptor:
		if v == nil {
			return Descriptor{}, &UnsupportedSpecError{Value: value}
		}
		return *v, nil
	case Spec:
		switch v.kind {
		case KindString:
			return fromString(v.text), nil
		case KindMapping:
			return fromMapping(v.mapping)
		case KindDescriptor:
			return v.descriptor, nil
		default:
			return Descriptor{}, &UnsupportedSpecError{Value: value}
		}
	case *Spec:
		if v == nil {
			return Descriptor{}, &UnsupportedSpecError{Value: value}
		}
		return Coerce(*v)
	case string:
		return fromString(v), nil
	case map[string]any, map[string]string, map[any]any:
		return fromMapping(v)
	default:
		return Descriptor{}, &UnsupportedSpecError{Value: value}
	}
}

func fromString(spec string) Descriptor {
	providerPart, modelPart, hasModel := strings.Cut(spec, ":")
	name := strings.TrimSpace(providerPart)
	model := ""
	if hasModel {
		model = strings.TrimSpace(modelPart)
	}
	deployment := DeploymentCloud
	lower := strings.ToLower(name)
	if lower == Ollama || lower == DeploymentLocal {
		deployment = DeploymentLocal
	}
	// "local:ollama" names the runtime first and the provider second.
	if lower == DeploymentLocal && model != "" {
		name, model = model, ""
	}
	return Descriptor{Provider: name, Deployment: deployment, Model: model}
}

type mappingFields struct {
	Provider   any `mapstructure:"provider"`
	Name       any `mapstructure:"name"`
	Deployment any `mapstructure:"deployment"`
	Location   any `mapstructure:"location"`
	Model      any `mapstructure:"model"`
}

func fromMapping(value any) (Descriptor, error) {
	var fields mappingFields
	if err := mapstructure.Decode(value, &fields); err != nil {
		return Descriptor{}, &ValidationError{Reason: err.Error()}
	}
	providerValue := firstTruthy(fields.Provider, fields.Name)
	if providerValue == nil {
		return Descriptor{}, &ValidationError{Reason: "mapping must include a 'provider' or 'name' key"}
	}
	name := fmt.Sprint(providerValue)
	deployment := defaultDeployment(name)
	if deploymentValue := firstTruthy(fields.Deployment, fields.Location); deploymentValue != nil {
		deployment = fmt.Sprint(deploymentValue)
	}
	model := ""
	if fields.Model != nil {
		model = fmt.Sprint(fields.Model)
	}
	return Descriptor{Provider: name, Deployment: deployment, Model: model}, nil
}

func firstTruthy(values ...any) any {
	for _, value := range values {
		if truthy(value) {
			return value
		}
	}
	return nil
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}
