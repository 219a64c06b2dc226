package invoker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jjfiv/quizdown/pkg/boundary"
)

// Configuration is the render configuration passed to the native side. It
// is either a StructuredConfig or a RawConfig; a nil Configuration selects
// the native default.
type Configuration interface {
	configuration()
}

// StructuredConfig is a configuration mapping. It is merged over the
// defaults before the call, so partial mappings are fine.
type StructuredConfig map[string]any

// RawConfig is a pre-serialized JSON object sent verbatim.
type RawConfig string

func (StructuredConfig) configuration() {}
func (RawConfig) configuration()        {}

// ConfigFrom converts a dynamically typed value into a Configuration.
// Accepted shapes are nil, Configuration values, map[string]any, string and
// []byte. Anything else is a validation error.
func ConfigFrom(value any) (Configuration, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case StructuredConfig:
		return v, nil
	case RawConfig:
		return v, nil
	case map[string]any:
		return StructuredConfig(v), nil
	case string:
		return RawConfig(v), nil
	case []byte:
		return RawConfig(v), nil
	default:
		return nil, boundary.Invalid("configuration", fmt.Sprintf("%T", value), "expected a mapping or a JSON string")
	}
}

// Override returns a copy of cfg with the dotted path set to value, e.g.
// Override(cfg, "syntax.theme", "monokai"). A nil cfg starts from an empty
// structured configuration.
func Override(cfg Configuration, path string, value any) (Configuration, error) {
	if strings.TrimSpace(path) == "" {
		return nil, boundary.Invalid("configuration path", path, "must not be empty")
	}

	switch c := cfg.(type) {
	case nil:
		return overrideStructured(StructuredConfig{}, path, value)
	case StructuredConfig:
		return overrideStructured(c, path, value)
	case RawConfig:
		if !isJSONObject(string(c)) {
			return nil, boundary.Invalid("configuration", string(c), "not a JSON object")
		}
		updated, err := sjson.Set(string(c), path, value)
		if err != nil {
			return nil, fmt.Errorf("invoker: override %s: %w", path, err)
		}
		return RawConfig(updated), nil
	default:
		return nil, boundary.Invalid("configuration", fmt.Sprintf("%T", cfg), "unsupported configuration type")
	}
}

func overrideStructured(cfg StructuredConfig, path string, value any) (Configuration, error) {
	encoded, err := json.Marshal(map[string]any(cfg))
	if err != nil {
		return nil, fmt.Errorf("invoker: encode configuration: %w", err)
	}
	updated, err := sjson.SetBytes(encoded, path, value)
	if err != nil {
		return nil, fmt.Errorf("invoker: override %s: %w", path, err)
	}
	out := StructuredConfig{}
	if err := json.Unmarshal(updated, &out); err != nil {
		return nil, fmt.Errorf("invoker: decode configuration: %w", err)
	}
	return out, nil
}

func isJSONObject(text string) bool {
	return gjson.Valid(text) && gjson.Parse(text).IsObject()
}

// mergeConfig deep-merges override into a copy of base. Keys present in
// base must keep their JSON kind; keys only in override pass through.
func mergeConfig(base, override map[string]any, prefix string) (map[string]any, error) {
	out := cloneMap(base)
	for key, value := range override {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		existing, known := out[key]
		if !known || existing == nil {
			out[key] = value
			continue
		}

		if baseMap, ok := existing.(map[string]any); ok {
			overMap, ok := value.(map[string]any)
			if !ok {
				return nil, boundary.Invalid("configuration key", path, fmt.Sprintf("expected an object, got %T", value))
			}
			merged, err := mergeConfig(baseMap, overMap, path)
			if err != nil {
				return nil, err
			}
			out[key] = merged
			continue
		}

		if want, got := jsonKind(existing), jsonKind(value); want != got {
			return nil, boundary.Invalid("configuration key", path, fmt.Sprintf("expected %s, got %s", want, got))
		}
		out[key] = value
	}
	return out, nil
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneMap(nested)
			continue
		}
		out[key] = value
	}
	return out
}
