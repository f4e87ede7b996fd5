// FILE: lixenwraith/cosima/decode.go
package cosima

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// decodeKeywords copies extracted keyword values into target, matching the
// `keyword` struct tag. Every tagged field must be present in values.
func decodeKeywords(values map[string]string, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		TagName:     "keyword",
		ErrorUnset:  true,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("decode of keywords into %T failed: %w", target, err)
	}
	return nil
}

// decodeSection decodes one snapshot section (e.g. "run") into target using
// the `toml` tag, so the same field names serve TOML, JSON and YAML input.
func decodeSection(data map[string]any, section string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	raw, exists := data[section]
	if !exists {
		return &KeywordError{Identifier: section, Err: ErrMissingKeyword}
	}
	sectionMap, ok := normalizeMap(raw)
	if !ok {
		return fmt.Errorf("%w: section %q is %T, not a table", ErrTypeMismatch, section, raw)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook:       trimStringHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for section %q: %w", section, err)
	}
	return nil
}

// trimStringHookFunc collapses runs of whitespace in string values so a
// snapshot value reads back the same way a source line would.
func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.String {
			return data, nil
		}
		// json.Number arrives here too, so go through reflect
		return strings.Join(strings.Fields(reflect.ValueOf(data).String()), " "), nil
	}
}

// normalizeMap accepts the map shapes produced by the toml, json and yaml decoders
func normalizeMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
