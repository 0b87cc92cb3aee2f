package encoding

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// asObject decodes the map shapes produced by JSON and YAML decoders.
// Keys holding null are kept.
func asObject(raw any) (map[string]any, bool) {
	if raw == nil {
		return nil, false
	}
	var m map[string]any
	if err := mapstructure.Decode(raw, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// decodeStrict decodes m into out, rejecting keys out does not declare.
func decodeStrict(m map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}

// asList converts any slice to []any.
func asList(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if l, err := cast.ToSliceE(v); err == nil {
		return l, true
	}
	var l []any
	if err := mapstructure.Decode(v, &l); err != nil {
		return nil, false
	}
	return l, true
}

// asNumber converts a numeric value to float64. Strings and booleans are
// not numbers here even though cast would coerce them.
func asNumber(v any) (float64, bool) {
	switch v.(type) {
	case nil, string, bool:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}

// isScalar reports whether v is a string, number, bool or nil.
func isScalar(v any) bool {
	_, err := cast.ToStringE(v)
	return err == nil
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
