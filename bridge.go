package lasso

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Primitiver is implemented by values that know their primitive form, the
// counterpart of Validator used when encoding.
type Primitiver interface {
	ToPrimitive() any
}

// ToPrimitive converts a value tree into primitives a codec can encode
// directly: nil, bool, string, int, int64, uint64, float64, json.Number,
// []any and map[string]any. Primitiver values are expanded recursively and
// sets become sorted sequences.
func ToPrimitive(v any) (any, error) {
	return toPrimitive(v, 0)
}

// maxPrimitiveDepth bounds Primitiver expansion so a value that returns itself
// fails instead of recursing forever.
const maxPrimitiveDepth = 512

func toPrimitive(v any, depth int) (any, error) {
	if depth > maxPrimitiveDepth {
		return nil, fmt.Errorf("%w: nesting exceeds %d levels", ErrUnsupportedValue, maxPrimitiveDepth)
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case json.Number, string, bool, int, int64, uint64, float64:
		return v, nil
	case Primitiver:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, nil
		}
		return toPrimitive(t.ToPrimitive(), depth+1)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int:
		return int(rv.Int()), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return toPrimitive(rv.Elem().Interface(), depth+1)
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return sequencePrimitive(rv, depth)
	case reflect.Array:
		return sequencePrimitive(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		if isSet(rv.Type()) {
			keys := sortedKeys(rv)
			out := make([]any, len(keys))
			for i, k := range keys {
				p, err := toPrimitive(k.Interface(), depth+1)
				if err != nil {
					return nil, err
				}
				out[i] = p
			}
			return out, nil
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrUnsupportedValue, rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			p, err := toPrimitive(it.Value().Interface(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", it.Key().String(), err)
			}
			out[it.Key().String()] = p
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func sequencePrimitive(rv reflect.Value, depth int) ([]any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		p, err := toPrimitive(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
