package lasso

import (
	"encoding/json"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"
)

// Validate checks data against the shape and returns the normalized value.
// Rejections are reported as *Failure.
func (s *Schema) Validate(data any) (any, error) {
	switch s.kind {
	case KindCapability:
		out, err := s.capability.Validate(data)
		if err != nil {
			return nil, relay(s.message, err, "%s.Validate(%s)", repr(s.capability), repr(data))
		}
		return out, nil
	case KindSequence:
		return s.validateSequence(data)
	case KindMapping:
		return s.validateMapping(data)
	case KindType:
		if data == nil {
			if s.typ.Kind() == reflect.Interface && s.typ.NumMethod() == 0 {
				return nil, nil
			}
		} else if dt := reflect.TypeOf(data); dt == s.typ || (s.typ.Kind() == reflect.Interface && dt.Implements(s.typ)) {
			return data, nil
		}
		return nil, failure(s.message, "%s should be instance of %s", repr(data), s.typ)
	case KindPredicate:
		ok, err := s.fn.test(data)
		if err != nil {
			return nil, relay(s.message, err, "%s(%s)", s.fn.name, repr(data))
		}
		if !ok {
			return nil, failure(s.message, "%s(%s) should evaluate to true", s.fn.name, repr(data))
		}
		return data, nil
	default:
		if literalEqual(s.def, data) {
			return data, nil
		}
		return nil, failure(s.message, "%s should be %s", repr(data), repr(s.def))
	}
}

// validateSequence rebuilds the container with the input's type. When a
// validated element no longer fits that type, the result is []any, or
// map[any]struct{} for sets.
func (s *Schema) validateSequence(data any) (any, error) {
	if data == nil || containerOf(reflect.TypeOf(data)) != s.container {
		return nil, failure(s.message, "%s should be instance of %s", repr(data), s.container)
	}
	dv := reflect.ValueOf(data)
	dt := dv.Type()
	if s.container == seqSet {
		return s.validateSet(dv)
	}
	if s.container == seqSlice && dv.IsNil() {
		return data, nil
	}

	results := make([]any, dv.Len())
	for i := range results {
		got, err := s.alts.Validate(dv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		results[i] = got
	}
	if !fits(dt.Elem(), slices.Values(results)) {
		return results, nil
	}
	var out reflect.Value
	if s.container == seqSlice {
		out = reflect.MakeSlice(dt, len(results), len(results))
	} else {
		out = reflect.New(dt).Elem()
	}
	for i, r := range results {
		out.Index(i).Set(slot(dt.Elem(), r))
	}
	return out.Interface(), nil
}

func (s *Schema) validateSet(dv reflect.Value) (any, error) {
	keys := sortedKeys(dv)
	results := make([]any, len(keys))
	for i, k := range keys {
		got, err := s.alts.Validate(k.Interface())
		if err != nil {
			return nil, err
		}
		if got != nil && !reflect.ValueOf(got).Comparable() {
			return nil, failure(s.message, "%s cannot be a set member", repr(got))
		}
		results[i] = got
	}
	st := dv.Type()
	if !fits(st.Key(), slices.Values(results)) {
		st = anySetType
	}
	out := reflect.MakeMapWithSize(st, len(results))
	for _, r := range results {
		out.SetMapIndex(slot(st.Key(), r), reflect.Zero(emptyStructType))
	}
	return out.Interface(), nil
}

// validateMapping rebuilds the mapping with the input's type, or as
// map[string]any when a validated value or default no longer fits it.
func (s *Schema) validateMapping(data any) (any, error) {
	if data == nil || !isStringMap(reflect.TypeOf(data)) {
		return nil, failure(s.message, "%s should be instance of map", repr(data))
	}
	dv := reflect.ValueOf(data)
	dt := dv.Type()

	results := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v := dv.MapIndex(reflect.ValueOf(f.key).Convert(dt.Key()))
		if !v.IsValid() {
			continue
		}
		got, err := f.schema.Validate(v.Interface())
		if err != nil {
			return nil, err
		}
		results[f.key] = got
	}

	var missing []string
	for _, f := range s.fields {
		if _, ok := results[f.key]; !ok && f.opt == nil {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return nil, failure(s.message, "Missing keys: %s", strings.Join(missing, ", "))
	}

	var extra []string
	for _, k := range sortedKeys(dv) {
		if !s.declares(k.String()) {
			extra = append(extra, k.String())
		}
	}
	if len(extra) > 0 {
		return nil, failure(s.message, "Wrong keys in %s: %s", repr(data), strings.Join(extra, ", "))
	}

	for _, f := range s.fields {
		if f.opt == nil || !f.opt.hasDefault {
			continue
		}
		if _, ok := results[f.key]; !ok {
			results[f.key] = f.opt.value
		}
	}

	if !fits(dt.Elem(), maps.Values(results)) {
		return results, nil
	}
	out := reflect.MakeMapWithSize(dt, len(results))
	for k, v := range results {
		out.SetMapIndex(reflect.ValueOf(k).Convert(dt.Key()), slot(dt.Elem(), v))
	}
	return out.Interface(), nil
}

func (s *Schema) declares(key string) bool {
	for _, f := range s.fields {
		if f.key == key {
			return true
		}
	}
	return false
}

// literalEqual compares a literal definition with data. Numbers compare by value
// across Go numeric types and json.Number.
func literalEqual(def, data any) bool {
	if a, ok := intValue(def); ok {
		if b, ok := intValue(data); ok {
			return a == b
		}
	}
	if a, ok := floatValue(def); ok {
		if b, ok := floatValue(data); ok {
			return a == b
		}
		return false
	}
	return reflect.DeepEqual(def, data)
}

func intValue(v any) (int64, bool) {
	if n, ok := v.(json.Number); ok {
		i, err := n.Int64()
		return i, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true
		}
	}
	return 0, false
}

func floatValue(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
