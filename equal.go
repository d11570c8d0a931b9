package lasso

import "reflect"

// valuesEqual compares two value trees. Leaves with an Equal(T) bool method
// (time.Time, records, adapters) are compared with it; numbers compare by
// value; everything else falls back to reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if eq, ok := equalMethod(av, bv); ok {
		return eq
	}
	switch {
	case isStringMap(av.Type()) && isStringMap(bv.Type()):
		if av.Len() != bv.Len() {
			return false
		}
		it := av.MapRange()
		for it.Next() {
			w := bv.MapIndex(reflect.ValueOf(it.Key().String()).Convert(bv.Type().Key()))
			if !w.IsValid() || !valuesEqual(it.Value().Interface(), w.Interface()) {
				return false
			}
		}
		return true
	case av.Kind() == reflect.Slice && bv.Kind() == reflect.Slice,
		av.Kind() == reflect.Array && bv.Kind() == reflect.Array:
		if av.Len() != bv.Len() {
			return false
		}
		for i := 0; i < av.Len(); i++ {
			if !valuesEqual(av.Index(i).Interface(), bv.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	if _, ok := floatValue(a); ok {
		return literalEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

func equalMethod(av, bv reflect.Value) (bool, bool) {
	m := av.MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0) != boolType || !bv.Type().AssignableTo(mt.In(0)) {
		return false, false
	}
	return m.Call([]reflect.Value{bv})[0].Bool(), true
}
