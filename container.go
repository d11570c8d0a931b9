package lasso

import (
	"fmt"
	"iter"
	"reflect"
	"sort"
)

// containerKind is the concrete container kind a sequence shape requires.
type containerKind uint8

const (
	seqNone containerKind = iota
	seqSlice
	seqArray
	seqSet
)

func (c containerKind) String() string {
	switch c {
	case seqSlice:
		return "slice"
	case seqArray:
		return "array"
	case seqSet:
		return "set"
	}
	return "non-container"
}

var emptyStructType = reflect.TypeFor[struct{}]()

// isSet reports whether t is the map[K]struct{} set idiom.
func isSet(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStructType
}

// isStringMap reports whether t is a string-keyed map that is not a set.
func isStringMap(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String && !isSet(t)
}

func containerOf(t reflect.Type) containerKind {
	switch t.Kind() {
	case reflect.Slice:
		return seqSlice
	case reflect.Array:
		return seqArray
	case reflect.Map:
		if isSet(t) {
			return seqSet
		}
	}
	return seqNone
}

// sortedKeys returns the keys of a map in a deterministic order. Numeric keys
// sort by value, everything else by its printed form.
func sortedKeys(m reflect.Value) []reflect.Value {
	keys := m.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

func keyLess(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if !a.IsValid() || !b.IsValid() {
		return !a.IsValid() && b.IsValid()
	}
	if a.Kind() == reflect.String && b.Kind() == reflect.String {
		return a.String() < b.String()
	}
	if x, ok := floatValue(a.Interface()); ok {
		if y, ok := floatValue(b.Interface()); ok {
			return x < y
		}
	}
	return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
}

var anySetType = reflect.TypeFor[map[any]struct{}]()

// fits reports whether every value can be stored in a container slot of type t.
func fits(t reflect.Type, vs iter.Seq[any]) bool {
	for v := range vs {
		if v == nil {
			switch t.Kind() {
			case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				continue
			}
			return false
		}
		if !reflect.TypeOf(v).AssignableTo(t) {
			return false
		}
	}
	return true
}

// slot returns v as a value for a slot of type t. The caller checks fits first.
func slot(t reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}
