// Package values provides capability shapes for common scalar types:
// enumerations, UUIDs and timestamps. Each type validates raw primitives into a
// typed value and converts back with ToPrimitive.
package values

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/lasso"
)

// ErrInvalidEnum is the cause of failures for values outside an enumeration.
var ErrInvalidEnum = errors.New("values: not an enumeration member")

// EnumShape accepts the members of an enumeration.
type EnumShape[T comparable] struct {
	members []T
}

// Enum builds a shape accepting exactly the given members. Primitives of a
// compatible kind are converted to T first, so with
//
//	type Tristate string
//	const (True Tristate = "#t"; False Tristate = "#f")
//
// Enum(True, False) accepts both True and the string "#t", returning True.
func Enum[T comparable](members ...T) *EnumShape[T] {
	return &EnumShape[T]{members: members}
}

// Members returns the members in declaration order.
func (e *EnumShape[T]) Members() []T { return append([]T(nil), e.members...) }

func (e *EnumShape[T]) Validate(data any) (any, error) {
	if v, ok := data.(T); ok && e.contains(v) {
		return v, nil
	}
	if v, ok := convertTo[T](data); ok && e.contains(v) {
		return v, nil
	}
	return nil, &lasso.Failure{Message: fmt.Sprintf("%v is not a valid %s", data, e), Cause: ErrInvalidEnum}
}

func (e *EnumShape[T]) contains(v T) bool {
	for _, m := range e.members {
		if m == v {
			return true
		}
	}
	return false
}

func (e *EnumShape[T]) String() string {
	parts := make([]string, len(e.members))
	for i, m := range e.members {
		parts[i] = fmt.Sprint(m)
	}
	return "Enum(" + strings.Join(parts, ", ") + ")"
}

// convertTo converts a primitive into T when both have the same kind of
// underlying representation. Strings never become numbers or the reverse.
func convertTo[T any](data any) (T, bool) {
	var zero T
	if data == nil {
		return zero, false
	}
	tt := reflect.TypeFor[T]()
	if n, ok := data.(json.Number); ok {
		switch kindClass(tt.Kind()) {
		case classInt:
			i, err := n.Int64()
			if err != nil {
				return zero, false
			}
			data = i
		case classFloat:
			f, err := n.Float64()
			if err != nil {
				return zero, false
			}
			data = f
		}
	}
	dv := reflect.ValueOf(data)
	dc, tc := kindClass(dv.Kind()), kindClass(tt.Kind())
	if dc == classOther || dc != tc && !(dc == classInt && tc == classFloat) {
		return zero, false
	}
	if dc == classFloat && tc == classInt {
		return zero, false
	}
	if !dv.Type().ConvertibleTo(tt) {
		return zero, false
	}
	out := dv.Convert(tt)
	if tc == classInt && !sameNumber(dv, out) {
		return zero, false
	}
	return out.Interface().(T), true
}

type class int

const (
	classOther class = iota
	classString
	classInt
	classFloat
	classBool
)

func kindClass(k reflect.Kind) class {
	switch k {
	case reflect.String:
		return classString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return classInt
	case reflect.Float32, reflect.Float64:
		return classFloat
	case reflect.Bool:
		return classBool
	}
	return classOther
}

// sameNumber reports whether an integer conversion kept the value.
func sameNumber(from, to reflect.Value) bool {
	if from.CanInt() && from.Int() < 0 && to.CanUint() {
		return false
	}
	return to.Convert(from.Type()).Equal(from)
}
