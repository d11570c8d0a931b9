package decl

import (
	"encoding/json"
	"math"
	"reflect"

	"github.com/reoring/lasso"
	"github.com/reoring/lasso/codec"
	"github.com/reoring/lasso/values"
)

func builtin(name string) (any, bool) {
	switch name {
	case "string":
		return lasso.Type[string](), true
	case "int":
		return isInt, true
	case "float", "number":
		return isNumber, true
	case "bool":
		return lasso.Type[bool](), true
	case "null":
		return nil, true
	case "any":
		return isAny, true
	case "uuid":
		return values.UUID{}, true
	case "timestamp":
		return values.Timestamp{}, true
	case "decimal":
		return codec.Decimal{}, true
	}
	return nil, false
}

func isAny(any) bool { return true }

// isInt accepts integers of any Go integer type, integral json.Number literals
// and integral decimals.
func isInt(v any) bool {
	switch n := v.(type) {
	case json.Number:
		_, err := n.Int64()
		return err == nil
	case codec.Decimal:
		if n.Decimal == nil {
			return false
		}
		_, err := n.Int64()
		return err == nil
	case float64:
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// isNumber accepts any finite number.
func isNumber(v any) bool {
	switch n := v.(type) {
	case json.Number:
		_, err := n.Float64()
		return err == nil
	case codec.Decimal:
		return n.Decimal != nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	}
	return isInt(v)
}
