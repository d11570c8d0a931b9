package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/cockroachdb/apd/v2"

	"github.com/reoring/lasso"
)

// Decimal is an arbitrary-precision number produced by NumberDecimal decoding.
// The zero value, with a nil pointer, is usable as a shape accepting decimals,
// JSON numbers, numeric strings and Go numbers.
type Decimal struct {
	*apd.Decimal
}

// ParseDecimal parses a decimal literal.
func ParseDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal %q: not finite", s)
	}
	return Decimal{d}, nil
}

// MustDecimal is like ParseDecimal but panics on error.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) String() string {
	if d.Decimal == nil {
		return "Decimal"
	}
	return d.Decimal.String()
}

// ToPrimitive returns the decimal as a json.Number literal.
func (d Decimal) ToPrimitive() any {
	if d.Decimal == nil {
		return nil
	}
	return json.Number(d.Decimal.String())
}

// Equal compares by numeric value, so 1.0 equals 1.
func (d Decimal) Equal(other Decimal) bool {
	if d.Decimal == nil || other.Decimal == nil {
		return d.Decimal == other.Decimal
	}
	return d.Decimal.Cmp(other.Decimal) == 0
}

func (Decimal) Validate(data any) (any, error) {
	switch v := data.(type) {
	case Decimal:
		if v.Decimal != nil {
			return v, nil
		}
	case *apd.Decimal:
		if v != nil {
			return Decimal{v}, nil
		}
	case json.Number:
		if d, err := ParseDecimal(string(v)); err == nil {
			return d, nil
		}
	case string:
		if d, err := ParseDecimal(v); err == nil {
			return d, nil
		}
	default:
		rv := reflect.ValueOf(data)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return Decimal{apd.New(rv.Int(), 0)}, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if d, err := ParseDecimal(strconv.FormatUint(rv.Uint(), 10)); err == nil {
				return d, nil
			}
		case reflect.Float32, reflect.Float64:
			d := new(apd.Decimal)
			if _, err := d.SetFloat64(rv.Float()); err == nil && d.Form == apd.Finite {
				return Decimal{d}, nil
			}
		}
	}
	return nil, lasso.Failf("%v is not a decimal", data)
}
