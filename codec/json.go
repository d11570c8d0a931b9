package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/lasso"
	"github.com/reoring/lasso/internal/decode"
)

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(v any, opts ...Option) ([]byte, error) { return EncodeJSON(v, opts...) }

func (jsonCodec) Decode(data []byte, shape lasso.Validator, opts ...Option) (any, error) {
	return DecodeJSON(data, shape, opts...)
}

// EncodeJSON renders the primitive form of v as JSON.
func EncodeJSON(v any, opts ...Option) ([]byte, error) {
	o := resolve(opts)
	p, err := lasso.ToPrimitive(v)
	if err != nil {
		return nil, fmt.Errorf("codec: json: %w", err)
	}
	p = floatsAsLiterals(p)
	if o.Indent != "" {
		return j.MarshalIndent(p, "", o.Indent)
	}
	return j.Marshal(p)
}

// floatsAsLiterals replaces integral floats with literals that keep a
// fraction, so native decoding yields float64 again.
func floatsAsLiterals(v any) any {
	switch t := v.(type) {
	case float64:
		if lit, ok := floatLiteral(t); ok {
			return json.Number(lit)
		}
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = floatsAsLiterals(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = floatsAsLiterals(e)
		}
		return out
	}
	return v
}

// floatLiteral renders an integral finite float below 1e21 as "n.0". Other
// floats already carry a fraction or an exponent when encoded.
func floatLiteral(f float64) (string, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) >= 1e21 {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64) + ".0", true
}

// DecodeJSON parses data into a primitive tree and validates it with shape.
// Validation failures are returned as produced by the shape.
func DecodeJSON(data []byte, shape lasso.Validator, opts ...Option) (any, error) {
	tree, err := ParseJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return validate(tree, shape)
}

// ParseJSON parses data into a primitive tree without validating it.
func ParseJSON(data []byte, opts ...Option) (any, error) {
	o := resolve(opts)
	if err := checkSize(data, o); err != nil {
		return nil, err
	}
	src := decode.Enforce(decode.NewJSONBytes(data), decode.Limits{
		RejectDuplicates: o.Duplicates == DuplicateError,
		MaxDepth:         o.MaxDepth,
		MaxBytes:         o.MaxBytes,
	})
	tree, err := decode.Tree(src, numberFunc(o.NumberMode))
	if err != nil {
		return nil, asDecodeError(err)
	}
	return tree, nil
}

func asDecodeError(err error) error {
	var de *decode.Error
	if errors.As(err, &de) {
		return &DecodeError{Path: de.Path, Code: de.Code, Message: de.Message}
	}
	return &DecodeError{Path: "/", Code: CodeParseError, Message: err.Error()}
}

func numberFunc(m NumberMode) decode.NumberFunc {
	switch m {
	case NumberJSONNumber:
		return func(lit string) (any, error) { return json.Number(lit), nil }
	case NumberDecimal:
		return func(lit string) (any, error) { return ParseDecimal(lit) }
	}
	return nativeNumber
}

func nativeNumber(lit string) (any, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", lit)
	}
	return f, nil
}
