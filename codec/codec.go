// Package codec encodes values through their primitive form and decodes text
// into primitive trees that are then validated against a shape.
package codec

import (
	"fmt"
	"strings"

	"github.com/reoring/lasso"
)

// Codec is a text format.
type Codec interface {
	Name() string
	// Encode converts v with lasso.ToPrimitive and renders it.
	Encode(v any, opts ...Option) ([]byte, error)
	// Decode parses data and validates the tree with shape. A nil shape
	// returns the primitive tree.
	Decode(data []byte, shape lasso.Validator, opts ...Option) (any, error)
}

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

// ByName returns the codec for a format name or file extension.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return nil, fmt.Errorf("codec: unknown format %q", name)
}

// DecodeRecord decodes data into a validated record of type rt.
func DecodeRecord(c Codec, rt *lasso.RecordType, data []byte, opts ...Option) (*lasso.Record, error) {
	v, err := c.Decode(data, rt, opts...)
	if err != nil {
		return nil, err
	}
	return v.(*lasso.Record), nil
}

// Error codes carried by DecodeError.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// DecodeError is a syntax or limit problem found while reading input. Path is
// a JSON Pointer to the offending location.
type DecodeError struct {
	Path    string
	Code    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: %s at %s: %s", e.Code, e.Path, e.Message)
}

func validate(tree any, shape lasso.Validator) (any, error) {
	if shape == nil {
		return tree, nil
	}
	return shape.Validate(tree)
}

func checkSize(data []byte, o Options) error {
	if o.MaxBytes > 0 && int64(len(data)) > o.MaxBytes {
		return &DecodeError{Path: "/", Code: CodeTruncated, Message: fmt.Sprintf("input of %d bytes exceeds limit of %d", len(data), o.MaxBytes)}
	}
	return nil
}
