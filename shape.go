package lasso

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Kind identifies which of the six shape kinds a compiled Schema node is.
type Kind uint8

const (
	KindCapability Kind = iota // delegates to a Validator
	KindSequence               // slice, array or set of alternatives
	KindMapping                // closed-world string-keyed mapping
	KindType                   // dynamic type check
	KindPredicate              // func returning bool/error
	KindLiteral                // equality with a plain value
)

func (k Kind) String() string {
	switch k {
	case KindCapability:
		return "capability"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindType:
		return "type"
	case KindPredicate:
		return "predicate"
	case KindLiteral:
		return "literal"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Validator is the capability hook. Anything implementing it can be used as a
// shape: Validate returns the normalized value, or an error (preferably a
// *Failure) when data is rejected. An existing valid instance must be returned
// unchanged.
type Validator interface {
	Validate(data any) (any, error)
}

// Schema is a compiled, immutable shape node. It is safe for concurrent use.
type Schema struct {
	kind    Kind
	def     any
	message string

	capability Validator     // KindCapability
	container  containerKind // KindSequence
	alts       *OrShape      // KindSequence
	fields     []field       // KindMapping, sorted by key
	typ        reflect.Type  // KindType
	fn         callable      // KindPredicate
}

type field struct {
	key    string
	schema *Schema
	opt    *OptionalMarker
}

// Option configures compilation of a definition.
type Option func(*options)

type options struct {
	message string
}

// WithMessage replaces every generated failure message of the node with msg.
// The message is inherited by the nodes compiled for the definition's members.
func WithMessage(msg string) Option {
	return func(o *options) { o.message = msg }
}

// Type returns the reflect.Type of T, for use as a type literal in definitions.
func Type[T any]() reflect.Type { return reflect.TypeFor[T]() }

// New compiles a shape definition into a Schema.
//
// The kind is chosen by inspecting def, first match wins: a Validator; a slice,
// array or set (map[K]struct{}) of alternatives; a string-keyed map; a
// reflect.Type; a single-argument func returning bool, error or (bool, error);
// any other value, compared for equality.
func New(def any, opts ...Option) (*Schema, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return compile(def, o.message)
}

// MustNew is like New but panics if the definition cannot be compiled.
func MustNew(def any, opts ...Option) *Schema {
	s, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate compiles def and validates data against it.
func Validate(def any, data any) (any, error) {
	s, err := New(def)
	if err != nil {
		return nil, err
	}
	return s.Validate(data)
}

// Kind reports the node kind.
func (s *Schema) Kind() Kind { return s.kind }

// Message returns the custom failure message, if any.
func (s *Schema) Message() string { return s.message }

// Fields returns the declared keys of a mapping node in sorted order.
func (s *Schema) Fields() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.key
	}
	return keys
}

func (s *Schema) String() string { return repr(s.def) }

func compile(def any, msg string) (*Schema, error) {
	switch d := def.(type) {
	case *Schema:
		if d == nil {
			return nil, errors.New("lasso: nil *Schema definition")
		}
		if msg == "" || msg == d.message {
			return d, nil
		}
		return &Schema{kind: KindCapability, def: d, message: msg, capability: d}, nil
	case OptionalMarker, *OptionalMarker:
		return nil, errors.New("lasso: Optional is only valid as a mapping value")
	case Validator:
		return &Schema{kind: KindCapability, def: def, message: msg, capability: d}, nil
	case reflect.Type:
		return &Schema{kind: KindType, def: def, message: msg, typ: d}, nil
	}

	rv := reflect.ValueOf(def)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		members := make([]any, rv.Len())
		for i := range members {
			members[i] = rv.Index(i).Interface()
		}
		return compileSequence(def, containerOf(rv.Type()), members, msg)
	case reflect.Map:
		if isSet(rv.Type()) {
			keys := sortedKeys(rv)
			members := make([]any, len(keys))
			for i, k := range keys {
				members[i] = k.Interface()
			}
			return compileSequence(def, seqSet, members, msg)
		}
		return compileMapping(def, rv, msg)
	case reflect.Func:
		c, ok := asCallable(def)
		if !ok || !c.isPredicate() {
			return nil, fmt.Errorf("lasso: unsupported predicate signature %s", rv.Type())
		}
		return &Schema{kind: KindPredicate, def: def, message: msg, fn: c}, nil
	}
	return &Schema{kind: KindLiteral, def: def, message: msg}, nil
}

func compileSequence(def any, kind containerKind, members []any, msg string) (*Schema, error) {
	alts, err := newOr(members, msg)
	if err != nil {
		return nil, err
	}
	return &Schema{kind: KindSequence, def: def, message: msg, container: kind, alts: alts}, nil
}

func compileMapping(def any, rv reflect.Value, msg string) (*Schema, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("lasso: mapping keys must be strings, got %s", rv.Type().Key())
	}
	fields := make([]field, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		f := field{key: iter.Key().String()}
		v := iter.Value().Interface()
		switch o := v.(type) {
		case OptionalMarker:
			f.opt = &o
			v = o.def
		case *OptionalMarker:
			if o == nil {
				return nil, fmt.Errorf("lasso: field %q: nil Optional", f.key)
			}
			f.opt = o
			v = o.def
		}
		sub, err := compile(v, msg)
		if err != nil {
			return nil, fmt.Errorf("lasso: field %q: %w", f.key, err)
		}
		f.schema = sub
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].key < fields[j].key })
	return &Schema{kind: KindMapping, def: def, message: msg, fields: fields}, nil
}
