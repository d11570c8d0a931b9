package lasso

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/kr/pretty"
)

var registry = struct {
	sync.RWMutex
	types map[string]*RecordType
}{types: map[string]*RecordType{}}

// RecordType describes a kind of Record: a name and the mapping shape every
// instance must satisfy. Record types are registered once per process.
type RecordType struct {
	name   string
	schema *Schema
	fields []string
	index  map[string]struct{}
}

// Define compiles def, which must be a mapping definition, and registers it
// under name.
func Define(name string, def any, opts ...Option) (*RecordType, error) {
	if name == "" {
		return nil, errors.New("lasso: record type name is empty")
	}
	s, ok := def.(*Schema)
	if !ok || len(opts) > 0 {
		var err error
		if s, err = New(def, opts...); err != nil {
			return nil, fmt.Errorf("lasso: record type %s: %w", name, err)
		}
	}
	if s.kind != KindMapping {
		return nil, fmt.Errorf("lasso: record type %s: shape must be a mapping, got %s", name, s.kind)
	}
	rt := &RecordType{name: name, schema: s, fields: s.Fields()}
	rt.index = make(map[string]struct{}, len(rt.fields))
	for _, f := range rt.fields {
		rt.index[f] = struct{}{}
	}

	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.types[name]; dup {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRecordType, name)
	}
	registry.types[name] = rt
	return rt, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(name string, def any, opts ...Option) *RecordType {
	rt, err := Define(name, def, opts...)
	if err != nil {
		panic(err)
	}
	return rt
}

// LookupRecordType returns the record type registered under name.
func LookupRecordType(name string) (*RecordType, bool) {
	registry.RLock()
	defer registry.RUnlock()
	rt, ok := registry.types[name]
	return rt, ok
}

func (rt *RecordType) Name() string { return rt.name }

func (rt *RecordType) String() string { return rt.name }

// Schema returns the compiled mapping shape.
func (rt *RecordType) Schema() *Schema { return rt.schema }

// Fields returns the declared field names in sorted order.
func (rt *RecordType) Fields() []string { return slices.Clone(rt.fields) }

// HasField reports whether name is a declared field.
func (rt *RecordType) HasField(name string) bool {
	_, ok := rt.index[name]
	return ok
}

// New builds a record from fields merged with overrides, later maps winning.
// Nothing is returned unless the merged mapping satisfies the shape.
func (rt *RecordType) New(fields map[string]any, overrides ...map[string]any) (*Record, error) {
	candidate := make(map[string]any, len(fields))
	merge(candidate, fields, overrides)
	committed, err := rt.check(candidate)
	if err != nil {
		return nil, err
	}
	return &Record{typ: rt, data: committed}, nil
}

// Validate makes a record type usable as a shape. A record of this type is
// returned unchanged; a string-keyed mapping builds a new record. Anything else
// is a *TypeMismatchError.
func (rt *RecordType) Validate(data any) (any, error) {
	r, err := rt.FromPrimitive(data)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FromPrimitive is the typed form of Validate.
func (rt *RecordType) FromPrimitive(data any) (*Record, error) {
	if r, ok := data.(*Record); ok && r != nil && r.typ == rt {
		return r, nil
	}
	if data == nil || !isStringMap(reflect.TypeOf(data)) {
		return nil, &TypeMismatchError{Record: rt.name, Value: data}
	}
	dv := reflect.ValueOf(data)
	fields := make(map[string]any, dv.Len())
	it := dv.MapRange()
	for it.Next() {
		fields[it.Key().String()] = it.Value().Interface()
	}
	return rt.New(fields)
}

func (rt *RecordType) check(candidate map[string]any) (map[string]any, error) {
	out, err := rt.schema.Validate(candidate)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func merge(dst map[string]any, partial map[string]any, overrides []map[string]any) {
	maps.Copy(dst, partial)
	for _, o := range overrides {
		maps.Copy(dst, o)
	}
}

// Record is a mapping whose committed entries always satisfy its type's shape.
// Names starting with "_" are bookkeeping attributes: they live in a separate
// store and are never validated or exported.
//
// A Record is not safe for concurrent mutation.
type Record struct {
	typ  *RecordType
	data map[string]any
	book map[string]any
}

// Type returns the record's type.
func (r *Record) Type() *RecordType { return r.typ }

// Get returns the committed value of name, or a bookkeeping value for names
// starting with "_".
func (r *Record) Get(name string) (any, bool) {
	if isBookkeeping(name) {
		v, ok := r.book[name]
		return v, ok
	}
	v, ok := r.data[name]
	return v, ok
}

// Field returns the value of name converted to T. The second result is false
// when the name is unset or holds a value of another type.
func Field[T any](r *Record, name string) (T, bool) {
	v, ok := r.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set assigns a single attribute. Public names go through Update.
func (r *Record) Set(name string, value any) error {
	if isBookkeeping(name) {
		if r.book == nil {
			r.book = map[string]any{}
		}
		r.book[name] = value
		return nil
	}
	return r.Update(map[string]any{name: value})
}

// Update merges partial and overrides into a copy of the committed mapping and
// commits the result only if it satisfies the shape.
func (r *Record) Update(partial map[string]any, overrides ...map[string]any) error {
	candidate := maps.Clone(r.data)
	if candidate == nil {
		candidate = map[string]any{}
	}
	merge(candidate, partial, overrides)
	committed, err := r.typ.check(candidate)
	if err != nil {
		return err
	}
	r.data = committed
	return nil
}

// All iterates over committed entries in key order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range r.Keys() {
			if !yield(k, r.data[k]) {
				return
			}
		}
	}
}

// Keys returns the committed field names in sorted order.
func (r *Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.data))
}

func (r *Record) Len() int { return len(r.data) }

// ToPrimitive returns a shallow copy of the committed mapping.
func (r *Record) ToPrimitive() any { return maps.Clone(r.data) }

// Clone returns a record of the same type with independent storage.
func (r *Record) Clone() *Record {
	return &Record{typ: r.typ, data: maps.Clone(r.data), book: maps.Clone(r.book)}
}

// Equal reports whether other has the same type and equal committed values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.typ == other.typ && valuesEqual(r.data, other.data)
}

// Diff describes the differences between the committed values of two records.
func (r *Record) Diff(other *Record) []string {
	if r == nil || other == nil {
		switch {
		case r == other:
			return nil
		case r == nil:
			return []string{"nil != " + other.String()}
		}
		return []string{r.String() + " != nil"}
	}
	var diff []string
	if r.typ != other.typ {
		diff = append(diff, fmt.Sprintf("type: %s != %s", r.typ, other.typ))
	}
	return append(diff, pretty.Diff(r.data, other.data)...)
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.typ.name)
	b.WriteByte('(')
	for i, k := range r.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(repr(r.data[k]))
	}
	b.WriteByte(')')
	return b.String()
}

// GoString renders the record and its values as multi-line Go syntax.
func (r *Record) GoString() string {
	return r.typ.name + pretty.Sprint(r.data)
}

func isBookkeeping(name string) bool { return strings.HasPrefix(name, "_") }
