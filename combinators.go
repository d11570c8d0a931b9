package lasso

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
)

// AndShape validates data against every member in order, feeding each output to
// the next member.
type AndShape struct {
	defs    []any
	members []*Schema
	message string
}

// And builds a Sequence-All combinator. It panics if a member cannot be compiled.
func And(defs ...any) *AndShape {
	a, err := newAnd(defs, "")
	if err != nil {
		panic(err)
	}
	return a
}

func newAnd(defs []any, msg string) (*AndShape, error) {
	members, err := compileAll(defs, msg)
	if err != nil {
		return nil, err
	}
	return &AndShape{defs: defs, members: members, message: msg}, nil
}

// WithMessage returns a copy of the combinator using msg for every failure.
func (a *AndShape) WithMessage(msg string) *AndShape {
	out, err := newAnd(a.defs, msg)
	if err != nil {
		panic(err)
	}
	return out
}

func (a *AndShape) Validate(data any) (any, error) {
	for _, m := range a.members {
		out, err := m.Validate(data)
		if err != nil {
			return nil, err
		}
		data = out
	}
	return data, nil
}

func (a *AndShape) String() string { return "And(" + reprList(a.defs) + ")" }

// OrShape returns the result of the first member that accepts data.
type OrShape struct {
	defs    []any
	members []*Schema
	message string
}

// Or builds a First-Match combinator. With no members it rejects everything.
// It panics if a member cannot be compiled.
func Or(defs ...any) *OrShape {
	o, err := newOr(defs, "")
	if err != nil {
		panic(err)
	}
	return o
}

func newOr(defs []any, msg string) (*OrShape, error) {
	members, err := compileAll(defs, msg)
	if err != nil {
		return nil, err
	}
	return &OrShape{defs: defs, members: members, message: msg}, nil
}

// WithMessage returns a copy of the combinator using msg for every failure.
func (o *OrShape) WithMessage(msg string) *OrShape {
	out, err := newOr(o.defs, msg)
	if err != nil {
		panic(err)
	}
	return out
}

func (o *OrShape) Validate(data any) (any, error) {
	for _, m := range o.members {
		if out, err := m.Validate(data); err == nil {
			return out, nil
		}
	}
	return nil, failure(o.message, "%s did not validate %s", repr(data), o)
}

func (o *OrShape) String() string { return "Or(" + reprList(o.defs) + ")" }

// UseShape converts data with a function and returns the result unchecked.
type UseShape struct {
	fn      callable
	message string
}

// Use builds a Transform from a single-argument function returning T or
// (T, error). It panics on any other signature.
func Use(fn any) *UseShape {
	c, ok := asCallable(fn)
	if !ok || !c.isTransform() {
		panic(fmt.Sprintf("lasso: Use requires a func(T) U or func(T) (U, error), got %s", reflect.TypeOf(fn)))
	}
	return &UseShape{fn: c}
}

// WithMessage returns a copy of the transform using msg for every failure.
func (u *UseShape) WithMessage(msg string) *UseShape {
	out := *u
	out.message = msg
	return &out
}

func (u *UseShape) Validate(data any) (any, error) {
	out, err := u.fn.apply(data)
	if err != nil {
		return nil, relay(u.message, err, "%s(%s)", u.fn.name, repr(data))
	}
	return out, nil
}

func (u *UseShape) String() string { return "Use(" + u.fn.name + ")" }

// MatchShape accepts strings whose beginning matches a regular expression.
type MatchShape struct {
	pattern string
	re      *regexp.Regexp
	message string
}

// CompileMatch builds a PatternMatch. The expression must match at the start of
// the input; it does not have to consume all of it.
func CompileMatch(pattern string) (*MatchShape, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("lasso: pattern %q: %w", pattern, err)
	}
	return &MatchShape{pattern: pattern, re: re}, nil
}

// Match is like CompileMatch but panics if the pattern does not compile.
func Match(pattern string) *MatchShape {
	m, err := CompileMatch(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// WithMessage returns a copy of the pattern using msg for every failure.
func (m *MatchShape) WithMessage(msg string) *MatchShape {
	out := *m
	out.message = msg
	return &out
}

func (m *MatchShape) Validate(data any) (any, error) {
	rv := reflect.ValueOf(data)
	if data == nil || rv.Kind() != reflect.String {
		return nil, failure(m.message, "%s is not a string", repr(data))
	}
	if !m.re.MatchString(rv.String()) {
		return nil, failure(m.message, "%s does not match regex %s", repr(data), strconv.Quote(m.pattern))
	}
	return data, nil
}

func (m *MatchShape) String() string { return "Match(" + strconv.Quote(m.pattern) + ")" }

func compileAll(defs []any, msg string) ([]*Schema, error) {
	out := make([]*Schema, len(defs))
	for i, d := range defs {
		s, err := compile(d, msg)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
