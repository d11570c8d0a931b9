package lasso

import (
	"fmt"
	"reflect"
)

var (
	errorType = reflect.TypeFor[error]()
	boolType  = reflect.TypeFor[bool]()
)

// callable is a reflected single-argument function used by predicate and
// transform nodes.
type callable struct {
	fn   reflect.Value
	in   reflect.Type
	name string
}

func asCallable(def any) (callable, bool) {
	fn := reflect.ValueOf(def)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return callable{}, false
	}
	ft := fn.Type()
	if ft.NumIn() != 1 || ft.IsVariadic() {
		return callable{}, false
	}
	return callable{fn: fn, in: ft.In(0), name: funcName(fn)}, true
}

// isPredicate reports whether the function returns bool, error or (bool, error).
func (c callable) isPredicate() bool {
	ft := c.fn.Type()
	switch ft.NumOut() {
	case 1:
		return ft.Out(0) == boolType || ft.Out(0) == errorType
	case 2:
		return ft.Out(0) == boolType && ft.Out(1) == errorType
	}
	return false
}

// isTransform reports whether the function returns T or (T, error).
func (c callable) isTransform() bool {
	ft := c.fn.Type()
	switch ft.NumOut() {
	case 1:
		return true
	case 2:
		return ft.Out(1) == errorType
	}
	return false
}

// call invokes the function with data. A panic inside the function is returned
// as an error, the same way a returned error is.
func (c callable) call(data any) (out []reflect.Value, err error) {
	arg, ok := argumentFor(c.in, data)
	if !ok {
		return nil, fmt.Errorf("cannot use %s as %s", repr(data), c.in)
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.fn.Call([]reflect.Value{arg}), nil
}

// test runs a predicate and returns its truth value.
func (c callable) test(data any) (bool, error) {
	out, err := c.call(data)
	if err != nil {
		return false, err
	}
	switch len(out) {
	case 1:
		if out[0].Type() == boolType {
			return out[0].Bool(), nil
		}
		if e := errorOf(out[0]); e != nil {
			return false, e
		}
		return true, nil
	default:
		if e := errorOf(out[1]); e != nil {
			return false, e
		}
		return out[0].Bool(), nil
	}
}

// apply runs a transform and returns its result.
func (c callable) apply(data any) (any, error) {
	out, err := c.call(data)
	if err != nil {
		return nil, err
	}
	if len(out) == 2 {
		if e := errorOf(out[1]); e != nil {
			return nil, e
		}
	}
	return out[0].Interface(), nil
}

func errorOf(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// argumentFor converts data into a call argument of type t.
func argumentFor(t reflect.Type, data any) (reflect.Value, bool) {
	if data == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(data)
	if v.Type().AssignableTo(t) {
		return v, true
	}
	return reflect.Value{}, false
}
