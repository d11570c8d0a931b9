package lasso

import (
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// repr renders a value for failure messages on a single line.
func repr(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case reflect.Type:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strconv.Quote(rv.String())
	case reflect.Func:
		return funcName(rv)
	}
	return fmt.Sprintf("%v", v)
}

// reprList joins the representations of defs with ", ".
func reprList(defs []any) string {
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = repr(d)
	}
	return strings.Join(parts, ", ")
}

// funcName returns the short name of a function value, falling back to its type.
func funcName(fn reflect.Value) string {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return fn.Type().String()
	}
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return fn.Type().String()
	}
	name := rf.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
