// Package decl compiles declarative shape documents, written in YAML or JSON,
// into lasso shapes.
//
// A document is a tree of nodes:
//
//   - a string naming a builtin (string, int, float, number, bool, null, any,
//     uuid, timestamp, decimal) is that shape; any other scalar is a literal;
//   - a sequence lists alternatives;
//   - a mapping without "$" keys is a mapping shape. A value of the form
//     {$optional: node, $default: value} marks the key optional. Keys starting
//     with "$$" stand for literal keys starting with "$";
//   - a mapping with "$" keys is a directive: exactly one of $type, $literal,
//     $or, $and, $match or $enum, optionally with $message.
//
// For example:
//
//	id: uuid
//	name: {$match: "[a-z]+", $message: "lowercase name required"}
//	size: {$optional: {$enum: [S, M, L]}, $default: M}
//	tags: [string]
package decl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/reoring/lasso"
	"github.com/reoring/lasso/codec"
	"github.com/reoring/lasso/values"
)

// Compile builds a shape from a decoded document tree.
func Compile(doc any) (*lasso.Schema, error) {
	def, err := node(doc, "")
	if err != nil {
		return nil, err
	}
	return lasso.New(def)
}

// CompileBytes decodes data with the named format ("json", "yaml" or a file
// extension) and compiles it. Duplicate keys are rejected.
func CompileBytes(data []byte, format string) (*lasso.Schema, error) {
	c, err := codec.ByName(format)
	if err != nil {
		return nil, err
	}
	doc, err := c.Decode(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decl: %w", err)
	}
	return Compile(doc)
}

// Load reads and compiles a document, choosing the format by file extension.
func Load(path string) (*lasso.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("decl: %w", err)
	}
	s, err := CompileBytes(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Error is a definition problem at a JSON Pointer path in the document.
type Error struct {
	Path    string
	Message string
}

func (e *Error) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	return "decl: " + p + ": " + e.Message
}

func errorf(path, format string, args ...any) error {
	return &Error{Path: path, Message: fmt.Sprintf(format, args...)}
}

func node(doc any, path string) (any, error) {
	switch d := doc.(type) {
	case string:
		if b, ok := builtin(d); ok {
			return b, nil
		}
		return d, nil
	case []any:
		alts := make([]any, len(d))
		for i, e := range d {
			a, err := node(e, join(path, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			alts[i] = a
		}
		return alts, nil
	case map[string]any:
		if hasDirective(d) {
			return directive(d, path)
		}
		return mapping(d, path)
	case nil, bool, int, int64, float64, json.Number, codec.Decimal:
		return d, nil
	}
	if rv := reflect.ValueOf(doc); rv.Kind() == reflect.Map {
		return nil, errorf(path, "mapping keys must be strings, got %s", rv.Type().Key())
	}
	return nil, errorf(path, "unsupported node %T", doc)
}

func mapping(d map[string]any, path string) (any, error) {
	out := make(map[string]any, len(d))
	for _, k := range sortedKeys(d) {
		key := k
		if strings.HasPrefix(k, "$$") {
			key = k[1:]
		}
		p := join(path, k)
		v := d[k]
		if m, ok := v.(map[string]any); ok {
			if _, opt := m["$optional"]; opt {
				o, err := optional(m, p)
				if err != nil {
					return nil, err
				}
				out[key] = o
				continue
			}
		}
		sub, err := node(v, p)
		if err != nil {
			return nil, err
		}
		out[key] = sub
	}
	return out, nil
}

func optional(m map[string]any, path string) (any, error) {
	for k := range m {
		if k != "$optional" && k != "$default" {
			return nil, errorf(path, "unexpected %s next to $optional", k)
		}
	}
	inner, err := node(m["$optional"], join(path, "$optional"))
	if err != nil {
		return nil, err
	}
	if v, ok := m["$default"]; ok {
		return lasso.Optional(inner, lasso.Default(v)), nil
	}
	return lasso.Optional(inner), nil
}

var directives = []string{"$type", "$literal", "$or", "$and", "$match", "$enum"}

func hasDirective(m map[string]any) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") && !strings.HasPrefix(k, "$$") {
			return true
		}
	}
	return false
}

func directive(m map[string]any, path string) (any, error) {
	var name string
	msg := ""
	for _, k := range sortedKeys(m) {
		switch {
		case k == "$message":
			s, ok := m[k].(string)
			if !ok {
				return nil, errorf(join(path, k), "$message must be a string")
			}
			msg = s
		case k == "$optional" || k == "$default":
			return nil, errorf(join(path, k), "%s is only valid as a mapping value", k)
		case contains(directives, k):
			if name != "" {
				return nil, errorf(path, "conflicting directives %s and %s", name, k)
			}
			name = k
		default:
			return nil, errorf(join(path, k), "unknown directive %s", k)
		}
	}
	if name == "" {
		return nil, errorf(path, "$message without a directive")
	}
	arg, p := m[name], join(path, name)

	switch name {
	case "$type":
		s, ok := arg.(string)
		b, known := builtin(s)
		if !ok || !known {
			return nil, errorf(p, "unknown type %v", arg)
		}
		return withMessage(b, msg)
	case "$literal":
		switch arg.(type) {
		case []any, map[string]any:
			return nil, errorf(p, "$literal must be a scalar")
		}
		return withMessage(arg, msg)
	case "$or", "$and":
		list, ok := arg.([]any)
		if !ok {
			return nil, errorf(p, "%s takes a list", name)
		}
		members := make([]any, len(list))
		for i, e := range list {
			mem, err := node(e, join(p, fmt.Sprint(i)))
			if err != nil {
				return nil, err
			}
			members[i] = mem
		}
		if name == "$or" {
			or := lasso.Or(members...)
			if msg != "" {
				or = or.WithMessage(msg)
			}
			return or, nil
		}
		and := lasso.And(members...)
		if msg != "" {
			and = and.WithMessage(msg)
		}
		return and, nil
	case "$match":
		s, ok := arg.(string)
		if !ok {
			return nil, errorf(p, "$match takes a string")
		}
		re, err := lasso.CompileMatch(s)
		if err != nil {
			return nil, errorf(p, "%v", err)
		}
		if msg != "" {
			re = re.WithMessage(msg)
		}
		return re, nil
	default: // $enum
		list, ok := arg.([]any)
		if !ok || len(list) == 0 {
			return nil, errorf(p, "$enum takes a non-empty list")
		}
		for i, e := range list {
			switch e.(type) {
			case []any, map[string]any, codec.Decimal:
				return nil, errorf(join(p, fmt.Sprint(i)), "$enum members must be scalars")
			}
		}
		return withMessage(values.Enum(list...), msg)
	}
}

func withMessage(def any, msg string) (any, error) {
	if msg == "" {
		return def, nil
	}
	s, err := lasso.New(def, lasso.WithMessage(msg))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func join(base, token string) string { return base + "/" + pointerEscaper.Replace(token) }
