package decode

import (
	"strconv"
	"strings"
)

// Limits controls enforcement applied by Enforce.
type Limits struct {
	// RejectDuplicates fails on the second occurrence of a key in one object.
	// When false the last occurrence wins.
	RejectDuplicates bool
	// MaxDepth bounds object/array nesting; 0 means unlimited.
	MaxDepth int
	// MaxBytes bounds consumed input; 0 means unlimited. The check uses the
	// source's Location and so is approximate for buffered readers.
	MaxBytes int64
}

type enforceFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// Enforce wraps inner so that every token is checked against lim. Violations
// are reported as *Error with the JSON Pointer of the offending token.
func Enforce(inner TokenSource, lim Limits) TokenSource {
	return &enforcingSource{inner: inner, lim: lim}
}

type enforcingSource struct {
	inner TokenSource
	lim   Limits
	stack []enforceFrame
}

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.pathFor(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := enforceFrame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = enforceFrame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true, path: path}
		}
		e.stack = append(e.stack, f)
		if e.lim.MaxDepth > 0 && len(e.stack) > e.lim.MaxDepth {
			return Token{}, &Error{Code: CodeParseError, Path: pointer(path), Message: "max depth exceeded"}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if _, dup := top.keys[tok.String]; dup && e.lim.RejectDuplicates {
					return Token{}, &Error{Code: CodeDuplicateKey, Path: pointer(path), Message: "key '" + tok.String + "' duplicated"}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	default:
		e.valueDone()
	}

	if e.lim.MaxBytes > 0 {
		if off := e.inner.Location(); off > e.lim.MaxBytes {
			return Token{}, &Error{Code: CodeTruncated, Path: pointer(path), Message: "max bytes exceeded"}
		}
	}
	return tok, nil
}

func (e *enforcingSource) Location() int64 { return e.inner.Location() }

func (e *enforcingSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

// pathFor returns the JSON Pointer of the value or key tok belongs to.
func (e *enforcingSource) pathFor(tok Token) string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	switch tok.Kind {
	case KindKey:
		return Join(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if top.kind == kindArray {
		p := Join(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	if !top.expectingKey {
		return Join(top.path, top.pendingKey)
	}
	return top.path
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Join appends an escaped reference token to a JSON Pointer.
func Join(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}
