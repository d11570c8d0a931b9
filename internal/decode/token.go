// Package decode turns a stream of JSON tokens into a primitive value tree,
// enforcing duplicate-key, nesting-depth and size limits on the way.
package decode

// Kind represents token kinds from a token source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token is a single lexical token. Number holds the literal text of a number.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource produces tokens one at a time. Location reports the number of
// input bytes consumed so far, or -1 when unknown.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Error is a decoding problem located by a JSON Pointer path.
type Error struct {
	Code    string
	Path    string
	Message string
}

func (e *Error) Error() string { return e.Path + ": " + e.Message }

// Error codes.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)
