package decode

import (
	"errors"
	"io"
	"strconv"
)

// NumberFunc converts the literal text of a JSON number into a value.
type NumberFunc func(literal string) (any, error)

// Tree reads exactly one value from src and builds map[string]any, []any and
// scalar nodes from it. Input left after the value is an error.
func Tree(src TokenSource, num NumberFunc) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Code: CodeParseError, Path: "/", Message: "empty input"}
		}
		return nil, err
	}
	v, err := value(src, tok, num, "")
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, &Error{Code: CodeParseError, Path: "/", Message: "unexpected data after top-level value"}
	}
	return v, nil
}

func value(src TokenSource, tok Token, num NumberFunc, path string) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return object(src, num, path)
	case KindBeginArray:
		return array(src, num, path)
	case KindString:
		return tok.String, nil
	case KindNumber:
		v, err := num(tok.Number)
		if err != nil {
			return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: err.Error()}
		}
		return v, nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	}
	return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: "unexpected token"}
}

func object(src TokenSource, num NumberFunc, path string) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := next(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, &Error{Code: CodeParseError, Path: pointer(path), Message: "expected object key"}
		}
		vt, err := next(src)
		if err != nil {
			return nil, err
		}
		v, err := value(src, vt, num, Join(path, tok.String))
		if err != nil {
			return nil, err
		}
		m[tok.String] = v
	}
}

func array(src TokenSource, num NumberFunc, path string) (any, error) {
	arr := []any{}
	for {
		tok, err := next(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := value(src, tok, num, Join(path, strconv.Itoa(len(arr))))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func next(src TokenSource) (Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}
