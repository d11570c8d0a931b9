package decode

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func jsonNumber(s string) (any, error) { return json.Number(s), nil }

func decodeWith(t *testing.T, in string, lim Limits) (any, error) {
	t.Helper()
	return Tree(Enforce(NewJSONBytes([]byte(in)), lim), jsonNumber)
}

func TestTree_BuildsPrimitives(t *testing.T) {
	got, err := decodeWith(t, `{"a":[1,"x",true,null],"b":{"c":2.5}}`, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"a": []any{json.Number("1"), "x", true, nil},
		"b": map[string]any{"c": json.Number("2.5")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestTree_EmptyArrayIsNotNil(t *testing.T) {
	got, err := decodeWith(t, `[]`, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arr, ok := got.([]any); !ok || arr == nil || len(arr) != 0 {
		t.Fatalf("expected empty []any, got %#v", got)
	}
}

func TestEnforce_DuplicateKey(t *testing.T) {
	_, err := decodeWith(t, `[{"a":1,"a":2}]`, Limits{RejectDuplicates: true})
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if de.Code != CodeDuplicateKey || de.Path != "/0/a" {
		t.Fatalf("unexpected error: %+v", de)
	}
}

func TestEnforce_DuplicateKeyLastWins(t *testing.T) {
	got, err := decodeWith(t, `{"a":1,"a":2}`, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := got.(map[string]any); m["a"] != json.Number("2") {
		t.Fatalf("expected last value to win, got %v", m["a"])
	}
}

func TestEnforce_MaxDepth(t *testing.T) {
	_, err := decodeWith(t, `{"a":{"b":{"c":1}}}`, Limits{MaxDepth: 2})
	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if de.Code != CodeParseError || de.Path != "/a/b" {
		t.Fatalf("unexpected error: %+v", de)
	}
}

func TestEnforce_MaxBytes(t *testing.T) {
	_, err := decodeWith(t, `{"a":"xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"}`, Limits{MaxBytes: 4})
	var de *Error
	if !errors.As(err, &de) || de.Code != CodeTruncated {
		t.Fatalf("expected truncated error, got %v", err)
	}
}

func TestTree_TrailingData(t *testing.T) {
	if _, err := decodeWith(t, `{} {}`, Limits{}); err == nil {
		t.Fatalf("expected error for trailing value")
	}
}

func TestTree_Empty(t *testing.T) {
	_, err := decodeWith(t, ``, Limits{})
	var de *Error
	if !errors.As(err, &de) || de.Code != CodeParseError {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestJoin_Escapes(t *testing.T) {
	if got := Join("/a", "b/c~d"); got != "/a/b~1c~0d" {
		t.Fatalf("got %q", got)
	}
}
