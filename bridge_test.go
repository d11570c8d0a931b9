package lasso_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/lasso"
)

type celsius float32

type label string

type wrapped struct{ v any }

func (w wrapped) ToPrimitive() any { return w.v }

type loop struct{}

func (l loop) ToPrimitive() any { return l }

func TestToPrimitive_Tree(t *testing.T) {
	n := 5
	in := map[string]any{
		"int":    1,
		"int8":   int8(2),
		"uint":   uint(3),
		"float":  celsius(1.5),
		"label":  label("x"),
		"number": json.Number("12.50"),
		"ptr":    &n,
		"nilptr": (*int)(nil),
		"slice":  []label{"a", "b"},
		"array":  [2]int{1, 2},
		"set":    map[int]struct{}{10: {}, 9: {}, 100: {}},
		"nested": map[label]any{"k": wrapped{[]any{wrapped{true}}}},
		"nil":    nil,
	}
	got, err := lasso.ToPrimitive(in)
	if err != nil {
		t.Fatalf("ToPrimitive: %v", err)
	}
	want := map[string]any{
		"int":    1,
		"int8":   int64(2),
		"uint":   uint64(3),
		"float":  1.5,
		"label":  "x",
		"number": json.Number("12.50"),
		"ptr":    5,
		"nilptr": nil,
		"slice":  []any{"a", "b"},
		"array":  []any{1, 2},
		"set":    []any{9, 10, 100},
		"nested": map[string]any{"k": []any{true}},
		"nil":    nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestToPrimitive_Unsupported(t *testing.T) {
	for _, v := range []any{
		func() {},
		make(chan int),
		map[int]string{1: "a"},
		struct{ A int }{1},
		[]any{func() {}},
		loop{},
	} {
		if _, err := lasso.ToPrimitive(v); !errors.Is(err, lasso.ErrUnsupportedValue) {
			t.Fatalf("expected ErrUnsupportedValue for %T, got %v", v, err)
		}
	}
}
