package lasso_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/lasso"
)

func mustFail(t *testing.T, def, data any) *lasso.Failure {
	t.Helper()
	_, err := lasso.Validate(def, data)
	if err == nil {
		t.Fatalf("expected %#v to be rejected by %v", data, def)
	}
	f, ok := lasso.AsFailure(err)
	if !ok {
		t.Fatalf("expected *lasso.Failure, got %T: %v", err, err)
	}
	return f
}

func mustPass(t *testing.T, def, data any) any {
	t.Helper()
	got, err := lasso.Validate(def, data)
	if err != nil {
		t.Fatalf("unexpected failure for %#v: %v", data, err)
	}
	return got
}

func TestNew_KindPriority(t *testing.T) {
	cases := []struct {
		def  any
		want lasso.Kind
	}{
		{lasso.Or(1), lasso.KindCapability},
		{[]any{1}, lasso.KindSequence},
		{[2]any{1, 2}, lasso.KindSequence},
		{map[int]struct{}{1: {}}, lasso.KindSequence},
		{map[string]any{"a": 1}, lasso.KindMapping},
		{lasso.Type[int](), lasso.KindType},
		{func(int) bool { return true }, lasso.KindPredicate},
		{"text", lasso.KindLiteral},
		{nil, lasso.KindLiteral},
	}
	for _, tc := range cases {
		s, err := lasso.New(tc.def)
		if err != nil {
			t.Fatalf("New(%v): %v", tc.def, err)
		}
		if s.Kind() != tc.want {
			t.Fatalf("New(%v).Kind() = %s, want %s", tc.def, s.Kind(), tc.want)
		}
	}
}

func TestNew_DefinitionErrors(t *testing.T) {
	defs := []any{
		map[int]any{1: "x"},
		func(a, b int) bool { return true },
		func(int) string { return "" },
		lasso.Optional(1),
		map[string]any{"a": func() {}},
	}
	for _, def := range defs {
		if _, err := lasso.New(def); err == nil {
			t.Fatalf("expected definition error for %T", def)
		}
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	lasso.MustNew(map[int]any{})
}

func TestType(t *testing.T) {
	if got := mustPass(t, lasso.Type[int](), 3); got != 3 {
		t.Fatalf("got %v", got)
	}
	f := mustFail(t, lasso.Type[int](), "3")
	if f.Message != `"3" should be instance of int` {
		t.Fatalf("unexpected message: %q", f.Message)
	}
	mustFail(t, lasso.Type[int](), nil)
	mustFail(t, lasso.Type[int](), int64(3))
	mustPass(t, lasso.Type[fmt.Stringer](), lasso.Or())
	mustFail(t, lasso.Type[error](), nil)
	if got := mustPass(t, lasso.Type[any](), nil); got != nil {
		t.Fatalf("got %v", got)
	}
}

func TestLiteral(t *testing.T) {
	mustPass(t, "a", "a")
	mustPass(t, 1, int64(1))
	mustPass(t, 1.0, 1)
	mustPass(t, nil, nil)
	mustPass(t, true, true)
	f := mustFail(t, "a", "b")
	if f.Message != `"b" should be "a"` {
		t.Fatalf("unexpected message: %q", f.Message)
	}
	mustFail(t, 1, "1")
	mustFail(t, 0, nil)
}

func positive(n int) bool { return n > 0 }

func TestPredicate(t *testing.T) {
	mustPass(t, positive, 3)
	f := mustFail(t, positive, -1)
	if !strings.HasSuffix(f.Message, "positive(-1) should evaluate to true") {
		t.Fatalf("unexpected message: %q", f.Message)
	}
	// Arguments of the wrong type are reported as raised errors.
	f = mustFail(t, positive, "x")
	if !strings.Contains(f.Message, "raised") {
		t.Fatalf("unexpected message: %q", f.Message)
	}

	boom := errors.New("boom")
	f = mustFail(t, func(any) error { return boom }, 1)
	if !errors.Is(f, boom) || !strings.HasSuffix(f.Message, "(1) raised boom") {
		t.Fatalf("unexpected failure: %q cause=%v", f.Message, f.Cause)
	}

	f = mustFail(t, func(int) (bool, error) { panic("bad") }, 1)
	if !strings.Contains(f.Message, "raised panic: bad") {
		t.Fatalf("unexpected message: %q", f.Message)
	}
}

func TestMapping_ClosedWorld(t *testing.T) {
	f := mustFail(t, map[string]any{"a": lasso.Type[int]()}, map[string]any{"a": 1, "b": 2, "c": 3})
	if !strings.HasPrefix(f.Message, "Wrong keys in ") || !strings.HasSuffix(f.Message, ": b, c") {
		t.Fatalf("unexpected message: %q", f.Message)
	}
}

func TestMapping_MissingKeysAggregated(t *testing.T) {
	f := mustFail(t, map[string]any{"b": lasso.Type[int](), "a": lasso.Type[int]()}, map[string]any{})
	if f.Message != "Missing keys: a, b" {
		t.Fatalf("unexpected message: %q", f.Message)
	}
}

func TestMapping_MissingBeforeWrong(t *testing.T) {
	f := mustFail(t, map[string]any{"a": 1}, map[string]any{"z": 1})
	if f.Message != "Missing keys: a" {
		t.Fatalf("unexpected message: %q", f.Message)
	}
}

func TestMapping_OptionalDefault(t *testing.T) {
	def := map[string]any{"v": lasso.Optional(lasso.Type[int](), lasso.Default(42))}
	if diff := cmp.Diff(map[string]any{"v": 42}, mustPass(t, def, map[string]any{})); diff != "" {
		t.Fatalf("default not applied (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"v": 7}, mustPass(t, def, map[string]any{"v": 7})); diff != "" {
		t.Fatalf("present value replaced (-want +got):\n%s", diff)
	}
	bare := map[string]any{"v": lasso.Optional(lasso.Type[int]())}
	if got := mustPass(t, bare, map[string]any{}).(map[string]any); len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

func TestMapping_NestedAndNormalized(t *testing.T) {
	def := map[string]any{
		"point": map[string]any{"x": lasso.Use(func(s string) int { return len(s) })},
	}
	got := mustPass(t, def, map[string]any{"point": map[string]any{"x": "abc"}})
	want := map[string]any{"point": map[string]any{"x": 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMapping_RejectsNonMaps(t *testing.T) {
	for _, data := range []any{nil, []any{}, "x", map[int]any{1: 1}} {
		f := mustFail(t, map[string]any{}, data)
		if !strings.HasSuffix(f.Message, "should be instance of map") {
			t.Fatalf("unexpected message: %q", f.Message)
		}
	}
}

type config map[string]any

func TestMapping_PreservesMapType(t *testing.T) {
	got := mustPass(t, map[string]any{"a": 1}, config{"a": 1})
	if _, ok := got.(config); !ok {
		t.Fatalf("expected config, got %T", got)
	}
}

type ints []int

type intSet map[int]struct{}

func TestSequence_PreservesContainerType(t *testing.T) {
	got := mustPass(t, []any{lasso.Type[int]()}, ints{1, 2, 3})
	if diff := cmp.Diff(ints{1, 2, 3}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	plain := mustPass(t, []any{lasso.Type[int]()}, []int{4})
	if _, ok := plain.([]int); !ok {
		t.Fatalf("expected []int, got %T", plain)
	}

	set := mustPass(t, map[any]struct{}{lasso.Type[int](): {}}, intSet{1: {}, 2: {}})
	if diff := cmp.Diff(intSet{1: {}, 2: {}}, set); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	tuple := mustPass(t, [2]any{lasso.Type[int](), lasso.Type[string]()}, [2]any{1, "a"})
	if tuple != [2]any{1, "a"} {
		t.Fatalf("got %v", tuple)
	}
}

func TestSequence_ContainerKindMustMatch(t *testing.T) {
	mustFail(t, []any{lasso.Type[int]()}, [1]int{1})
	mustFail(t, []any{lasso.Type[int]()}, map[int]struct{}{1: {}})
	mustFail(t, []any{lasso.Type[int]()}, nil)
	mustFail(t, [1]any{lasso.Type[int]()}, []int{1})
}

func TestSequence_Alternatives(t *testing.T) {
	def := []any{lasso.Type[int](), lasso.Type[string]()}
	got := mustPass(t, def, []any{1, "a", 2})
	if diff := cmp.Diff([]any{1, "a", 2}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	f := mustFail(t, def, []any{1, 2.5})
	if !strings.HasPrefix(f.Message, "2.5 did not validate Or(") {
		t.Fatalf("unexpected message: %q", f.Message)
	}
	if got := mustPass(t, def, []any{}); len(got.([]any)) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestSequence_TransformWidensContainer(t *testing.T) {
	atoi := lasso.Use(strconv.Atoi)
	got := mustPass(t, []any{atoi}, []string{"1", "2"})
	if diff := cmp.Diff([]any{1, 2}, got); diff != "" {
		t.Fatalf("slice (-want +got):\n%s", diff)
	}

	got = mustPass(t, [2]any{atoi, atoi}, [2]string{"3", "4"})
	if diff := cmp.Diff([]any{3, 4}, got); diff != "" {
		t.Fatalf("array (-want +got):\n%s", diff)
	}

	toString := lasso.Use(func(n int) string { return fmt.Sprint(n) })
	got = mustPass(t, map[any]struct{}{toString: {}}, intSet{1: {}, 2: {}})
	if diff := cmp.Diff(map[any]struct{}{"1": {}, "2": {}}, got); diff != "" {
		t.Fatalf("set (-want +got):\n%s", diff)
	}

	// Elements that still fit keep the input's type.
	same := mustPass(t, []any{lasso.Use(strings.ToUpper)}, []string{"a"})
	if diff := cmp.Diff([]string{"A"}, same); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMapping_TransformWidensMap(t *testing.T) {
	got := mustPass(t, map[string]any{"n": lasso.Use(strconv.Atoi)}, map[string]string{"n": "3"})
	if diff := cmp.Diff(map[string]any{"n": 3}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}

	def := map[string]any{
		"n": lasso.Type[string](),
		"m": lasso.Optional(lasso.Type[int](), lasso.Default(0)),
	}
	got = mustPass(t, def, map[string]string{"n": "x"})
	if diff := cmp.Diff(map[string]any{"n": "x", "m": 0}, got); diff != "" {
		t.Fatalf("default (-want +got):\n%s", diff)
	}
}

func TestWithMessage_ReplacesGeneratedMessages(t *testing.T) {
	s := lasso.MustNew(map[string]any{"a": lasso.Type[int]()}, lasso.WithMessage("bad config"))
	for _, data := range []any{
		map[string]any{},
		map[string]any{"a": "x"},
		map[string]any{"a": 1, "b": 2},
		"nope",
	} {
		_, err := s.Validate(data)
		if err == nil || err.Error() != "bad config" {
			t.Fatalf("expected custom message for %v, got %v", data, err)
		}
	}
	if s.Message() != "bad config" {
		t.Fatalf("Message() = %q", s.Message())
	}
}

func TestSchemaReuse(t *testing.T) {
	inner := lasso.MustNew(lasso.Type[int]())
	same := lasso.MustNew(inner)
	if same != inner {
		t.Fatalf("expected compiled schema to be reused")
	}
	wrapped := lasso.MustNew(inner, lasso.WithMessage("int please"))
	if _, err := wrapped.Validate("x"); err == nil || err.Error() != "int please" {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := inner.Validate("x"); err == nil || err.Error() == "int please" {
		t.Fatalf("original schema must keep its messages, got %v", err)
	}
}

type point struct{ x, y int }

// pointShape is a capability that builds points from two-element slices.
type pointShape struct{}

func (pointShape) Validate(data any) (any, error) {
	switch v := data.(type) {
	case *point:
		return v, nil
	case []any:
		if len(v) == 2 {
			x, ok1 := v[0].(int)
			y, ok2 := v[1].(int)
			if ok1 && ok2 {
				return &point{x, y}, nil
			}
		}
		return nil, lasso.Failf("%v is not a point", v)
	case string:
		return nil, fmt.Errorf("point %s: %w", v, lasso.Failf("not a pair"))
	}
	return nil, errors.New("unsupported")
}

func TestCapability_IdempotentAndPropagation(t *testing.T) {
	p := &point{1, 2}
	if got := mustPass(t, pointShape{}, p); got != p {
		t.Fatalf("expected the same instance back")
	}
	got := mustPass(t, pointShape{}, []any{3, 4}).(*point)
	if *got != (point{3, 4}) {
		t.Fatalf("got %v", got)
	}

	f := mustFail(t, pointShape{}, []any{"a"})
	if f.Message != "[a] is not a point" {
		t.Fatalf("failure must pass through unchanged, got %q", f.Message)
	}
	f = mustFail(t, pointShape{}, 7)
	if !strings.HasSuffix(f.Message, ".Validate(7) raised unsupported") || f.Cause == nil {
		t.Fatalf("unexpected failure: %q", f.Message)
	}

	f = mustFail(t, pointShape{}, "p")
	if !strings.HasSuffix(f.Message, `.Validate("p") raised point p: not a pair`) {
		t.Fatalf("wrapped failure lost its context: %q", f.Message)
	}
	if inner, ok := lasso.AsFailure(f.Cause); !ok || inner.Message != "not a pair" {
		t.Fatalf("cause = %v", f.Cause)
	}
}

func TestSchema_ConcurrentUse(t *testing.T) {
	s := lasso.MustNew(map[string]any{"n": lasso.Type[int](), "tags": []any{lasso.Type[string]()}})
	done := make(chan error)
	for i := 0; i < 8; i++ {
		go func(i int) {
			_, err := s.Validate(map[string]any{"n": i, "tags": []any{"a"}})
			done <- err
		}(i)
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestSchema_String(t *testing.T) {
	s := lasso.MustNew([]any{lasso.Type[int](), "x"})
	if got := s.String(); got != "[int x]" {
		t.Fatalf("String() = %q", got)
	}
}
