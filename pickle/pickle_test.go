package pickle

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

// nesting returns how deeply containers nest in a pickled tree.
func nesting(v any) int {
	deepest := 0
	switch t := v.(type) {
	case Map:
		for _, p := range t {
			deepest = max(deepest, nesting(p.Value))
		}
		return deepest + 1
	case []any:
		for _, e := range t {
			deepest = max(deepest, nesting(e))
		}
		return deepest + 1
	}
	return 0
}

type point struct {
	X, Y int
}

type account struct {
	Name   string
	secret string
	tags   []string
}

type node struct {
	Name string
	Next *node
}

type celsius float64

func (c celsius) String() string { return "hot" }

type ptrStringer struct{ n int }

func (p *ptrStringer) String() string { return "ptr-stringer" }

type panicStringer struct{}

func (panicStringer) String() string { panic("boom") }

type userView struct {
	ID       int
	Password string
}

func (u userView) PickleValue() any {
	return Map{{Key: "id", Value: u.ID}}
}

type selfView struct{ N int }

func (s *selfView) PickleValue() any { return s }

type panicView struct{}

func (panicView) PickleValue() any { panic("no view") }

func TestPickle_Primitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 42, int64(42)},
		{"int8", int8(-3), int64(-3)},
		{"uint16", uint16(7), uint64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"string", "hello", "hello"},
		{"bytes", []byte("raw"), "raw"},
		{"complex", complex(1, 2), "(1+2i)"},
		{"nil pointer", (*point)(nil), nil},
		{"nil slice", []int(nil), nil},
		{"nil map", map[string]int(nil), nil},
		{"pointer to int", func() *int { i := 5; return &i }(), int64(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pickle(tt.in, DefaultMaxDepth); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pickle() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPickle_DepthZero(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int string form", 42, "42"},
		{"float string form", 2.5, "2.5"},
		{"bool string form", false, "false"},
		{"string unchanged", "s", "s"},
		{"stringer", celsius(40), "hot"},
		{"pointer receiver stringer", &ptrStringer{}, "ptr-stringer"},
		{"error", errors.New("failed"), "failed"},
		{"struct type name", point{1, 2}, "pickle.point"},
		{"slice type name", []int{1}, "[]int"},
		{"map type name", map[string]int{}, "map[string]int"},
		{"pickle map type name", Map{{Key: "a", Value: 1}}, "pickle.Map"},
		{"time", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02 03:04:05 +0000 UTC"},
		{"panicking stringer", panicStringer{}, "pickle.panicStringer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pickle(tt.in, 0); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pickle(_, 0) = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPickle_NegativeDepth(t *testing.T) {
	if got := Pickle(point{1, 2}, -5); got != "pickle.point" {
		t.Errorf("Pickle(_, -5) = %#v, want type name", got)
	}
}

func TestPickle_Struct(t *testing.T) {
	got := Pickle(&account{Name: "ann", secret: "s3", tags: []string{"a", "b"}}, DefaultMaxDepth)
	want := Map{
		{Key: "Name", Value: "ann"},
		{Key: "secret", Value: "s3"},
		{Key: "tags", Value: []any{"a", "b"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pickle() = %#v, want %#v", got, want)
	}
}

func TestPickle_UnexportedSpecialFields(t *testing.T) {
	type wrapper struct {
		when  time.Time
		label celsius
		err   error
	}
	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	got := Pickle(wrapper{when: ts, label: 3, err: errors.New("x")}, 2)

	m, ok := got.(Map)
	if !ok {
		t.Fatalf("Pickle() = %#v, want Map", got)
	}
	if v, _ := m.Get("when"); v != "2026-10-19T12:00:00Z" {
		t.Errorf("when = %#v", v)
	}
	if v, _ := m.Get("label"); v != float64(3) {
		t.Errorf("label = %#v", v)
	}
	// errors.New is a pointer to an unexported struct with one field
	if v, _ := m.Get("err"); !reflect.DeepEqual(v, Map{{Key: "s", Value: "x"}}) {
		t.Errorf("err = %#v", v)
	}
}

func TestPickle_MapKeysSorted(t *testing.T) {
	got := Pickle(map[string]int{"b": 2, "c": 3, "a": 1}, DefaultMaxDepth)
	m, ok := got.(Map)
	if !ok {
		t.Fatalf("Pickle() = %#v, want Map", got)
	}
	if keys := strings.Join(m.Keys(), ","); keys != "a,b,c" {
		t.Errorf("keys = %v, want a,b,c", keys)
	}
	if v, _ := m.Get("c"); v != int64(3) {
		t.Errorf("c = %#v", v)
	}

	intKeys := Pickle(map[int]bool{10: true, 2: false}, 1).(Map)
	if keys := strings.Join(intKeys.Keys(), ","); keys != "10,2" {
		t.Errorf("int keys = %v, want 10,2", keys)
	}
}

func TestPickle_MapInput(t *testing.T) {
	in := Map{{Key: "z", Value: point{1, 2}}, {Key: "a", Value: "x"}}
	got := Pickle(in, 3)
	want := Map{
		{Key: "z", Value: Map{{Key: "X", Value: int64(1)}, {Key: "Y", Value: int64(2)}}},
		{Key: "a", Value: "x"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pickle() = %#v, want %#v", got, want)
	}
}

func TestPickle_Opaque(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"func", func() {}, "func()"},
		{"chan", make(chan int), "chan int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pickle(tt.in, DefaultMaxDepth); got != tt.want {
				t.Errorf("Pickle() = %#v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickle_InterfaceSlice(t *testing.T) {
	got := Pickle([]any{1, "two", nil, []any{3.5}}, DefaultMaxDepth)
	want := []any{int64(1), "two", nil, []any{3.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pickle() = %#v, want %#v", got, want)
	}
}

func TestPickle_Pickler(t *testing.T) {
	got := Pickle(userView{ID: 9, Password: "hunter2"}, DefaultMaxDepth)
	want := Map{{Key: "id", Value: int64(9)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pickle() = %#v, want %#v", got, want)
	}

	nested := Pickle([]any{userView{ID: 1}}, DefaultMaxDepth)
	if !reflect.DeepEqual(nested, []any{Map{{Key: "id", Value: int64(1)}}}) {
		t.Errorf("nested Pickle() = %#v", nested)
	}
}

func TestPickle_PicklerReturningItself(t *testing.T) {
	got := Pickle(&selfView{N: 3}, DefaultMaxDepth)
	want := Map{{Key: "N", Value: int64(3)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pickle() = %#v, want %#v", got, want)
	}
}

func TestPickle_PanickingPickler(t *testing.T) {
	if got := Pickle(panicView{}, DefaultMaxDepth); got != "pickle.panicView" {
		t.Errorf("Pickle() = %#v, want type name", got)
	}
}

func TestPickle_Cycle(t *testing.T) {
	n := &node{Name: "a"}
	n.Next = n

	for depth := 0; depth <= 12; depth++ {
		got := Pickle(n, depth)
		if d := nesting(got); d > depth {
			t.Errorf("depth %d: nesting = %d", depth, d)
		}
	}

	got := Pickle(n, 2)
	want := Map{
		{Key: "Name", Value: "a"},
		{Key: "Next", Value: Map{
			{Key: "Name", Value: "a"},
			{Key: "Next", Value: "pickle.node"},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pickle() = %#v, want %#v", got, want)
	}
}

func TestPickle_PointerOnlyCycle(t *testing.T) {
	var x any
	x = &x

	got := Pickle(x, DefaultMaxDepth)
	if _, ok := got.(string); !ok {
		t.Errorf("Pickle() = %#v, want type name", got)
	}
}

func TestPickle_DepthBound(t *testing.T) {
	deep := any("leaf")
	for i := 0; i < 30; i++ {
		deep = []any{deep, map[string]any{"k": deep}}
	}

	for _, depth := range []int{0, 1, 2, 5, DefaultMaxDepth} {
		if d := nesting(Pickle(deep, depth)); d > depth {
			t.Errorf("depth %d: nesting = %d", depth, d)
		}
	}
}

func TestMap_Get(t *testing.T) {
	m := Map{{Key: "a", Value: 1}, {Key: "a", Value: 2}}
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
}

func BenchmarkPickle_Struct(b *testing.B) {
	v := &account{Name: "ann", secret: "s3", tags: []string{"a", "b", "c"}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Pickle(v, DefaultMaxDepth)
	}
}

func BenchmarkPickle_Cycle(b *testing.B) {
	n := &node{Name: "a"}
	n.Next = n
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Pickle(n, DefaultMaxDepth)
	}
}
