package safeen

import (
	"testing"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		in  any
		out Value
	}{
		{"s", String("s")},
		{'c', Char('c')},
		{int8(-3), Int8(-3)},
		{42, Int64(42)},
		{int64(-42), Int64(-42)},
		{uint64(7), UInt64(7)},
		{true, Bool(true)},
		{float32(1.25), Float32(1.25)},
		{3.5, Float64(3.5)},
		{[]int64{1, 2}, Array(Int64(1), Int64(2))},
		{[][]string{{"a"}, {}}, Array(Array(String("a")), Array())},
		{[]any{"a", "b"}, Array(String("a"), String("b"))},
		{Int8(1), Int8(1)},
	}
	for _, tt := range tests {
		v, err := ValueOf(tt.in)
		if err != nil {
			t.Errorf("** ValueOf(%#v) failed: %v", tt.in, err)
			continue
		}
		if !v.Equal(tt.out) {
			t.Errorf("** ValueOf(%#v) = %v (%v), wanted %v (%v)", tt.in, v, v.Definition(), tt.out, tt.out.Definition())
		}
	}
}

func TestValueOf_unsupported(t *testing.T) {
	for _, in := range []any{nil, uint8(1), int16(1), map[string]int{}, struct{}{}} {
		_, err := ValueOf(in)
		isErr(t, err, ErrTypeMismatch)
	}
}

func TestAs(t *testing.T) {
	eq(t, must(As[string](String("x"))), "x")
	eq(t, must(As[int](Int64(5))), 5)
	eq(t, must(As[rune](Char('q'))), 'q')
	deepEqual(t, must(As[[]int64](Array(Int64(1), Int64(2)))), []int64{1, 2})
	deepEqual(t, must(As[[][]bool](Array(Array(Bool(true)), Array()))), [][]bool{{true}, {}})
	deepEqual(t, must(As[any](Array(Int8(1)))), any([]any{int8(1)}))
	valueEq(t, must(As[Value](UInt64(9))), UInt64(9))

	_, err := As[string](Int64(1))
	isErr(t, err, ErrTypeMismatch)
	_, err = As[int64](Int8(1))
	isErr(t, err, ErrTypeMismatch)
	_, err = As[[]string](Array(Int64(1)))
	isErr(t, err, ErrTypeMismatch)
	_, err = As[int32](Int64(1))
	isErr(t, err, ErrTypeMismatch)
}

func TestNative(t *testing.T) {
	deepEqual(t, Array(String("a"), String("b")).Native(), any([]any{"a", "b"}))
	deepEqual(t, Char('a').Native(), any('a'))
	deepEqual(t, Float32(2).Native(), any(float32(2)))
	deepEqual(t, Value{}.Native(), nil)
}

func TestValues(t *testing.T) {
	vs := must(Values("a", 1, true))
	eq(t, len(vs), 3)
	valueEq(t, vs[1], Int64(1))
	_, err := Values("a", nil)
	isErr(t, err, ErrTypeMismatch)
}
