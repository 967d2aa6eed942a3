package safeen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is a single typed cell. Scalars are kept as a 64-bit word, strings
// and arrays in their own fields. The zero Value is invalid and is rejected
// by every table operation.
//
// Values are immutable; array accessors return copies.
type Value struct {
	kind Kind
	word uint64
	str  string
	arr  []Value
}

func String(s string) Value   { return Value{kind: KindString, str: s} }
func Char(r rune) Value       { return Value{kind: KindChar, word: uint64(uint32(r))} }
func Int8(v int8) Value       { return Value{kind: KindInt8, word: uint64(int64(v))} }
func Int64(v int64) Value     { return Value{kind: KindInt64, word: uint64(v)} }
func UInt64(v uint64) Value   { return Value{kind: KindUInt64, word: v} }
func Float32(v float32) Value { return Value{kind: KindFloat32, word: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{kind: KindFloat64, word: math.Float64bits(v)} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, word: 1}
	}
	return Value{kind: KindBool}
}

// Array builds an array value. Homogeneity is checked on insert, not here.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value{}, items...)}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsValid() bool { return v.kind.valid() }

// Definition returns the type tag of v. Arrays report the definition of
// their first element; an empty array reports the unresolved Array tag.
func (v Value) Definition() TypeTag {
	if v.kind != KindArray {
		return TypeTag{Kind: v.kind}
	}
	if len(v.arr) == 0 {
		return unresolvedArray
	}
	return ArrayOf(v.arr[0].Definition())
}

// Len returns the number of array elements, or 0 for scalars.
func (v Value) Len() int {
	return len(v.arr)
}

// Validate checks that v is a valid value and that every array inside it is
// homogeneous.
func (v Value) Validate() error {
	switch v.kind {
	case KindInvalid:
		return fmt.Errorf("%w: invalid value", ErrTypeMismatch)
	case KindArray:
		if len(v.arr) == 0 {
			return nil
		}
		first := v.arr[0].Definition()
		for i, item := range v.arr {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			if i > 0 && !sameElementType(first, item.Definition()) {
				return fmt.Errorf("%w: heterogeneous array: item %d is %v, item 0 is %v", ErrTypeMismatch, i, item.Definition(), first)
			}
		}
		return nil
	default:
		if !v.kind.valid() {
			return fmt.Errorf("%w: invalid kind %v", ErrTypeMismatch, v.kind)
		}
		if v.kind == KindChar && !validChar(uint32(v.word)) {
			return fmt.Errorf("%w: invalid char %#x", ErrTypeMismatch, v.word)
		}
		return nil
	}
}

// conformsTo reports whether v can be stored under the resolved type t.
// Empty arrays conform to any array type at any nesting level.
func (v Value) conformsTo(t TypeTag) bool {
	if v.kind != t.Kind {
		return false
	}
	switch v.kind {
	case KindArray:
		if t.Elem == nil {
			return false
		}
		for _, item := range v.arr {
			if !item.conformsTo(*t.Elem) {
				return false
			}
		}
		return true
	case KindChar:
		return validChar(uint32(v.word))
	default:
		return true
	}
}

// sameElementType compares element definitions, letting empty nested arrays
// stand in for any array element.
func sameElementType(a, b TypeTag) bool {
	if a.Kind == KindArray && b.Kind == KindArray && (a.Elem == nil || b.Elem == nil) {
		return true
	}
	return a.Equal(b)
}

func (v Value) mismatch(want Kind) error {
	return fmt.Errorf("%w: value is %v, not %v", ErrTypeMismatch, v.Definition(), want)
}

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.str, nil
}

func (v Value) AsChar() (rune, error) {
	if v.kind != KindChar {
		return 0, v.mismatch(KindChar)
	}
	return rune(uint32(v.word)), nil
}

func (v Value) AsInt8() (int8, error) {
	if v.kind != KindInt8 {
		return 0, v.mismatch(KindInt8)
	}
	return int8(v.word), nil
}

func (v Value) AsInt64() (int64, error) {
	if v.kind != KindInt64 {
		return 0, v.mismatch(KindInt64)
	}
	return int64(v.word), nil
}

func (v Value) AsUInt64() (uint64, error) {
	if v.kind != KindUInt64 {
		return 0, v.mismatch(KindUInt64)
	}
	return v.word, nil
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.word != 0, nil
}

func (v Value) AsFloat32() (float32, error) {
	if v.kind != KindFloat32 {
		return 0, v.mismatch(KindFloat32)
	}
	return math.Float32frombits(uint32(v.word)), nil
}

func (v Value) AsFloat64() (float64, error) {
	if v.kind != KindFloat64 {
		return 0, v.mismatch(KindFloat64)
	}
	return math.Float64frombits(v.word), nil
}

func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return append([]Value(nil), v.arr...), nil
}

// Equal reports structural equality. Floats compare by bit pattern, so NaN
// equals an identical NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	default:
		return v.word == o.word
	}
}

func (v Value) String() string {
	var buf strings.Builder
	v.writeTo(&buf)
	return buf.String()
}

func (v Value) writeTo(buf *strings.Builder) {
	switch v.kind {
	case KindString:
		buf.WriteString(strconv.Quote(v.str))
	case KindChar:
		buf.WriteString(strconv.QuoteRune(rune(uint32(v.word))))
	case KindInt8, KindInt64:
		buf.WriteString(strconv.FormatInt(int64(v.word), 10))
	case KindUInt64:
		buf.WriteString(strconv.FormatUint(v.word, 10))
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.word != 0))
	case KindFloat32:
		buf.WriteString(strconv.FormatFloat(float64(math.Float32frombits(uint32(v.word))), 'g', -1, 32))
	case KindFloat64:
		buf.WriteString(strconv.FormatFloat(math.Float64frombits(v.word), 'g', -1, 64))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteString(", ")
			}
			item.writeTo(buf)
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("<invalid>")
	}
}

func validChar(r uint32) bool {
	return utf8.ValidRune(rune(r))
}
