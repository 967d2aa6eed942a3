package safeen

import (
	"fmt"
	"strings"
)

// Kind is the base kind of a TypeTag. The numeric values are the on-disk
// kind codes.
type Kind uint8

const (
	KindInvalid Kind = 0
	KindString  Kind = 1
	KindChar    Kind = 2
	KindInt64   Kind = 3
	KindUInt64  Kind = 4
	KindBool    Kind = 5
	KindFloat32 Kind = 6
	KindFloat64 Kind = 7
	KindArray   Kind = 8
	KindInt8    Kind = 9

	maxKind = KindInt8
)

// MaxTypeDepth limits array nesting in column types.
const MaxTypeDepth = 32

var kindNames = [...]string{
	KindInvalid: "Invalid",
	KindString:  "String",
	KindChar:    "Char",
	KindInt64:   "Int64",
	KindUInt64:  "UInt64",
	KindBool:    "Bool",
	KindFloat32: "Float32",
	KindFloat64: "Float64",
	KindArray:   "Array",
	KindInt8:    "Int8",
}

func (k Kind) String() string {
	if k > maxKind {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

func (k Kind) valid() bool {
	return k != KindInvalid && k <= maxKind
}

// IsNumeric reports whether values of this kind can be incremented.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt8, KindInt64, KindUInt64, KindFloat32, KindFloat64:
		return true
	default:
		return false
	}
}

// fixedSize returns the encoded size of a fixed-width kind, or 0.
func (k Kind) fixedSize() int {
	switch k {
	case KindInt8, KindBool:
		return 1
	case KindChar, KindFloat32:
		return 4
	case KindInt64, KindUInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// TypeTag describes the declared type of a column or the definition of a
// value. Elem is set only for arrays.
//
// An Array tag with a nil Elem is unresolved: it is what an empty array
// reports as its definition, and it matches any array column on insert.
type TypeTag struct {
	Kind Kind
	Elem *TypeTag
}

var (
	TString  = TypeTag{Kind: KindString}
	TChar    = TypeTag{Kind: KindChar}
	TInt8    = TypeTag{Kind: KindInt8}
	TInt64   = TypeTag{Kind: KindInt64}
	TUInt64  = TypeTag{Kind: KindUInt64}
	TBool    = TypeTag{Kind: KindBool}
	TFloat32 = TypeTag{Kind: KindFloat32}
	TFloat64 = TypeTag{Kind: KindFloat64}

	unresolvedArray = TypeTag{Kind: KindArray}
)

// ArrayOf returns the tag of an array whose elements have type elem.
func ArrayOf(elem TypeTag) TypeTag {
	return TypeTag{Kind: KindArray, Elem: &elem}
}

func (t TypeTag) IsArray() bool {
	return t.Kind == KindArray
}

// IsResolved reports whether every level of t has a known kind.
func (t TypeTag) IsResolved() bool {
	for {
		if !t.Kind.valid() {
			return false
		}
		if t.Kind != KindArray {
			return true
		}
		if t.Elem == nil {
			return false
		}
		t = *t.Elem
	}
}

// Depth returns the number of array levels in t.
func (t TypeTag) Depth() int {
	var n int
	for t.Kind == KindArray && t.Elem != nil {
		n++
		t = *t.Elem
	}
	return n
}

// Base returns the innermost non-array tag.
func (t TypeTag) Base() TypeTag {
	for t.Kind == KindArray && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

func (t TypeTag) Equal(o TypeTag) bool {
	for {
		if t.Kind != o.Kind {
			return false
		}
		if t.Kind != KindArray {
			return true
		}
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == nil && o.Elem == nil
		}
		t, o = *t.Elem, *o.Elem
	}
}

func (t TypeTag) String() string {
	var buf strings.Builder
	t.writeTo(&buf)
	return buf.String()
}

func (t TypeTag) writeTo(buf *strings.Builder) {
	if t.Kind != KindArray {
		buf.WriteString(t.Kind.String())
		return
	}
	buf.WriteString("Array(")
	if t.Elem == nil {
		buf.WriteByte('?')
	} else {
		t.Elem.writeTo(buf)
	}
	buf.WriteByte(')')
}

// ParseTypeTag parses the String form of a resolved tag, e.g.
// "Array(Array(Int64))".
func ParseTypeTag(s string) (TypeTag, error) {
	orig := s
	var depth int
	for strings.HasPrefix(s, "Array(") {
		s = s[len("Array("):]
		depth++
		if depth > MaxTypeDepth {
			return TypeTag{}, fmt.Errorf("type %q: nested deeper than %d levels", orig, MaxTypeDepth)
		}
	}
	if !strings.HasSuffix(s, strings.Repeat(")", depth)) {
		return TypeTag{}, fmt.Errorf("type %q: unbalanced parentheses", orig)
	}
	s = s[:len(s)-depth]

	var base TypeTag
	for k := KindString; k <= maxKind; k++ {
		if k != KindArray && kindNames[k] == s {
			base = TypeTag{Kind: k}
			break
		}
	}
	if base.Kind == KindInvalid {
		return TypeTag{}, fmt.Errorf("type %q: unknown kind %q", orig, s)
	}
	for range depth {
		base = ArrayOf(base)
	}
	return base, nil
}
