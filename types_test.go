package safeen

import "testing"

func TestKind_String(t *testing.T) {
	eq(t, KindString.String(), "String")
	eq(t, KindInt8.String(), "Int8")
	eq(t, KindArray.String(), "Array")
	eq(t, Kind(42).String(), "Kind(42)")
}

func TestTypeTag_StringAndParse(t *testing.T) {
	tests := []struct {
		tag TypeTag
		str string
	}{
		{TString, "String"},
		{TChar, "Char"},
		{TUInt64, "UInt64"},
		{ArrayOf(TInt64), "Array(Int64)"},
		{ArrayOf(ArrayOf(TFloat32)), "Array(Array(Float32))"},
	}
	for _, tt := range tests {
		eq(t, tt.tag.String(), tt.str)
		parsed, err := ParseTypeTag(tt.str)
		if err != nil {
			t.Errorf("** ParseTypeTag(%q) failed: %v", tt.str, err)
			continue
		}
		if !parsed.Equal(tt.tag) {
			t.Errorf("** ParseTypeTag(%q) = %v, wanted %v", tt.str, parsed, tt.tag)
		}
	}
}

func TestParseTypeTag_errors(t *testing.T) {
	for _, s := range []string{"", "Foo", "Array(", "Array(Int64", "Array()", "Array(Int64))", "Invalid"} {
		if _, err := ParseTypeTag(s); err == nil {
			t.Errorf("** ParseTypeTag(%q) succeeded, wanted error", s)
		}
	}
}

func TestTypeTag_DepthAndResolution(t *testing.T) {
	tag := ArrayOf(ArrayOf(TBool))
	eq(t, tag.Depth(), 2)
	eq(t, TBool.Depth(), 0)
	eq(t, tag.Base().Kind, KindBool)
	eq(t, tag.IsResolved(), true)
	eq(t, unresolvedArray.IsResolved(), false)
	eq(t, ArrayOf(unresolvedArray).IsResolved(), false)
	eq(t, TypeTag{}.IsResolved(), false)

	eq(t, ArrayOf(TInt64).Equal(ArrayOf(TInt64)), true)
	eq(t, ArrayOf(TInt64).Equal(ArrayOf(TUInt64)), false)
	eq(t, ArrayOf(TInt64).Equal(unresolvedArray), false)
	eq(t, unresolvedArray.Equal(unresolvedArray), true)
}
