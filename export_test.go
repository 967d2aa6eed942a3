package safeen

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_roundTrip(t *testing.T) {
	db := allTypesDB(t)
	// JSON has no infinities
	db.MustTable("scalars").rows[1][6] = Float32(-2.75)

	for _, enc := range []EncodingMethod{MsgPack, JSON} {
		t.Run(enc.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, db.Export(&buf, enc))
			loaded, err := Import(&buf, enc)
			require.NoError(t, err)
			assert.True(t, loaded.Equal(db), "imported:\n%s", loaded.Dump(DumpAll))
		})
	}
}

func TestExport_JSONShape(t *testing.T) {
	db := New()
	db.SetName("d")
	require.NoError(t, db.CreateTable("t", Col("c", TChar).SetNullable(), Col("xs", ArrayOf(TUInt64))))
	require.NoError(t, db.MustTable("t").Insert(Char('λ'), Array(UInt64(math.MaxUint64))))

	var buf bytes.Buffer
	require.NoError(t, db.Export(&buf, JSON))
	assert.JSONEq(t, `{
		"name": "d",
		"tables": [{
			"name": "t",
			"columns": [{"key": "c", "type": "Char", "nullable": true}, {"key": "xs", "type": "Array(UInt64)"}],
			"rows": [["λ", [18446744073709551615]]]
		}]
	}`, buf.String())
}

func TestImport_conversions(t *testing.T) {
	const header = `{"name": "d", "tables": [{"name": "t", "columns": [
		{"key": "i8", "type": "Int8"},
		{"key": "c", "type": "Char"},
		{"key": "u", "type": "UInt64"},
		{"key": "f", "type": "Float32"}
	], "rows": [`

	db, err := Import(strings.NewReader(header+`[-128, "x", 0, 1]]}]}`), JSON)
	require.NoError(t, err)
	es, _ := db.MustTable("t").GetAt(0)
	assert.True(t, es.Row("i8").Is(int8(-128)))
	assert.True(t, es.Row("c").Is('x'))
	assert.True(t, es.Row("f").Is(float32(1)))

	tests := []struct {
		row    string
		target error
	}{
		{`[128, "x", 0, 1]`, ErrOverflow},
		{`[1.5, "x", 0, 1]`, ErrTypeMismatch},
		{`[1, "xy", 0, 1]`, ErrTypeMismatch},
		{`[1, "", 0, 1]`, ErrTypeMismatch},
		{`[1, "x", -1, 1]`, ErrOverflow},
		{`[1, "x", 18446744073709551616, 1]`, ErrOverflow},
		{`[1, "x", 0, 1e39]`, ErrOverflow},
		{`[1, "x", 0, "1"]`, ErrTypeMismatch},
		{`[1, "x", 0]`, ErrRowLength},
	}
	for _, tt := range tests {
		_, err := Import(strings.NewReader(header+tt.row+`]}]}`), JSON)
		assert.ErrorIs(t, err, tt.target, tt.row)
	}

	_, err = Import(strings.NewReader(`{"name": "d", "tables": [{"name": "t", "columns": [{"key": "a", "type": "Nope"}]}]}`), JSON)
	assert.Error(t, err)
	_, err = Import(strings.NewReader(`{"name": "d", "extra": 1}`), JSON)
	assert.Error(t, err)
	_, err = Import(strings.NewReader(`not msgpack`), MsgPack)
	assert.Error(t, err)
}

func TestParseEncodingMethod(t *testing.T) {
	enc, err := ParseEncodingMethod("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, enc)
	enc, err = ParseEncodingMethod("msgpack")
	require.NoError(t, err)
	assert.Equal(t, MsgPack, enc)
	_, err = ParseEncodingMethod("xml")
	assert.Error(t, err)
}
