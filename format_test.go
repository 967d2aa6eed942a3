package safeen

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func allTypesDB(t testing.TB) *Database {
	t.Helper()
	db := New()
	db.SetName("everything")
	noErr(t, db.CreateTable("scalars",
		Col("s", TString),
		Col("c", TChar).SetNullable(),
		Col("i8", TInt8),
		Col("i64", TInt64),
		Col("u64", TUInt64),
		Col("b", TBool),
		Col("f32", TFloat32),
		Col("f64", TFloat64),
		Col("tags", ArrayOf(TString)),
	))
	tbl := db.MustTable("scalars")
	noErr(t, tbl.Insert(String("héllo"), Char('λ'), Int8(-128), Int64(math.MinInt64), UInt64(math.MaxUint64), Bool(true), Float32(1.5), Float64(math.Pi), Array(String("a"), String(""))))
	noErr(t, tbl.Insert(String(""), Char('a'), Int8(127), Int64(0), UInt64(0), Bool(false), Float32(float32(math.Inf(-1))), Float64(-0.0), Array()))

	noErr(t, db.CreateTable("nested", Col("grid", ArrayOf(ArrayOf(TInt64))), Col("flags", ArrayOf(TBool))))
	nested := db.MustTable("nested")
	noErr(t, nested.Insert(Array(Array(Int64(1), Int64(2)), Array(), Array(Int64(3))), Array(Bool(true))))
	noErr(t, nested.Insert(Array(), Array()))

	noErr(t, db.CreateTable("empty", Col("x", TInt8)))
	return db
}

func TestSaveLoad_roundTrip(t *testing.T) {
	db := allTypesDB(t)
	fn := filepath.Join(t.TempDir(), "all.sfn")
	for _, opts := range [][]Option{
		nil,
		{WithCompression(SnappyCompression)},
		{WithVerbose(true)},
	} {
		noErr(t, db.Save(fn, opts...))
		loaded, err := Load(fn, opts...)
		noErr(t, err)
		if !loaded.Equal(db) {
			t.Errorf("** loaded database differs:\n%s\nwanted:\n%s", loaded.Dump(DumpAll), db.Dump(DumpAll))
		}
		col, _ := loaded.MustTable("scalars").Column("c")
		eq(t, col.Nullable, true)
	}
}

func TestEncode_layout(t *testing.T) {
	db := New()
	db.SetName("d")
	noErr(t, db.CreateTable("t", Col("k", TInt8)))
	noErr(t, db.MustTable("t").Insert(Int8(5)))

	body := "01 01 64" + // name "d"
		"0100000000000000" + // 1 table
		"01 01 74" + // "t"
		"0100000000000000" + // 1 column
		"01 01 6b 09 00" + // k: Int8, not nullable
		"0100000000000000" + // 1 row
		"05"

	data := must(db.Encode())
	deepEqual(t, data[:8], x("53414645454e 01 00"))
	deepEqual(t, data[8:len(data)-8], x(body))

	legacy := must(db.Encode(WithFormat(FormatLegacy)))
	deepEqual(t, legacy, x("01 01 64 0100000000000000 01 01 74 0100000000000000 01 01 6b 0900 0100000000000000 05"))

	fromLegacy, err := Decode(legacy)
	noErr(t, err)
	eq(t, fromLegacy.Equal(db), true)
}

func TestLegacyFormat(t *testing.T) {
	db := New()
	db.SetName("old")
	noErr(t, db.CreateTable("t", Col("n", TInt64), Col("xs", ArrayOf(TChar))))
	noErr(t, db.MustTable("t").Insert(Int64(1), Array(Char('a'), Char('b'))))

	fn := filepath.Join(t.TempDir(), "old.sfn")
	noErr(t, db.Save(fn, WithFormat(FormatLegacy)))
	loaded, err := Load(fn)
	noErr(t, err)
	eq(t, loaded.Equal(db), true)

	err = allTypesDB(t).Save(fn, WithFormat(FormatLegacy))
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("** err = %v, wanted *SaveError", err)
	}
	isErr(t, err, ErrTypeMismatch)

	// the failed save must not have clobbered the file
	loaded, err = Load(fn)
	noErr(t, err)
	eq(t, loaded.Equal(db), true)
}

func TestDecode_corruption(t *testing.T) {
	db := allTypesDB(t)
	data := must(db.Encode())

	check := func(name string, data []byte) {
		t.Helper()
		d, err := Decode(data)
		if err == nil {
			t.Errorf("** %s: Decode succeeded", name)
		}
		if d != nil {
			t.Errorf("** %s: Decode returned a partial database", name)
		}
	}

	flipped := bytes.Clone(data)
	flipped[len(flipped)/2] ^= 0x40
	check("flipped byte", flipped)

	for _, n := range []int{0, 5, 8, 15, len(data) - 1} {
		check("truncated", data[:n])
	}

	badVer := bytes.Clone(data)
	badVer[6] = 9
	check("bad version", badVer)

	badFlags := bytes.Clone(data)
	badFlags[7] = 0x80
	check("bad flags", badFlags)

	simple, _ := usersDB(t)
	legacy := must(simple.Encode(WithFormat(FormatLegacy)))
	noErr(t, must(Decode(legacy)).MustTable("users").Insert(String("x"), Int8(1), Array()))
	check("trailing data", append(bytes.Clone(legacy), 0))

	// a table without columns claiming 2^31-1 rows
	zeroWidth := x("00 0100000000000000 01 01 74 0000000000000000 ffffff7f00000000")
	check("zero-width rows", zeroWidth)

	var de *DataError
	_, err := Decode(flipped)
	if !errors.As(err, &de) {
		t.Errorf("** Decode(flipped) = %v, wanted *DataError", err)
	}
	_, err = Decode(zeroWidth)
	if !errors.As(err, &de) {
		t.Errorf("** Decode(zero-width rows) = %v, wanted *DataError", err)
	}
}

func TestDecode_zeroWidthRows(t *testing.T) {
	d, err := Decode(x("00 0100000000000000 01 01 74 0000000000000000 0300000000000000"))
	noErr(t, err)
	eq(t, d.MustTable("t").Len(), 3)
}

func TestEncode_legacyRejectsCompression(t *testing.T) {
	db, _ := usersDB(t)
	_, err := db.Encode(WithFormat(FormatLegacy), WithCompression(SnappyCompression))
	if err == nil {
		t.Fatal("** legacy encode with compression succeeded")
	}

	fn := filepath.Join(t.TempDir(), "old.sfn")
	err = db.Save(fn, WithFormat(FormatLegacy), WithCompression(SnappyCompression))
	var se *SaveError
	if !errors.As(err, &se) {
		t.Errorf("** err = %v, wanted *SaveError", err)
	}
	if _, err := os.Stat(fn); !os.IsNotExist(err) {
		t.Errorf("** failed save left a file behind: %v", err)
	}
}

func TestDecode_invalidCell(t *testing.T) {
	db := New()
	noErr(t, db.CreateTable("t", Col("c", TChar)))
	// bypass Insert to store a cell that violates the schema
	db.MustTable("t").rows = append(db.MustTable("t").rows, []Value{{kind: KindChar, word: 0xD800}})
	_, err := Decode(must(db.Encode()))
	var de *DataError
	if !errors.As(err, &de) {
		t.Errorf("** Decode(invalid char) = %v, wanted *DataError", err)
	}
}

func TestDecode_duplicateTables(t *testing.T) {
	db := New()
	noErr(t, db.CreateTable("t"))
	noErr(t, db.CreateTable("u"))
	db.tables[1].name = "t"
	_, err := Decode(must(db.Encode()))
	isErr(t, err, ErrDuplicateTable)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.sfn"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("** err = %v, wanted *LoadError", err)
	}
	isErr(t, err, fs.ErrNotExist)
	isErr(t, err, ErrBlobNotFound)
}

func TestSave_unwritable(t *testing.T) {
	err := New().Save(filepath.Join(t.TempDir(), "missing-dir", "x.sfn"))
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("** err = %v, wanted *SaveError", err)
	}
}
