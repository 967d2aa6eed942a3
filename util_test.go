package safeen

import (
	"encoding/hex"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func ensure(err error) {
	if err != nil {
		panic(err)
	}
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func eq[T comparable](t testing.TB, a, e T) {
	if a != e {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func valueEq(t testing.TB, a, e Value) {
	if !a.Equal(e) {
		t.Helper()
		t.Errorf("** got %v (%v), wanted %v (%v)", a, a.Definition(), e, e.Definition())
	}
}

func isErr(t testing.TB, err, target error) {
	if !errors.Is(err, target) {
		t.Helper()
		t.Errorf("** got error %v, wanted %v", err, target)
	}
}

func noErr(t testing.TB, err error) {
	if err != nil {
		t.Helper()
		t.Fatalf("** unexpected error: %v", err)
	}
}

func x(data string) []byte {
	data = strings.ReplaceAll(data, " ", "")
	return must(hex.DecodeString(data))
}

func usersDB(t testing.TB) (*Database, *Table) {
	t.Helper()
	db := New()
	db.SetName("test")
	noErr(t, db.CreateTable("users",
		Col("name", TString),
		Col("age", TInt8),
		Col("tags", ArrayOf(TString)),
	))
	tbl := db.MustTable("users")
	noErr(t, tbl.InsertNative("Ada", int8(36), []string{"math"}))
	noErr(t, tbl.InsertNative("Bob", int8(20), []string{}))
	noErr(t, tbl.InsertNative("Cy", int8(127), []string{"x", "y"}))
	return db, tbl
}
