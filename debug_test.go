package safeen

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	db, _ := usersDB(t)
	s := db.Dump(DumpTableHeaders | DumpSchema | DumpRows)
	for _, want := range []string{
		`database "test" (1 tables)`,
		"users (3 rows)",
		"  age: Int8\n",
		"  tags: Array(String)\n",
		`  #0: {name="Ada", age=36, tags=["math"]}`,
		`  #1: {name="Bob", age=20, tags=[]}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("** Dump() does not contain %q:\n%s", want, s)
		}
	}

	s = db.MustTable("users").Dump(DumpRows)
	eq(t, strings.Count(s, "\n"), 3)
	if strings.Contains(s, dumpSep1) {
		t.Errorf("** Dump(DumpRows) contains a header separator:\n%s", s)
	}
	if !strings.Contains(db.Dump(DumpStats), "users.stats: columns = 3") {
		t.Errorf("** Dump(DumpStats) has no stats line")
	}
}

func TestStats(t *testing.T) {
	db, tbl := usersDB(t)
	s := tbl.Stats()
	eq(t, s.Rows, 3)
	eq(t, s.Columns, 3)
	// "Ada" 36 ["math"] + "Bob" 20 [] + "Cy" 127 ["x","y"]
	eq(t, s.DataSize, (5+1+8+6)+(5+1+8)+(4+1+8+3+3))

	ds := db.Stats()
	eq(t, ds.Tables, 1)
	eq(t, ds.Rows, 3)
	eq(t, ds.EncodedSize, len(must(db.Encode())))
	eq(t, ds.PerTable["users"], s)

	noErr(t, db.CreateTable("more", Col("x", TInt64)))
	eq(t, db.Stats().EncodedSize, len(must(db.Encode())))
}
