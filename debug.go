package safeen

import (
	"fmt"
	"strings"
)

type DumpFlags uint64

const (
	DumpTableHeaders = DumpFlags(1 << iota)
	DumpSchema
	DumpRows
	DumpStats

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)

	indentStep = "  "
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump renders the database as text for debugging.
func (db *Database) Dump(f DumpFlags) string {
	var buf strings.Builder
	if f.Contains(DumpTableHeaders) {
		fmt.Fprintf(&buf, "database %q (%d tables)\n", db.name, len(db.tables))
	}
	for _, tbl := range db.tables {
		tbl.dump(&buf, f)
	}
	return buf.String()
}

// Dump renders a single table.
func (tbl *Table) Dump(f DumpFlags) string {
	var buf strings.Builder
	tbl.dump(&buf, f)
	return buf.String()
}

func (tbl *Table) dump(w *strings.Builder, f DumpFlags) {
	if f.Contains(DumpTableHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s (%d rows)\n", tbl.name, len(tbl.rows))
	}
	if f.Contains(DumpSchema) {
		for _, col := range tbl.columns {
			fmt.Fprintf(w, "%s%s\n", indentStep, col)
		}
	}
	if f.Contains(DumpStats) {
		s := tbl.Stats()
		fmt.Fprintf(w, "%s.stats: columns = %d, header_size = %d, data_size = %d\n", tbl.name, s.Columns, s.HeaderSize, s.DataSize)
	}
	if f.Contains(DumpRows) {
		if f.Contains(DumpStats) || f.Contains(DumpSchema) {
			fmt.Fprintln(w, dumpSep2)
		}
		for i := range tbl.rows {
			fmt.Fprintf(w, "%s#%d: %v\n", indentStep, i, tbl.entries(i))
		}
	}
}
