package safeen

import (
	"maps"
	"slices"
)

// Fields maps column keys to new values for SetWhere.
type Fields map[string]Value

func (f Fields) sortedKeys() []string {
	return slices.Sorted(maps.Keys(f))
}

// SetWhere overwrites the given fields of every row matching pred and
// returns the number of rows fully updated. Fields are applied in key order.
//
// Each new value must have exactly the definition of the cell it replaces.
// Empty arrays get no wildcard treatment here: a cell holding an empty
// array only accepts another empty array, and vice versa.
//
// SetWhere stops at the first unknown key or type mismatch and does not roll
// back: rows (and fields of the failing row) updated before the error keep
// their new values. Use SetWhereAtomic to validate everything up front.
func (tbl *Table) SetWhere(pred Predicate, fields Fields) (int, error) {
	keys := fields.sortedKeys()
	var n int
	for _, i := range tbl.matching(pred) {
		for _, key := range keys {
			if ce := tbl.checkField(i, key, fields[key]); ce != nil {
				return n, &SchemaError{Table: tbl.name, Op: "set", Errs: []*CellError{ce}}
			}
			tbl.rows[i][tbl.colPos[key]] = fields[key]
		}
		n++
	}
	return n, nil
}

// SetWhereAtomic is SetWhere that checks every field of every matching row
// before touching any. On error nothing is modified and every problem is
// reported.
func (tbl *Table) SetWhereAtomic(pred Predicate, fields Fields) (int, error) {
	keys := fields.sortedKeys()
	matched := tbl.matching(pred)
	b := batch{table: tbl.name, op: "set"}
	for _, key := range keys {
		if _, err := tbl.columnIndex(key); err != nil {
			b.add(cellErrf(-1, key, ErrUnknownColumn, "no such column"))
		}
	}
	if b.empty() {
		for _, i := range matched {
			for _, key := range keys {
				if ce := tbl.checkField(i, key, fields[key]); ce != nil {
					b.add(ce)
				}
			}
		}
	}
	if err := b.err(); err != nil {
		return 0, err
	}
	for _, i := range matched {
		for _, key := range keys {
			tbl.rows[i][tbl.colPos[key]] = fields[key]
		}
	}
	return len(matched), nil
}

func (tbl *Table) checkField(row int, key string, v Value) *CellError {
	ci, err := tbl.columnIndex(key)
	if err != nil {
		return cellErrf(row, key, ErrUnknownColumn, "no such column")
	}
	cur := tbl.rows[row][ci].Definition()
	def := v.Definition()
	if !def.Equal(cur) || !v.conformsTo(tbl.columns[ci].Type) {
		return cellErrf(row, key, ErrTypeMismatch, "cannot replace %v with %v", cur, def)
	}
	return nil
}
