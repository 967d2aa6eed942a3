package safeen

import "slices"

// Insert appends a row after checking it against the schema. Every column
// is checked, and all problems are reported together in a *SchemaError;
// the row is appended only if it is fully valid.
//
// An empty array satisfies any array column.
func (tbl *Table) Insert(values ...Value) error {
	if err := tbl.checkRow(values, "insert"); err != nil {
		return err
	}
	tbl.rows = append(tbl.rows, slices.Clone(values))
	return nil
}

// InsertNative converts each argument with ValueOf and inserts the result.
func (tbl *Table) InsertNative(values ...any) error {
	b := batch{table: tbl.name, op: "insert"}
	row := make([]Value, len(values))
	for i, v := range values {
		val, err := ValueOf(v)
		if err != nil {
			b.add(cellErrf(-1, tbl.keyAt(i), err, "value %d", i))
			continue
		}
		row[i] = val
	}
	if err := b.err(); err != nil {
		return err
	}
	return tbl.Insert(row...)
}

func (tbl *Table) keyAt(i int) string {
	if i < len(tbl.columns) {
		return tbl.columns[i].Key
	}
	return ""
}

func (tbl *Table) checkRow(values []Value, op string) error {
	b := batch{table: tbl.name, op: op}
	if len(values) != len(tbl.columns) {
		b.add(cellErrf(-1, "", ErrRowLength, "got %d values for %d columns", len(values), len(tbl.columns)))
		return b.err()
	}
	for i, col := range tbl.columns {
		v := values[i]
		if !v.IsValid() {
			b.add(cellErrf(-1, col.Key, ErrTypeMismatch, "expected %v, got an invalid value", col.Type))
		} else if !v.conformsTo(col.Type) {
			b.add(cellErrf(-1, col.Key, ErrTypeMismatch, "expected %v, got %v", col.Type, v.Definition()))
		}
	}
	return b.err()
}
