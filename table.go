package safeen

import (
	"fmt"
	"slices"
)

// Column declares one column of a table. Columns are fixed at table
// creation.
type Column struct {
	Key      string
	Type     TypeTag
	Nullable bool
}

// Col is shorthand for a non-nullable Column.
func Col(key string, typ TypeTag) Column {
	return Column{Key: key, Type: typ}
}

// SetNullable marks the column nullable. The flag is persisted with the
// schema; there is no null value, so it does not relax type checks.
func (c Column) SetNullable() Column {
	c.Nullable = true
	return c
}

func (c Column) String() string {
	if c.Nullable {
		return c.Key + ": " + c.Type.String() + "?"
	}
	return c.Key + ": " + c.Type.String()
}

// Table is a named, ordered set of rows over a fixed column schema. Tables
// are owned by a Database and reached through Database.Table.
//
// A Table is not safe for concurrent use.
type Table struct {
	name    string
	columns []Column
	colPos  map[string]int
	rows    [][]Value
}

func newTable(name string, cols []Column) (*Table, error) {
	b := batch{table: name, op: "create"}
	if name == "" {
		b.add(cellErrf(-1, "", nil, "empty table name"))
	}
	colPos := make(map[string]int, len(cols))
	for i, col := range cols {
		if col.Key == "" {
			b.add(cellErrf(-1, "", nil, "column %d has an empty key", i))
			continue
		}
		if _, dup := colPos[col.Key]; dup {
			b.add(cellErrf(-1, col.Key, nil, "duplicate column"))
			continue
		}
		colPos[col.Key] = i
		if !col.Type.IsResolved() {
			b.add(cellErrf(-1, col.Key, ErrTypeMismatch, "invalid column type %v", col.Type))
		} else if col.Type.Depth() > MaxTypeDepth {
			b.add(cellErrf(-1, col.Key, ErrTypeMismatch, "type nested deeper than %d levels", MaxTypeDepth))
		}
	}
	if err := b.err(); err != nil {
		return nil, err
	}
	return &Table{
		name:    name,
		columns: slices.Clone(cols),
		colPos:  colPos,
	}, nil
}

func (tbl *Table) Name() string {
	return tbl.name
}

// Columns returns a copy of the schema.
func (tbl *Table) Columns() []Column {
	return slices.Clone(tbl.columns)
}

// Column looks up a column by key.
func (tbl *Table) Column(key string) (Column, bool) {
	i, ok := tbl.colPos[key]
	if !ok {
		return Column{}, false
	}
	return tbl.columns[i], true
}

// Len returns the number of rows.
func (tbl *Table) Len() int {
	return len(tbl.rows)
}

func (tbl *Table) columnIndex(key string) (int, error) {
	i, ok := tbl.colPos[key]
	if !ok {
		return -1, fmt.Errorf("%w %q in table %s", ErrUnknownColumn, key, tbl.name)
	}
	return i, nil
}

func (tbl *Table) entries(i int) Entries {
	return makeEntries(tbl.columns, tbl.rows[i])
}

// Equal reports whether two tables have the same name, schema and rows in
// the same order.
func (tbl *Table) Equal(o *Table) bool {
	if tbl.name != o.name || len(tbl.columns) != len(o.columns) || len(tbl.rows) != len(o.rows) {
		return false
	}
	for i, col := range tbl.columns {
		oc := o.columns[i]
		if col.Key != oc.Key || col.Nullable != oc.Nullable || !col.Type.Equal(oc.Type) {
			return false
		}
	}
	for i, row := range tbl.rows {
		for j, v := range row {
			if !v.Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}
