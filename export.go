package safeen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Snapshot is the structured form of a database used by Export and Import.
// Column types are spelled as TypeTag strings, cells as plain values; a
// Char is a one-character string.
type Snapshot struct {
	Name   string          `msgpack:"name" json:"name"`
	Tables []TableSnapshot `msgpack:"tables" json:"tables"`
}

type TableSnapshot struct {
	Name    string           `msgpack:"name" json:"name"`
	Columns []ColumnSnapshot `msgpack:"columns" json:"columns"`
	Rows    [][]any          `msgpack:"rows" json:"rows"`
}

type ColumnSnapshot struct {
	Key      string `msgpack:"key" json:"key"`
	Type     string `msgpack:"type" json:"type"`
	Nullable bool   `msgpack:"nullable,omitempty" json:"nullable,omitempty"`
}

// Snapshot captures the current contents of the database.
func (db *Database) Snapshot() *Snapshot {
	snap := &Snapshot{
		Name:   db.name,
		Tables: make([]TableSnapshot, len(db.tables)),
	}
	for i, tbl := range db.tables {
		ts := &snap.Tables[i]
		ts.Name = tbl.name
		ts.Columns = make([]ColumnSnapshot, len(tbl.columns))
		for j, col := range tbl.columns {
			ts.Columns[j] = ColumnSnapshot{Key: col.Key, Type: col.Type.String(), Nullable: col.Nullable}
		}
		ts.Rows = make([][]any, len(tbl.rows))
		for r, row := range tbl.rows {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = exportCell(v)
			}
			ts.Rows[r] = cells
		}
	}
	return snap
}

func exportCell(v Value) any {
	switch v.kind {
	case KindChar:
		return string(rune(uint32(v.word)))
	case KindArray:
		items := make([]any, len(v.arr))
		for i, item := range v.arr {
			items[i] = exportCell(item)
		}
		return items
	default:
		return v.Native()
	}
}

// Export writes a snapshot of the database. JSON cannot represent NaN or
// infinite floats; exporting them fails.
func (db *Database) Export(w io.Writer, enc EncodingMethod) error {
	return enc.encode(w, db.Snapshot())
}

// Import reads a snapshot written by Export (or by hand) and rebuilds the
// database from it.
func Import(r io.Reader, enc EncodingMethod, opts ...Option) (*Database, error) {
	var snap Snapshot
	if err := enc.decode(r, &snap); err != nil {
		return nil, err
	}
	return FromSnapshot(&snap, opts...)
}

// FromSnapshot builds a database from snap. Every cell is converted to its
// column's declared type and inserted through Insert. Integers must fit
// their column exactly; no cell is silently truncated.
func FromSnapshot(snap *Snapshot, opts ...Option) (*Database, error) {
	db := New(opts...)
	db.name = snap.Name
	for _, ts := range snap.Tables {
		cols := make([]Column, len(ts.Columns))
		for i, cs := range ts.Columns {
			typ, err := ParseTypeTag(cs.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", ts.Name, cs.Key, err)
			}
			cols[i] = Column{Key: cs.Key, Type: typ, Nullable: cs.Nullable}
		}
		if err := db.CreateTable(ts.Name, cols...); err != nil {
			return nil, err
		}
		tbl := db.tables[len(db.tables)-1]

		b := batch{table: ts.Name, op: "import"}
		for r, cells := range ts.Rows {
			if len(cells) != len(cols) {
				b.add(cellErrf(r, "", ErrRowLength, "got %d cells for %d columns", len(cells), len(cols)))
				continue
			}
			row := make([]Value, len(cols))
			ok := true
			for c, cell := range cells {
				v, err := importCell(cell, cols[c].Type)
				if err != nil {
					b.add(cellErrf(r, cols[c].Key, err, "cannot import %v", cell))
					ok = false
					continue
				}
				row[c] = v
			}
			if !ok {
				continue
			}
			if err := tbl.Insert(row...); err != nil {
				return nil, err
			}
		}
		if err := b.err(); err != nil {
			return nil, err
		}
		db.logVerbose("safeen: imported table", slog.String("table", ts.Name), slog.Int("rows", len(ts.Rows)))
	}
	return db, nil
}

func importCell(x any, tag TypeTag) (Value, error) {
	switch tag.Kind {
	case KindString:
		if s, ok := x.(string); ok {
			return String(s), nil
		}
	case KindChar:
		if s, ok := x.(string); ok {
			r, size := utf8.DecodeRuneInString(s)
			if size != len(s) || (r == utf8.RuneError && size <= 1) {
				return Value{}, fmt.Errorf("%w: %q is not a single character", ErrTypeMismatch, s)
			}
			return Char(r), nil
		}
	case KindBool:
		if b, ok := x.(bool); ok {
			return Bool(b), nil
		}
	case KindInt8:
		n, err := importInt(x)
		if err != nil {
			return Value{}, err
		}
		if n < math.MinInt8 || n > math.MaxInt8 {
			return Value{}, fmt.Errorf("%w: %d does not fit into Int8", ErrOverflow, n)
		}
		return Int8(int8(n)), nil
	case KindInt64:
		n, err := importInt(x)
		if err != nil {
			return Value{}, err
		}
		return Int64(n), nil
	case KindUInt64:
		n, err := importUint(x)
		if err != nil {
			return Value{}, err
		}
		return UInt64(n), nil
	case KindFloat32:
		f, err := importFloat(x)
		if err != nil {
			return Value{}, err
		}
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: %v does not fit into Float32", ErrOverflow, f)
		}
		return Float32(float32(f)), nil
	case KindFloat64:
		f, err := importFloat(x)
		if err != nil {
			return Value{}, err
		}
		return Float64(f), nil
	case KindArray:
		if x == nil {
			return Array(), nil
		}
		rv := reflect.ValueOf(x)
		if rv.Kind() != reflect.Slice {
			break
		}
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := importCell(rv.Index(i).Interface(), *tag.Elem)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = item
		}
		return Value{kind: KindArray, arr: items}, nil
	}
	return Value{}, fmt.Errorf("%w: %T is not %v", ErrTypeMismatch, x, tag)
}

func importInt(x any) (int64, error) {
	if num, ok := x.(json.Number); ok {
		n, err := strconv.ParseInt(string(num), 10, 64)
		if err != nil {
			return 0, numberErr(num, err)
		}
		return n, nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d does not fit into Int64", ErrOverflow, u)
		}
		return int64(u), nil
	}
	return 0, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, x)
}

func importUint(x any) (uint64, error) {
	if num, ok := x.(json.Number); ok {
		n, err := strconv.ParseUint(string(num), 10, 64)
		if err != nil {
			if strings.HasPrefix(string(num), "-") {
				if _, ierr := strconv.ParseInt(string(num), 10, 64); ierr == nil || isRangeErr(ierr) {
					return 0, fmt.Errorf("%w: %s does not fit into UInt64", ErrOverflow, num)
				}
			}
			return 0, numberErr(num, err)
		}
		return n, nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < 0 {
			return 0, fmt.Errorf("%w: %d does not fit into UInt64", ErrOverflow, n)
		}
		return uint64(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	}
	return 0, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, x)
}

func importFloat(x any) (float64, error) {
	if num, ok := x.(json.Number); ok {
		f, err := num.Float64()
		if err != nil {
			return 0, numberErr(num, err)
		}
		return f, nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrTypeMismatch, x)
}

func isRangeErr(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}

func numberErr(num json.Number, err error) error {
	if isRangeErr(err) {
		return fmt.Errorf("%w: %s", ErrOverflow, num)
	}
	return fmt.Errorf("%w: %s: %v", ErrTypeMismatch, num, err)
}
