package safeen

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Database is a named collection of tables that is saved and loaded as one
// unit.
//
// A Database is not safe for concurrent use; callers sharing one must
// serialize access themselves.
type Database struct {
	name         string
	tables       []*Table
	tablesByName map[string]int
	logger       *slog.Logger
	verbose      bool
}

// New returns an empty, unnamed database.
func New(opts ...Option) *Database {
	o := makeOptions(opts)
	return &Database{
		tablesByName: make(map[string]int),
		logger:       o.logger,
		verbose:      o.verbose,
	}
}

func (db *Database) Name() string {
	return db.name
}

func (db *Database) SetName(name string) {
	db.name = name
}

func (db *Database) TableCount() int {
	return len(db.tables)
}

// Tables returns the tables in creation order.
func (db *Database) Tables() []*Table {
	return slices.Clone(db.tables)
}

// CreateTable registers a new empty table. It fails with ErrDuplicateTable
// if the name is taken, and with a *SchemaError if the columns are invalid
// (duplicate keys, unresolved or too deeply nested types).
func (db *Database) CreateTable(name string, cols ...Column) error {
	if _, exists := db.tablesByName[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTable, name)
	}
	tbl, err := newTable(name, cols)
	if err != nil {
		return err
	}
	db.tablesByName[name] = len(db.tables)
	db.tables = append(db.tables, tbl)
	return nil
}

// Table returns the table with the given name.
func (db *Database) Table(name string) (*Table, bool) {
	i, ok := db.tablesByName[name]
	if !ok {
		return nil, false
	}
	return db.tables[i], true
}

// MustTable is Table that panics when the table does not exist.
func (db *Database) MustTable(name string) *Table {
	tbl, ok := db.Table(name)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrTableNotFound, name))
	}
	return tbl
}

// DropTable removes a table and reports whether it existed.
func (db *Database) DropTable(name string) bool {
	i, ok := db.tablesByName[name]
	if !ok {
		return false
	}
	db.tables = slices.Delete(db.tables, i, i+1)
	delete(db.tablesByName, name)
	for j := i; j < len(db.tables); j++ {
		db.tablesByName[db.tables[j].name] = j
	}
	return true
}

// Equal reports structural equality: same name, same tables in the same
// order with the same schemas and rows.
func (db *Database) Equal(o *Database) bool {
	if db.name != o.name || len(db.tables) != len(o.tables) {
		return false
	}
	for i, tbl := range db.tables {
		if !tbl.Equal(o.tables[i]) {
			return false
		}
	}
	return true
}

func (db *Database) logVerbose(msg string, attrs ...slog.Attr) {
	if !db.verbose {
		return
	}
	db.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
