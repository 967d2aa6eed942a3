package safeen

import "log/slog"

// Save writes the whole database to path in one atomic replacement. The
// database must have been built through CreateTable/Insert; Save does not
// re-check cell types.
func (db *Database) Save(path string, opts ...Option) error {
	return db.SaveTo(FileStorage{}, path, opts...)
}

// SaveTo encodes the database and stores it under name in st.
func (db *Database) SaveTo(st Storage, name string, opts ...Option) error {
	o := makeOptions(opts)
	data, err := db.encode(o)
	if err != nil {
		return &SaveError{Dest: name, Err: err}
	}
	if err := st.WriteBlob(name, data); err != nil {
		return &SaveError{Dest: name, Err: err}
	}
	db.logVerbose("safeen: saved", slog.String("dest", name), slog.String("format", o.format.String()), slog.Int("tables", len(db.tables)), slog.Int("size", len(data)))
	return nil
}

// Load reads a database saved by Save. Schemas are rebuilt before any row
// is decoded, and every row is re-validated through Insert. Any failure
// aborts the load with a *LoadError and no database.
func Load(path string, opts ...Option) (*Database, error) {
	return LoadFrom(FileStorage{}, path, opts...)
}

// LoadFrom loads the image stored under name in st.
func LoadFrom(st Storage, name string, opts ...Option) (*Database, error) {
	data, err := st.ReadBlob(name)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}
	db, err := Decode(data, opts...)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}
	db.logVerbose("safeen: loaded", slog.String("source", name), slog.Int("tables", len(db.tables)), slog.Int("size", len(data)))
	return db, nil
}
