package safeen

import "strings"

// Entry pairs a column key with the value stored in one row.
type Entry struct {
	Key   string
	Value Value
}

// Exists reports whether the entry refers to an actual column.
func (e Entry) Exists() bool {
	return e.Key != "" && e.Value.IsValid()
}

// Is reports whether the entry holds exactly v. v may be a Value or any
// native type accepted by ValueOf; an int literal compares against Int64.
func (e Entry) Is(v any) bool {
	if !e.Exists() {
		return false
	}
	val, err := ValueOf(v)
	if err != nil {
		return false
	}
	return e.Value.Equal(val)
}

func (e Entry) String() string {
	return e.Key + "=" + e.Value.String()
}

// Entries is a read-only projection of one row, aligned with the table's
// columns.
type Entries struct {
	entries []Entry
}

func makeEntries(cols []Column, row []Value) Entries {
	entries := make([]Entry, len(cols))
	for i, col := range cols {
		entries[i] = Entry{Key: col.Key, Value: row[i]}
	}
	return Entries{entries}
}

func (es Entries) Len() int {
	return len(es.entries)
}

// At returns the i-th entry.
func (es Entries) At(i int) Entry {
	return es.entries[i]
}

// Row returns the entry for key, or a zero Entry if there is no such column.
func (es Entries) Row(key string) Entry {
	for _, e := range es.entries {
		if e.Key == key {
			return e
		}
	}
	return Entry{}
}

// Get returns the value stored under key.
func (es Entries) Get(key string) (Value, bool) {
	e := es.Row(key)
	return e.Value, e.Exists()
}

func (es Entries) Keys() []string {
	result := make([]string, len(es.entries))
	for i, e := range es.entries {
		result[i] = e.Key
	}
	return result
}

func (es Entries) Values() []Value {
	result := make([]Value, len(es.entries))
	for i, e := range es.entries {
		result[i] = e.Value
	}
	return result
}

func (es Entries) Equal(o Entries) bool {
	if len(es.entries) != len(o.entries) {
		return false
	}
	for i, e := range es.entries {
		if e.Key != o.entries[i].Key || !e.Value.Equal(o.entries[i].Value) {
			return false
		}
	}
	return true
}

func (es Entries) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, e := range es.entries {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
	buf.WriteByte('}')
	return buf.String()
}

// Predicate selects rows. It must not mutate the table it is evaluated on.
type Predicate func(Entries) bool

// All matches every row.
func All(Entries) bool { return true }

// Where matches rows whose key column holds v.
func Where(key string, v any) Predicate {
	val, err := ValueOf(v)
	return func(es Entries) bool {
		if err != nil {
			return false
		}
		got, ok := es.Get(key)
		return ok && got.Equal(val)
	}
}
