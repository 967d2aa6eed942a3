package safeen

// GetWhere evaluates pred once per row in insertion order and returns the
// matching rows. It does not modify the table.
func (tbl *Table) GetWhere(pred Predicate) []Entries {
	var result []Entries
	for i := range tbl.rows {
		es := tbl.entries(i)
		if pred(es) {
			result = append(result, es)
		}
	}
	return result
}

// GetAt returns the row at position i.
func (tbl *Table) GetAt(i int) (Entries, bool) {
	if i < 0 || i >= len(tbl.rows) {
		return Entries{}, false
	}
	return tbl.entries(i), true
}

// CountWhere returns the number of rows matching pred.
func (tbl *Table) CountWhere(pred Predicate) int {
	var n int
	for i := range tbl.rows {
		if pred(tbl.entries(i)) {
			n++
		}
	}
	return n
}

// matching returns the positions of rows matching pred. Mutating operations
// collect positions first so that predicates always observe the rows as
// they were before the operation started.
func (tbl *Table) matching(pred Predicate) []int {
	var result []int
	for i := range tbl.rows {
		if pred(tbl.entries(i)) {
			result = append(result, i)
		}
	}
	return result
}
