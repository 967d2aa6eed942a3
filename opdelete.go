package safeen

// RemoveWhere deletes every row matching pred and returns how many were
// removed. Matches are collected before anything is removed; the remaining
// rows keep their relative order.
func (tbl *Table) RemoveWhere(pred Predicate) int {
	matched := tbl.matching(pred)
	if len(matched) == 0 {
		return 0
	}
	kept := tbl.rows[:0]
	next := 0
	for i, row := range tbl.rows {
		if next < len(matched) && matched[next] == i {
			next++
			continue
		}
		kept = append(kept, row)
	}
	clear(tbl.rows[len(kept):])
	tbl.rows = kept
	return len(matched)
}

// Truncate removes all rows.
func (tbl *Table) Truncate() int {
	n := len(tbl.rows)
	clear(tbl.rows)
	tbl.rows = tbl.rows[:0]
	return n
}
