package safeen

// PushWhere appends value to the array cell at key in every row matching
// pred and returns the number of rows extended. A value matching the
// column's element type is always pushed as a single element, so on a
// nested column an empty array becomes one empty element. Otherwise, an
// array value has its elements spliced in; on a flat array column an empty
// array splices nothing.
//
// Type problems are recorded per row without stopping the operation and are
// returned together as a *SchemaError.
func (tbl *Table) PushWhere(pred Predicate, key string, value Value) (int, error) {
	b := batch{table: tbl.name, op: "push"}
	ci, colErr := tbl.columnIndex(key)

	var items []Value
	var itemsErr *CellError
	if colErr == nil {
		items, itemsErr = tbl.pushItems(tbl.columns[ci], value)
	}

	var n int
	for _, i := range tbl.matching(pred) {
		switch {
		case colErr != nil:
			b.add(cellErrf(i, key, ErrUnknownColumn, "no such column"))
			continue
		case itemsErr != nil:
			ce := *itemsErr
			ce.Row = i
			b.add(&ce)
			continue
		}
		cell := tbl.rows[i][ci]
		arr := make([]Value, 0, len(cell.arr)+len(items))
		arr = append(arr, cell.arr...)
		arr = append(arr, items...)
		tbl.rows[i][ci] = Value{kind: KindArray, arr: arr}
		n++
	}
	return n, b.err()
}

func (tbl *Table) pushItems(col Column, value Value) ([]Value, *CellError) {
	if col.Type.Kind != KindArray {
		return nil, cellErrf(-1, col.Key, ErrNotArray, "cannot push onto %v", col.Type)
	}
	elem := *col.Type.Elem
	if value.conformsTo(elem) {
		return []Value{value}, nil
	}
	if value.kind == KindArray {
		for _, item := range value.arr {
			if !item.conformsTo(elem) {
				return nil, cellErrf(-1, col.Key, ErrTypeMismatch, "cannot push %v items onto %v", item.Definition(), col.Type)
			}
		}
		return value.arr, nil
	}
	return nil, cellErrf(-1, col.Key, ErrTypeMismatch, "cannot push %v onto %v", value.Definition(), col.Type)
}
