package safeen

// TableStats describes the size of one table.
type TableStats struct {
	Rows    int
	Columns int

	// HeaderSize and DataSize are the encoded sizes of the schema and of
	// all rows, uncompressed, in the v1 layout.
	HeaderSize int
	DataSize   int
}

func (ts *TableStats) TotalSize() int {
	return ts.HeaderSize + ts.DataSize
}

// Stats computes the table's size by encoding it.
func (tbl *Table) Stats() TableStats {
	var bb bytesBuilder
	bb.AppendSizedString(tbl.name)
	bb.AppendUint64(uint64(len(tbl.columns)))
	for _, col := range tbl.columns {
		bb.AppendSizedString(col.Key)
		appendTypeTag(&bb, col.Type)
		appendValue(&bb, Bool(col.Nullable))
	}
	bb.AppendUint64(uint64(len(tbl.rows)))
	headerSize := len(bb.Buf)
	for _, row := range tbl.rows {
		for _, cell := range row {
			appendValue(&bb, cell)
		}
	}
	return TableStats{
		Rows:       len(tbl.rows),
		Columns:    len(tbl.columns),
		HeaderSize: headerSize,
		DataSize:   len(bb.Buf) - headerSize,
	}
}

type DatabaseStats struct {
	Tables int
	Rows   int
	// EncodedSize is the size of an uncompressed v1 image.
	EncodedSize int
	PerTable    map[string]TableStats
}

func (db *Database) Stats() DatabaseStats {
	var name bytesBuilder
	name.AppendSizedString(db.name)

	result := DatabaseStats{
		Tables:      len(db.tables),
		EncodedSize: headerSize + len(name.Buf) + 8 + checksumSize,
		PerTable:    make(map[string]TableStats, len(db.tables)),
	}
	for _, tbl := range db.tables {
		ts := tbl.Stats()
		result.Rows += ts.Rows
		result.EncodedSize += ts.TotalSize()
		result.PerTable[tbl.name] = ts
	}
	return result
}
