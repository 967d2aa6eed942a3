package safeen

import "math"

// IncWhere adds one to the numeric cell at key in every row matching pred
// and returns the number of rows incremented.
//
// Processing is best-effort: a row whose cell would overflow its type (or
// that cannot be incremented at all) is left unchanged, its problem is
// recorded, and the remaining rows are still processed. All problems are
// returned together as a *SchemaError.
func (tbl *Table) IncWhere(pred Predicate, key string) (int, error) {
	b := batch{table: tbl.name, op: "inc"}
	ci, colErr := tbl.columnIndex(key)
	var n int
	for _, i := range tbl.matching(pred) {
		if colErr != nil {
			b.add(cellErrf(i, key, ErrUnknownColumn, "no such column"))
			continue
		}
		cell := tbl.rows[i][ci]
		next, err := increment(cell)
		if err != nil {
			b.add(cellErrf(i, key, err, "cannot increment %v", cell))
			continue
		}
		tbl.rows[i][ci] = next
		n++
	}
	return n, b.err()
}

func increment(v Value) (Value, error) {
	switch v.kind {
	case KindInt8:
		n := int8(v.word)
		if n == math.MaxInt8 {
			return v, ErrOverflow
		}
		return Int8(n + 1), nil
	case KindInt64:
		n := int64(v.word)
		if n == math.MaxInt64 {
			return v, ErrOverflow
		}
		return Int64(n + 1), nil
	case KindUInt64:
		if v.word == math.MaxUint64 {
			return v, ErrOverflow
		}
		return UInt64(v.word + 1), nil
	case KindFloat32:
		f := math.Float32frombits(uint32(v.word))
		if f >= math.MaxFloat32 || math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
			return v, ErrOverflow
		}
		return Float32(f + 1), nil
	case KindFloat64:
		f := math.Float64frombits(v.word)
		if f >= math.MaxFloat64 || math.IsInf(f, 0) || math.IsNaN(f) {
			return v, ErrOverflow
		}
		return Float64(f + 1), nil
	default:
		return v, ErrNotNumeric
	}
}
