package safeen

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

// Format selects the file layout written by Save and Encode.
type Format int

const (
	// FormatV1 is the default: magic, version, flags, body, checksum.
	FormatV1 Format = iota
	// FormatLegacy is the bare body with 2-byte type tags and no nullable
	// flags. Only single-level array columns can be written in it.
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatV1:
		return "v1"
	case FormatLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Compression is the body compression codec of FormatV1.
type Compression byte

const (
	NoCompression Compression = iota
	SnappyCompression
)

var magic = []byte("SAFEEN")

const (
	formatVer1 = 1

	flagSnappy     byte = 1 << 0
	supportedFlags      = flagSnappy

	headerSize   = 6 + 2 // magic, version, flags
	checksumSize = 8
)

// Encode serializes the whole database into a single buffer.
func (db *Database) Encode(opts ...Option) ([]byte, error) {
	return db.encode(makeOptions(opts))
}

func (db *Database) encode(o options) ([]byte, error) {
	switch o.format {
	case FormatLegacy:
		if o.compression != NoCompression {
			return nil, fmt.Errorf("the legacy format does not support compression")
		}
		var bb bytesBuilder
		if err := db.appendBody(&bb, true); err != nil {
			return nil, err
		}
		return bb.Buf, nil

	case FormatV1:
		var body bytesBuilder
		if err := db.appendBody(&body, false); err != nil {
			return nil, err
		}
		var flags byte
		payload := body.Buf
		switch o.compression {
		case NoCompression:
		case SnappyCompression:
			payload = snappy.Encode(nil, body.Buf)
			flags |= flagSnappy
		default:
			return nil, fmt.Errorf("unsupported compression %d", o.compression)
		}

		bb := bytesBuilder{make([]byte, 0, headerSize+len(payload)+checksumSize)}
		bb.Write(magic)
		bb.AppendByte(formatVer1)
		bb.AppendByte(flags)
		bb.Write(payload)
		bb.AppendUint64(xxhash.Sum64(bb.Buf))
		return bb.Buf, nil

	default:
		return nil, fmt.Errorf("unsupported format %v", o.format)
	}
}

// body = name table_count table*
// table = name header_count header* row_count row*
func (db *Database) appendBody(bb *bytesBuilder, legacy bool) error {
	bb.AppendSizedString(db.name)
	bb.AppendUint64(uint64(len(db.tables)))
	for _, tbl := range db.tables {
		bb.AppendSizedString(tbl.name)
		bb.AppendUint64(uint64(len(tbl.columns)))
		for _, col := range tbl.columns {
			bb.AppendSizedString(col.Key)
			if legacy {
				if err := appendLegacyTypeTag(bb, col.Type); err != nil {
					return fmt.Errorf("table %s column %s: %w", tbl.name, col.Key, err)
				}
			} else {
				appendTypeTag(bb, col.Type)
				appendValue(bb, Bool(col.Nullable))
			}
		}
		bb.AppendUint64(uint64(len(tbl.rows)))
		for _, row := range tbl.rows {
			for _, cell := range row {
				appendValue(bb, cell)
			}
		}
		db.logVerbose("safeen: encoded table", slog.String("table", tbl.name), slog.Int("rows", len(tbl.rows)), slog.Int("size", len(bb.Buf)))
	}
	return nil
}

// Decode reconstructs a database from the output of Encode, detecting the
// format. Decoded rows go through Insert, so a row that violates its
// table's schema fails the whole decode.
func Decode(data []byte, opts ...Option) (*Database, error) {
	db := New(opts...)
	if err := db.decode(data); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) decode(data []byte) error {
	if !bytes.HasPrefix(data, magic) {
		return db.decodeBody(data, true)
	}
	body, err := unwrapV1(data)
	if err != nil {
		return err
	}
	return db.decodeBody(body, false)
}

func unwrapV1(data []byte) ([]byte, error) {
	if len(data) < headerSize+checksumSize {
		return nil, dataErrf(data, 0, nil, "file too short: %d bytes", len(data))
	}
	if ver := data[len(magic)]; ver != formatVer1 {
		return nil, dataErrf(data, len(magic), nil, "unsupported format version %d", ver)
	}
	flags := data[len(magic)+1]
	if flags&^supportedFlags != 0 {
		return nil, dataErrf(data, len(magic)+1, nil, "unsupported flags %#x", flags)
	}

	n := len(data) - checksumSize
	d := makeByteDecoder(data[n:])
	stored, _ := d.Uint64()
	if actual := xxhash.Sum64(data[:n]); actual != stored {
		return nil, dataErrf(data, n, nil, "checksum mismatch: stored %016x, computed %016x", stored, actual)
	}

	body := data[headerSize:n]
	if flags&flagSnappy != 0 {
		decoded, err := snappy.Decode(nil, body)
		if err != nil {
			return nil, dataErrf(data, headerSize, err, "invalid compressed body")
		}
		body = decoded
	}
	return body, nil
}

const minHeaderSize = 3 // key length-of-length + at least 2 bytes of type info

// maxZeroWidthRows limits the row count of a table without columns. Such
// rows occupy no bytes, so the input size cannot bound them.
const maxZeroWidthRows = 1 << 20

func (db *Database) decodeBody(body []byte, legacy bool) error {
	d := makeByteDecoder(body)

	name, err := d.Value(TString)
	if err != nil {
		return err
	}
	db.name = name.str

	tableCount, err := d.Uint64()
	if err != nil {
		return err
	}
	for t := uint64(0); t < tableCount; t++ {
		if err := db.decodeTable(&d, legacy); err != nil {
			return err
		}
	}
	if d.Remaining() != 0 {
		return dataErrf(d.Orig, d.Off(), nil, "%d bytes of trailing data", d.Remaining())
	}
	return nil
}

func (db *Database) decodeTable(d *byteDecoder, legacy bool) error {
	start := d.Off()
	nameVal, err := d.Value(TString)
	if err != nil {
		return err
	}
	name := nameVal.str

	colCount, err := d.Uint64()
	if err != nil {
		return err
	}
	if colCount > uint64(d.Remaining()/minHeaderSize) {
		return dataErrf(d.Orig, start, nil, "table %s: %d columns do not fit into %d remaining bytes", name, colCount, d.Remaining())
	}

	cols := make([]Column, colCount)
	for i := range cols {
		key, err := d.Value(TString)
		if err != nil {
			return err
		}
		cols[i].Key = key.str
		if legacy {
			cols[i].Type, err = d.LegacyTypeTag()
		} else {
			cols[i].Type, err = d.TypeTag()
		}
		if err != nil {
			return err
		}
		if !legacy {
			nullable, err := d.Value(TBool)
			if err != nil {
				return err
			}
			cols[i].Nullable = nullable.word != 0
		}
	}

	if err := db.CreateTable(name, cols...); err != nil {
		return err
	}
	tbl := db.tables[len(db.tables)-1]

	rowCount, err := d.Uint64()
	if err != nil {
		return err
	}
	var rowSize int
	for _, col := range cols {
		rowSize += minEncodedSize(col.Type)
	}
	if rowSize == 0 {
		if rowCount > maxZeroWidthRows {
			return dataErrf(d.Orig, start, nil, "table %s: %d rows without columns exceed the limit of %d", name, rowCount, maxZeroWidthRows)
		}
	} else if rowCount > uint64(d.Remaining()/rowSize) || rowCount > math.MaxInt32 {
		return dataErrf(d.Orig, start, nil, "table %s: %d rows do not fit into %d remaining bytes", name, rowCount, d.Remaining())
	}

	tbl.rows = make([][]Value, 0, min(rowCount, uint64(d.Remaining()/max(rowSize, 1))))
	row := make([]Value, len(cols))
	for r := uint64(0); r < rowCount; r++ {
		for i, col := range cols {
			row[i], err = d.Value(col.Type)
			if err != nil {
				return err
			}
		}
		if err := tbl.Insert(row...); err != nil {
			return err
		}
	}
	db.logVerbose("safeen: decoded table", slog.String("table", name), slog.Int("columns", len(cols)), slog.Uint64("rows", rowCount))
	return nil
}
