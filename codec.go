package safeen

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// EncodeValue appends the encoding of v to buf. The encoding is not
// self-describing: decoding requires the tag v was stored under.
func EncodeValue(buf []byte, v Value) []byte {
	bb := bytesBuilder{buf}
	appendValue(&bb, v)
	return bb.Buf
}

func appendValue(bb *bytesBuilder, v Value) {
	switch v.kind {
	case KindString:
		bb.AppendSizedString(v.str)
	case KindInt8, KindBool:
		bb.AppendByte(byte(v.word))
	case KindChar, KindFloat32:
		bb.AppendUint32(uint32(v.word))
	case KindInt64, KindUInt64, KindFloat64:
		bb.AppendUint64(v.word)
	case KindArray:
		bb.AppendUint64(uint64(len(v.arr)))
		for _, item := range v.arr {
			appendValue(bb, item)
		}
	default:
		panic(fmt.Errorf("cannot encode invalid value of kind %v", v.kind))
	}
}

// DecodeValue decodes a single value of type tag from the start of data and
// returns it along with the number of bytes consumed.
func DecodeValue(data []byte, tag TypeTag) (Value, int, error) {
	if !tag.IsResolved() {
		return Value{}, 0, fmt.Errorf("%w: cannot decode unresolved type %v", ErrTypeMismatch, tag)
	}
	d := makeByteDecoder(data)
	v, err := d.Value(tag)
	if err != nil {
		return Value{}, 0, err
	}
	return v, d.Off(), nil
}

// minEncodedSize is the smallest number of bytes a value of tag can occupy.
func minEncodedSize(tag TypeTag) int {
	switch tag.Kind {
	case KindString:
		return 1
	case KindArray:
		return 8
	default:
		return tag.Kind.fixedSize()
	}
}

// Value reads one value of the given resolved tag.
func (d *byteDecoder) Value(tag TypeTag) (Value, error) {
	start := d.Off()
	switch tag.Kind {
	case KindString:
		raw, err := d.Sized()
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(raw) {
			return Value{}, dataErrf(d.Orig, start, nil, "invalid UTF-8 in string")
		}
		return String(string(raw)), nil

	case KindChar:
		u, err := d.Uint32()
		if err != nil {
			return Value{}, err
		}
		if !validChar(u) {
			return Value{}, dataErrf(d.Orig, start, nil, "invalid char %#x", u)
		}
		return Value{kind: KindChar, word: uint64(u)}, nil

	case KindInt8:
		b, err := d.Byte()
		if err != nil {
			return Value{}, err
		}
		return Int8(int8(b)), nil

	case KindBool:
		b, err := d.Byte()
		if err != nil {
			return Value{}, err
		}
		if b > 1 {
			return Value{}, dataErrf(d.Orig, start, nil, "invalid bool %d", b)
		}
		return Bool(b == 1), nil

	case KindFloat32:
		u, err := d.Uint32()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindFloat32, word: uint64(u)}, nil

	case KindInt64, KindUInt64, KindFloat64:
		u, err := d.Uint64()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: tag.Kind, word: u}, nil

	case KindArray:
		if tag.Elem == nil {
			return Value{}, fmt.Errorf("%w: cannot decode unresolved array type", ErrTypeMismatch)
		}
		n, err := d.Uint64()
		if err != nil {
			return Value{}, err
		}
		minSize := uint64(minEncodedSize(*tag.Elem))
		if n > math.MaxInt32 || n*minSize > uint64(d.Remaining()) {
			return Value{}, dataErrf(d.Orig, start, nil, "array of %d %v items does not fit into %d remaining bytes", n, *tag.Elem, d.Remaining())
		}
		items := make([]Value, n)
		for i := range items {
			items[i], err = d.Value(*tag.Elem)
			if err != nil {
				return Value{}, err
			}
		}
		return Value{kind: KindArray, arr: items}, nil

	default:
		return Value{}, dataErrf(d.Orig, start, nil, "cannot decode kind %v", tag.Kind)
	}
}
