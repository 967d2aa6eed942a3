package safeen

import "fmt"

// Type tags are written as one kind byte per level, outermost first:
// Array(Array(String)) is 08 08 01.
func appendTypeTag(bb *bytesBuilder, tag TypeTag) {
	for {
		bb.AppendByte(byte(tag.Kind))
		if tag.Kind != KindArray {
			return
		}
		if tag.Elem == nil {
			panic("cannot encode unresolved array type")
		}
		tag = *tag.Elem
	}
}

func (d *byteDecoder) TypeTag() (TypeTag, error) {
	start := d.Off()
	var depth int
	for {
		b, err := d.Byte()
		if err != nil {
			return TypeTag{}, err
		}
		k := Kind(b)
		if !k.valid() {
			return TypeTag{}, dataErrf(d.Orig, d.Off()-1, nil, "invalid type kind %d", b)
		}
		if k != KindArray {
			tag := TypeTag{Kind: k}
			for range depth {
				tag = ArrayOf(tag)
			}
			return tag, nil
		}
		depth++
		if depth > MaxTypeDepth {
			return TypeTag{}, dataErrf(d.Orig, start, nil, "type nested deeper than %d levels", MaxTypeDepth)
		}
	}
}

// The legacy format stores every tag as a (base, inner) byte pair, so only
// a single array level is representable.
func appendLegacyTypeTag(bb *bytesBuilder, tag TypeTag) error {
	switch {
	case tag.Kind != KindArray:
		bb.AppendByte(byte(tag.Kind))
		bb.AppendByte(0)
	case tag.Elem != nil && tag.Elem.Kind != KindArray:
		bb.AppendByte(byte(KindArray))
		bb.AppendByte(byte(tag.Elem.Kind))
	default:
		return fmt.Errorf("%w: type %v cannot be represented in the legacy format", ErrTypeMismatch, tag)
	}
	return nil
}

func (d *byteDecoder) LegacyTypeTag() (TypeTag, error) {
	start := d.Off()
	pair, err := d.Raw(2)
	if err != nil {
		return TypeTag{}, err
	}
	base, inner := Kind(pair[0]), Kind(pair[1])
	switch {
	case base == KindArray:
		if !inner.valid() || inner == KindArray {
			return TypeTag{}, dataErrf(d.Orig, start, nil, "invalid array element kind %d", pair[1])
		}
		return ArrayOf(TypeTag{Kind: inner}), nil
	case base.valid():
		if inner != 0 {
			return TypeTag{}, dataErrf(d.Orig, start, nil, "invalid inner kind %d for %v", pair[1], base)
		}
		return TypeTag{Kind: base}, nil
	default:
		return TypeTag{}, dataErrf(d.Orig, start, nil, "invalid type kind %d", pair[0])
	}
}
