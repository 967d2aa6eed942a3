package safeen

import (
	"encoding/binary"
	"io"
	"math/bits"
)

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

func appendRaw(buf []byte, chunk []byte) []byte {
	n := len(chunk)
	off, buf := grow(buf, n)
	copy(buf[off:], chunk)
	return buf
}

type bytesBuilder struct {
	Buf []byte
}

var _ io.Writer = (*bytesBuilder)(nil)

func (bb *bytesBuilder) Grow(n int) (off int) {
	off, bb.Buf = grow(bb.Buf, n)
	return
}

func (bb *bytesBuilder) Write(b []byte) (int, error) {
	bb.Buf = appendRaw(bb.Buf, b)
	return len(b), nil
}

func (bb *bytesBuilder) WriteByte(v byte) error {
	bb.AppendByte(v)
	return nil
}

func (bb *bytesBuilder) AppendByte(v byte) {
	off := bb.Grow(1)
	bb.Buf[off] = v
}

func (bb *bytesBuilder) AppendUint32(v uint32) {
	off := bb.Grow(4)
	binary.LittleEndian.PutUint32(bb.Buf[off:], v)
}

func (bb *bytesBuilder) AppendUint64(v uint64) {
	off := bb.Grow(8)
	binary.LittleEndian.PutUint64(bb.Buf[off:], v)
}

// AppendSizedString writes a length-of-length byte, the minimal
// little-endian length, then the string bytes.
func (bb *bytesBuilder) AppendSizedString(s string) {
	n := uint64(len(s))
	lol := (bits.Len64(n) + 7) / 8
	off := bb.Grow(1 + lol + len(s))
	bb.Buf[off] = byte(lol)
	off++
	for i := 0; i < lol; i++ {
		bb.Buf[off+i] = byte(n >> (8 * i))
	}
	copy(bb.Buf[off+lol:], s)
}

type byteDecoder struct {
	Orig []byte
	Buf  []byte
}

func makeByteDecoder(buf []byte) byteDecoder {
	return byteDecoder{buf, buf}
}

func (d *byteDecoder) Off() int {
	return len(d.Orig) - len(d.Buf)
}

func (d *byteDecoder) Remaining() int {
	return len(d.Buf)
}

func (d *byteDecoder) Raw(n int) ([]byte, error) {
	if n < 0 || len(d.Buf) < n {
		return nil, dataErrf(d.Orig, d.Off(), nil, "not enough data: %d bytes remaining, %d wanted", len(d.Buf), n)
	}
	v := d.Buf[:n]
	d.Buf = d.Buf[n:]
	return v, nil
}

func (d *byteDecoder) Byte() (byte, error) {
	b, err := d.Raw(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *byteDecoder) Uint32() (uint32, error) {
	b, err := d.Raw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *byteDecoder) Uint64() (uint64, error) {
	b, err := d.Raw(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Sized reads a payload written by bytesBuilder.AppendSizedString.
func (d *byteDecoder) Sized() ([]byte, error) {
	start := d.Off()
	lol, err := d.Byte()
	if err != nil {
		return nil, err
	}
	if lol > 8 {
		return nil, dataErrf(d.Orig, start, nil, "invalid length-of-length %d", lol)
	}
	lb, err := d.Raw(int(lol))
	if err != nil {
		return nil, err
	}
	var n uint64
	for i, b := range lb {
		n |= uint64(b) << (8 * i)
	}
	if n > uint64(len(d.Buf)) {
		return nil, dataErrf(d.Orig, start, nil, "not enough data: payload of %d bytes, %d remaining", n, len(d.Buf))
	}
	return d.Raw(int(n))
}
