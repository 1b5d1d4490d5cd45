package inside

import (
	"encoding/binary"
	"fmt"
	"math"
)

// byteOrder of all multi-byte fields, both boards are little-endian.
var byteOrder = binary.LittleEndian

// centisScale is the factor of FieldCentis.
const centisScale = 100

// ToCentis converts a real number into the int16 hundredths carried by
// FieldCentis. It rounds to the nearest hundredth and saturates at the
// int16 range; NaN becomes 0.
func ToCentis(v float32) int16 {
	c := math.Round(float64(v) * centisScale)
	switch {
	case math.IsNaN(c):
		return 0
	case c > math.MaxInt16:
		return math.MaxInt16
	case c < math.MinInt16:
		return math.MinInt16
	}
	return int16(c)
}

// FromCentis converts int16 hundredths back to a real number.
func FromCentis(c int16) float32 {
	return float32(c) / centisScale
}

// frameWriter writes fields of a frame in layout order. Writing a field
// of a different kind than the layout declares is a programming error
// and panics.
type frameWriter struct {
	layout *Layout
	buf    []byte
	off    int
	field  int
}

// newFrameWriter allocates the exact frame: the layout size plus valueLen
// bytes for a variable layout.
func newFrameWriter(op Opcode, valueLen int) *frameWriter {
	l := &catalog[op]
	w := &frameWriter{layout: l, buf: make([]byte, l.Size()+valueLen), off: 1}
	w.buf[0] = byte(op)
	return w
}

func (w *frameWriter) next(kind FieldKind, width int) []byte {
	if w.field >= len(w.layout.Fields) {
		panic(fmt.Sprintf("inside: %s has only %d fields", w.layout.Name, len(w.layout.Fields)))
	}
	f := w.layout.Fields[w.field]
	if f.Kind != kind {
		panic(fmt.Sprintf("inside: %s.%s is %s, not %s", w.layout.Name, f.Name, f.Kind, kind))
	}
	if f.Kind != FieldValue {
		width = f.Width()
	}
	b := w.buf[w.off : w.off+width]
	w.off += width
	w.field++
	return b
}

func (w *frameWriter) putInt8(v int8) {
	w.next(FieldInt8, 1)[0] = byte(v)
}

func (w *frameWriter) putUint8(v uint8) {
	w.next(FieldUint8, 1)[0] = v
}

func (w *frameWriter) putUint16(v uint16) {
	byteOrder.PutUint16(w.next(FieldUint16, 2), v)
}

func (w *frameWriter) putCentis(v float32) {
	byteOrder.PutUint16(w.next(FieldCentis, 2), uint16(ToCentis(v)))
}

func (w *frameWriter) putFloat32(v float32) {
	byteOrder.PutUint32(w.next(FieldFloat32, 4), math.Float32bits(v))
}

func (w *frameWriter) putBytes(v []byte) {
	copy(w.next(FieldBytes, 0), v)
}

func (w *frameWriter) putValue(v []byte) {
	w.next(FieldLength, 1)[0] = byte(len(v))
	copy(w.next(FieldValue, len(v)), v)
}

// bytes returns the completed frame.
func (w *frameWriter) bytes() []byte {
	if w.field != len(w.layout.Fields) || w.off != len(w.buf) {
		panic(fmt.Sprintf("inside: %s incomplete, %d of %d fields written", w.layout.Name, w.field, len(w.layout.Fields)))
	}
	return w.buf
}

// frameReader is a bounds-checked view reading fields in layout order.
// Reading past the end of the frame doesn't panic, it sets err and
// returns zero values; the first error sticks.
type frameReader struct {
	layout   *Layout
	buf      []byte
	off      int
	field    int
	valueLen int
	err      error
}

func newFrameReader(l *Layout, frame []byte) *frameReader {
	return &frameReader{layout: l, buf: frame, off: 1}
}

func (r *frameReader) next(kind FieldKind) []byte {
	if r.field >= len(r.layout.Fields) {
		panic(fmt.Sprintf("inside: %s has only %d fields", r.layout.Name, len(r.layout.Fields)))
	}
	f := r.layout.Fields[r.field]
	if f.Kind != kind {
		panic(fmt.Sprintf("inside: %s.%s is %s, not %s", r.layout.Name, f.Name, f.Kind, kind))
	}
	r.field++
	if r.err != nil {
		return nil
	}
	width := f.Width()
	if f.Kind == FieldValue {
		width = r.valueLen
	}
	if r.off+width > len(r.buf) {
		r.err = &FrameError{Opcode: r.layout.Opcode, Length: len(r.buf), Want: r.off + width, Variable: r.layout.Variable()}
		return nil
	}
	b := r.buf[r.off : r.off+width : r.off+width]
	r.off += width
	return b
}

func (r *frameReader) int8() int8 {
	if b := r.next(FieldInt8); b != nil {
		return int8(b[0])
	}
	return 0
}

func (r *frameReader) uint8() uint8 {
	if b := r.next(FieldUint8); b != nil {
		return b[0]
	}
	return 0
}

func (r *frameReader) uint16() uint16 {
	if b := r.next(FieldUint16); b != nil {
		return byteOrder.Uint16(b)
	}
	return 0
}

func (r *frameReader) centis() float32 {
	if b := r.next(FieldCentis); b != nil {
		return FromCentis(int16(byteOrder.Uint16(b)))
	}
	return 0
}

func (r *frameReader) float32() float32 {
	if b := r.next(FieldFloat32); b != nil {
		return math.Float32frombits(byteOrder.Uint32(b))
	}
	return 0
}

func (r *frameReader) bytes() []byte {
	return r.next(FieldBytes)
}

func (r *frameReader) value() []byte {
	if b := r.next(FieldLength); b != nil {
		r.valueLen = int(b[0])
	}
	return r.next(FieldValue)
}
