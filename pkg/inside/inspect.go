package inside

import (
	"bytes"
	"fmt"
)

// DecodedField is a decoded field of a frame.
type DecodedField struct {
	Name  string
	Kind  FieldKind
	Value interface{}
}

func (v DecodedField) String() string {
	switch val := v.Value.(type) {
	case float32:
		return fmt.Sprintf("%s=%g", v.Name, val)
	case []byte:
		return fmt.Sprintf("%s=% x", v.Name, val)
	}
	return fmt.Sprintf("%s=%v", v.Name, v.Value)
}

// Inspect decodes all fields of a frame by walking its layout, without
// any handler. It's meant for diagnostics, e.g. monitors and capture dumps.
func Inspect(frame []byte) (Opcode, []DecodedField, error) {
	if len(frame) == 0 {
		return OpUnknown, nil, &FrameError{Opcode: OpUnknown}
	}
	op := Opcode(frame[0])
	if !op.IsKnown() {
		return OpUnknown, nil, nil
	}
	layout := &catalog[op]
	if err := layout.check(frame); err != nil {
		return op, nil, err
	}
	r := newFrameReader(layout, frame)
	values := make([]DecodedField, 0, len(layout.Fields))
	for _, f := range layout.Fields {
		var val interface{}
		switch f.Kind {
		case FieldInt8:
			val = r.int8()
		case FieldUint8:
			val = r.uint8()
		case FieldUint16:
			val = r.uint16()
		case FieldCentis:
			val = r.centis()
		case FieldFloat32:
			val = r.float32()
		case FieldBytes:
			val = r.bytes()
		case FieldLength:
			b := r.next(FieldLength)
			if b != nil {
				r.valueLen = int(b[0])
				val = b[0]
			}
		case FieldValue:
			val = r.next(FieldValue)
		}
		values = append(values, DecodedField{Name: f.Name, Kind: f.Kind, Value: val})
	}
	return op, values, r.err
}

// Describe formats a frame into one line like "Move speed=-5".
func Describe(frame []byte) string {
	op, values, err := Inspect(frame)
	var w bytes.Buffer
	if op == OpUnknown && len(frame) > 0 {
		fmt.Fprintf(&w, "Unknown(%d)", frame[0])
	} else {
		w.WriteString(op.String())
	}
	for _, v := range values {
		w.WriteByte(' ')
		w.WriteString(v.String())
	}
	if err != nil {
		fmt.Fprintf(&w, " (%v)", err)
	}
	return w.String()
}
