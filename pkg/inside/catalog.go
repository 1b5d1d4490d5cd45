package inside

import "fmt"

// Opcode identifies the kind of a frame, it's the first byte.
type Opcode uint8

// Opcodes. The values are shared with the body firmware and must not change.
const (
	OpMove Opcode = iota
	OpMoveStep
	OpAutoMove
	OpRotate
	OpSetEye
	OpSetFrontLeds
	OpHeartBeat
	OpGetRegister
	OpRegisterResponse
	OpUnknown

	numOpcodes = int(OpUnknown)
)

// FieldKind defines how a field is laid out on the wire.
type FieldKind int

// Field kinds.
const (
	// FieldInt8 is a signed byte.
	FieldInt8 FieldKind = iota
	// FieldUint8 is an unsigned byte.
	FieldUint8
	// FieldUint16 is a 16-bit unsigned integer.
	FieldUint16
	// FieldCentis is a real number carried as int16 hundredths.
	FieldCentis
	// FieldFloat32 is the raw IEEE-754 bits of a float32.
	FieldFloat32
	// FieldBytes is a fixed number of bytes.
	FieldBytes
	// FieldLength is the uint8 length of the trailing FieldValue.
	FieldLength
	// FieldValue is a variable number of bytes sized by the FieldLength before it.
	FieldValue
)

var fieldKindNames = [...]string{
	FieldInt8:    "int8",
	FieldUint8:   "uint8",
	FieldUint16:  "uint16",
	FieldCentis:  "centis",
	FieldFloat32: "float32",
	FieldBytes:   "bytes",
	FieldLength:  "length",
	FieldValue:   "value",
}

func (k FieldKind) String() string {
	if k >= 0 && int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// Field describes one payload field.
type Field struct {
	Name  string
	Kind  FieldKind
	Count int // number of bytes, only for FieldBytes
}

// Width returns the number of bytes the field takes on the wire.
// FieldValue has no fixed width and returns 0.
func (f Field) Width() int {
	switch f.Kind {
	case FieldInt8, FieldUint8, FieldLength:
		return 1
	case FieldUint16, FieldCentis:
		return 2
	case FieldFloat32:
		return 4
	case FieldBytes:
		return f.Count
	}
	return 0
}

// Layout is the wire layout of one message kind.
type Layout struct {
	Opcode Opcode
	Name   string
	Fields []Field
}

// Size is the frame length including the opcode byte. For a variable
// layout it's the minimum length (value omitted).
func (l *Layout) Size() int {
	n := 1
	for _, f := range l.Fields {
		n += f.Width()
	}
	return n
}

// Variable indicates the layout ends with a variable length value.
func (l *Layout) Variable() bool {
	return len(l.Fields) > 0 && l.Fields[len(l.Fields)-1].Kind == FieldValue
}

// check validates the frame length against the layout.
func (l *Layout) check(frame []byte) error {
	size := l.Size()
	if !l.Variable() {
		if len(frame) != size {
			return &FrameError{Opcode: l.Opcode, Length: len(frame), Want: size}
		}
		return nil
	}
	if len(frame) < size {
		return &FrameError{Opcode: l.Opcode, Length: len(frame), Want: size, Variable: true}
	}
	// the length byte immediately precedes the value.
	if want := size + int(frame[size-1]); len(frame) < want {
		return &FrameError{Opcode: l.Opcode, Length: len(frame), Want: want, Variable: true}
	}
	return nil
}

// catalog is indexed by Opcode.
var catalog = [numOpcodes]Layout{
	OpMove: {OpMove, "Move", []Field{
		{Name: "speed", Kind: FieldInt8},
	}},
	OpMoveStep: {OpMoveStep, "MoveStep", []Field{
		{Name: "step_speed", Kind: FieldInt8},
		{Name: "step_count", Kind: FieldUint8},
	}},
	OpAutoMove: {OpAutoMove, "AutoMove", []Field{
		{Name: "rotate_speed", Kind: FieldUint8},
		{Name: "rotate_rad", Kind: FieldFloat32},
		{Name: "walk_speed", Kind: FieldUint8},
		{Name: "walk_step", Kind: FieldInt8},
	}},
	OpRotate: {OpRotate, "Rotate", []Field{
		{Name: "speed", Kind: FieldInt8},
	}},
	OpSetEye: {OpSetEye, "SetEye", []Field{
		{Name: "angle", Kind: FieldInt8},
	}},
	OpSetFrontLeds: {OpSetFrontLeds, "SetFrontLeds", []Field{
		{Name: "leds", Kind: FieldBytes, Count: NumFrontLeds},
	}},
	OpHeartBeat: {OpHeartBeat, "HeartBeat", []Field{
		{Name: "step_counter", Kind: FieldUint16},
		{Name: "obstacle_distance", Kind: FieldUint16},
		{Name: "battery_voltage", Kind: FieldCentis},
		{Name: "yaw", Kind: FieldCentis},
		{Name: "pitch", Kind: FieldCentis},
		{Name: "roll", Kind: FieldCentis},
	}},
	OpGetRegister: {OpGetRegister, "GetRegister", []Field{
		{Name: "register_index", Kind: FieldUint8},
	}},
	OpRegisterResponse: {OpRegisterResponse, "RegisterResponse", []Field{
		{Name: "register_index", Kind: FieldUint8},
		{Name: "value_length", Kind: FieldLength},
		{Name: "value", Kind: FieldValue},
	}},
}

// LayoutOf looks up the layout of an opcode.
func LayoutOf(op Opcode) (Layout, bool) {
	if int(op) >= numOpcodes {
		return Layout{}, false
	}
	return catalog[op].clone(), true
}

// Catalog returns the layouts of all known opcodes in opcode order.
func Catalog() []Layout {
	layouts := make([]Layout, numOpcodes)
	for n := range catalog {
		layouts[n] = catalog[n].clone()
	}
	return layouts
}

func (l *Layout) clone() Layout {
	c := *l
	c.Fields = append([]Field(nil), l.Fields...)
	return c
}

// IsKnown indicates the opcode is in the catalog.
func (op Opcode) IsKnown() bool {
	return int(op) < numOpcodes
}

func (op Opcode) String() string {
	if op.IsKnown() {
		return catalog[op].Name
	}
	if op == OpUnknown {
		return "Unknown"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(op))
}
