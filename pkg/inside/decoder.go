package inside

// Decode dispatches a received frame to the registered handler and
// returns its opcode. An unknown opcode returns OpUnknown with no error.
// A frame whose length doesn't match its layout is not dispatched, the
// error matches ErrMalformedFrame. Handlers run before Decode returns.
func (p *Protocol) Decode(frame []byte) (Opcode, error) {
	if p.sink == nil {
		return OpUnknown, ErrNotInitialized
	}
	if len(frame) == 0 {
		return OpUnknown, &FrameError{Opcode: OpUnknown}
	}
	op := Opcode(frame[0])
	if !op.IsKnown() {
		return OpUnknown, nil
	}
	layout := &catalog[op]
	if err := layout.check(frame); err != nil {
		return op, err
	}
	if fn := p.dispatch[op]; fn != nil {
		r := newFrameReader(layout, frame)
		fn(r)
		return op, r.err
	}
	return op, nil
}
