package inside

// Sink transmits a complete frame to the peer.
type Sink interface {
	Send(frame []byte) error
}

// SendFunc is func type of Sink.
type SendFunc func(frame []byte) error

// Send implements Sink.
func (f SendFunc) Send(frame []byte) error {
	return f(frame)
}

// Protocol encodes outbound frames into a Sink and decodes inbound frames
// into Callbacks. It's configured once with Initialize (or New) and holds
// no other state, so Decode and the encoders run synchronously on the
// caller's goroutine. Initialize is not synchronized with the other
// methods.
type Protocol struct {
	sink     Sink
	dispatch dispatchTable
}

// New creates an initialized Protocol.
func New(sink Sink, callbacks Callbacks) (*Protocol, error) {
	p := &Protocol{}
	if err := p.Initialize(sink, callbacks); err != nil {
		return nil, err
	}
	return p, nil
}

// Initialize sets the Sink and the handlers.
func (p *Protocol) Initialize(sink Sink, callbacks Callbacks) error {
	if sink == nil {
		return ErrNilSink
	}
	p.sink, p.dispatch = sink, callbacks.compile()
	return nil
}

// IsInitialized indicates Initialize succeeded.
func (p *Protocol) IsInitialized() bool {
	return p.sink != nil
}
