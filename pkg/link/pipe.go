package link

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/xpider/pkg/framework"
	"github.com/robotalks/xpider/pkg/inside"
)

// Pipe binds a FrameReadWriter to the protocol. It implements inside.Sink
// for outbound frames and feeds inbound frames to Decoder in Run.
type Pipe struct {
	ReadWriter FrameReadWriter
	Decoder    Decoder

	sendLock sync.Mutex
}

// NewPipe creates a Pipe. Decoder is set after the protocol is created
// with the Pipe as its Sink.
func NewPipe(rw FrameReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// Send implements inside.Sink. Concurrent senders are serialized.
func (p *Pipe) Send(frame []byte) error {
	if glog.V(2) {
		glog.Infof("SND %s", inside.Describe(frame))
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WriteFrame(frame)
}

// Run implements Runnable. Malformed and unknown frames are logged and
// skipped; a read error stops the pipe.
func (p *Pipe) Run(ctx context.Context) error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, p.receive)
	}
	return fx.RunWithContext(ctx, p.receive)
}

func (p *Pipe) receive() error {
	for {
		frame, err := p.ReadWriter.ReadFrame()
		if err != nil {
			return err
		}
		p.dispatch(frame)
	}
}

func (p *Pipe) dispatch(frame []byte) {
	if glog.V(2) {
		glog.Infof("RCV %s", inside.Describe(frame))
	}
	if p.Decoder == nil {
		return
	}
	op, err := p.Decoder.Decode(frame)
	switch {
	case errors.Is(err, inside.ErrMalformedFrame):
		glog.Warningf("drop frame % x: %v", frame, err)
	case err != nil:
		glog.Errorf("decode %s: %v", op, err)
	case op == inside.OpUnknown:
		glog.V(1).Infof("ignore unknown opcode %d", frame[0])
	}
}
