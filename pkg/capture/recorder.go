package capture

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Recorder receives captured events.
type Recorder interface {
	Record(Event) error
}

// FileRecorder appends events to a capture file. It's safe for
// concurrent use.
type FileRecorder struct {
	lock    sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
}

// CreateFileRecorder opens path for appending, creating it if missing.
func CreateFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileRecorder{file: f, encoder: newEncoder(f)}, nil
}

// Record implements Recorder.
func (r *FileRecorder) Record(event Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.file == nil {
		return os.ErrClosed
	}
	return r.encoder.Encode(event)
}

// Close closes the file, later Record fails with os.ErrClosed.
func (r *FileRecorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
