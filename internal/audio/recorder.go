package audio

import (
	"bytes"
	"sync"
)

// Recorder accumulates the chunks of a stream until stopped
type Recorder struct {
	mu     sync.Mutex
	chunks [][]byte
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartRecorder begins pumping chunks from stream.
func StartRecorder(stream Stream) *Recorder {
	r := &Recorder{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.pump(stream.Chunks())
	return r
}

func (r *Recorder) pump(ch <-chan []byte) {
	defer close(r.done)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return
			}
			r.append(chunk)
		case <-r.stop:
			// take whatever is already buffered
			for {
				select {
				case chunk, ok := <-ch:
					if !ok {
						return
					}
					r.append(chunk)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	r.mu.Lock()
	r.chunks = append(r.chunks, append([]byte(nil), chunk...))
	r.mu.Unlock()
}

// Stop ends recording and returns everything recorded so far as one buffer.
// The chunk buffer is emptied.
func (r *Recorder) Stop() []byte {
	r.once.Do(func() { close(r.stop) })
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	data := bytes.Join(r.chunks, nil)
	r.chunks = nil
	return data
}
