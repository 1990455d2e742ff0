package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/google/uuid"
)

// DefaultChunkSize is how many bytes the file capturer reads per chunk
const DefaultChunkSize = 4096

// ErrDeviceUnavailable is returned when the capture device cannot be opened
var ErrDeviceUnavailable = errors.New("capture device unavailable")

// FileCapturer captures raw PCM from a device node or FIFO, for example one
// fed by `arecord -t raw -f S16_LE -r 48000 -c 1`. The device is opened
// without blocking: a FIFO with no writer yet yields an empty stream instead
// of stalling the caller.
type FileCapturer struct {
	Path      string
	ChunkSize int
}

// Capture opens the device and starts reading it.
func (c *FileCapturer) Capture(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Path == "" {
		return nil, fmt.Errorf("%w: no device configured", ErrDeviceUnavailable)
	}
	f, err := os.OpenFile(c.Path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		f.Close()
		return nil, err
	}
	size := c.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	return newReaderStream(f, size), nil
}

// readerStream turns an io.ReadCloser into a single-track Stream
type readerStream struct {
	id     string
	track  *readerTrack
	src    io.ReadCloser
	chunks chan []byte
	stop   chan struct{}
	once   sync.Once
}

type readerTrack struct {
	id     string
	stream *readerStream
}

func (t *readerTrack) ID() string { return t.id }
func (t *readerTrack) Kind() string { return "audio" }
func (t *readerTrack) Stop() { t.stream.Stop() }

func newReaderStream(src io.ReadCloser, chunkSize int) *readerStream {
	s := &readerStream{
		id:     uuid.New().String(),
		src:    src,
		chunks: make(chan []byte, 16),
		stop:   make(chan struct{}),
	}
	s.track = &readerTrack{id: uuid.New().String(), stream: s}
	go s.readPump(chunkSize)
	return s
}

func (s *readerStream) readPump(chunkSize int) {
	defer close(s.chunks)
	for {
		buf := make([]byte, chunkSize)
		n, err := s.src.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-s.stop:
			return
		default:
		}
	}
}

func (s *readerStream) ID() string { return s.id }
func (s *readerStream) AudioTracks() []Track { return []Track{s.track} }
func (s *readerStream) Chunks() <-chan []byte { return s.chunks }

func (s *readerStream) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.src.Close()
	})
}
