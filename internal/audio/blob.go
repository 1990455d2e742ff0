package audio

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Blob is a finished recording
type Blob struct {
	ID        string
	MIMEType  string
	Data      []byte
	CreatedAt time.Time
}

var extensions = map[string]string{
	"audio/wav":  ".wav",
	"audio/webm": ".webm",
	"audio/ogg":  ".ogg",
}

// Filename names the blob for download, with an extension matching its type.
func (b Blob) Filename() string {
	ext, ok := extensions[b.MIMEType]
	if !ok {
		ext = ".bin"
	}
	return "recording-" + b.ID + ext
}

// BlobStore hands out URLs for recordings until they are revoked
type BlobStore struct {
	prefix string
	mu     sync.RWMutex
	blobs  map[string]Blob
}

// NewBlobStore creates a store whose URLs start with prefix.
func NewBlobStore(prefix string) *BlobStore {
	return &BlobStore{
		prefix: strings.TrimRight(prefix, "/"),
		blobs:  make(map[string]Blob),
	}
}

// Put stores data and returns its URL.
func (s *BlobStore) Put(mimeType string, data []byte) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.blobs[id] = Blob{ID: id, MIMEType: mimeType, Data: data, CreatedAt: time.Now()}
	s.mu.Unlock()
	return s.prefix + "/" + id
}

// Get looks a blob up by id.
func (s *BlobStore) Get(id string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[id]
	return blob, ok
}

// Revoke releases the blob behind url. Unknown URLs are ignored.
func (s *BlobStore) Revoke(url string) {
	id := strings.TrimPrefix(url, s.prefix+"/")
	s.mu.Lock()
	delete(s.blobs, id)
	s.mu.Unlock()
}

// Len returns the number of live blobs.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
