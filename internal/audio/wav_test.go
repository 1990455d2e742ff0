package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVHeader(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7}
	out := PCMFormat{SampleRate: 8000, Channels: 2, BitsPerSample: 16}.WAV(pcm)

	// 7 bytes with 4-byte frames keeps one frame
	require.Len(t, out, wavHeaderSize+4)
	le := binary.LittleEndian
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+4), le.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint32(16), le.Uint32(out[16:20]))
	assert.Equal(t, uint16(1), le.Uint16(out[20:22]))
	assert.Equal(t, uint16(2), le.Uint16(out[22:24]))
	assert.Equal(t, uint32(8000), le.Uint32(out[24:28]))
	assert.Equal(t, uint32(8000*4), le.Uint32(out[28:32]))
	assert.Equal(t, uint16(4), le.Uint16(out[32:34]))
	assert.Equal(t, uint16(16), le.Uint16(out[34:36]))
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(4), le.Uint32(out[40:44]))
	assert.Equal(t, []byte{1, 2, 3, 4}, out[44:])
}

func TestWAVDefaults(t *testing.T) {
	out := PCMFormat{}.WAV(nil)
	require.Len(t, out, wavHeaderSize)
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[22:24]))
}

func TestBlobFilename(t *testing.T) {
	assert.Equal(t, "recording-x.wav", Blob{ID: "x", MIMEType: RecordingMIMEType}.Filename())
	assert.Equal(t, "recording-x.webm", Blob{ID: "x", MIMEType: "audio/webm"}.Filename())
	assert.Equal(t, "recording-x.bin", Blob{ID: "x", MIMEType: "application/x-unknown"}.Filename())
}
