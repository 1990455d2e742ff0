package audio

import (
	"bytes"
	"encoding/binary"
)

// RecordingMIMEType is the container type of finished recordings
const RecordingMIMEType = "audio/wav"

const wavHeaderSize = 44

// PCMFormat describes the raw little-endian samples a capture device yields
type PCMFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultPCMFormat matches `arecord -t raw -f S16_LE -r 48000 -c 1`.
var DefaultPCMFormat = PCMFormat{SampleRate: 48000, Channels: 1, BitsPerSample: 16}

func (f PCMFormat) withDefaults() PCMFormat {
	if f.SampleRate <= 0 {
		f.SampleRate = DefaultPCMFormat.SampleRate
	}
	if f.Channels <= 0 {
		f.Channels = DefaultPCMFormat.Channels
	}
	if f.BitsPerSample <= 0 {
		f.BitsPerSample = DefaultPCMFormat.BitsPerSample
	}
	return f
}

func (f PCMFormat) blockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

// WAV wraps pcm in a RIFF/WAVE header. A trailing partial frame is dropped.
func (f PCMFormat) WAV(pcm []byte) []byte {
	f = f.withDefaults()
	align := f.blockAlign()
	if align > 0 {
		pcm = pcm[:len(pcm)-len(pcm)%align]
	}

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, struct {
		Size          uint32
		Format        uint16
		Channels      uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}{
		Size:          16,
		Format:        1, // PCM
		Channels:      uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate * align),
		BlockAlign:    uint16(align),
		BitsPerSample: uint16(f.BitsPerSample),
	})

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
