package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// PCM holds decoded 16-bit audio samples, interleaved across channels.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// DurationSeconds returns the playback length of the buffer.
func (p *PCM) DurationSeconds() float64 {
	if p == nil || p.SampleRate <= 0 || p.Channels <= 0 {
		return 0
	}
	return float64(len(p.Samples)) / float64(p.SampleRate*p.Channels)
}

const (
	wavHeaderSize  = 44
	pcmFormatCode  = 1
	pcmBitsPerSamp = 16
)

var errNotWAV = errors.New("not a RIFF/WAVE stream")

// DecodeWAV parses a 16-bit PCM WAV stream into raw samples. Compressed or
// non-16-bit streams are rejected.
func DecodeWAV(data []byte) (*PCM, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errNotWAV
	}

	var (
		sampleRate int
		channels   int
		haveFmt    bool
		samples    []int16
		haveData   bool
	)

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			return nil, fmt.Errorf("chunk %q overruns stream", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != pcmFormatCode {
				return nil, fmt.Errorf("unsupported audio format code %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != pcmBitsPerSamp {
				return nil, fmt.Errorf("unsupported bit depth %d", bits)
			}
			haveFmt = true
		case "data":
			sampleBytes := data[body : body+chunkSize]
			samples = make([]int16, len(sampleBytes)/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(sampleBytes[2*i : 2*i+2]))
			}
			haveData = true
		}

		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++ // chunks are word aligned
		}
	}

	if !haveFmt || !haveData {
		return nil, errors.New("missing fmt or data chunk")
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid format: rate=%d channels=%d", sampleRate, channels)
	}
	return &PCM{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}

// EncodeWAV renders the buffer as a canonical 44-byte-header 16-bit PCM WAV
// stream.
func EncodeWAV(p *PCM) []byte {
	dataSize := len(p.Samples) * 2
	out := make([]byte, wavHeaderSize+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], pcmFormatCode)
	binary.LittleEndian.PutUint16(out[22:24], uint16(p.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(p.SampleRate))
	byteRate := p.SampleRate * p.Channels * pcmBitsPerSamp / 8
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	blockAlign := p.Channels * pcmBitsPerSamp / 8
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], pcmBitsPerSamp)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))
	for i, sample := range p.Samples {
		binary.LittleEndian.PutUint16(out[wavHeaderSize+2*i:wavHeaderSize+2*i+2], uint16(sample))
	}
	return out
}

// Silence returns an all-zero sample buffer covering the given duration at
// the given format.
func Silence(seconds float64, sampleRate, channels int) []int16 {
	if seconds <= 0 || sampleRate <= 0 || channels <= 0 {
		return nil
	}
	frames := int(seconds * float64(sampleRate))
	return make([]int16, frames*channels)
}
