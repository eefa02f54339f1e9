package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// pcm is decoded interleaved signed 16-bit audio.
type pcm struct {
	samples    []int16
	sampleRate uint32
	channels   int
}

type beepDecoder func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var beepDecoders = map[string]beepDecoder{
	".mp3":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
	".wav":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".flac": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) },
	".ogg":  func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
}

// SupportedFormats lists the file extensions Play accepts.
func SupportedFormats() []string {
	exts := []string{".aif", ".aiff"}
	for ext := range beepDecoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func decodeFile(path string) (*pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".aiff" || ext == ".aif" {
		return decodeAIFF(f)
	}
	decode, ok := beepDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	streamer, format, err := decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &pcm{
		samples:    drain(streamer, format.NumChannels),
		sampleRate: uint32(format.SampleRate),
		channels:   format.NumChannels,
	}, nil
}

func decodeAIFF(f *os.File) (*pcm, error) {
	d := aiff.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid AIFF file")
	}
	d.ReadInfo()

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read AIFF data: %w", err)
	}
	return &pcm{
		samples:    to16Bit(buf, int(d.BitDepth)),
		sampleRate: uint32(d.SampleRate),
		channels:   int(d.NumChans),
	}, nil
}

// drain reads a beep stream to the end. Mono streams keep one channel.
func drain(s beep.Streamer, channels int) []int16 {
	var out []int16
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			out = append(out, floatTo16(frame[0]))
			if channels >= 2 {
				out = append(out, floatTo16(frame[1]))
			}
		}
		if !ok || n == 0 {
			return out
		}
	}
}

func floatTo16(v float64) int16 {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return int16(v * 32767)
}

// to16Bit rescales integer PCM of the given bit depth to 16 bits.
func to16Bit(buf *goaudio.IntBuffer, bitDepth int) []int16 {
	shift := bitDepth - 16
	out := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch {
		case bitDepth <= 0 || shift == 0:
			out[i] = int16(v)
		case shift > 0:
			out[i] = int16(v >> shift)
		default:
			out[i] = int16(v << -shift)
		}
	}
	return out
}

// scale applies volume in [0, 1] in place.
func (p *pcm) scale(volume float64) {
	if volume >= 1 {
		return
	}
	if volume < 0 {
		volume = 0
	}
	for i, s := range p.samples {
		p.samples[i] = int16(float64(s) * volume)
	}
}

// bytes returns the samples as little-endian bytes.
func (p *pcm) bytes() []byte {
	out := make([]byte, len(p.samples)*2)
	for i, s := range p.samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}
