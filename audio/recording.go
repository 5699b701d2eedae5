package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"
)

// BlockReader supplies pass-through audio one block pair at a time.
type BlockReader interface {
	ReadBlocks(left, right *Block)
}

// Recording is a WAV file held in memory and played back in a loop as the
// pass-through audio.
type Recording struct {
	file string
	l, r []int16
	pos  int
}

func LoadRecording(file string) (*Recording, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec := Recording{file: file}
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	if format.SampleRate != SampleRate {
		return nil, fmt.Errorf("%s: sample rate %d, want %d", file, format.SampleRate, SampleRate)
	}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		for _, sample := range samples {
			left := toInt16(r.IntValue(sample, 0), format.BitsPerSample)
			right := left
			if format.NumChannels > 1 {
				right = toInt16(r.IntValue(sample, 1), format.BitsPerSample)
			}
			rec.l = append(rec.l, left)
			rec.r = append(rec.r, right)
		}
	}
	if len(rec.l) == 0 {
		return nil, fmt.Errorf("%s: no samples", file)
	}
	return &rec, nil
}

func (rec *Recording) ReadBlocks(left, right *Block) {
	for n := range left {
		left[n] = rec.l[rec.pos]
		right[n] = rec.r[rec.pos]
		rec.pos++
		if rec.pos >= len(rec.l) {
			rec.pos = 0
		}
	}
}

func (rec *Recording) String() string { return rec.file }

// toInt16 converts a raw PCM value to 16 bits. 8 bit WAV data is unsigned.
func toInt16(v int, bits uint16) int16 {
	switch {
	case bits == 8:
		return int16((v - 128) << 8)
	case bits > 16:
		return int16(v >> (bits - 16))
	default:
		return int16(v)
	}
}
