package audio

import (
	"math"
	"sync/atomic"
)

const twoPi = 2 * math.Pi

// Sine is a free running oscillator producing the side tone. Frequency and
// amplitude are read from props at the start of every block.
type Sine struct {
	freq      *atomic.Value
	amplitude *atomic.Value
	phase     float64
}

func NewSine(props *Props, freq, amplitude float64) *Sine {
	return &Sine{
		freq:      props.MustRegister(PropFrequency, setFrequency, freq),
		amplitude: props.MustRegister(PropAmplitude, setLevel, amplitude),
	}
}

// Fill writes the next block of the tone to b.
func (o *Sine) Fill(b *Block) {
	phaseDelta := o.freq.Load().(float64) * twoPi / SampleRate
	gain := o.amplitude.Load().(float64) * math.MaxInt16
	for n := range b {
		b[n] = int16(math.Round(gain * math.Sin(o.phase)))
		o.phase += phaseDelta
		if o.phase >= twoPi {
			o.phase -= twoPi
		}
	}
}
