package audio

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Processor renders stereo output for one callback. in is captured input
// and may be nil.
type Processor interface {
	Process(in, out [][]int16)
}

// Sink drives a Processor at the audio cadence.
type Sink interface {
	Start() error
	Stop() error
}

type SinkConfig struct {
	Kind string // portaudio, oto, wav or null

	// Duplex captures stereo input with portaudio and hands it to the
	// processor as pass-through audio.
	Duplex bool

	// File and Length configure the wav sink.
	File   string
	Length time.Duration

	// Offline renders the wav sink as fast as possible instead of in real time.
	Offline bool
}

func NewSink(cfg SinkConfig, p Processor) (Sink, error) {
	switch cfg.Kind {
	case "portaudio", "":
		return newPortaudioSink(p, cfg.Duplex)
	case "oto":
		return newOtoSink(p)
	case "wav":
		return newWavSink(p, cfg)
	case "null":
		return newPacedSink(p, nil, 0, false), nil
	default:
		return nil, fmt.Errorf("unknown sink: %s", cfg.Kind)
	}
}

type portaudioSink struct {
	stream *portaudio.Stream
}

func newPortaudioSink(p Processor, duplex bool) (*portaudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	var (
		stream *portaudio.Stream
		err    error
	)
	if duplex {
		stream, err = portaudio.OpenDefaultStream(2, 2, SampleRate, BlockSize, func(in, out [][]int16) {
			p.Process(in, out)
		})
	} else {
		stream, err = portaudio.OpenDefaultStream(0, 2, SampleRate, BlockSize, func(out [][]int16) {
			p.Process(nil, out)
		})
	}
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open portaudio stream: %w", err)
	}
	return &portaudioSink{stream: stream}, nil
}

func (s *portaudioSink) Start() error {
	return s.stream.Start()
}

func (s *portaudioSink) Stop() error {
	s.stream.Stop()
	s.stream.Close()
	return portaudio.Terminate()
}
