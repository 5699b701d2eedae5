package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/youpy/go-wav"
)

// pacedSink calls the processor once per block on a ticker and hands the
// output to write, which may be nil to discard it. When blocks is positive
// the sink stops by itself after that many blocks.
type pacedSink struct {
	p       Processor
	write   func(out [][]int16) error
	blocks  int
	offline bool

	done chan struct{}
	wg   sync.WaitGroup
	err  error
}

func newPacedSink(p Processor, write func([][]int16) error, blocks int, offline bool) *pacedSink {
	return &pacedSink{p: p, write: write, blocks: blocks, offline: offline}
}

func (s *pacedSink) Start() error {
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run()
	return nil
}

func (s *pacedSink) run() {
	defer s.wg.Done()
	out := [][]int16{make([]int16, BlockSize), make([]int16, BlockSize)}
	var tick <-chan time.Time
	if !s.offline {
		ticker := time.NewTicker(time.Duration(BlockSize) * time.Second / SampleRate)
		defer ticker.Stop()
		tick = ticker.C
	}
	for n := 0; s.blocks <= 0 || n < s.blocks; n++ {
		if tick != nil {
			select {
			case <-s.done:
				return
			case <-tick:
			}
		} else {
			select {
			case <-s.done:
				return
			default:
			}
		}
		s.p.Process(nil, out)
		if s.write == nil {
			continue
		}
		if err := s.write(out); err != nil {
			s.err = err
			return
		}
	}
}

// Wait blocks until a sink with a fixed number of blocks has rendered them all.
func (s *pacedSink) Wait() error {
	s.wg.Wait()
	return s.err
}

func (s *pacedSink) Stop() error {
	if s.done == nil {
		return nil
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return s.Wait()
}

// wavSink renders a fixed length of output into a WAV file.
type wavSink struct {
	*pacedSink
	f       *os.File
	w       *wav.Writer
	written int
	total   int
	samples []wav.Sample
}

func newWavSink(p Processor, cfg SinkConfig) (*wavSink, error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("wav sink: no output file")
	}
	blocks := int(cfg.Length.Seconds() * SampleRate / BlockSize)
	if blocks <= 0 {
		return nil, fmt.Errorf("wav sink: length too short: %v", cfg.Length)
	}
	f, err := os.Create(cfg.File)
	if err != nil {
		return nil, err
	}
	total := blocks * BlockSize
	s := &wavSink{
		f:       f,
		w:       wav.NewWriter(f, uint32(total), 2, SampleRate, 16),
		total:   total,
		samples: make([]wav.Sample, BlockSize),
	}
	s.pacedSink = newPacedSink(p, s.writeBlock, blocks, cfg.Offline)
	return s, nil
}

func (s *wavSink) writeBlock(out [][]int16) error {
	for i := range s.samples {
		s.samples[i].Values[0] = int(out[0][i])
		s.samples[i].Values[1] = int(out[1][i])
	}
	s.written += len(s.samples)
	return s.w.WriteSamples(s.samples)
}

// Stop ends rendering early, pads the file with silence up to the length
// announced in its header and closes it.
func (s *wavSink) Stop() error {
	err := s.pacedSink.Stop()
	if err == nil && s.written < s.total {
		silence := make([]wav.Sample, s.total-s.written)
		err = s.w.WriteSamples(silence)
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
