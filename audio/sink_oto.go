package audio

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoSink lets an oto player pull interleaved 16 bit frames from the processor.
type otoSink struct {
	ctx     *oto.Context
	player  *oto.Player
	p       Processor
	out     [][]int16
	pending []byte // rendered bytes not yet consumed by the player
	buf     []byte
}

func newOtoSink(p Processor) (*otoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(4*BlockSize) * time.Second / SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("open oto context: %w", err)
	}
	<-ready
	s := &otoSink{
		ctx: ctx,
		p:   p,
		out: [][]int16{make([]int16, BlockSize), make([]int16, BlockSize)},
		buf: make([]byte, BlockSize*4),
	}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// Read implements io.Reader for the oto player.
func (s *otoSink) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		if len(s.pending) == 0 {
			s.render()
		}
		c := copy(b[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}
	return n, nil
}

func (s *otoSink) render() {
	s.p.Process(nil, s.out)
	for i := range s.out[0] {
		binary.LittleEndian.PutUint16(s.buf[i*4:], uint16(s.out[0][i]))
		binary.LittleEndian.PutUint16(s.buf[i*4+2:], uint16(s.out[1][i]))
	}
	s.pending = s.buf
}

func (s *otoSink) Start() error {
	s.player.Play()
	return s.ctx.Err()
}

func (s *otoSink) Stop() error {
	return s.player.Close()
}
