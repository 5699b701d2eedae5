package audio

import (
	"math"
	"sync/atomic"
)

type EngineConfig struct {
	Window    Window
	Frequency float64 // initial side tone frequency in Hz
	Amplitude float64 // initial side tone amplitude 0..1
	Master    float64 // initial output volume 0..1
	HangMS    float64 // trailing mute in milliseconds
	Mix       bool
	PoolSize  int
}

// Engine is the per-block host function: it renders the side tone, collects
// the pass-through audio and runs the mixer. It can be driven by any sink.
type Engine struct {
	pool   *Pool
	osc    *Sine
	mixer  *ToneMixer
	master *atomic.Value
	rx     atomic.Value // holds rxSource
}

type rxSource struct{ r BlockReader }

func NewEngine(props *Props, cfg EngineConfig) *Engine {
	if cfg.PoolSize < 3 {
		cfg.PoolSize = 8
	}
	if cfg.Window == nil {
		cfg.Window = MustWindow(ShapeBlackmanHarris, WindowLength)
	}
	pool := NewPool(cfg.PoolSize)
	e := &Engine{
		pool:   pool,
		osc:    NewSine(props, cfg.Frequency, cfg.Amplitude),
		mixer:  NewToneMixer(props, cfg.Window, pool, TrailingBlocks(cfg.HangMS), cfg.Mix),
		master: props.MustRegister(PropMaster, setLevel, cfg.Master),
	}
	e.rx.Store(rxSource{})
	return e
}

// SetRX replaces the pass-through source used when the sink provides no
// captured input. A nil reader disables it.
func (e *Engine) SetRX(r BlockReader) {
	e.rx.Store(rxSource{r})
}

// Process renders len(out[0]) frames of stereo output. in holds captured
// stereo input and may be nil. Frames are processed in whole blocks; a
// trailing partial block and any skipped cycle are left silent.
func (e *Engine) Process(in, out [][]int16) {
	for i := range out {
		for j := range out[i] {
			out[i][j] = 0
		}
	}
	if len(out) == 0 {
		return
	}
	rx := e.rx.Load().(rxSource).r
	gain := e.master.Load().(float64)

	for n := 0; n+BlockSize <= len(out[0]); n += BlockSize {
		tone := e.pool.Get()
		if tone != nil {
			e.osc.Fill(tone)
		}
		left, right := e.pool.Get(), e.pool.Get()
		switch {
		case len(in) >= 2 && len(in[0]) >= n+BlockSize:
			copyBlock(left, in[0][n:])
			copyBlock(right, in[1][n:])
		case rx != nil && left != nil && right != nil:
			rx.ReadBlocks(left, right)
		default:
			e.pool.Put(left)
			e.pool.Put(right)
			left, right = nil, nil
		}

		l, r, ok := e.mixer.Process(tone, left, right)
		if !ok {
			continue
		}
		applyGain(out[0][n:n+BlockSize], l, gain)
		if len(out) > 1 {
			applyGain(out[1][n:n+BlockSize], r, gain)
		}
	}
}

func copyBlock(dst *Block, src []int16) {
	if dst != nil {
		copy(dst[:], src)
	}
}

func applyGain(dst []int16, b *Block, gain float64) {
	if gain >= 1 {
		copy(dst, b[:])
		return
	}
	for i, s := range b {
		dst[i] = int16(math.Round(float64(s) * gain))
	}
}
