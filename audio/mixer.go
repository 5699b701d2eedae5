package audio

import (
	"math"
	"sync/atomic"
)

// ToneMixer gates a tone with a click-free envelope and switches between the
// side tone and the pass-through (RX) audio. Process must only be called from
// the audio callback; all envelope state is private to it.
type ToneMixer struct {
	window Window
	pool   *Pool
	tone   *atomic.Value
	mute   *atomic.Value

	// mix keeps the pass-through audio audible under the side tone.
	mix bool

	index    int // position within window, 0..window.Len()
	trailing int // blocks of silence after mute is lifted
	hang     int // remaining trailing mute blocks

	outL, outR Block
}

func NewToneMixer(props *Props, window Window, pool *Pool, trailingBlocks int, mix bool) *ToneMixer {
	if trailingBlocks < 0 {
		trailingBlocks = 0
	}
	return &ToneMixer{
		window:   window,
		pool:     pool,
		tone:     props.MustRegister(PropTone, setBool, false),
		mute:     props.MustRegister(PropMute, setBool, false),
		mix:      mix,
		trailing: trailingBlocks,
	}
}

// TrailingBlocks converts a duration in milliseconds to a whole number of
// blocks, rounding up and clamping to 65535.
func TrailingBlocks(ms float64) int {
	if ms <= 0 {
		return 0
	}
	n := math.Ceil(ms * SampleRate / 1000 / BlockSize)
	if n > math.MaxUint16 {
		n = math.MaxUint16
	}
	return int(n)
}

// Process consumes one tone block and the two pass-through blocks, which may
// be nil, and returns the left and right output blocks. The output blocks are
// owned by the mixer and stay valid until the next call. All input blocks are
// returned to the pool. When tone is nil the cycle is skipped and ok is false.
func (m *ToneMixer) Process(tone, left, right *Block) (outL, outR *Block, ok bool) {
	defer func() {
		m.pool.Put(tone)
		m.pool.Put(left)
		m.pool.Put(right)
	}()
	if tone == nil {
		return nil, nil, false
	}

	silent := m.mute.Load().(bool)
	if silent {
		m.hang = m.trailing
	} else if m.hang > 0 {
		m.hang--
		silent = true
	}

	keyed := m.tone.Load().(bool)
	if !keyed && m.index == 0 {
		m.passThrough(left, right, silent)
		return &m.outL, &m.outR, true
	}

	n := m.window.Len()
	if m.index > n {
		m.index = n
	}
	if m.index < 0 {
		m.index = 0
	}
	if keyed {
		for i, s := range tone {
			if m.index < n {
				m.index++
				s = scale(s, m.window.Gain(m.index))
			}
			m.outL[i] = s
		}
	} else {
		for i, s := range tone {
			if m.index > 0 {
				m.index--
				m.outL[i] = scale(s, m.window.Gain(m.index))
			} else {
				m.outL[i] = 0
			}
		}
	}
	m.outR = m.outL
	if m.mix && !silent {
		mixInto(&m.outL, left)
		mixInto(&m.outR, right)
	}
	return &m.outL, &m.outR, true
}

func (m *ToneMixer) passThrough(left, right *Block, silent bool) {
	m.index = 0
	if silent || left == nil {
		m.outL.zero()
	} else {
		m.outL = *left
	}
	if silent || right == nil {
		m.outR.zero()
	} else {
		m.outR = *right
	}
}

// mixInto adds src to dst, saturating at the int16 limits.
func mixInto(dst, src *Block) {
	if src == nil {
		return
	}
	for i := range dst {
		v := int32(dst[i]) + int32(src[i])
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		dst[i] = int16(v)
	}
}
