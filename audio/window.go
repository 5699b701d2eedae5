package audio

import (
	"fmt"
	"math"
)

// WindowLength is the number of coefficients in a ramp.
const WindowLength = 128

// FullScale is the gain coefficient for unity.
const FullScale = math.MaxInt32

type WindowShape string

const (
	// Rising half of a Hann window.
	ShapeHann WindowShape = "hann"
	// Normalized integral of a raised cosine.
	ShapeRaisedCosineStep WindowShape = "raised-cosine-step"
	// Normalized integral of a 4-term Blackman-Harris window.
	ShapeBlackmanHarris WindowShape = "blackman-harris"
)

// Window holds the rising half of a window as fixed point gains. The
// coefficient for step i (1 <= i <= n) is stored at i-1, so the ramp starts
// just above zero and the last coefficient is FullScale.
type Window []int32

func NewWindow(shape WindowShape, n int) (Window, error) {
	if n <= 0 {
		return nil, fmt.Errorf("window length must be positive: %d", n)
	}
	var f func(x float64) float64
	switch shape {
	case ShapeHann:
		f = func(x float64) float64 { return 0.5 * (1 - math.Cos(math.Pi*x)) }
	case ShapeRaisedCosineStep:
		f = func(x float64) float64 { return x - math.Sin(2*math.Pi*x)/(2*math.Pi) }
	case ShapeBlackmanHarris:
		const (
			a0 = 0.35875
			a1 = 0.48829
			a2 = 0.14128
			a3 = 0.01168
		)
		f = func(x float64) float64 {
			return (a0*x -
				a1*math.Sin(2*math.Pi*x)/(2*math.Pi) +
				a2*math.Sin(4*math.Pi*x)/(4*math.Pi) -
				a3*math.Sin(6*math.Pi*x)/(6*math.Pi)) / a0
		}
	default:
		return nil, fmt.Errorf("unknown window shape: %s", shape)
	}
	w := make(Window, n)
	for i := range w {
		v := math.Round(FullScale * f(float64(i+1)/float64(n)))
		w[i] = int32(math.Max(0, math.Min(FullScale, v)))
	}
	w[n-1] = FullScale
	return w, nil
}

func MustWindow(shape WindowShape, n int) Window {
	w, err := NewWindow(shape, n)
	if err != nil {
		panic(err)
	}
	return w
}

// Len returns the number of ramp steps.
func (w Window) Len() int { return len(w) }

// Gain returns the gain after i ramp steps. Gain(0) is silence and
// Gain(Len()) is FullScale; i is clamped to that range.
func (w Window) Gain(i int) int32 {
	switch {
	case i <= 0:
		return 0
	case i >= len(w):
		return FullScale
	default:
		return w[i-1]
	}
}

// scale applies a fixed point gain to a sample: the sample is doubled for
// headroom and only the upper 32 bits of the 64 bit product are kept.
func scale(sample int16, gain int32) int16 {
	return int16((int64(int32(sample)<<1) * int64(gain)) >> 32)
}
