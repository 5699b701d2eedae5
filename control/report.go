package control

import "math"

// SpeedValue maps a keyer speed in wpm to the 7 bit controller value an SDR
// program translates back to the same speed.
func SpeedValue(wpm int) uint8 {
	return clamp7(math.Round(float64(127*wpm-97) / 59))
}

// PitchValue maps a side tone frequency in Hz to its 7 bit controller value.
func PitchValue(hz int) uint8 {
	return clamp7(math.Round(float64(127*hz-50500) / 600))
}

func clamp7(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
