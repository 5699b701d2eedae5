package control

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
)

// Controller numbers understood on the control channel.
const (
	CmdSetAccum     = 0  // store the low 7 bits of the next value
	CmdSpeed        = 4  // keyer speed in wpm, 7 bit value
	CmdAmplitude    = 5  // side tone amplitude, 14 bit value / 16384
	CmdFrequency    = 6  // side tone frequency in Hz, 14 bit value
	CmdMasterVolume = 16 // output volume, 14 bit value / 16384
)

// Params receives the parameter changes decoded from the control channel.
type Params interface {
	SetSpeed(wpm int)
	SetAmplitude(level float64)
	SetFrequency(hz int)
	SetMasterVolume(level float64)
}

// Decoder turns control changes on one channel into parameter updates. A
// 14 bit value is sent as a CmdSetAccum carrying the low 7 bits followed by a
// command carrying the high 7 bits. There is a single accumulator: a second
// CmdSetAccum before the combining command replaces the first.
type Decoder struct {
	channel int
	params  Params
	lsb     uint16
}

// NewDecoder returns a decoder listening on channel (0-15). A negative
// channel ignores everything.
func NewDecoder(channel int, params Params) *Decoder {
	return &Decoder{channel: channel, params: params}
}

// Handle processes a single message. Messages that are not control changes
// on the decoder's channel are dropped.
func (d *Decoder) Handle(msg midi.Message) {
	var ch, cmd, val uint8
	if !msg.GetControlChange(&ch, &cmd, &val) || int(ch) != d.channel {
		return
	}
	switch cmd {
	case CmdSetAccum:
		d.lsb = uint16(val & 0x7f)
	case CmdSpeed:
		d.params.SetSpeed(int(val))
	case CmdAmplitude:
		d.params.SetAmplitude(float64(d.combine(val)) / 16384)
	case CmdFrequency:
		d.params.SetFrequency(int(d.combine(val)))
	case CmdMasterVolume:
		d.params.SetMasterVolume(float64(d.combine(val)) / 16384)
	default:
		slog.Debug("control: unrecognized command", "cmd", cmd, "value", val)
	}
}

func (d *Decoder) combine(msb uint8) uint16 {
	return uint16(msb&0x7f)<<7 | d.lsb
}
