package keyer

import (
	"log/slog"
	"sync"

	"github.com/mrdg/sidetone/audio"
	"github.com/mrdg/sidetone/control"
	"gitlab.com/gomidi/midi/v2"
)

// silenceLevel is the amplitude at or below which key down events do not
// start the side tone.
const silenceLevel = 0.001

// Config selects the outbound notifications. Negative numbers disable a
// notification; a negative Channel disables all of them.
type Config struct {
	Channel   int // outbound channel, 0-15
	CWNote    int // note for key down/up
	PTTNote   int // note for PTT on/off
	SpeedCtrl int // controller reporting the keyer speed
	PitchCtrl int // controller reporting the side tone frequency

	MuteOnPTT   bool // silence the pass-through audio while PTT is active
	VolumeSteps int  // 21 or 32
}

// State is a snapshot of the parameters owned by the controller.
type State struct {
	Frequency  int
	VolumeStep int
	Amplitude  float64
	Master     float64
	Speed      int
	MuteOnPTT  bool
	KeyDown    bool
	PTT        bool
}

// Controller is the single owner of the side tone parameters. It pushes
// them to the tone device, forwards speed changes to the keyer and reports
// key, PTT, speed and pitch on the outbound control channel.
//
// All methods are safe for concurrent use and may be called repeatedly
// with the same value.
type Controller struct {
	mu    sync.Mutex
	cfg   Config
	tone  audio.Device
	send  func(midi.Message) error
	speed func(wpm int)
	table []float64
	state State

	speedReport, pitchReport int // last values sent, -1 if none
}

// New returns a controller driving tone. send and speed may be nil.
func New(cfg Config, tone audio.Device, send func(midi.Message) error, speed func(wpm int)) *Controller {
	c := &Controller{
		cfg:         cfg,
		tone:        tone,
		send:        send,
		speed:       speed,
		table:       volumeTable(cfg.VolumeSteps),
		speedReport: -1,
		pitchReport: -1,
	}
	c.state.MuteOnPTT = cfg.MuteOnPTT
	c.state.VolumeStep = -1
	c.state.Master = 1
	if v, err := tone.Get(audio.PropFrequency); err == nil {
		c.state.Frequency = int(v.(float64))
	}
	if v, err := tone.Get(audio.PropAmplitude); err == nil {
		c.state.Amplitude = v.(float64)
	}
	if v, err := tone.Get(audio.PropMaster); err == nil {
		c.state.Master = v.(float64)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// VolumeSteps returns the number of volume steps.
func (c *Controller) VolumeSteps() int { return len(c.table) }

func (c *Controller) SetFrequency(hz int) {
	if hz < 0 {
		hz = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Frequency = hz
	c.set(audio.PropFrequency, float64(hz))
	if c.cfg.PitchCtrl >= 0 {
		c.report(&c.pitchReport, c.cfg.PitchCtrl, control.PitchValue(hz))
	}
}

// SetVolumeStep sets the side tone amplitude from the volume table. Steps
// outside the table are clamped.
func (c *Controller) SetVolumeStep(step int) {
	if step < 0 {
		step = 0
	}
	if step >= len(c.table) {
		step = len(c.table) - 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.VolumeStep = step
	c.setAmplitude(c.table[step])
}

// SetAmplitude sets the side tone amplitude directly, clamped to 0..1.
func (c *Controller) SetAmplitude(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.VolumeStep = -1
	c.setAmplitude(clampLevel(level))
}

func (c *Controller) setAmplitude(level float64) {
	c.state.Amplitude = level
	c.set(audio.PropAmplitude, level)
	if level <= silenceLevel && c.state.KeyDown {
		c.set(audio.PropTone, false)
	}
}

func (c *Controller) SetMasterVolume(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Master = clampLevel(level)
	c.set(audio.PropMaster, c.state.Master)
}

// SetSpeed forwards the keyer speed and reports it outward.
func (c *Controller) SetSpeed(wpm int) {
	if wpm < 0 {
		wpm = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Speed = wpm
	if c.speed != nil {
		c.speed(wpm)
	}
	if c.cfg.SpeedCtrl >= 0 {
		c.report(&c.speedReport, c.cfg.SpeedCtrl, control.SpeedValue(wpm))
	}
}

// Key starts or stops the side tone. The tone stays off while the
// amplitude is essentially zero, but the key notification is still sent.
func (c *Controller) Key(down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(audio.PropTone, down && c.state.Amplitude > silenceLevel)
	if c.state.KeyDown == down {
		return
	}
	c.state.KeyDown = down
	c.note(c.cfg.CWNote, down)
}

// PTT applies the mute policy to the pass-through audio and sends the PTT
// notification.
func (c *Controller) PTT(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(audio.PropMute, active && c.state.MuteOnPTT)
	if c.state.PTT == active {
		return
	}
	c.state.PTT = active
	c.note(c.cfg.PTTNote, active)
}

func (c *Controller) SetMuteOnPTT(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.MuteOnPTT = on
	c.set(audio.PropMute, c.state.PTT && on)
}

func (c *Controller) set(key string, val interface{}) {
	if err := c.tone.Set(key, val); err != nil {
		slog.Error("keyer: set tone property", "key", key, "err", err)
	}
}

func (c *Controller) note(note int, on bool) {
	if note < 0 {
		return
	}
	if on {
		c.transmit(midi.NoteOn(uint8(c.cfg.Channel), uint8(note), 127))
	} else {
		c.transmit(midi.NoteOff(uint8(c.cfg.Channel), uint8(note)))
	}
}

func (c *Controller) report(last *int, ctrl int, val uint8) {
	if *last == int(val) {
		return
	}
	if c.transmit(midi.ControlChange(uint8(c.cfg.Channel), uint8(ctrl), val)) {
		*last = int(val)
	}
}

func (c *Controller) transmit(msg midi.Message) bool {
	if c.send == nil || c.cfg.Channel < 0 {
		return false
	}
	if err := c.send(msg); err != nil {
		slog.Warn("keyer: send failed", "msg", msg.String(), "err", err)
		return false
	}
	return true
}

func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
