package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"
)

type config struct {
	profile string
	debug   bool

	sink         string
	duplex       bool
	rx           string
	record       string
	recordLength time.Duration
	window       string
	hang         time.Duration
	mix          bool

	freq     int
	volume   float64
	master   float64
	volSteps int

	midiIn    string
	midiOut   string
	ctrlChan  int
	cwChan    int
	cwNote    int
	pttNote   int
	speedCtrl int
	pitchCtrl int
	muteOnPTT bool

	poll     time.Duration
	speedPin int
	volPin   int
	pitchPin int
	speedMin int
	speedMax int
	potNoise int
}

func newConfig(fs *flag.FlagSet) *config {
	var c config
	fs.StringVar(&c.profile, "profile", "", "hardware profile: "+strings.Join(profileNames(), ", "))
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")

	fs.StringVar(&c.sink, "sink", "portaudio", "audio output: portaudio, oto, wav or null")
	fs.BoolVar(&c.duplex, "duplex", false, "use captured input as pass-through audio (portaudio)")
	fs.StringVar(&c.rx, "rx", "", "WAV file looped as pass-through audio")
	fs.StringVar(&c.record, "record", "", "output file for the wav sink")
	fs.DurationVar(&c.recordLength, "record-length", 10*time.Second, "length of the wav sink output")
	fs.StringVar(&c.window, "window", "blackman-harris", "ramp shape: blackman-harris, hann or raised-cosine-step")
	fs.DurationVar(&c.hang, "hang", 6*time.Millisecond, "silence after the pass-through mute is lifted")
	fs.BoolVar(&c.mix, "mix", false, "keep pass-through audio under the side tone")

	fs.IntVar(&c.freq, "freq", 800, "initial side tone frequency in Hz")
	fs.Float64Var(&c.volume, "volume", 0.2, "initial side tone amplitude 0..1")
	fs.Float64Var(&c.master, "master", 1.0, "initial output volume 0..1")
	fs.IntVar(&c.volSteps, "vol-steps", 21, "volume pot steps: 21 or 32")

	fs.StringVar(&c.midiIn, "midi-in", "", "MIDI input port for remote control")
	fs.StringVar(&c.midiOut, "midi-out", "", "MIDI output port for notifications")
	fs.IntVar(&c.ctrlChan, "ctrl-chan", 1, "inbound control channel 0-15, -1 disables")
	fs.IntVar(&c.cwChan, "cw-chan", 4, "outbound channel 0-15, -1 disables")
	fs.IntVar(&c.cwNote, "cw-note", 1, "note for key down, -1 disables")
	fs.IntVar(&c.pttNote, "ptt-note", 2, "note for PTT, -1 disables")
	fs.IntVar(&c.speedCtrl, "speed-ctrl", 3, "controller reporting speed, -1 disables")
	fs.IntVar(&c.pitchCtrl, "pitch-ctrl", -1, "controller reporting pitch, -1 disables")
	fs.BoolVar(&c.muteOnPTT, "mute-on-ptt", true, "mute pass-through audio while PTT is active")

	fs.DurationVar(&c.poll, "poll", 5*time.Millisecond, "minimum time between two analog samples")
	fs.IntVar(&c.speedPin, "speed-pin", -1, "analog pin of the speed pot, -1 disables")
	fs.IntVar(&c.volPin, "vol-pin", -1, "analog pin of the volume pot, -1 disables")
	fs.IntVar(&c.pitchPin, "pitch-pin", -1, "analog pin of the pitch pot, -1 disables")
	fs.IntVar(&c.speedMin, "speed-min", 10, "speed at the low end of the speed pot in wpm")
	fs.IntVar(&c.speedMax, "speed-max", 40, "speed at the high end of the speed pot in wpm")
	fs.IntVar(&c.potNoise, "pot-noise", 0, "random noise added to simulated pot readings")
	return &c
}

// A profile holds flag values for a hardware setup.
type profile map[string]string

var profiles = map[string]profile{
	"teensy4-sgtl5000": {
		"sink":        "portaudio",
		"master":      "0.8",
		"ctrl-chan":   "1",
		"cw-chan":     "4",
		"cw-note":     "1",
		"ptt-note":    "2",
		"speed-ctrl":  "3",
		"mute-on-ptt": "true",
		"vol-steps":   "21",
		"speed-pin":   "0",
		"vol-pin":     "1",
	},
	"teensy4-mqs": {
		"sink":        "portaudio",
		"master":      "1",
		"ctrl-chan":   "1",
		"cw-chan":     "4",
		"cw-note":     "1",
		"ptt-note":    "2",
		"speed-ctrl":  "3",
		"mute-on-ptt": "true",
		"vol-steps":   "32",
		"speed-pin":   "0",
		"vol-pin":     "1",
	},
	"headless": {
		"sink":    "null",
		"cw-chan": "-1",
	},
}

// applyProfile sets every flag of the named profile that was not given on
// the command line.
func applyProfile(name string, fs *flag.FlagSet) error {
	p, ok := profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile: %v", name)
	}
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	for k, v := range p {
		if explicit[k] {
			continue
		}
		if err := fs.Set(k, v); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}

func profileNames() []string {
	var names []string
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
