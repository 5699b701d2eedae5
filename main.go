package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/mrdg/sidetone/audio"
	"github.com/mrdg/sidetone/control"
	"github.com/mrdg/sidetone/keyer"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	cfg := newConfig(flag.CommandLine)
	flag.Parse()
	initLogger(cfg.debug)

	if cfg.profile != "" {
		if err := applyProfile(cfg.profile, flag.CommandLine); err != nil {
			fatal(err)
		}
	}
	if err := run(cfg); err != nil && !errors.Is(err, io.EOF) {
		fatal(err)
	}
}

func fatal(err error) {
	slog.Error("sidetone", "err", err)
	os.Exit(1)
}

// initLogger configures the default slog logger used by all packages.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}

func run(cfg *config) error {
	window, err := audio.NewWindow(audio.WindowShape(cfg.window), audio.WindowLength)
	if err != nil {
		return err
	}
	props := audio.NewProps()
	engine := audio.NewEngine(props, audio.EngineConfig{
		Window:    window,
		Frequency: float64(cfg.freq),
		Amplitude: cfg.volume,
		Master:    cfg.master,
		HangMS:    float64(cfg.hang) / float64(time.Millisecond),
		Mix:       cfg.mix,
	})
	if cfg.rx != "" {
		rec, err := audio.LoadRecording(cfg.rx)
		if err != nil {
			return err
		}
		engine.SetRX(rec)
	}

	defer midi.CloseDriver()
	send, err := openMIDIOut(cfg.midiOut)
	if err != nil {
		return err
	}
	ctl := keyer.New(keyer.Config{
		Channel:     cfg.cwChan,
		CWNote:      cfg.cwNote,
		PTTNote:     cfg.pttNote,
		SpeedCtrl:   cfg.speedCtrl,
		PitchCtrl:   cfg.pitchCtrl,
		MuteOnPTT:   cfg.muteOnPTT,
		VolumeSteps: cfg.volSteps,
	}, props, send, func(wpm int) {
		slog.Info("keyer speed", "wpm", wpm)
	})

	inbox := control.NewInbox(64)
	stopListen, err := openMIDIIn(cfg.midiIn, inbox)
	if err != nil {
		return err
	}
	defer stopListen()

	pots := newPots(cfg.potNoise)
	loop := control.NewLoop(inbox, control.NewDecoder(cfg.ctrlChan, ctl), pots, cfg.poll,
		potChannels(cfg, ctl)...)

	sink, err := audio.NewSink(audio.SinkConfig{
		Kind:   cfg.sink,
		Duplex: cfg.duplex,
		File:   cfg.record,
		Length: cfg.recordLength,
	}, engine)
	if err != nil {
		return err
	}
	if err := sink.Start(); err != nil {
		return fmt.Errorf("start %s sink: %w", cfg.sink, err)
	}
	defer func() {
		if err := sink.Stop(); err != nil {
			slog.Error("stop sink", "err", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	go loop.Run(ctx, time.Millisecond)

	slog.Info("sidetone running", "sink", cfg.sink, "window", cfg.window, "freq", cfg.freq)
	return repl(ctx, &env{
		ctl:      ctl,
		engine:   engine,
		pots:     pots,
		inbox:    inbox,
		ctrlChan: cfg.ctrlChan,
	})
}

// potChannels maps the analog pots to controller parameters.
func potChannels(cfg *config, ctl *keyer.Controller) []control.Channel {
	const speedSteps = 32
	const pitchSteps = 21
	return []control.Channel{
		{
			Denoiser: control.NewDenoiser(cfg.speedPin, control.DenoiseConfig{Steps: speedSteps}),
			Apply: func(step int) {
				ctl.SetSpeed(cfg.speedMin + step*(cfg.speedMax-cfg.speedMin)/(speedSteps-1))
			},
		},
		{
			Denoiser: control.NewDenoiser(cfg.volPin, control.DenoiseConfig{Steps: ctl.VolumeSteps()}),
			Apply:    ctl.SetVolumeStep,
		},
		{
			// 400-1000 Hz, the range covered by the pitch report
			Denoiser: control.NewDenoiser(cfg.pitchPin, control.DenoiseConfig{Steps: pitchSteps}),
			Apply: func(step int) {
				ctl.SetFrequency(400 + step*30)
			},
		},
	}
}

func openMIDIOut(name string) (func(midi.Message) error, error) {
	if name == "" {
		return nil, nil
	}
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("midi output %q: %w", name, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open midi output %q: %w", name, err)
	}
	slog.Info("MIDI output connected", "port", out.String())
	return send, nil
}

func openMIDIIn(name string, inbox *control.Inbox) (func(), error) {
	if name == "" {
		return func() {}, nil
	}
	in, err := midi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("midi input %q: %w", name, err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		inbox.Push(msg)
	}, midi.HandleError(func(err error) {
		slog.Warn("MIDI listener error", "port", name, "err", err)
	}))
	if err != nil {
		return nil, fmt.Errorf("listen on midi input %q: %w", name, err)
	}
	slog.Info("MIDI input connected", "port", in.String())
	return stop, nil
}

const (
	numPins = 8
	potMax  = 1023
)

// pots simulates the analog inputs; readings are set from the REPL and
// start at mid scale.
type pots struct {
	values [numPins]atomic.Int32
	noise  int
}

func newPots(noise int) *pots {
	p := &pots{noise: noise}
	for i := range p.values {
		p.values[i].Store(potMax / 2)
	}
	return p
}

func (p *pots) Read(pin int) int {
	if pin < 0 || pin >= numPins {
		return 0
	}
	v := int(p.values[pin].Load())
	if p.noise > 0 {
		v += rand.Intn(2*p.noise+1) - p.noise
	}
	return v
}

func (p *pots) set(pin, raw int) error {
	if pin < 0 || pin >= numPins {
		return fmt.Errorf("no such pin: %d", pin)
	}
	if raw < 0 || raw > potMax {
		return fmt.Errorf("reading out of range 0-%d: %d", potMax, raw)
	}
	p.values[pin].Store(int32(raw))
	return nil
}
