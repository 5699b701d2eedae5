package main

import (
	"errors"
	"fmt"

	"github.com/mrdg/sidetone/audio"
	"github.com/mrdg/sidetone/dub"
	"gitlab.com/gomidi/midi/v2"
)

type command struct {
	name  string
	usage string
	run   func(*env, []dub.Node) error
	arity int
}

var commands []command

func init() {
	commands = []command{
		{"key", "key down|up", keyCommand, 1},
		{"ptt", "ptt on|off", pttCommand, 1},
		{"freq", "freq 700hz", freqCommand, 1},
		{"vol", "vol <step>", volCommand, 1},
		{"amp", "amp 0.2", ampCommand, 1},
		{"master", "master 0.8", masterCommand, 1},
		{"speed", "speed 20wpm", speedCommand, 1},
		{"mute-on-ptt", "mute-on-ptt on|off", muteOnPTTCommand, 1},
		{"pot", "pot <pin> <reading>", potCommand, 2},
		{"cc", "cc <controller> <value>", ccCommand, 2},
		{"rx", `rx "file.wav"`, rxCommand, 1},
		{"status", "status", statusCommand, 0},
		{"help", "help", helpCommand, 0},
	}
}

func keyCommand(env *env, args []dub.Node) error {
	var down bool
	if err := readArgs(args, &down); err != nil {
		return err
	}
	env.ctl.Key(down)
	return nil
}

func pttCommand(env *env, args []dub.Node) error {
	var active bool
	if err := readArgs(args, &active); err != nil {
		return err
	}
	env.ctl.PTT(active)
	return nil
}

func freqCommand(env *env, args []dub.Node) error {
	var hz float64
	if err := readArgs(args, unit{"hz", &hz}); err != nil {
		return err
	}
	env.ctl.SetFrequency(int(hz))
	return nil
}

func volCommand(env *env, args []dub.Node) error {
	var step int
	if err := readArgs(args, &step); err != nil {
		return err
	}
	env.ctl.SetVolumeStep(step)
	return nil
}

func ampCommand(env *env, args []dub.Node) error {
	var level float64
	if err := readArgs(args, &level); err != nil {
		return err
	}
	env.ctl.SetAmplitude(level)
	return nil
}

func masterCommand(env *env, args []dub.Node) error {
	var level float64
	if err := readArgs(args, &level); err != nil {
		return err
	}
	env.ctl.SetMasterVolume(level)
	return nil
}

func speedCommand(env *env, args []dub.Node) error {
	var wpm float64
	if err := readArgs(args, unit{"wpm", &wpm}); err != nil {
		return err
	}
	env.ctl.SetSpeed(int(wpm))
	return nil
}

func muteOnPTTCommand(env *env, args []dub.Node) error {
	var on bool
	if err := readArgs(args, &on); err != nil {
		return err
	}
	env.ctl.SetMuteOnPTT(on)
	return nil
}

func potCommand(env *env, args []dub.Node) error {
	var pin, raw int
	if err := readArgs(args, &pin, &raw); err != nil {
		return err
	}
	return env.pots.set(pin, raw)
}

// ccCommand injects a control change on the control channel, as if it came
// from the remote.
func ccCommand(env *env, args []dub.Node) error {
	var ctrl, val int
	if err := readArgs(args, &ctrl, &val); err != nil {
		return err
	}
	if env.ctrlChan < 0 {
		return errors.New("control channel is disabled")
	}
	if ctrl < 0 || ctrl > 127 || val < 0 || val > 127 {
		return fmt.Errorf("controller and value must be in range 0-127")
	}
	env.inbox.Push(midi.ControlChange(uint8(env.ctrlChan), uint8(ctrl), uint8(val)))
	return nil
}

func rxCommand(env *env, args []dub.Node) error {
	var file string
	if err := readArgs(args, &file); err != nil {
		return err
	}
	if file == "" {
		env.engine.SetRX(nil)
		return nil
	}
	rec, err := audio.LoadRecording(file)
	if err != nil {
		return err
	}
	env.engine.SetRX(rec)
	return nil
}

func statusCommand(env *env, args []dub.Node) error {
	renderState(env.ctl.State(), env.ctl.VolumeSteps(), env.out)
	return nil
}

func helpCommand(env *env, args []dub.Node) error {
	for _, cmd := range commands {
		fmt.Fprintln(env.out, cmd.usage)
	}
	return nil
}

// unit reads a number that may carry the given unit.
type unit struct {
	name string
	dst  *float64
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *bool:
			id, ok := arg.(dub.Identifier)
			if !ok {
				return fmt.Errorf("argument error: expected on or off")
			}
			switch id {
			case "on", "down", "true":
				*p = true
			case "off", "up", "false":
				*p = false
			default:
				return fmt.Errorf("argument error: expected on or off, got %s", id)
			}
		case *float64:
			switch v := arg.(type) {
			case dub.Int:
				*p = float64(v)
			case dub.Float:
				*p = float64(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		case unit:
			switch v := arg.(type) {
			case dub.Int:
				*p.dst = float64(v)
			case dub.Float:
				*p.dst = float64(v)
			case dub.Quantity:
				if v.Unit != p.name {
					return fmt.Errorf("argument error: expected %s, got %s", p.name, v.Unit)
				}
				*p.dst = v.Value
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
