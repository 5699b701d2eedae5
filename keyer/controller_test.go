package keyer

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mrdg/sidetone/audio"
	"gitlab.com/gomidi/midi/v2"
)

type fakeDevice map[string]interface{}

func (d fakeDevice) Set(key string, val interface{}) error {
	if _, ok := d[key]; !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	d[key] = val
	return nil
}

func (d fakeDevice) Get(key string) (interface{}, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return v, nil
}

func newDevice() fakeDevice {
	return fakeDevice{
		audio.PropFrequency: 700.0,
		audio.PropAmplitude: 0.5,
		audio.PropMaster:    0.8,
		audio.PropTone:      false,
		audio.PropMute:      false,
	}
}

type outbox struct {
	msgs []midi.Message
	err  error
}

func (o *outbox) send(msg midi.Message) error {
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *outbox) take() []midi.Message {
	msgs := o.msgs
	o.msgs = nil
	return msgs
}

var testConfig = Config{
	Channel:     1,
	CWNote:      1,
	PTTNote:     2,
	SpeedCtrl:   3,
	PitchCtrl:   -1,
	MuteOnPTT:   true,
	VolumeSteps: 21,
}

func TestControllerInit(t *testing.T) {
	c := New(testConfig, newDevice(), nil, nil)
	want := State{
		Frequency:  700,
		VolumeStep: -1,
		Amplitude:  0.5,
		Master:     0.8,
		MuteOnPTT:  true,
	}
	if got := c.State(); want != got {
		t.Errorf("want %+v, got %+v", want, got)
	}
}

func TestVolumeSteps(t *testing.T) {
	tests := []struct {
		steps    int
		step     int
		wantStep int
		want     float64
	}{
		{21, 0, 0, 0},
		{21, 10, 10, 0.1},
		{21, 20, 20, 1},
		{21, 99, 20, 1},
		{21, -5, 0, 0},
		{32, 31, 31, 1},
		{32, 27, 27, 0.5012},
		{7, 20, 20, 1},
	}
	for _, test := range tests {
		dev := newDevice()
		cfg := testConfig
		cfg.VolumeSteps = test.steps
		c := New(cfg, dev, nil, nil)
		c.SetVolumeStep(test.step)
		st := c.State()
		if st.VolumeStep != test.wantStep || st.Amplitude != test.want || dev[audio.PropAmplitude] != test.want {
			t.Errorf("%d steps, step %d: want %d/%v, got %d/%v (device %v)",
				test.steps, test.step, test.wantStep, test.want, st.VolumeStep, st.Amplitude, dev[audio.PropAmplitude])
		}
	}

	c := New(Config{VolumeSteps: 32}, newDevice(), nil, nil)
	if want, got := 32, c.VolumeSteps(); want != got {
		t.Errorf("want %v steps, got %v", want, got)
	}
}

func TestVolumeTablesMonotonic(t *testing.T) {
	for _, table := range [][]float64{volTab21, volTab32} {
		if table[0] != 0 || table[len(table)-1] != 1 {
			t.Errorf("%d step table should run from 0 to 1", len(table))
		}
		for i := 1; i < len(table); i++ {
			if table[i] <= table[i-1] {
				t.Errorf("%d step table not increasing at %d", len(table), i)
			}
		}
	}
}

func TestSpeed(t *testing.T) {
	out := &outbox{}
	var speeds []int
	c := New(testConfig, newDevice(), out.send, func(wpm int) { speeds = append(speeds, wpm) })

	c.SetSpeed(20)
	c.SetSpeed(20)
	c.SetSpeed(21)
	want := []midi.Message{
		midi.ControlChange(1, 3, 41),
		midi.ControlChange(1, 3, 44),
	}
	if got := out.take(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
	if want := []int{20, 20, 21}; !reflect.DeepEqual(want, speeds) {
		t.Errorf("want speeds %v, got %v", want, speeds)
	}
	if want, got := 21, c.State().Speed; want != got {
		t.Errorf("want speed %v, got %v", want, got)
	}
}

func TestReportRetriedAfterError(t *testing.T) {
	out := &outbox{err: errors.New("port closed")}
	c := New(testConfig, newDevice(), out.send, nil)
	c.SetSpeed(20)
	out.err = nil
	c.SetSpeed(20)
	if want, got := []midi.Message{midi.ControlChange(1, 3, 41)}, out.take(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestPitchReport(t *testing.T) {
	out := &outbox{}
	cfg := testConfig
	cfg.PitchCtrl = 5
	dev := newDevice()
	c := New(cfg, dev, out.send, nil)

	c.SetFrequency(800)
	if want, got := 800.0, dev[audio.PropFrequency]; want != got {
		t.Errorf("want frequency %v, got %v", want, got)
	}
	if want, got := []midi.Message{midi.ControlChange(1, 5, 85)}, out.take(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}

	cfg.PitchCtrl = -1
	c = New(cfg, dev, out.send, nil)
	c.SetFrequency(900)
	if got := out.take(); len(got) != 0 {
		t.Errorf("want no pitch report, got %v", got)
	}
}

func TestKey(t *testing.T) {
	out := &outbox{}
	dev := newDevice()
	c := New(testConfig, dev, out.send, nil)

	c.Key(true)
	c.Key(true)
	if dev[audio.PropTone] != true {
		t.Error("want tone on after key down")
	}
	c.Key(false)
	if dev[audio.PropTone] != false {
		t.Error("want tone off after key up")
	}
	want := []midi.Message{midi.NoteOn(1, 1, 127), midi.NoteOff(1, 1)}
	if got := out.take(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestKeySilent(t *testing.T) {
	out := &outbox{}
	dev := newDevice()
	c := New(testConfig, dev, out.send, nil)
	c.SetVolumeStep(0)

	c.Key(true)
	if dev[audio.PropTone] != false {
		t.Error("tone should stay off at zero volume")
	}
	if want, got := []midi.Message{midi.NoteOn(1, 1, 127)}, out.take(); !reflect.DeepEqual(want, got) {
		t.Errorf("key notification should still be sent: want %v, got %v", want, got)
	}

	c.SetVolumeStep(20)
	c.Key(true)
	if dev[audio.PropTone] != true {
		t.Error("want tone on once the volume is up")
	}
	c.SetAmplitude(0)
	if dev[audio.PropTone] != false {
		t.Error("want tone off when the volume drops to zero while keyed")
	}
	if st := c.State(); st.VolumeStep != -1 || st.Amplitude != 0 {
		t.Errorf("want direct amplitude without a volume step, got %+v", st)
	}
}

func TestPTT(t *testing.T) {
	out := &outbox{}
	dev := newDevice()
	c := New(testConfig, dev, out.send, nil)

	c.PTT(true)
	if dev[audio.PropMute] != true {
		t.Error("want pass-through muted during PTT")
	}
	c.SetMuteOnPTT(false)
	if dev[audio.PropMute] != false {
		t.Error("want mute lifted when mute on PTT is disabled")
	}
	c.SetMuteOnPTT(true)
	if dev[audio.PropMute] != true {
		t.Error("want mute restored while PTT is active")
	}
	c.PTT(false)
	if dev[audio.PropMute] != false {
		t.Error("want mute lifted after PTT")
	}
	want := []midi.Message{midi.NoteOn(1, 2, 127), midi.NoteOff(1, 2)}
	if got := out.take(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestNotificationsDisabled(t *testing.T) {
	out := &outbox{}
	cfg := testConfig
	cfg.Channel = -1
	c := New(cfg, newDevice(), out.send, nil)
	c.Key(true)
	c.PTT(true)
	c.SetSpeed(25)
	if got := out.take(); len(got) != 0 {
		t.Errorf("want no messages on a disabled channel, got %v", got)
	}

	cfg = testConfig
	cfg.CWNote = -1
	c = New(cfg, newDevice(), out.send, nil)
	c.Key(true)
	if got := out.take(); len(got) != 0 {
		t.Errorf("want no key notification without a note, got %v", got)
	}
}

func TestMasterVolume(t *testing.T) {
	dev := newDevice()
	c := New(testConfig, dev, nil, nil)
	c.SetMasterVolume(1.5)
	if want, got := 1.0, dev[audio.PropMaster]; want != got {
		t.Errorf("want master %v, got %v", want, got)
	}
	c.SetMasterVolume(0.25)
	if want, got := 0.25, c.State().Master; want != got {
		t.Errorf("want master %v, got %v", want, got)
	}
}
