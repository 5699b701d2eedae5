package audio

import (
	"fmt"
	"sync/atomic"
)

// Property keys shared between the control side and the audio callback.
const (
	PropFrequency = "freq"      // side tone frequency in Hz
	PropAmplitude = "amplitude" // side tone amplitude 0..1
	PropMaster    = "master"    // output volume 0..1
	PropTone      = "tone"      // key down
	PropMute      = "mute"      // silence the pass-through audio
)

// Device is anything whose properties can be changed by name.
type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

// Props stores device configuration that can be updated without locks. All properties
// should be registered before any reads take place. Each property has a single writer
// (the control side) and is read by the audio callback; no invariant spans two properties.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	set, ok := p.setters[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Register adds a new property. Registering an existing key returns the
// property already stored under it.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	if prop, ok := p.properties[key]; ok {
		return prop, nil
	}
	var prop atomic.Value
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, set(init, &prop)
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

type setter func(val interface{}, dest *atomic.Value) error

var (
	setFrequency = clampFloat64(0, SampleRate/2)
	setLevel     = clampFloat64(0, 1)
)

// clampFloat64 stores numeric values limited to [min, max]. Out of range
// values are clamped rather than rejected.
func clampFloat64(min, max float64) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("value is not a float64: %v", v)
		}
		if f < min {
			f = min
		}
		if f > max {
			f = max
		}
		dest.Store(f)
		return nil
	}
}

func setBool(v interface{}, dest *atomic.Value) error {
	if b, ok := v.(bool); ok {
		dest.Store(b)
		return nil
	}
	return fmt.Errorf("value is not a bool: %v", v)
}
