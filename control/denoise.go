package control

// DisabledPin marks an analog channel that is not connected.
const DisabledPin = -1

type DenoiseConfig struct {
	Weight int // moving average weight, a power of two
	MaxRaw int // largest raw reading, e.g. 1023 or 4095
	Steps  int // number of reported steps, e.g. 21 or 32

	// Margin is how far the filtered value has to move away from the middle
	// of the last reported bucket before a new step is reported. Zero selects
	// five eighths of a bucket width.
	Margin int
}

func (c DenoiseConfig) withDefaults() DenoiseConfig {
	if c.Weight <= 0 {
		c.Weight = 16
	}
	if c.MaxRaw <= 0 {
		c.MaxRaw = 1023
	}
	if c.Steps <= 0 {
		c.Steps = 21
	}
	return c
}

// Denoiser turns a noisy analog reading into a stable step. An exponential
// moving average removes sample to sample jitter, and a hysteresis band
// around the last reported step stops chatter near bucket boundaries.
type Denoiser struct {
	pin      int
	cfg      DenoiseConfig
	width    int // bucket width in filtered units
	filtered int // 0..Weight*MaxRaw
	last     int // last reported step, -1 before the first report
}

func NewDenoiser(pin int, cfg DenoiseConfig) *Denoiser {
	cfg = cfg.withDefaults()
	width := cfg.Weight * (cfg.MaxRaw + 1) / cfg.Steps
	if width < 1 {
		width = 1
	}
	if cfg.Margin <= 0 {
		cfg.Margin = width/2 + width/8
	}
	return &Denoiser{pin: pin, cfg: cfg, width: width, last: -1}
}

func (d *Denoiser) Pin() int { return d.pin }

func (d *Denoiser) Enabled() bool { return d.pin >= 0 }

// Step returns the last reported step, or -1 if none has been reported.
func (d *Denoiser) Step() int { return d.last }

// Update feeds one raw reading and reports the new step if it changed.
// The first reading primes the filter and is always reported.
func (d *Denoiser) Update(raw int) (step int, ok bool) {
	if !d.Enabled() {
		return 0, false
	}
	if raw < 0 {
		raw = 0
	} else if raw > d.cfg.MaxRaw {
		raw = d.cfg.MaxRaw
	}
	w := d.cfg.Weight
	if d.last < 0 {
		d.filtered = raw * w
	} else {
		d.filtered = d.filtered*(w-1)/w + raw
	}

	step = d.filtered / d.width
	if step >= d.cfg.Steps {
		step = d.cfg.Steps - 1
	}
	if d.last >= 0 {
		mid := d.last*d.width + d.width/2
		if abs(d.filtered-mid) <= d.cfg.Margin || step == d.last {
			return 0, false
		}
	}
	d.last = step
	return step, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
