package control

import (
	"context"
	"time"
)

// AnalogReader returns the raw reading of an analog pin.
type AnalogReader interface {
	Read(pin int) int
}

// Channel is a monitored analog input and the function receiving its steps.
type Channel struct {
	*Denoiser
	Apply func(step int)
}

// Loop is the cooperative control poll loop. Every tick drains all pending
// control messages and samples at most one analog channel, cycling through
// the channels in order, with at least Spacing between two samples.
type Loop struct {
	source   Source
	decoder  *Decoder
	reader   AnalogReader
	channels []Channel
	spacing  time.Duration

	next int
	last time.Time
}

func NewLoop(source Source, decoder *Decoder, reader AnalogReader, spacing time.Duration, channels ...Channel) *Loop {
	return &Loop{
		source:   source,
		decoder:  decoder,
		reader:   reader,
		channels: channels,
		spacing:  spacing,
	}
}

func (l *Loop) Tick(now time.Time) {
	if l.source != nil && l.decoder != nil {
		for msg, ok := l.source.Next(); ok; msg, ok = l.source.Next() {
			l.decoder.Handle(msg)
		}
	}
	if len(l.channels) == 0 || l.reader == nil {
		return
	}
	if !l.last.IsZero() && now.Sub(l.last) < l.spacing {
		return
	}
	l.last = now
	ch := l.channels[l.next]
	l.next = (l.next + 1) % len(l.channels)
	if !ch.Enabled() {
		return
	}
	if step, ok := ch.Update(l.reader.Read(ch.Pin())); ok && ch.Apply != nil {
		ch.Apply(step)
	}
}

// Run calls Tick every interval until ctx is done.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Tick(now)
		}
	}
}
