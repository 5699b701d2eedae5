package control

import (
	"log/slog"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2"
)

// Source yields pending control messages without blocking.
type Source interface {
	Next() (midi.Message, bool)
}

// Inbox buffers messages arriving on a transport goroutine until the poll
// loop drains them. When full, new messages are dropped.
type Inbox struct {
	msgs    chan midi.Message
	dropped atomic.Uint64
}

func NewInbox(size int) *Inbox {
	return &Inbox{msgs: make(chan midi.Message, size)}
}

// Push queues msg. It never blocks.
func (in *Inbox) Push(msg midi.Message) {
	select {
	case in.msgs <- msg:
	default:
		if n := in.dropped.Add(1); n&(n-1) == 0 {
			slog.Warn("control: inbox full, dropping messages", "dropped", n)
		}
	}
}

func (in *Inbox) Next() (midi.Message, bool) {
	select {
	case msg := <-in.msgs:
		return msg, true
	default:
		return nil, false
	}
}

// Dropped returns the number of messages lost to a full inbox.
func (in *Inbox) Dropped() uint64 { return in.dropped.Load() }
