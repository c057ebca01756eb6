// internal/beacon/beacon.go
// Package beacon drives Morse message playback: one player phase-step
// per tick, fan-out to the output sinks, and message switches applied
// only between play-throughs.
package beacon

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/ColonelBlimp/cwbeacon/internal/cw"
	"github.com/ColonelBlimp/cwbeacon/internal/output"
)

// Messages is the fixed rotation the beacon plays, in order.
var Messages = []string{"ss", "oo", "sos"}

var (
	// ErrInvalidTickPeriod indicates the tick period must be positive.
	ErrInvalidTickPeriod = errors.New("tick period must be positive")
	// ErrNoSinks indicates Run was called with no output sinks attached.
	ErrNoSinks = errors.New("at least one output sink is required")
)

// Config holds beacon configuration.
type Config struct {
	// TickPeriod is the interval between phase-steps (from config: tick_period_ms)
	TickPeriod time.Duration
	// Debug enables logging of line transitions and message switches (from config: debug)
	Debug bool
}

// Status is a point-in-time snapshot of the playback loop, safe to
// read from any goroutine.
type Status struct {
	// Index is the rotation index of the playing message
	Index int
	// Message is the text of the playing message
	Message string
	// Requested is the index the rotation switches to at the next boundary
	Requested int
	// Pending is true while a switch request waits for that boundary
	Pending bool
	// Mask is the line state rendered by the latest tick
	Mask cw.Mask
	// Ticks counts phase-steps since the beacon started
	Ticks uint64
	// Plays counts completed play-throughs
	Plays uint64
	// Switches counts applied message switches
	Switches uint64
	// Requests counts accepted navigation requests
	Requests uint64
	// Ignored counts navigation requests dropped by the input latch
	Ignored uint64
}

// Beacon ties the player, the selector and the output sinks together.
// Run owns the playback state; RequestNext and RequestPrevious are the
// only methods safe to call from other goroutines while it runs.
type Beacon struct {
	config   Config
	player   *cw.Player
	sel      *Selector
	sinks    []output.Sink
	rotation []string

	lastMask cw.Mask

	ticks    atomic.Uint64
	plays    atomic.Uint64
	switches atomic.Uint64
	requests atomic.Uint64
	ignored  atomic.Uint64

	status atomic.Pointer[Status]
}

// New creates a beacon over the given rotation. Sinks can be attached
// here or via AddSink before Run starts.
func New(cfg Config, messages []string, sinks ...output.Sink) (*Beacon, error) {
	if cfg.TickPeriod <= 0 {
		return nil, ErrInvalidTickPeriod
	}
	player, err := cw.NewPlayer(messages)
	if err != nil {
		return nil, err
	}
	sel, err := NewSelector(player.Count())
	if err != nil {
		return nil, err
	}

	b := &Beacon{
		config:   cfg,
		player:   player,
		sel:      sel,
		sinks:    sinks,
		rotation: append([]string(nil), messages...),
	}
	b.publishStatus(0)
	return b, nil
}

// Rotation returns a copy of the message rotation, in playback order.
func (b *Beacon) Rotation() []string {
	return append([]string(nil), b.rotation...)
}

// AddSink attaches another output sink. Not safe once Run has started.
func (b *Beacon) AddSink(s output.Sink) {
	b.sinks = append(b.sinks, s)
}

// Run steps the beacon at the configured tick period until the context
// is cancelled, then forces all lines off and returns. The ticker
// channel is the only tick source, so playback state is touched from
// this goroutine alone.
func (b *Beacon) Run(ctx context.Context) error {
	if len(b.sinks) == 0 {
		return ErrNoSinks
	}

	if b.config.Debug {
		log.Printf("beacon: %d messages, tick period %v", b.player.Count(), b.config.TickPeriod)
	}

	ticker := time.NewTicker(b.config.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.setOutputs(0)
			if b.config.Debug {
				log.Printf("beacon: stopped after %d ticks, %d play-throughs, %d switches",
					b.ticks.Load(), b.plays.Load(), b.switches.Load())
			}
			return nil
		case <-ticker.C:
			b.Step()
		}
	}
}

// Step advances playback by one tick: render the mask, fan it out, and
// at a play-through boundary apply a pending message switch. It must
// only be called from the goroutine that owns the tick source; Run
// does this.
func (b *Beacon) Step() {
	mask := b.player.Step()
	b.setOutputs(mask)
	ticks := b.ticks.Add(1)

	if b.config.Debug && mask != b.lastMask {
		log.Printf("beacon: tick %d outputs %02b (message %d %q)",
			ticks, mask, b.player.Index(), b.player.Message())
	}
	b.lastMask = mask

	if b.player.Finished() {
		b.plays.Add(1)
		if idx, switched := b.sel.Apply(); switched {
			b.player.SetMessage(idx)
			b.switches.Add(1)
			if b.config.Debug {
				log.Printf("beacon: switched to message %d %q", idx, b.player.Message())
			}
		}
	}

	b.publishStatus(mask)
}

// RequestNext asks for the following message once the current
// play-through ends. Safe from any goroutine; requests beyond the
// first are ignored until the switch is applied.
func (b *Beacon) RequestNext() {
	if b.sel.Next() {
		b.requests.Add(1)
	} else {
		b.ignored.Add(1)
	}
}

// RequestPrevious asks for the preceding message once the current
// play-through ends. Safe from any goroutine.
func (b *Beacon) RequestPrevious() {
	if b.sel.Previous() {
		b.requests.Add(1)
	} else {
		b.ignored.Add(1)
	}
}

// Status returns the latest playback snapshot.
func (b *Beacon) Status() Status {
	return *b.status.Load()
}

func (b *Beacon) setOutputs(mask cw.Mask) {
	for _, s := range b.sinks {
		s.SetOutputs(mask)
	}
}

func (b *Beacon) publishStatus(mask cw.Mask) {
	st := &Status{
		Index:     b.player.Index(),
		Message:   b.player.Message(),
		Requested: b.sel.Requested(),
		Pending:   b.sel.Pending(),
		Mask:      mask,
		Ticks:     b.ticks.Load(),
		Plays:     b.plays.Load(),
		Switches:  b.switches.Load(),
		Requests:  b.requests.Load(),
		Ignored:   b.ignored.Load(),
	}
	b.status.Store(st)
}
