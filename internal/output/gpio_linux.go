// internal/output/gpio_linux.go
package output

import (
	"context"
	"fmt"
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/ColonelBlimp/cwbeacon/internal/cw"
)

// Button polling cadence. 10 ms resolves any press a human can
// produce; the debounce window swallows contact chatter.
const (
	buttonPollInterval = 10 * time.Millisecond
	buttonDebounce     = 50 * time.Millisecond
)

// GPIO drives the two indicator lines on Raspberry Pi header pins and
// optionally watches two navigation buttons. Buttons are wired to
// ground with the internal pull-up enabled, so a press reads low.
type GPIO struct {
	config GPIOConfig
	dit    rpio.Pin
	dah    rpio.Pin
}

// NewGPIO maps the GPIO range and claims the output pins, initially
// off, and the button pins as pulled-up inputs.
func NewGPIO(cfg GPIOConfig) (*GPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	g := &GPIO{
		config: cfg,
		dit:    rpio.Pin(cfg.DitPin),
		dah:    rpio.Pin(cfg.DahPin),
	}
	g.dit.Output()
	g.dah.Output()
	g.write(g.dit, false)
	g.write(g.dah, false)

	for _, pin := range []int{cfg.NextPin, cfg.PrevPin} {
		if pin == NoPin {
			continue
		}
		p := rpio.Pin(pin)
		p.Input()
		p.PullUp()
	}
	return g, nil
}

func (g *GPIO) write(pin rpio.Pin, on bool) {
	if on != g.config.ActiveLow {
		pin.High()
	} else {
		pin.Low()
	}
}

// SetOutputs drives both lines from the mask. Pin writes hit mapped
// memory and never block.
func (g *GPIO) SetOutputs(mask cw.Mask) {
	g.write(g.dit, mask&cw.Primary != 0)
	g.write(g.dah, mask&cw.Secondary != 0)
}

// Watch polls the navigation buttons until the context is cancelled,
// calling onNext or onPrevious once per press. It returns immediately
// when no button pins are wired.
func (g *GPIO) Watch(ctx context.Context, onNext, onPrevious func()) {
	if !g.config.HasButtons() {
		return
	}

	next := newButton(g.config.NextPin, onNext)
	prev := newButton(g.config.PrevPin, onPrevious)

	ticker := time.NewTicker(buttonPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			next.poll(now)
			prev.poll(now)
		}
	}
}

// Close forces both lines off and unmaps the GPIO range.
func (g *GPIO) Close() error {
	g.write(g.dit, false)
	g.write(g.dah, false)
	return rpio.Close()
}

// button turns level reads into debounced press events.
type button struct {
	pin     rpio.Pin
	wired   bool
	fire    func()
	pressed bool
	lastAt  time.Time
}

func newButton(pin int, fire func()) *button {
	if pin == NoPin {
		return &button{}
	}
	return &button{pin: rpio.Pin(pin), wired: true, fire: fire}
}

func (b *button) poll(now time.Time) {
	if !b.wired {
		return
	}
	pressed := b.pin.Read() == rpio.Low
	if pressed == b.pressed {
		return
	}
	b.pressed = pressed
	if pressed && now.Sub(b.lastAt) >= buttonDebounce {
		b.lastAt = now
		b.fire()
	}
}
