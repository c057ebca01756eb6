// internal/sim/panel.go
// Package sim renders the beacon as a terminal panel: two lamp cells
// for the indicator lines, the message rotation, and live counters,
// with keys feeding navigation requests back into the beacon.
package sim

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/ColonelBlimp/cwbeacon/internal/beacon"
	"github.com/ColonelBlimp/cwbeacon/internal/cw"
)

const (
	lampOn  = '●'
	lampOff = ' '
)

var (
	styleBase    = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleDit     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleDah     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePending = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Panel is the terminal front end. It implements the output sink
// contract: SetOutputs stores the mask and nudges the event loop, so
// the lamps redraw on the next event rather than from the playback
// goroutine.
type Panel struct {
	screen   tcell.Screen
	bcn      *beacon.Beacon
	messages []string
	mask     atomic.Uint32
}

// New opens the terminal screen for the given beacon.
func New(b *beacon.Beacon) (*Panel, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return newPanel(screen, b), nil
}

func newPanel(screen tcell.Screen, b *beacon.Beacon) *Panel {
	return &Panel{screen: screen, bcn: b, messages: b.Rotation()}
}

// SetOutputs records the mask and posts a redraw event. A full event
// queue drops the post; the next event redraws anyway.
func (p *Panel) SetOutputs(mask cw.Mask) {
	p.mask.Store(uint32(mask))
	_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Close restores the terminal.
func (p *Panel) Close() error {
	p.screen.Fini()
	return nil
}

// Run owns the screen event loop until the user quits (q, Esc or
// Ctrl-C) or the context is cancelled. Keys n and p request the next
// and previous message.
func (p *Panel) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go p.screen.ChannelEvents(events, quit)
	defer close(quit)

	p.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if p.handleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				p.screen.Sync()
			}
			p.draw()
		}
	}
}

// handleKey reports whether the key asks to quit.
func (p *Panel) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Rune() == 'q' || ev.Rune() == 'Q':
		return true
	case ev.Rune() == 'n' || ev.Rune() == 'N':
		p.bcn.RequestNext()
	case ev.Rune() == 'p' || ev.Rune() == 'P':
		p.bcn.RequestPrevious()
	}
	return false
}

func (p *Panel) draw() {
	st := p.bcn.Status()
	mask := cw.Mask(p.mask.Load())
	s := p.screen

	s.Clear()
	drawText(s, 2, 1, styleTitle, "cwbeacon")

	drawLamp(s, 2, 3, "dit", mask&cw.Primary != 0, styleDit)
	drawLamp(s, 13, 3, "dah", mask&cw.Secondary != 0, styleDah)

	drawText(s, 2, 5, styleDim, "messages")
	for i, msg := range p.messages {
		marker := ' '
		style := styleBase
		if i == st.Index {
			marker = '>'
		}
		line := fmt.Sprintf("%c %d %q", marker, i, msg)
		if st.Pending && i == st.Requested {
			style = stylePending
			line += " *"
		}
		drawText(s, 2, 6+i, style, line)
	}

	row := 7 + len(p.messages)
	drawText(s, 2, row, styleDim,
		fmt.Sprintf("ticks %d  plays %d  switches %d", st.Ticks, st.Plays, st.Switches))
	drawText(s, 2, row+2, styleDim, "n next   p previous   q quit")

	s.Show()
}

func drawLamp(s tcell.Screen, x, y int, label string, on bool, style tcell.Style) {
	drawText(s, x, y, styleBase, label)
	lamp, st := lampOff, styleDim
	if on {
		lamp, st = lampOn, style
	}
	drawText(s, x+len(label)+1, y, st, "("+string(lamp)+")")
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
