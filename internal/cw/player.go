// internal/cw/player.go
package cw

import "errors"

// ErrNoMessages indicates the player was given an empty rotation.
var ErrNoMessages = errors.New("at least one message is required")

// Player walks one message of a fixed rotation a single phase-step at a
// time. Each Step renders the output mask for the current tick and then
// advances the cursor, so a caller driving Step from a periodic tick
// gets standards-shaped keying without ever sleeping inside the player.
//
// Player is not safe for concurrent use. Step, SetMessage and Reset
// must all be called from the single goroutine that owns the tick
// source.
type Player struct {
	messages []string

	// Playback cursor: message index, character within the message,
	// symbol within the character's sequence, tick within the symbol.
	index int
	char  int
	sym   int
	phase int

	finished bool
}

// NewPlayer creates a player over the given rotation. The slice is
// copied; the rotation cannot change for the life of the player.
func NewPlayer(messages []string) (*Player, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	msgs := make([]string, len(messages))
	copy(msgs, messages)
	return &Player{messages: msgs}, nil
}

// Step advances playback by exactly one phase-step and returns the
// output mask for that tick. A message plays as its characters in
// order, a character gap after every character, and a terminal word gap
// closing the play-through. The step that completes the word gap sets
// the finished flag and rewinds the cursor; the next Step clears the
// flag again, so Finished is true only in the window between two
// play-throughs.
func (p *Player) Step() Mask {
	p.finished = false
	msg := p.messages[p.index]

	// Past the last character: the terminal word gap.
	if p.char >= len(msg) {
		mask := WordGap.Mask(p.phase)
		p.phase++
		if p.phase >= WordGapTicks {
			p.finished = true
			p.char, p.sym, p.phase = 0, 0, 0
		}
		return mask
	}

	// Messages are treated as bytes. Anything beyond ASCII letters maps
	// to Space and plays as a gap, so the walk stays total.
	seq := Lookup(rune(msg[p.char]))

	// Past the last symbol: the gap before the next character.
	if p.sym >= len(seq) {
		mask := CharGap.Mask(p.phase)
		p.phase++
		if p.phase >= CharGapTicks {
			p.char++
			p.sym, p.phase = 0, 0
		}
		return mask
	}

	sym := SymbolFor(seq[p.sym])
	mask := sym.Mask(p.phase)
	p.phase++
	if p.phase >= sym.Ticks() {
		p.sym++
		p.phase = 0
	}
	return mask
}

// Finished reports whether the previous Step completed a play-through.
func (p *Player) Finished() bool {
	return p.finished
}

// Index returns the rotation index of the message currently playing.
func (p *Player) Index() int {
	return p.index
}

// Message returns the text of the message currently playing.
func (p *Player) Message() string {
	return p.messages[p.index]
}

// Count returns the number of messages in the rotation.
func (p *Player) Count() int {
	return len(p.messages)
}

// SetMessage switches the rotation to the message at index i, which
// must be a valid rotation index. Call it only at a play-through
// boundary, immediately after Finished reports true: the cursor is
// already rewound there, so the new message starts cleanly on the next
// Step.
func (p *Player) SetMessage(i int) {
	p.index = i
}

// Reset rewinds playback to the start of the current message.
func (p *Player) Reset() {
	p.char, p.sym, p.phase = 0, 0, 0
	p.finished = false
}
