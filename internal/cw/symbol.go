// internal/cw/symbol.go
package cw

// Mask is the instantaneous state of the two indicator lines, one bit
// per line.
type Mask uint8

const (
	// Primary is bit 0, keyed for the first tick of every dit.
	Primary Mask = 1 << iota
	// Secondary is bit 1, keyed for the first tick of every dah.
	Secondary
)

// Symbol durations in ticks. One tick is one period of the tick source
// driving the player. The gaps run one tick longer than the element
// they follow would suggest because the trailing off-ticks of dits and
// dahs already provide the inter-element spacing.
const (
	// DitTicks is the duration of a dit: one keyed tick, one silent.
	DitTicks = 2
	// DahTicks is the duration of a dah: one keyed tick, three silent.
	DahTicks = 2 * DitTicks
	// CharGapTicks is the silence between two characters of a message.
	CharGapTicks = DitTicks + 1
	// WordGapTicks is the silence after a full message and the duration
	// of any unmapped character.
	WordGapTicks = DahTicks + 1
)

// Symbol is a single playback unit: a keyed element or a silent gap.
type Symbol int

const (
	// Dit keys the primary line for one tick.
	Dit Symbol = iota
	// Dah keys the secondary line for one tick.
	Dah
	// CharGap is the silence separating characters.
	CharGap
	// WordGap is the silence separating messages.
	WordGap
)

// SymbolFor maps one byte of a Lookup sequence to its Symbol. Anything
// that is not a dot or a dash, the Space sentinel in particular, plays
// as a word gap so unmapped characters render as silence instead of
// stalling the player.
func SymbolFor(b byte) Symbol {
	switch b {
	case '.':
		return Dit
	case '-':
		return Dah
	default:
		return WordGap
	}
}

// Ticks returns how many ticks the symbol occupies.
func (s Symbol) Ticks() int {
	switch s {
	case Dit:
		return DitTicks
	case Dah:
		return DahTicks
	case CharGap:
		return CharGapTicks
	default:
		return WordGapTicks
	}
}

// Mask returns the line state for the given zero-based phase within the
// symbol. Dits key the primary line and dahs the secondary line on
// their first tick only; every later phase, and every gap phase, is
// silent.
func (s Symbol) Mask(phase int) Mask {
	if phase != 0 {
		return 0
	}
	switch s {
	case Dit:
		return Primary
	case Dah:
		return Secondary
	default:
		return 0
	}
}

// String names the symbol for logs and test failures.
func (s Symbol) String() string {
	switch s {
	case Dit:
		return "dit"
	case Dah:
		return "dah"
	case CharGap:
		return "char-gap"
	case WordGap:
		return "word-gap"
	default:
		return "unknown"
	}
}
