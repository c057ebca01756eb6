// internal/cw/morse.go
// Package cw implements CW (Morse code) message playback as a
// tick-driven state machine: a character table, a symbol encoder and a
// player that advances exactly one phase-step per tick.
package cw

// Space is the sequence Lookup returns for any character outside the
// table, the explicit space character included. It is a sentinel rather
// than a keyable sequence: the player renders it as a word gap.
const Space = " "

// codes maps the 26 Latin letters, in order, to their International
// Morse Code sequences.
var codes = [26]string{
	".-",   // a
	"-...", // b
	"-.-.", // c
	"-..",  // d
	".",    // e
	"..-.", // f
	"--.",  // g
	"....", // h
	"..",   // i
	".---", // j
	"-.-",  // k
	".-..", // l
	"--",   // m
	"-.",   // n
	"---",  // o
	".--.", // p
	"--.-", // q
	".-.",  // r
	"...",  // s
	"-",    // t
	"..-",  // u
	"...-", // v
	".--",  // w
	"-..-", // x
	"-.--", // y
	"--..", // z
}

// Lookup returns the dot/dash sequence for a letter. Upper case folds
// to lower; any character without a mapping returns Space. Lookup is
// total: it never fails and never allocates.
func Lookup(r rune) string {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r < 'a' || r > 'z' {
		return Space
	}
	return codes[r-'a']
}
