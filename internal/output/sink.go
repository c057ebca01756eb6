// internal/output/sink.go
// Package output delivers beacon line states to physical and virtual
// indicators.
package output

import "github.com/ColonelBlimp/cwbeacon/internal/cw"

// Sink receives one line-state mask per tick.
//
// SetOutputs runs on the playback goroutine's hot path and must not
// block; implementations hand off or drop instead of waiting. Close
// releases the underlying device and is called once, after the last
// SetOutputs.
type Sink interface {
	SetOutputs(mask cw.Mask)
	Close() error
}
