// internal/output/console.go
package output

import (
	"fmt"
	"io"

	"github.com/ColonelBlimp/cwbeacon/internal/cw"
)

// Format renders a mask as one console cell per line, dit first.
func Format(mask cw.Mask) string {
	dit, dah := ' ', ' '
	if mask&cw.Primary != 0 {
		dit = '*'
	}
	if mask&cw.Secondary != 0 {
		dah = '*'
	}
	return fmt.Sprintf("dit[%c] dah[%c]", dit, dah)
}

// Console prints line transitions as text, one line per change. Masks
// are handed to a writer goroutine over a buffered channel; when the
// writer falls behind (a stalled pipe, a slow terminal) ticks are
// dropped rather than letting SetOutputs block the playback loop.
type Console struct {
	ch   chan cw.Mask
	done chan struct{}
}

// NewConsole creates a console sink writing to w and starts its writer.
func NewConsole(w io.Writer) *Console {
	c := &Console{
		ch:   make(chan cw.Mask, 64),
		done: make(chan struct{}),
	}
	go c.write(w)
	return c
}

func (c *Console) write(w io.Writer) {
	defer close(c.done)
	var last cw.Mask
	started := false
	for mask := range c.ch {
		if started && mask == last {
			continue
		}
		started, last = true, mask
		_, _ = fmt.Fprintln(w, Format(mask))
	}
}

// SetOutputs queues the mask for printing, dropping it when the writer
// is behind.
func (c *Console) SetOutputs(mask cw.Mask) {
	select {
	case c.ch <- mask:
	default:
	}
}

// Close stops the writer goroutine and waits for queued output to
// drain.
func (c *Console) Close() error {
	close(c.ch)
	<-c.done
	return nil
}
