// internal/output/gpio.go
package output

import "errors"

// ErrGPIOUnsupported indicates GPIO outputs were requested on a
// platform without memory-mapped GPIO support.
var ErrGPIOUnsupported = errors.New("gpio outputs require linux")

// NoPin disables an optional pin assignment.
const NoPin = -1

// GPIOConfig selects the header pins for the beacon, BCM numbering.
type GPIOConfig struct {
	// DitPin drives the primary (dit) line (from config: gpio_dit_pin)
	DitPin int
	// DahPin drives the secondary (dah) line (from config: gpio_dah_pin)
	DahPin int
	// NextPin reads the "next message" button, NoPin to disable (from config: gpio_next_pin)
	NextPin int
	// PrevPin reads the "previous message" button, NoPin to disable (from config: gpio_prev_pin)
	PrevPin int
	// ActiveLow inverts both output lines for indicators wired to sink
	// current instead of sourcing it (from config: gpio_active_low)
	ActiveLow bool
}

// HasButtons reports whether at least one navigation button is wired.
func (c GPIOConfig) HasButtons() bool {
	return c.NextPin != NoPin || c.PrevPin != NoPin
}
