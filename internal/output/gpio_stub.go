//go:build !linux

// internal/output/gpio_stub.go
package output

import (
	"context"

	"github.com/ColonelBlimp/cwbeacon/internal/cw"
)

// GPIO is unavailable off linux; NewGPIO always fails and the
// remaining methods exist so callers compile everywhere.
type GPIO struct{}

// NewGPIO reports that this platform has no GPIO support.
func NewGPIO(cfg GPIOConfig) (*GPIO, error) {
	return nil, ErrGPIOUnsupported
}

// SetOutputs is a no-op.
func (g *GPIO) SetOutputs(mask cw.Mask) {}

// Watch is a no-op.
func (g *GPIO) Watch(ctx context.Context, onNext, onPrevious func()) {}

// Close is a no-op.
func (g *GPIO) Close() error { return nil }
