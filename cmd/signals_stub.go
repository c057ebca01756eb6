//go:build !unix

// cmd/signals_stub.go
package cmd

import (
	"context"

	"github.com/ColonelBlimp/cwbeacon/internal/beacon"
)

// watchNavigationSignals is a no-op on platforms without SIGUSR1 and
// SIGUSR2. Message selection still works through the simulator keys
// and GPIO buttons.
func watchNavigationSignals(ctx context.Context, bcn *beacon.Beacon) {}
