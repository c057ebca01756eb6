//go:build unix

// cmd/signals_unix.go
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ColonelBlimp/cwbeacon/internal/beacon"
)

// watchNavigationSignals maps SIGUSR1 to the next message and SIGUSR2
// to the previous one, for headless installs driven by kill(1). The
// watcher goroutine exits when ctx is done.
func watchNavigationSignals(ctx context.Context, bcn *beacon.Beacon) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGUSR1:
					bcn.RequestNext()
				case syscall.SIGUSR2:
					bcn.RequestPrevious()
				}
			}
		}
	}()
}
