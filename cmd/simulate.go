// cmd/simulate.go
package cmd

import (
	"context"
	"log"

	"github.com/ColonelBlimp/cwbeacon/internal/audio"
	"github.com/ColonelBlimp/cwbeacon/internal/beacon"
	"github.com/ColonelBlimp/cwbeacon/internal/config"
	"github.com/ColonelBlimp/cwbeacon/internal/recovery"
	"github.com/ColonelBlimp/cwbeacon/internal/sim"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the beacon with a terminal panel instead of hardware",
	Long: `Runs the beacon against a terminal panel showing the dit and dah lamps,
the message rotation and the play counters. The audio sidetone plays as
well when audio_enabled is set.

Keys: n selects the next message, p the previous one, q quits.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	bcn, err := beacon.New(beacon.Config{
		TickPeriod: settings.TickPeriod(),
		// Debug logging would write over the panel
		Debug: false,
	}, beacon.Messages)
	if err != nil {
		return err
	}

	// Audio is best effort here: a workstation without a playback
	// device still gets the panel.
	var tone *audio.Sidetone
	if settings.AudioEnabled {
		tone = audio.New(audio.Config{
			DeviceIndex:  settings.DeviceIndex,
			SampleRate:   uint32(settings.SampleRate),
			BufferSize:   uint32(settings.BufferSize),
			DitFrequency: settings.DitFrequency,
			DahFrequency: settings.DahFrequency,
		})
		if err := tone.Init(); err != nil {
			log.Printf("sidetone disabled: %v", err)
			tone = nil
		} else if err := tone.Start(); err != nil {
			log.Printf("sidetone disabled: %v", err)
			_ = tone.Close()
			tone = nil
		}
	}

	panel, err := sim.New(bcn)
	if err != nil {
		if tone != nil {
			_ = tone.Close()
		}
		return err
	}

	bcn.AddSink(panel)
	if tone != nil {
		bcn.AddSink(tone)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	beaconErr := make(chan error, 1)
	go func() {
		defer recovery.HandlePanicFunc(func() {
			_ = panel.Close()
		})
		beaconErr <- bcn.Run(ctx)
	}()

	// The panel owns the main goroutine until the user quits.
	runErr := panel.Run(ctx)

	cancel()
	berr := <-beaconErr

	_ = panel.Close()
	if tone != nil {
		_ = tone.Close()
	}

	if runErr != nil {
		return runErr
	}
	return berr
}
