// cmd/devices.go
package cmd

import (
	"fmt"

	"github.com/ColonelBlimp/cwbeacon/internal/audio"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio playback devices",
	Long: `Lists the playback devices the audio backend can see, with the index
to use for the device_index setting or the --device flag.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	tone := audio.New(audio.DefaultConfig())
	if err := tone.Init(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	defer func() {
		_ = tone.Close()
	}()

	devices, err := tone.ListDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no playback devices found")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Available playback devices:")
	for i, d := range devices {
		fmt.Fprintf(cmd.OutOrStdout(), "%3d: %s\n", i, d.Name())
	}
	return nil
}
