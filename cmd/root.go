// cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ColonelBlimp/cwbeacon/internal/audio"
	"github.com/ColonelBlimp/cwbeacon/internal/beacon"
	"github.com/ColonelBlimp/cwbeacon/internal/config"
	"github.com/ColonelBlimp/cwbeacon/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "cwbeacon",
	Short: "CW (Morse code) beacon keying console, audio and GPIO outputs",
	Long: `A Morse code beacon that plays a fixed message rotation and keys dit
and dah output lines on every tick. Outputs can go to the console, an
audio sidetone, Raspberry Pi header pins, or any combination of those.

SIGUSR1 selects the next message and SIGUSR2 the previous one; wired
buttons do the same. A selection takes effect when the current message
finishes its play-through.`,
	RunE:          runBeacon,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("tick", "t", 500, "tick period in milliseconds")
	rootCmd.PersistentFlags().Float64P("frequency", "f", 600, "dit sidetone frequency in Hz")
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	// Bind flags to viper
	viper.BindPFlag("tick_period_ms", rootCmd.PersistentFlags().Lookup("tick"))
	viper.BindPFlag("dit_frequency", rootCmd.PersistentFlags().Lookup("frequency"))
	viper.BindPFlag("device_index", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

func runBeacon(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	bcn, err := beacon.New(beacon.Config{
		TickPeriod: settings.TickPeriod(),
		Debug:      settings.Debug,
	}, beacon.Messages)
	if err != nil {
		return err
	}

	outs, err := buildOutputs(settings)
	if err != nil {
		return err
	}
	defer outs.closeAll()

	if len(outs.sinks) == 0 {
		return errors.New("no outputs enabled: set console_enabled, audio_enabled or gpio_enabled")
	}
	for _, s := range outs.sinks {
		bcn.AddSink(s)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchNavigationSignals(ctx, bcn)
	if outs.gpio != nil && outs.gpioCfg.HasButtons() {
		go outs.gpio.Watch(ctx, bcn.RequestNext, bcn.RequestPrevious)
	}

	log.Printf("beacon running: %d messages, tick period %v", len(bcn.Rotation()), settings.TickPeriod())
	return bcn.Run(ctx)
}

// outputs bundles the attached sinks for shutdown and, when GPIO is
// enabled, the device to watch for button presses.
type outputs struct {
	sinks   []output.Sink
	gpio    *output.GPIO
	gpioCfg output.GPIOConfig
}

func (o *outputs) closeAll() {
	for _, s := range o.sinks {
		_ = s.Close()
	}
}

// buildOutputs constructs the sinks the settings enable. On error any
// sinks already built are closed.
func buildOutputs(settings *config.Settings) (*outputs, error) {
	outs := &outputs{}
	fail := func(err error) (*outputs, error) {
		outs.closeAll()
		return nil, err
	}

	if settings.ConsoleEnabled {
		outs.sinks = append(outs.sinks, output.NewConsole(os.Stdout))
	}

	if settings.AudioEnabled {
		tone := audio.New(audio.Config{
			DeviceIndex:  settings.DeviceIndex,
			SampleRate:   uint32(settings.SampleRate),
			BufferSize:   uint32(settings.BufferSize),
			DitFrequency: settings.DitFrequency,
			DahFrequency: settings.DahFrequency,
		})
		if err := tone.Init(); err != nil {
			return fail(fmt.Errorf("audio init: %w", err))
		}
		if err := tone.Start(); err != nil {
			_ = tone.Close()
			return fail(fmt.Errorf("audio start: %w", err))
		}
		outs.sinks = append(outs.sinks, tone)
	}

	if settings.GPIOEnabled {
		outs.gpioCfg = output.GPIOConfig{
			DitPin:    settings.GPIODitPin,
			DahPin:    settings.GPIODahPin,
			NextPin:   settings.GPIONextPin,
			PrevPin:   settings.GPIOPrevPin,
			ActiveLow: settings.GPIOActiveLow,
		}
		dev, err := output.NewGPIO(outs.gpioCfg)
		if err != nil {
			return fail(fmt.Errorf("gpio init: %w", err))
		}
		outs.gpio = dev
		outs.sinks = append(outs.sinks, dev)
	}

	return outs, nil
}
