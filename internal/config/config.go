// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	AppName       = "cwbeacon"
	ConfigType    = "yaml"
	DefaultConfig = `# CW Beacon Configuration

# Timing
tick_period_ms: 500     # Tick period in milliseconds (a dit lasts two ticks)

# Console output
console_enabled: true   # Print output line transitions to stdout

# Audio sidetone
audio_enabled: true     # Key a sidetone from the output lines
device_index: -1        # -1 for default playback device
sample_rate: 48000      # Audio sample rate in Hz
buffer_size: 512        # Frames per playback callback
dit_frequency: 600      # Sidetone frequency for the dit line in Hz
dah_frequency: 440      # Sidetone frequency for the dah line in Hz

# GPIO (BCM pin numbers)
gpio_enabled: false     # Drive the output lines on Raspberry Pi header pins
gpio_dit_pin: 17        # Dit output line
gpio_dah_pin: 27        # Dah output line
gpio_next_pin: 23       # Next-message button, -1 to disable
gpio_prev_pin: 24       # Previous-message button, -1 to disable
gpio_active_low: false  # Invert the output lines (sink current instead of source)

# Output
debug: false            # Enable debug output
`
)

// Settings holds all application configuration
type Settings struct {
	// Timing
	TickPeriodMs int `mapstructure:"tick_period_ms"`

	// Console output
	ConsoleEnabled bool `mapstructure:"console_enabled"`

	// Audio sidetone
	AudioEnabled bool    `mapstructure:"audio_enabled"`
	DeviceIndex  int     `mapstructure:"device_index"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	BufferSize   int     `mapstructure:"buffer_size"`
	DitFrequency float64 `mapstructure:"dit_frequency"`
	DahFrequency float64 `mapstructure:"dah_frequency"`

	// GPIO
	GPIOEnabled   bool `mapstructure:"gpio_enabled"`
	GPIODitPin    int  `mapstructure:"gpio_dit_pin"`
	GPIODahPin    int  `mapstructure:"gpio_dah_pin"`
	GPIONextPin   int  `mapstructure:"gpio_next_pin"`
	GPIOPrevPin   int  `mapstructure:"gpio_prev_pin"`
	GPIOActiveLow bool `mapstructure:"gpio_active_low"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// TickPeriod returns the tick period as a duration.
func (s *Settings) TickPeriod() time.Duration {
	return time.Duration(s.TickPeriodMs) * time.Millisecond
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/cwbeacon/
func Init() error {
	// Set defaults
	viper.SetDefault("tick_period_ms", 500)
	viper.SetDefault("console_enabled", true)
	viper.SetDefault("audio_enabled", true)
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 48000)
	viper.SetDefault("buffer_size", 512)
	viper.SetDefault("dit_frequency", 600)
	viper.SetDefault("dah_frequency", 440)
	viper.SetDefault("gpio_enabled", false)
	viper.SetDefault("gpio_dit_pin", 17)
	viper.SetDefault("gpio_dah_pin", 27)
	viper.SetDefault("gpio_next_pin", 23)
	viper.SetDefault("gpio_prev_pin", 24)
	viper.SetDefault("gpio_active_low", false)
	viper.SetDefault("debug", false)

	// Support both config.yaml and .config.yaml
	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		// Try config.yaml as fallback
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config found - create default in ~/.config/cwbeacon/
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			// Read the newly created config
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Timing
	if s.TickPeriodMs < 10 || s.TickPeriodMs > 10000 {
		errs = append(errs, fmt.Errorf("tick_period_ms must be between 10 and 10000, got %d", s.TickPeriodMs))
	}

	// Audio sidetone
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %v", s.SampleRate))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}
	// Buffer size should be a power of 2 to match audio backend period sizes
	if s.BufferSize&(s.BufferSize-1) != 0 {
		errs = append(errs, fmt.Errorf("buffer_size should be a power of 2, got %d", s.BufferSize))
	}
	if s.DitFrequency < 100 || s.DitFrequency > 3000 {
		errs = append(errs, fmt.Errorf("dit_frequency must be between 100 and 3000 Hz, got %v", s.DitFrequency))
	}
	if s.DahFrequency < 100 || s.DahFrequency > 3000 {
		errs = append(errs, fmt.Errorf("dah_frequency must be between 100 and 3000 Hz, got %v", s.DahFrequency))
	}

	// Nyquist check: sidetone frequencies must be less than half the sample rate
	if s.DitFrequency >= s.SampleRate/2 {
		errs = append(errs, fmt.Errorf("dit_frequency (%v Hz) must be less than Nyquist frequency (%v Hz)", s.DitFrequency, s.SampleRate/2))
	}
	if s.DahFrequency >= s.SampleRate/2 {
		errs = append(errs, fmt.Errorf("dah_frequency (%v Hz) must be less than Nyquist frequency (%v Hz)", s.DahFrequency, s.SampleRate/2))
	}

	// GPIO pins are only checked when the GPIO outputs are in use
	if s.GPIOEnabled {
		if s.GPIODitPin < 0 || s.GPIODitPin > 27 {
			errs = append(errs, fmt.Errorf("gpio_dit_pin must be between 0 and 27, got %d", s.GPIODitPin))
		}
		if s.GPIODahPin < 0 || s.GPIODahPin > 27 {
			errs = append(errs, fmt.Errorf("gpio_dah_pin must be between 0 and 27, got %d", s.GPIODahPin))
		}
		if s.GPIONextPin != -1 && (s.GPIONextPin < 0 || s.GPIONextPin > 27) {
			errs = append(errs, fmt.Errorf("gpio_next_pin must be -1 or between 0 and 27, got %d", s.GPIONextPin))
		}
		if s.GPIOPrevPin != -1 && (s.GPIOPrevPin < 0 || s.GPIOPrevPin > 27) {
			errs = append(errs, fmt.Errorf("gpio_prev_pin must be -1 or between 0 and 27, got %d", s.GPIOPrevPin))
		}

		seen := map[int]string{}
		pins := []struct {
			key string
			pin int
		}{
			{"gpio_dit_pin", s.GPIODitPin},
			{"gpio_dah_pin", s.GPIODahPin},
			{"gpio_next_pin", s.GPIONextPin},
			{"gpio_prev_pin", s.GPIOPrevPin},
		}
		for _, p := range pins {
			if p.pin == -1 {
				continue
			}
			if other, ok := seen[p.pin]; ok {
				errs = append(errs, fmt.Errorf("%s and %s are both assigned pin %d", other, p.key, p.pin))
				continue
			}
			seen[p.pin] = p.key
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
