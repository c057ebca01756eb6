// internal/audio/sidetone.go
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/ColonelBlimp/cwbeacon/internal/cw"
)

var (
	ErrNotInitialized = errors.New("audio sidetone not initialized")
	ErrAlreadyRunning = errors.New("audio sidetone already running")
	ErrNotRunning     = errors.New("audio sidetone not running")
)

// Config holds audio sidetone configuration
type Config struct {
	DeviceIndex  int     // -1 for default device
	SampleRate   uint32  // e.g., 48000
	BufferSize   uint32  // frames per callback
	DitFrequency float64 // tone for the primary (dit) line, Hz
	DahFrequency float64 // tone for the secondary (dah) line, Hz
}

// DefaultConfig returns sensible defaults for sidetone keying
func DefaultConfig() Config {
	return Config{
		DeviceIndex:  -1,
		SampleRate:   48000,
		BufferSize:   512,
		DitFrequency: 600,
		DahFrequency: 440,
	}
}

// toneFor picks the sidetone frequency for a line mask, 0 for silence.
// The primary line wins if both lines are ever asserted at once.
func (c Config) toneFor(mask cw.Mask) float64 {
	switch {
	case mask&cw.Primary != 0:
		return c.DitFrequency
	case mask&cw.Secondary != 0:
		return c.DahFrequency
	default:
		return 0
	}
}

// Sidetone renders the beacon's line states as an audio tone: the
// primary line sounds at the dit frequency, the secondary at the dah
// frequency. It implements the output sink contract; SetOutputs only
// stores a mask, and the audio thread picks it up on its next buffer.
type Sidetone struct {
	config  Config
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running bool
	mu      sync.Mutex

	// mask holds the latest line state; written by SetOutputs from the
	// playback goroutine, read by the audio thread.
	mask atomic.Uint32

	// osc and scratch belong to the audio thread once Start returns.
	osc     oscillator
	scratch []float32
}

// New creates a new sidetone instance
func New(cfg Config) *Sidetone {
	return &Sidetone{
		config:  cfg,
		osc:     oscillator{sampleRate: float64(cfg.SampleRate)},
		scratch: make([]float32, cfg.BufferSize),
	}
}

// Init initializes the audio backend
func (s *Sidetone) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	s.ctx = ctx

	return nil
}

// ListDevices returns available playback devices
func (s *Sidetone) ListDevices() ([]malgo.DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		return nil, ErrNotInitialized
	}

	infos, err := s.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	return infos, nil
}

// Start opens the playback device and begins rendering. The device
// plays silence until a line is keyed.
func (s *Sidetone) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if s.ctx == nil {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.mu.Unlock()

	deviceConfig := malgo.DeviceConfig{
		DeviceType:         malgo.Playback,
		SampleRate:         s.config.SampleRate,
		PeriodSizeInFrames: s.config.BufferSize,
		Playback: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: 1,
		},
	}

	// Select a specific device if requested
	if s.config.DeviceIndex >= 0 {
		devices, err := s.ListDevices()
		if err != nil {
			return err
		}
		if s.config.DeviceIndex >= len(devices) {
			return fmt.Errorf("device index %d out of range (have %d devices)",
				s.config.DeviceIndex, len(devices))
		}
		deviceID := &devices[s.config.DeviceIndex].ID
		deviceConfig.Playback.DeviceID = deviceID.Pointer()
	}

	// Runs on the audio thread; renders the keyed tone straight into
	// the device buffer.
	onSendFrames := func(outputSamples, inputSamples []byte, frameCount uint32) {
		if int(frameCount) > len(s.scratch) {
			s.scratch = make([]float32, frameCount)
		}
		buf := s.scratch[:frameCount]
		freq := s.config.toneFor(cw.Mask(s.mask.Load()))
		s.osc.fill(buf, freq)
		floatsToBytes(outputSamples, buf)
	}

	device, err := malgo.InitDevice(s.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSendFrames,
	})
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start device: %w", err)
	}

	s.mu.Lock()
	s.device = device
	s.running = true
	s.mu.Unlock()

	return nil
}

// SetOutputs records the line state the next audio buffer should key.
// It never blocks.
func (s *Sidetone) SetOutputs(mask cw.Mask) {
	s.mask.Store(uint32(mask))
}

// Stop stops playback, leaving the backend initialized
func (s *Sidetone) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNotRunning
	}

	if s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
	}

	s.running = false
	return nil
}

// Close releases all audio resources
func (s *Sidetone) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running && s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
		s.running = false
	}

	if s.ctx != nil {
		if err := s.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		s.ctx.Free()
		s.ctx = nil
	}

	return nil
}

// IsRunning returns true if playback is active
func (s *Sidetone) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// level keeps a little headroom below full scale.
const level = 0.6

// envelopeStep is the per-sample gain slew, roughly 5 ms attack and
// release at 48 kHz. Fast enough to key cleanly at beacon speeds, slow
// enough that the tone edges do not click.
const envelopeStep = 1.0 / 256

// oscillator generates the keyed sine. It holds no locks: all state is
// touched only by the audio thread.
type oscillator struct {
	sampleRate float64
	freq       float64
	phase      float64
	gain       float64
}

// fill renders frameCount samples of the tone at freq, or of silence
// when freq is 0, ramping the gain so key transitions stay clean. The
// release rings down at the last keyed frequency.
func (o *oscillator) fill(buf []float32, freq float64) {
	target := 0.0
	if freq > 0 {
		target = 1.0
		o.freq = freq
	}
	step := 2 * math.Pi * o.freq / o.sampleRate

	for i := range buf {
		switch {
		case o.gain < target:
			o.gain += envelopeStep
			if o.gain > target {
				o.gain = target
			}
		case o.gain > target:
			o.gain -= envelopeStep
			if o.gain < 0 {
				o.gain = 0
			}
		}

		buf[i] = float32(math.Sin(o.phase) * o.gain * level)
		o.phase += step
		if o.phase >= 2*math.Pi {
			o.phase -= 2 * math.Pi
		}
	}
}

// floatsToBytes packs float32 samples into the little-endian layout
// the device buffer expects.
func floatsToBytes(dst []byte, src []float32) {
	for i, sample := range src {
		bits := math.Float32bits(sample)
		offset := i * 4
		dst[offset] = byte(bits)
		dst[offset+1] = byte(bits >> 8)
		dst[offset+2] = byte(bits >> 16)
		dst[offset+3] = byte(bits >> 24)
	}
}
