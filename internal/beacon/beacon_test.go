package beacon

import (
	"context"
	"testing"
	"time"

	"github.com/ColonelBlimp/cwbeacon/internal/cw"
)

// captureSink records every mask it receives.
type captureSink struct {
	masks  []cw.Mask
	closed bool
}

func (c *captureSink) SetOutputs(mask cw.Mask) { c.masks = append(c.masks, mask) }
func (c *captureSink) Close() error            { c.closed = true; return nil }

func testConfig() Config {
	return Config{TickPeriod: time.Millisecond}
}

func newTestBeacon(t *testing.T, sink *captureSink) *Beacon {
	t.Helper()
	b, err := New(testConfig(), Messages, sink)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func step(b *Beacon, n int) {
	for i := 0; i < n; i++ {
		b.Step()
	}
}

func TestMessages_Rotation(t *testing.T) {
	want := []string{"ss", "oo", "sos"}
	if len(Messages) != len(want) {
		t.Fatalf("len(Messages) = %d, want %d", len(Messages), len(want))
	}
	for i, msg := range want {
		if Messages[i] != msg {
			t.Errorf("Messages[%d] = %q, want %q", i, Messages[i], msg)
		}
	}
}

func TestNew_InvalidTickPeriod(t *testing.T) {
	_, err := New(Config{TickPeriod: 0}, Messages)
	if err != ErrInvalidTickPeriod {
		t.Errorf("New() error = %v, want %v", err, ErrInvalidTickPeriod)
	}
}

func TestNew_EmptyRotation(t *testing.T) {
	_, err := New(testConfig(), nil)
	if err != cw.ErrNoMessages {
		t.Errorf("New() error = %v, want %v", err, cw.ErrNoMessages)
	}
}

func TestBeacon_StepRendersToSink(t *testing.T) {
	sink := &captureSink{}
	b := newTestBeacon(t, sink)

	// One full play-through of "ss".
	step(b, 23)

	if len(sink.masks) != 23 {
		t.Fatalf("sink received %d masks, want 23", len(sink.masks))
	}
	if sink.masks[0] != cw.Primary {
		t.Errorf("first mask = %d, want %d", sink.masks[0], cw.Primary)
	}

	var primary, secondary int
	for _, m := range sink.masks {
		if m&cw.Primary != 0 {
			primary++
		}
		if m&cw.Secondary != 0 {
			secondary++
		}
	}
	if primary != 6 {
		t.Errorf("primary line keyed %d ticks, want 6 (two 's' characters)", primary)
	}
	if secondary != 0 {
		t.Errorf("secondary line keyed %d ticks, want 0", secondary)
	}

	st := b.Status()
	if st.Ticks != 23 {
		t.Errorf("Status().Ticks = %d, want 23", st.Ticks)
	}
	if st.Plays != 1 {
		t.Errorf("Status().Plays = %d, want 1", st.Plays)
	}
}

func TestBeacon_SwitchWaitsForBoundary(t *testing.T) {
	sink := &captureSink{}
	b := newTestBeacon(t, sink)

	control := &captureSink{}
	c := newTestBeacon(t, control)

	// A request three ticks in must not disturb the running
	// play-through.
	step(b, 3)
	b.RequestNext()
	step(b, 20)
	step(c, 23)

	for i := range control.masks {
		if sink.masks[i] != control.masks[i] {
			t.Fatalf("tick %d: mask = %d, want %d (request leaked into play-through)",
				i, sink.masks[i], control.masks[i])
		}
	}

	st := b.Status()
	if st.Index != 1 || st.Message != "oo" {
		t.Fatalf("after boundary, Index = %d Message = %q, want 1 %q", st.Index, st.Message, "oo")
	}
	if st.Switches != 1 {
		t.Errorf("Status().Switches = %d, want 1", st.Switches)
	}

	// The next play-through opens with a dah.
	b.Step()
	if got := sink.masks[len(sink.masks)-1]; got != cw.Secondary {
		t.Errorf("first mask of %q = %d, want %d", "oo", got, cw.Secondary)
	}
}

func TestBeacon_LatchOncePerPlayThrough(t *testing.T) {
	sink := &captureSink{}
	b := newTestBeacon(t, sink)

	b.RequestNext()
	b.RequestNext()
	b.RequestPrevious()
	step(b, 23)

	st := b.Status()
	if st.Index != 1 {
		t.Errorf("Index = %d, want 1 (only the first request counts)", st.Index)
	}
	if st.Requests != 1 {
		t.Errorf("Status().Requests = %d, want 1", st.Requests)
	}
	if st.Ignored != 2 {
		t.Errorf("Status().Ignored = %d, want 2", st.Ignored)
	}
}

func TestBeacon_PreviousWrapsToLast(t *testing.T) {
	sink := &captureSink{}
	b := newTestBeacon(t, sink)

	b.RequestPrevious()
	step(b, 23)

	st := b.Status()
	if st.Index != 2 || st.Message != "sos" {
		t.Errorf("Index = %d Message = %q, want 2 %q", st.Index, st.Message, "sos")
	}
}

func TestBeacon_StatusPending(t *testing.T) {
	sink := &captureSink{}
	b := newTestBeacon(t, sink)

	step(b, 5)
	st := b.Status()
	if st.Pending {
		t.Error("Status().Pending = true with no request, want false")
	}

	b.RequestNext()
	b.Step()
	st = b.Status()
	if !st.Pending {
		t.Error("Status().Pending = false after request, want true")
	}
	if st.Requested != 1 {
		t.Errorf("Status().Requested = %d, want 1", st.Requested)
	}
}

func TestBeacon_RunWithoutSinks(t *testing.T) {
	b, err := New(testConfig(), Messages)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Run(context.Background()); err != ErrNoSinks {
		t.Errorf("Run() error = %v, want %v", err, ErrNoSinks)
	}
}

func TestBeacon_AddSink(t *testing.T) {
	b, err := New(testConfig(), Messages)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sink := &captureSink{}
	b.AddSink(sink)
	b.Step()

	if len(sink.masks) != 1 {
		t.Fatalf("sink received %d masks, want 1", len(sink.masks))
	}
}

func TestBeacon_RunStopsOnCancel(t *testing.T) {
	sink := &captureSink{}
	b := newTestBeacon(t, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for b.Status().Ticks == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("no ticks observed before deadline")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if len(sink.masks) == 0 {
		t.Fatal("sink received no masks")
	}
	if last := sink.masks[len(sink.masks)-1]; last != 0 {
		t.Errorf("last mask = %d, want 0 (lines forced off on stop)", last)
	}
}
