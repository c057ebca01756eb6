package beacon

import (
	"sync"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		requested int
		count     int
		want      int
	}{
		{0, 3, 0},
		{1, 3, 1},
		{2, 3, 2},
		{3, 3, 0},
		{5, 3, 2},
		{6, 3, 0},
		{-1, 3, 2},
		{-3, 3, 0},
		{-4, 3, 2},
		{100, 3, 1},
		{7, 1, 0},
		{-7, 1, 0},
	}

	for _, tt := range tests {
		if got := Normalize(tt.requested, tt.count); got != tt.want {
			t.Errorf("Normalize(%d, %d) = %d, want %d", tt.requested, tt.count, got, tt.want)
		}
	}
}

func newTestSelector(t *testing.T, count int) *Selector {
	t.Helper()
	s, err := NewSelector(count)
	if err != nil {
		t.Fatalf("NewSelector(%d) error = %v", count, err)
	}
	return s
}

func TestNewSelector_InvalidCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		if _, err := NewSelector(count); err != ErrInvalidCount {
			t.Errorf("NewSelector(%d) error = %v, want %v", count, err, ErrInvalidCount)
		}
	}
}

func TestSelector_NextAppliesAtBoundary(t *testing.T) {
	s := newTestSelector(t, 3)

	if !s.Next() {
		t.Fatal("Next() = false, want accepted")
	}
	if !s.Pending() {
		t.Fatal("Pending() = false after Next(), want true")
	}

	idx, switched := s.Apply()
	if !switched {
		t.Fatal("Apply() switched = false, want true")
	}
	if idx != 1 {
		t.Errorf("Apply() index = %d, want 1", idx)
	}
	if s.Pending() {
		t.Error("Pending() = true after Apply(), want false")
	}
	if s.Active() != 1 {
		t.Errorf("Active() = %d, want 1", s.Active())
	}
}

func TestSelector_PreviousWrapsToLast(t *testing.T) {
	s := newTestSelector(t, 3)

	if !s.Previous() {
		t.Fatal("Previous() = false, want accepted")
	}
	if idx, _ := s.Apply(); idx != 2 {
		t.Errorf("Apply() index = %d, want 2", idx)
	}
}

func TestSelector_NextWrapsToFirst(t *testing.T) {
	s := newTestSelector(t, 3)

	for _, want := range []int{1, 2, 0, 1} {
		if !s.Next() {
			t.Fatal("Next() = false, want accepted")
		}
		if idx, _ := s.Apply(); idx != want {
			t.Errorf("Apply() index = %d, want %d", idx, want)
		}
	}
}

func TestSelector_LatchIgnoresLaterRequests(t *testing.T) {
	s := newTestSelector(t, 3)

	if !s.Next() {
		t.Fatal("first Next() = false, want accepted")
	}
	if s.Next() {
		t.Error("second Next() = true, want ignored while latched")
	}
	if s.Previous() {
		t.Error("Previous() = true, want ignored while latched")
	}

	if idx, _ := s.Apply(); idx != 1 {
		t.Errorf("Apply() index = %d, want 1 (only the first request counts)", idx)
	}
}

func TestSelector_LatchReopensAfterApply(t *testing.T) {
	s := newTestSelector(t, 3)

	s.Next()
	s.Apply()

	if !s.Next() {
		t.Fatal("Next() = false after Apply(), want accepted")
	}
	if idx, _ := s.Apply(); idx != 2 {
		t.Errorf("Apply() index = %d, want 2", idx)
	}
}

func TestSelector_ApplyWithoutPending(t *testing.T) {
	s := newTestSelector(t, 3)

	idx, switched := s.Apply()
	if switched {
		t.Error("Apply() switched = true with nothing pending, want false")
	}
	if idx != 0 {
		t.Errorf("Apply() index = %d, want 0", idx)
	}

	// The latch must still be open.
	if !s.Next() {
		t.Error("Next() = false after a no-op Apply(), want accepted")
	}
}

func TestSelector_SingleMessagePrevious(t *testing.T) {
	s := newTestSelector(t, 1)

	// With one message Previous adds zero steps: the request is accepted
	// and latched but no switch ever becomes pending.
	if !s.Previous() {
		t.Fatal("Previous() = false, want accepted")
	}
	if s.Pending() {
		t.Error("Pending() = true, want false for a zero-step request")
	}
	if _, switched := s.Apply(); switched {
		t.Error("Apply() switched = true, want false")
	}
}

func TestSelector_Requested(t *testing.T) {
	s := newTestSelector(t, 3)

	if got := s.Requested(); got != 0 {
		t.Errorf("Requested() = %d, want 0", got)
	}

	s.Next()
	if got := s.Requested(); got != 1 {
		t.Errorf("Requested() after Next() = %d, want 1", got)
	}

	s.Apply()
	if got := s.Requested(); got != 1 {
		t.Errorf("Requested() after Apply() = %d, want 1", got)
	}
}

func TestSelector_ConcurrentRequests(t *testing.T) {
	s := newTestSelector(t, 3)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(previous bool) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if previous {
					s.Previous()
				} else {
					s.Next()
				}
				_ = s.Pending()
				_ = s.Active()
			}
		}(i%2 == 0)
	}
	wg.Wait()

	idx, _ := s.Apply()
	if idx < 0 || idx > 2 {
		t.Errorf("Apply() index = %d, want within [0, 2]", idx)
	}
	// Exactly one request can have latched, so at most one rotation
	// step separates the new index from the start.
	if idx != 1 && idx != 2 {
		t.Errorf("Apply() index = %d, want 1 (next) or 2 (previous)", idx)
	}
}
