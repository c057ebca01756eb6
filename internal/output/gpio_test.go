package output

import "testing"

func TestGPIOConfig_HasButtons(t *testing.T) {
	tests := []struct {
		name string
		cfg  GPIOConfig
		want bool
	}{
		{"none", GPIOConfig{NextPin: NoPin, PrevPin: NoPin}, false},
		{"next only", GPIOConfig{NextPin: 23, PrevPin: NoPin}, true},
		{"prev only", GPIOConfig{NextPin: NoPin, PrevPin: 24}, true},
		{"both", GPIOConfig{NextPin: 23, PrevPin: 24}, true},
	}

	for _, tt := range tests {
		if got := tt.cfg.HasButtons(); got != tt.want {
			t.Errorf("%s: HasButtons() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
