package tui

import (
	"testing"

	"github.com/tinytelemetry/pitwall/internal/model"
)

func TestKnob_Steps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"race up from default", raceKnob.Up(8000), 12000},
		{"race up at max", raceKnob.Up(20000), 20000},
		{"race down from default", raceKnob.Down(8000), 5000},
		{"race down at lowest preset", raceKnob.Down(500), 500},
		{"race zero means default", raceKnob.Down(0), 5000},
		{"race between presets", raceKnob.Up(3000), 5000},
		{"championship up", championshipKnob.Up(500), 1000},
		{"championship clamps above max", championshipKnob.Down(9000), 1000},
		{"backtest down", backtestKnob.Down(1000), 500},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestNewKnob_DropsOutOfBoundsPresets(t *testing.T) {
	t.Parallel()

	k := NewKnob(model.RaceIterations, 30000, 500, 50, 500, 2000)
	if got := k.Up(50); got != 500 {
		t.Fatalf("Up(50) = %d, want 500", got)
	}
	if got := k.Up(2000); got != 2000 {
		t.Fatalf("Up(2000) = %d, want 2000", got)
	}
	if got := k.Down(2000); got != 500 {
		t.Fatalf("Down(2000) = %d, want 500", got)
	}
}
