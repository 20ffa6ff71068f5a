package tui

import (
	"slices"

	"github.com/tinytelemetry/pitwall/internal/model"
)

// Knob steps a slot's simulation count through fixed presets.
type Knob struct {
	bounds  model.IterationBounds
	presets []int
}

var (
	raceKnob         = NewKnob(model.RaceIterations, 500, 1000, 2000, 5000, 8000, 12000, 20000)
	championshipKnob = NewKnob(model.ChampionshipIterations, 50, 100, 250, 500, 1000, 2000)
	backtestKnob     = NewKnob(model.BacktestIterations, 100, 250, 500, 1000, 2000, 3000)
)

// NewKnob keeps the presets that fall inside b, sorted.
func NewKnob(b model.IterationBounds, presets ...int) Knob {
	kept := make([]int, 0, len(presets))
	for _, p := range presets {
		if b.Contains(p) {
			kept = append(kept, p)
		}
	}
	slices.Sort(kept)
	return Knob{bounds: b, presets: slices.Compact(kept)}
}

// Up returns the next preset above n, or n clamped when none is left.
func (k Knob) Up(n int) int {
	n = k.bounds.Clamp(n)
	for _, p := range k.presets {
		if p > n {
			return p
		}
	}
	return n
}

// Down returns the next preset below n, or n clamped when none is left.
func (k Knob) Down(n int) int {
	n = k.bounds.Clamp(n)
	for i := len(k.presets) - 1; i >= 0; i-- {
		if k.presets[i] < n {
			return k.presets[i]
		}
	}
	return n
}
