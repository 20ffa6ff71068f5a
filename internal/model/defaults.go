package model

import "time"

// Shared defaults used by both the TUI and the stub backend.
const (
	DefaultAPIURL         = "http://127.0.0.1:8000"
	DefaultRequestTimeout = 60 * time.Second
	DefaultSeason         = 2026
)

// IterationBounds is the accepted range and default of an endpoint's
// simulation count.
type IterationBounds struct {
	Min, Max, Default int
}

// Clamp limits n to the bounds; non-positive values map to the default.
func (b IterationBounds) Clamp(n int) int {
	if n <= 0 {
		return b.Default
	}
	return max(b.Min, min(n, b.Max))
}

// Contains reports whether n is accepted by the backend.
func (b IterationBounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

var (
	RaceIterations         = IterationBounds{Min: 100, Max: 20000, Default: 8000}
	ChampionshipIterations = IterationBounds{Min: 50, Max: 2000, Default: 500}
	BacktestIterations     = IterationBounds{Min: 100, Max: 3000, Default: 1000}
)
