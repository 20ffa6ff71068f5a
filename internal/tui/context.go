package tui

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/reference"
)

// Deps is everything the dashboard needs from the outside world.
type Deps struct {
	Source  model.PredictionSource
	Season  *reference.Season
	Logger  logrus.FieldLogger
	Timeout time.Duration

	// Initial simulation counts; zero selects the backend default.
	RaceIterations         int
	ChampionshipIterations int
	BacktestIterations     int
}

// unkeyed is the request key of slots whose payload does not depend on the
// view state.
type unkeyed struct{}
