package model

import "context"

// PredictionSource is the read contract the dashboard needs from the
// prediction backend. Every call yields a payload or an error.
type PredictionSource interface {
	Health(ctx context.Context) (Health, error)
	Ratings(ctx context.Context) (Ratings, error)
	Circuits(ctx context.Context) ([]Circuit, error)
	Race(ctx context.Context, round, iterations int) (RacePrediction, error)
	Championship(ctx context.Context, iterations int) (ChampionshipPrediction, error)
	Backtest(ctx context.Context, iterations int) (BacktestReport, error)
}
