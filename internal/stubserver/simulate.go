package stubserver

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/tinytelemetry/pitwall/internal/model"
	"github.com/tinytelemetry/pitwall/internal/reference"
)

const (
	noiseSigma     = 0.09
	dnfScore       = -999.0
	shownPositions = 12
	backtestRounds = 20
)

// Simulator runs the Monte Carlo race model over the reference grid. Every
// result is a pure function of the seed and the request, so repeated calls
// return identical payloads.
type Simulator struct {
	season *reference.Season
	seed   uint64
}

// NewSimulator returns a simulator over season.
func NewSimulator(season *reference.Season, seed uint64) *Simulator {
	return &Simulator{season: season, seed: seed}
}

func (s *Simulator) rng(stream, round, iters int) *rand.Rand {
	return rand.New(rand.NewPCG(s.seed^uint64(stream)<<48, uint64(round)<<32|uint64(iters)))
}

// baseScores weights car against driver by circuit character.
func (s *Simulator) baseScores(c model.Circuit) []float64 {
	carW := 0.62
	if c.Street() {
		carW = 0.52
	}
	scores := make([]float64, len(s.season.Drivers))
	for i, d := range s.season.Drivers {
		team, _ := s.season.Team(d.Team)
		score := team.CarRating*carW + d.Rating*(1-carW)
		switch {
		case c.Overtaking >= 8:
			score *= 1.015
		case c.Overtaking <= 3 && d.Rating > 85:
			score *= 1.04
		case c.Overtaking <= 3:
			score *= 0.96
		}
		if c.Temp > 29 && (d.NewTeam || team.NewEngine) {
			score *= 0.97
		}
		scores[i] = score
	}
	return scores
}

func (s *Simulator) dnfProbs() []float64 {
	probs := make([]float64, len(s.season.Drivers))
	for i, d := range s.season.Drivers {
		team, _ := s.season.Team(d.Team)
		switch {
		case d.NewTeam || team.Name == "Cadillac":
			probs[i] = 0.07
		case team.NewEngine:
			probs[i] = 0.05
		default:
			probs[i] = 0.03
		}
	}
	return probs
}

// draw runs one race, filling order with driver indices in finishing order
// and scores with the per-driver result (dnfScore marks a retirement).
func draw(rng *rand.Rand, base, dnf, scores []float64, order []int) {
	for i := range base {
		scores[i] = base[i] * (1 + rng.NormFloat64()*noiseSigma)
		if rng.Float64() < dnf[i] {
			scores[i] = dnfScore
		}
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return cmp.Compare(scores[b], scores[a]) })
}

// Race simulates round iters times.
func (s *Simulator) Race(round, iters int) model.RacePrediction {
	return s.race(0, round, iters)
}

func (s *Simulator) race(stream, round, iters int) model.RacePrediction {
	circuit, ok := s.season.Circuit(round)
	if !ok {
		circuit = s.season.Circuits[0]
	}
	n := len(s.season.Drivers)
	base := s.baseScores(circuit)
	dnf := s.dnfProbs()
	rng := s.rng(stream, round, iters)

	wins := make([]int, n)
	podiums := make([]int, n)
	points := make([]float64, n)
	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
	}

	scores := make([]float64, n)
	order := make([]int, n)
	for range iters {
		draw(rng, base, dnf, scores, order)
		for pos, idx := range order {
			if scores[idx] <= dnfScore {
				continue
			}
			dist[idx][pos]++
			points[idx] += float64(s.season.PointsFor(pos + 1))
			if pos == 0 {
				wins[idx]++
			}
			if pos <= 2 {
				podiums[idx]++
			}
		}
	}

	total := float64(iters)
	results := make([]model.DriverPrediction, 0, n)
	for i, d := range s.season.Drivers {
		team, _ := s.season.Team(d.Team)

		finishes, weighted := 0, 0
		for pos, cnt := range dist[i] {
			finishes += cnt
			weighted += cnt * (pos + 1)
		}
		expected := float64(n)
		if finishes > 0 {
			expected = float64(weighted) / float64(finishes)
		}

		shares := make([]model.PositionShare, 0, min(shownPositions, n))
		for pos := range min(shownPositions, n) {
			shares = append(shares, model.PositionShare{Pos: pos + 1, Pct: round2(float64(dist[i][pos]) / total * 100)})
		}

		results = append(results, model.DriverPrediction{
			Code:            d.Code,
			Name:            d.Name,
			Number:          d.Number,
			Team:            d.Team,
			TeamColor:       team.Color,
			Rookie:          d.Rookie,
			NewTeam:         d.NewTeam,
			WinPct:          round2(float64(wins[i]) / total * 100),
			PodiumPct:       round2(float64(podiums[i]) / total * 100),
			AvgPoints:       round2(points[i] / total),
			ExpectedPos:     round2(expected),
			PosDistribution: shares,
			DriverRating:    round1(d.Rating),
			CarRating:       round1(team.CarRating),
		})
	}
	slices.SortStableFunc(results, func(a, b model.DriverPrediction) int {
		return cmp.Compare(b.WinPct, a.WinPct)
	})

	return model.RacePrediction{Circuit: circuit, Iterations: iters, Results: results}
}

// Championship sums expected points over every round of the season.
func (s *Simulator) Championship(iters int) model.ChampionshipPrediction {
	totals := make(map[string]float64, len(s.season.Drivers))
	for _, c := range s.season.Circuits {
		for _, r := range s.Race(c.Round, iters).Results {
			totals[r.Code] += r.AvgPoints
		}
	}

	standings := make([]model.DriverStanding, 0, len(s.season.Drivers))
	teamTotals := make(map[string]float64, len(s.season.Teams))
	for _, d := range s.season.Drivers {
		standings = append(standings, model.DriverStanding{
			Code:         d.Code,
			Name:         d.Name,
			Number:       d.Number,
			Team:         d.Team,
			TeamColor:    s.season.TeamColor(d.Team),
			ProjectedPts: round1(totals[d.Code]),
		})
		teamTotals[d.Team] += totals[d.Code]
	}
	slices.SortStableFunc(standings, func(a, b model.DriverStanding) int {
		return cmp.Compare(b.ProjectedPts, a.ProjectedPts)
	})

	constructors := make([]model.ConstructorStanding, 0, len(s.season.Teams))
	for _, t := range s.season.Teams {
		constructors = append(constructors, model.ConstructorStanding{
			Team:      t.Name,
			TeamColor: t.Color,
			Engine:    t.Engine,
			TotalPts:  round1(teamTotals[t.Name]),
		})
	}
	slices.SortStableFunc(constructors, func(a, b model.ConstructorStanding) int {
		return cmp.Compare(b.TotalPts, a.TotalPts)
	})

	return model.ChampionshipPrediction{
		Standings:         standings,
		Constructors:      constructors,
		IterationsPerRace: iters,
		TotalRaces:        len(s.season.Circuits),
	}
}

// Backtest scores the model against a synthetic past season drawn from a
// separate random stream.
func (s *Simulator) Backtest(iters int) model.BacktestMetrics {
	n := len(s.season.Drivers)
	rounds := min(backtestRounds, len(s.season.Circuits))

	var (
		hitP1, overlap int
		brierSum       float64
		brierCount     int
		spearman       []float64
	)
	scores := make([]float64, n)
	order := make([]int, n)
	dnf := s.dnfProbs()
	actualRng := s.rng(2, 0, 0)
	codes := make([]string, n)
	for i, d := range s.season.Drivers {
		codes[i] = d.Code
	}

	for round := 1; round <= rounds; round++ {
		circuit, _ := s.season.Circuit(round)
		draw(actualRng, s.baseScores(circuit), dnf, scores, order)
		actual := make(map[string]int, n)
		for pos, idx := range order {
			actual[codes[idx]] = pos + 1
		}

		sim := s.race(1, round, iters)
		if sim.Results[0].Code == codes[order[0]] {
			hitP1++
		}
		for _, r := range sim.Results[:3] {
			if actual[r.Code] <= 3 {
				overlap++
			}
		}

		var dSq float64
		for rank, r := range sim.Results {
			p := r.PodiumPct / 100
			hit := 0.0
			if actual[r.Code] <= 3 {
				hit = 1
			}
			brierSum += (p - hit) * (p - hit)
			brierCount++
			d := float64(rank + 1 - actual[r.Code])
			dSq += d * d
		}
		m := float64(len(sim.Results))
		spearman = append(spearman, 1-(6*dSq)/(m*(m*m-1)))
	}

	var rhoSum float64
	for _, r := range spearman {
		rhoSum += r
	}

	return model.BacktestMetrics{
		TotalRacesTested:   rounds,
		P1HitRate:          round1(float64(hitP1) / float64(rounds) * 100),
		Top3OverlapPerRace: round2(float64(overlap) / float64(rounds)),
		BrierScorePodium:   math.Round(brierSum/float64(brierCount)*1e4) / 1e4,
		AvgSpearmanRho:     math.Round(rhoSum/float64(len(spearman))*1e3) / 1e3,
		Interpretation: map[string]string{
			"brier":             "Lower is better (0=perfect, 0.25=random)",
			"spearman":          "Higher is better (1=perfect rank correlation)",
			"overfitting_check": "Model uses no race-specific tuning; ratings computed from global season data only",
		},
	}
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
