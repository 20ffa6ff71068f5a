package model

// Health is the liveness payload of /api/health.
type Health struct {
	Status      string   `json:"status"`
	Version     string   `json:"version"`
	Season      int      `json:"season"`
	DataSources []string `json:"data_sources"`
	Drivers     int      `json:"drivers"`
	Circuits    int      `json:"circuits"`
}

// TeamInfo is the per-team reference block attached to the ratings payload.
type TeamInfo struct {
	Color      string  `json:"color"`
	Engine     string  `json:"engine"`
	CarAdj2026 float64 `json:"car_adj_2026"`
}

// Ratings is the payload of /api/ratings.
type Ratings struct {
	DriverRatings map[string]float64  `json:"driver_ratings"`
	CarRatings    map[string]float64  `json:"car_ratings"`
	TireDeg       map[string]float64  `json:"tire_deg,omitempty"`
	TeamsInfo     map[string]TeamInfo `json:"teams_info,omitempty"`
}

// Circuit describes one round of the season.
type Circuit struct {
	Round      int    `json:"round" yaml:"round"`
	Name       string `json:"name" yaml:"name"`
	Short      string `json:"short,omitempty" yaml:"short"`
	City       string `json:"city" yaml:"city"`
	Type       string `json:"type" yaml:"type"` // "street" or "permanent"
	Temp       int    `json:"temp" yaml:"temp"`
	Overtaking int    `json:"overtaking" yaml:"overtaking"`
	Laps       int    `json:"laps" yaml:"laps"`
}

// Street reports whether the circuit is a street track.
func (c Circuit) Street() bool { return c.Type == "street" }

// CircuitList is the payload of /api/circuits.
type CircuitList struct {
	Circuits []Circuit `json:"circuits"`
}

// PositionShare is the share of simulations finishing in Pos.
type PositionShare struct {
	Pos int     `json:"pos"`
	Pct float64 `json:"pct"`
}

// DriverPrediction is one row of a race simulation.
type DriverPrediction struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Number          int             `json:"number"`
	Team            string          `json:"team"`
	TeamColor       string          `json:"team_color"`
	WinPct          float64         `json:"win_pct"`
	PodiumPct       float64         `json:"podium_pct"`
	ExpectedPos     float64         `json:"expected_pos"`
	AvgPoints       float64         `json:"avg_points"`
	PosDistribution []PositionShare `json:"pos_distribution"`
	DriverRating    float64         `json:"driver_rating"`
	CarRating       float64         `json:"car_rating"`
	Rookie          bool            `json:"rookie"`
	NewTeam         bool            `json:"new_team"`
}

// PointsPct estimates the chance of a top-ten finish from the podium share.
func (d DriverPrediction) PointsPct() float64 {
	return min(d.PodiumPct*2.5, 100)
}

// RacePrediction is the payload of /api/race/{round}.
type RacePrediction struct {
	Circuit    Circuit            `json:"circuit"`
	Iterations int                `json:"iterations"`
	Results    []DriverPrediction `json:"results"`
}

// Driver returns the result row for code, if present.
func (r RacePrediction) Driver(code string) (DriverPrediction, bool) {
	for _, d := range r.Results {
		if d.Code == code {
			return d, true
		}
	}
	return DriverPrediction{}, false
}

// DriverStanding is a projected drivers' championship row.
type DriverStanding struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Number       int     `json:"number"`
	Team         string  `json:"team"`
	TeamColor    string  `json:"team_color"`
	ProjectedPts float64 `json:"projected_pts"`
}

// ConstructorStanding is a projected constructors' championship row.
type ConstructorStanding struct {
	Team      string  `json:"team"`
	TeamColor string  `json:"team_color"`
	Engine    string  `json:"engine"`
	TotalPts  float64 `json:"total_pts"`
}

// ChampionshipPrediction is the payload of /api/championship.
type ChampionshipPrediction struct {
	Standings         []DriverStanding      `json:"standings"`
	Constructors      []ConstructorStanding `json:"constructors"`
	IterationsPerRace int                   `json:"iterations_per_race"`
	TotalRaces        int                   `json:"total_races"`
}

// BacktestMetrics summarises how the model did against a past season.
type BacktestMetrics struct {
	TotalRacesTested   int               `json:"total_races_tested"`
	P1HitRate          float64           `json:"p1_hit_rate"`
	Top3OverlapPerRace float64           `json:"top3_overlap_per_race"`
	BrierScorePodium   float64           `json:"brier_score_podium"`
	AvgSpearmanRho     float64           `json:"avg_spearman_rho"`
	Interpretation     map[string]string `json:"interpretation,omitempty"`
	Error              string            `json:"error,omitempty"`
}

// BacktestReport is the payload of /api/backtest.
type BacktestReport struct {
	Metrics BacktestMetrics `json:"metrics"`
	Note    string          `json:"note,omitempty"`
	Error   string          `json:"error,omitempty"`
}
