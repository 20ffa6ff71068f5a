// Package reference holds the static season tables: circuits, teams, the
// driver grid and the regulation summary cards. The tables are embedded so
// the dashboard can label rounds before any backend call completes.
package reference

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/pitwall/internal/model"
)

//go:embed season.yaml
var seasonYAML []byte

// Team is a constructor entry.
type Team struct {
	Name      string  `yaml:"name"`
	Color     string  `yaml:"color"`
	Engine    string  `yaml:"engine"`
	CarAdj    float64 `yaml:"car_adj"`
	CarRating float64 `yaml:"car_rating"`
	NewEngine bool    `yaml:"new_engine"`
}

// Driver is a grid entry.
type Driver struct {
	Code    string  `yaml:"code"`
	Name    string  `yaml:"name"`
	Number  int     `yaml:"number"`
	Team    string  `yaml:"team"`
	Rating  float64 `yaml:"rating"`
	Rookie  bool    `yaml:"rookie"`
	NewTeam bool    `yaml:"new_team"`
}

// RegulationCard summarises one technical rule change.
type RegulationCard struct {
	Title string `yaml:"title"`
	Value string `yaml:"value"`
	Unit  string `yaml:"unit"`
	Color string `yaml:"color"`
	Desc  string `yaml:"desc"`
}

// Season is the decoded reference document.
type Season struct {
	Year        int              `yaml:"season"`
	Champion    string           `yaml:"champion"`
	Points      []int            `yaml:"points"`
	Teams       []Team           `yaml:"teams"`
	Drivers     []Driver         `yaml:"drivers"`
	Circuits    []model.Circuit  `yaml:"circuits"`
	Regulations []RegulationCard `yaml:"regulations"`

	teams map[string]int
}

var (
	loadOnce sync.Once
	season   *Season
	loadErr  error
)

// Load decodes the embedded season once and returns it. Callers must not
// mutate the returned value.
func Load() (*Season, error) {
	loadOnce.Do(func() {
		season, loadErr = Parse(seasonYAML)
	})
	return season, loadErr
}

// MustLoad is Load for callers that treat a broken embed as a build error.
func MustLoad() *Season {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes and validates a season document.
func Parse(data []byte) (*Season, error) {
	var s Season
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("reference: decode season: %w", err)
	}
	s.teams = make(map[string]int, len(s.Teams))
	for i, t := range s.Teams {
		s.teams[t.Name] = i
	}
	for _, d := range s.Drivers {
		if _, ok := s.teams[d.Team]; !ok {
			return nil, fmt.Errorf("reference: driver %s has unknown team %q", d.Code, d.Team)
		}
	}
	for i, c := range s.Circuits {
		if c.Round != i+1 {
			return nil, fmt.Errorf("reference: circuit %q has round %d, want %d", c.Name, c.Round, i+1)
		}
	}
	return &s, nil
}

// Team returns the team named name.
func (s *Season) Team(name string) (Team, bool) {
	i, ok := s.teams[name]
	if !ok {
		return Team{}, false
	}
	return s.Teams[i], true
}

// Circuit returns the circuit for round.
func (s *Season) Circuit(round int) (model.Circuit, bool) {
	if round < 1 || round > len(s.Circuits) {
		return model.Circuit{}, false
	}
	return s.Circuits[round-1], true
}

// TeamColor returns the team's hex color, or a neutral gray.
func (s *Season) TeamColor(name string) string {
	if t, ok := s.Team(name); ok {
		return t.Color
	}
	return "#888888"
}

// PointsFor returns the championship points for a finishing position.
func (s *Season) PointsFor(pos int) int {
	if pos < 1 || pos > len(s.Points) {
		return 0
	}
	return s.Points[pos-1]
}
