package reference

import (
	"strings"
	"testing"

	"github.com/tinytelemetry/pitwall/internal/query"
)

func TestLoad_EmbeddedSeason(t *testing.T) {
	t.Parallel()

	s, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Year != 2026 {
		t.Fatalf("season = %d, want 2026", s.Year)
	}
	if len(s.Circuits) != query.MaxRound {
		t.Fatalf("circuits = %d, want %d", len(s.Circuits), query.MaxRound)
	}
	if len(s.Drivers) != 22 {
		t.Fatalf("drivers = %d, want 22", len(s.Drivers))
	}
	if len(s.Teams) != 11 {
		t.Fatalf("teams = %d, want 11", len(s.Teams))
	}
	if len(s.Regulations) != 6 {
		t.Fatalf("regulation cards = %d, want 6", len(s.Regulations))
	}

	seen := map[string]bool{}
	for _, d := range s.Drivers {
		if seen[d.Code] {
			t.Fatalf("duplicate driver code %s", d.Code)
		}
		seen[d.Code] = true
	}
	for _, c := range s.Circuits {
		if len(c.Short) != 3 {
			t.Fatalf("round %d short code %q, want three letters", c.Round, c.Short)
		}
	}
}

func TestSeason_Lookups(t *testing.T) {
	t.Parallel()

	s := MustLoad()

	c, ok := s.Circuit(8)
	if !ok || c.Name != "Monaco" || !c.Street() {
		t.Fatalf("Circuit(8) = %+v, %v; want street Monaco", c, ok)
	}
	if _, ok := s.Circuit(0); ok {
		t.Fatal("Circuit(0) found, want miss")
	}
	if _, ok := s.Circuit(25); ok {
		t.Fatal("Circuit(25) found, want miss")
	}

	if got := s.TeamColor("McLaren"); got != "#FF8000" {
		t.Fatalf("TeamColor(McLaren) = %q", got)
	}
	if got := s.TeamColor("Minardi"); got != "#888888" {
		t.Fatalf("TeamColor(Minardi) = %q, want fallback", got)
	}

	if got := s.PointsFor(1); got != 25 {
		t.Fatalf("PointsFor(1) = %d, want 25", got)
	}
	if got := s.PointsFor(11); got != 0 {
		t.Fatalf("PointsFor(11) = %d, want 0", got)
	}
}

func TestParse_RejectsBrokenDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", "teams: [", "decode season"},
		{"unknown team", "teams: [{name: A}]\ndrivers: [{code: X, team: B}]", "unknown team"},
		{"round gap", "circuits: [{round: 2, name: X}]", "has round 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Parse err = %v, want containing %q", err, tt.want)
			}
		})
	}
}
