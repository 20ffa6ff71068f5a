// Package query maps the dashboard's canonical parameter set (the query
// string that can be shared to reproduce a view) to a typed ViewState.
package query

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Parameter keys of the canonical set.
const (
	KeyTab    = "tab"
	KeyRound  = "round"
	KeyDriver = "driver"
)

// Round domain for a 24-race season.
const (
	DefaultRound = 1
	MaxRound     = 24
)

// Tab identifies a top-level dashboard view.
type Tab string

const (
	TabRace         Tab = "race"
	TabChampionship Tab = "championship"
	TabAnalysis     Tab = "analysis"
)

// Tabs lists the views in display order.
var Tabs = []Tab{TabRace, TabChampionship, TabAnalysis}

// Valid reports whether t is one of the known tabs.
func (t Tab) Valid() bool {
	return slices.Contains(Tabs, t)
}

// Params is the flat, string-keyed canonical parameter set.
type Params map[string]string

// ParseParams reads a query string such as "tab=race&round=5". A leading
// "?" is ignored, pairs may be separated by "&" or ";" and for repeated keys
// the first value wins.
//
// The returned set is never nil. A pair whose key or value cannot be
// unescaped is kept verbatim so Decode can fall back to its default; the
// error only reports what was malformed.
func ParseParams(raw string) (Params, error) {
	p := make(Params)
	var errs []error

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	for _, pair := range strings.FieldsFunc(raw, func(r rune) bool { return r == '&' || r == ';' }) {
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			errs = append(errs, err)
			key = k
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			errs = append(errs, err)
			value = v
		}
		if key == "" {
			continue
		}
		if _, seen := p[key]; !seen {
			p[key] = value
		}
	}

	if err := errors.Join(errs...); err != nil {
		return p, fmt.Errorf("query: parse %q: %w", raw, err)
	}
	return p, nil
}

// String encodes the set as a query string with keys in sorted order.
func (p Params) String() string {
	values := make(url.Values, len(p))
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}

// Clone returns an independent copy. Cloning a nil set yields an empty one.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// Equal reports whether both sets hold exactly the same keys and values.
func (p Params) Equal(other Params) bool {
	return maps.Equal(p, other)
}

// ViewState is the typed projection of a parameter set.
type ViewState struct {
	Tab    Tab
	Round  int
	Driver string // "" when no driver is selected
}

// HasDriver reports whether a driver selection is present.
func (s ViewState) HasDriver() bool { return s.Driver != "" }

// DefaultViewState is what an empty parameter set decodes to.
func DefaultViewState() ViewState {
	return ViewState{Tab: TabRace, Round: DefaultRound}
}

// Decode projects a parameter set onto a ViewState. It never fails: unknown
// tabs, non-numeric or out-of-range rounds and blank drivers fall back to
// their defaults.
func Decode(p Params) ViewState {
	s := DefaultViewState()

	if tab := Tab(strings.TrimSpace(p[KeyTab])); tab.Valid() {
		s.Tab = tab
	}

	if raw, ok := p[KeyRound]; ok {
		if round, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && round >= 1 && round <= MaxRound {
			s.Round = round
		}
	}

	s.Driver = strings.TrimSpace(p[KeyDriver])
	return s
}

// Update is a partial change to a parameter set. A nil value deletes the key,
// anything else sets it to its string form.
type Update map[string]any

// Encode merges u into current and returns the new set. current is not
// modified and keys absent from u are carried over untouched.
func Encode(u Update, current Params) Params {
	next := current.Clone()
	for k, v := range u {
		if v == nil {
			delete(next, k)
			continue
		}
		next[k] = stringify(v)
	}
	return next
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case Tab:
		return string(v)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

// TabChange switches view. The driver selection belongs to one race result
// set, so it is always cleared.
func TabChange(tab Tab) Update {
	return Update{KeyTab: tab, KeyDriver: nil}
}

// RoundChange selects a race round and clears the driver selection.
func RoundChange(round int) Update {
	return Update{KeyRound: round, KeyDriver: nil}
}

// DriverChange selects a driver by code; an empty code clears the selection.
func DriverChange(code string) Update {
	if code == "" {
		return Update{KeyDriver: nil}
	}
	return Update{KeyDriver: code}
}
