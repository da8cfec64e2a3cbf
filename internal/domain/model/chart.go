// Package model contains chart domain values passed between layers.
// Everything here mirrors the JSON schema of the external computation
// service and is treated as immutable once decoded.
package model

import "time"

// Point is a celestial body or angle with its computed placement.
type Point struct {
	Name       string  `json:"name"`                 // canonical body/angle identifier, e.g. "Sun", "Ascendant"
	Position   float64 `json:"position"`             // ecliptic degree within sign, 0-30
	Sign       string  `json:"sign"`                 // one of the 12 zodiac signs
	House      string  `json:"house,omitempty"`      // house name; empty for points without a house system
	Retrograde bool    `json:"retrograde"`
	Speed      float64 `json:"speed,omitempty"` // degrees/day, 0 when upstream omits it
}

// Aspect is an angular relationship between two points, possibly drawn
// from two different charts.
type Aspect struct {
	P1Name   string  `json:"p1_name"`
	P2Name   string  `json:"p2_name"`
	Type     string  `json:"aspect"` // e.g. "conjunction"
	Orbit    float64 `json:"orbit"`  // absolute orb in degrees, >= 0
	Diff     float64 `json:"diff"`   // signed angular difference
	Movement string  `json:"aspect_movement,omitempty"` // "Applying" | "Separating" | ""
	P1Owner  string  `json:"p1_owner,omitempty"`        // chart-ownership tag, e.g. "natal", "transit"
	P2Owner  string  `json:"p2_owner,omitempty"`
}

// Involves reports whether either endpoint of the aspect is name.
func (a Aspect) Involves(name string) bool {
	return a.P1Name == name || a.P2Name == name
}

// IsPair reports whether the aspect connects p1 and p2. When eitherDirection
// is true the endpoints may be swapped.
func (a Aspect) IsPair(p1, p2 string, eitherDirection bool) bool {
	if a.P1Name == p1 && a.P2Name == p2 {
		return true
	}
	return eitherDirection && a.P1Name == p2 && a.P2Name == p1
}

// CrossChart reports whether the two endpoints carry distinct, non-empty
// ownership tags, i.e. belong to different charts.
func (a Aspect) CrossChart() bool {
	return a.P1Owner != "" && a.P2Owner != "" && a.P1Owner != a.P2Owner
}

// Subject is the full set of computed points for one chart plus the
// identity the chart was cast for.
type Subject struct {
	Name      string           `json:"name"`
	BirthTime time.Time        `json:"birth_time"`
	Location  string           `json:"location,omitempty"`
	Points    map[string]Point `json:"points"` // keyed by canonical point name
}

// Point returns the named point and whether the subject has it.
func (s *Subject) Point(name string) (Point, bool) {
	if s == nil {
		return Point{}, false
	}
	p, ok := s.Points[name]
	return p, ok
}

// PointInHouse records one point or cusp of a chart projected into the
// house system of the other chart.
type PointInHouse struct {
	PointName            string  `json:"point_name"`
	PointSign            string  `json:"point_sign"`
	PointDegree          float64 `json:"point_degree"`
	ProjectedHouseNumber int     `json:"projected_house_number"` // 1-12
	ProjectedHouseName   string  `json:"projected_house_name"`
}

// HouseComparison is the symmetric cross-reference between two subjects'
// house systems. It is produced upstream; the engine only looks things up
// in it.
type HouseComparison struct {
	FirstSubjectName          string         `json:"first_subject_name"`
	SecondSubjectName         string         `json:"second_subject_name"`
	FirstPointsInSecondHouses []PointInHouse `json:"first_points_in_second_houses"`
	SecondPointsInFirstHouses []PointInHouse `json:"second_points_in_first_houses"`
	FirstCuspsInSecondHouses  []PointInHouse `json:"first_cusps_in_second_houses"`
	SecondCuspsInFirstHouses  []PointInHouse `json:"second_cusps_in_first_houses"`
}

// ChartResult is the aggregate unit the engine consumes: one or two
// subjects, the flat aspect list, the optional house comparison, the raw
// chart-type label and the user's enabled point set.
type ChartResult struct {
	ChartType       string           `json:"chart_type"`
	First           *Subject         `json:"first_subject"`
	Second          *Subject         `json:"second_subject,omitempty"`
	Aspects         []Aspect         `json:"aspects"`
	HouseComparison *HouseComparison `json:"house_comparison,omitempty"`
	ActivePoints    []string         `json:"active_points"`
}

// ActiveSet answers membership queries against ActivePoints. An empty
// ActivePoints list means the user disabled nothing, so every point is
// active.
func (c *ChartResult) ActiveSet() ActiveSet {
	if len(c.ActivePoints) == 0 {
		return nil
	}
	set := make(ActiveSet, len(c.ActivePoints))
	for _, name := range c.ActivePoints {
		set[name] = struct{}{}
	}
	return set
}

// ActiveSet is the set of point names the user has enabled. A nil set
// treats every point as active.
type ActiveSet map[string]struct{}

// Has reports whether name is active.
func (s ActiveSet) Has(name string) bool {
	if s == nil {
		return true
	}
	_, ok := s[name]
	return ok
}
