// Package overlay looks up, for a point or cusp of one chart, its
// projected house number in the other chart of a dual-chart comparison.
//
// A HouseComparison is four flat, pre-computed sequences. The Index builds
// a name->record map per sequence once so repeated lookups within one
// request avoid rescanning.
package overlay

import "github.com/astriel/siderea/internal/domain/model"

// Direction selects which comparison sequence a lookup targets.
type Direction int

// Lookup directions.
const (
	FirstInSecond Direction = iota // first subject's points in the second subject's houses
	SecondInFirst                  // second subject's points in the first subject's houses
)

// ascendantAliases are the names the ascendant cusp may be recorded under,
// depending on upstream convention. Cusp lookups try each in order.
var ascendantAliases = []string{"Ascendant", "First_House"}

// houseNames maps house numbers 1-12 to their display names.
var houseNames = [...]string{
	"First House", "Second House", "Third House", "Fourth House",
	"Fifth House", "Sixth House", "Seventh House", "Eighth House",
	"Ninth House", "Tenth House", "Eleventh House", "Twelfth House",
}

// unknownHouse is the neutral placeholder for absent or out-of-range
// house numbers.
const unknownHouse = "-"

// OrdinalHouseName maps a projected house number to its display name.
// Anything outside [1,12] yields the neutral placeholder, never a panic.
func OrdinalHouseName(n int) string {
	if n < 1 || n > len(houseNames) {
		return unknownHouse
	}
	return houseNames[n-1]
}

// Index provides by-name access into one HouseComparison. A nil Index is
// valid and reports every lookup as not found, which is the expected shape
// for chart types without a comparison.
type Index struct {
	points map[Direction]map[string]model.PointInHouse
	cusps  map[Direction]map[string]model.PointInHouse
}

// NewIndex builds lookup maps over cmp. A nil cmp yields a nil Index.
func NewIndex(cmp *model.HouseComparison) *Index {
	if cmp == nil {
		return nil
	}
	return &Index{
		points: map[Direction]map[string]model.PointInHouse{
			FirstInSecond: byName(cmp.FirstPointsInSecondHouses),
			SecondInFirst: byName(cmp.SecondPointsInFirstHouses),
		},
		cusps: map[Direction]map[string]model.PointInHouse{
			FirstInSecond: byName(cmp.FirstCuspsInSecondHouses),
			SecondInFirst: byName(cmp.SecondCuspsInFirstHouses),
		},
	}
}

func byName(records []model.PointInHouse) map[string]model.PointInHouse {
	m := make(map[string]model.PointInHouse, len(records))
	for _, r := range records {
		// First record wins; upstream never emits duplicate names.
		if _, ok := m[r.PointName]; !ok {
			m[r.PointName] = r
		}
	}
	return m
}

// PointHouse returns the projected house number of the named point in the
// given direction. Name matching is case-sensitive and exact. Absence is
// expected, not an error: a point outside the active set, or a chart type
// without a comparison, simply reports false.
func (ix *Index) PointHouse(name string, dir Direction) (int, bool) {
	if ix == nil {
		return 0, false
	}
	r, ok := ix.points[dir][name]
	if !ok {
		return 0, false
	}
	return r.ProjectedHouseNumber, true
}

// CuspHouse returns the projected house number of the named cusp, trying
// the ascendant aliases when name is one of them before concluding not
// found.
func (ix *Index) CuspHouse(name string, dir Direction) (int, bool) {
	if ix == nil {
		return 0, false
	}
	if r, ok := ix.cusps[dir][name]; ok {
		return r.ProjectedHouseNumber, true
	}
	if isAscendantAlias(name) {
		for _, alias := range ascendantAliases {
			if alias == name {
				continue
			}
			if r, ok := ix.cusps[dir][alias]; ok {
				return r.ProjectedHouseNumber, true
			}
		}
	}
	return 0, false
}

func isAscendantAlias(name string) bool {
	for _, alias := range ascendantAliases {
		if alias == name {
			return true
		}
	}
	return false
}
