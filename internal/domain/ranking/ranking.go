// Package ranking scores aspects by astrological significance and
// produces the capped "key aspects" view plus the headline-pair search
// used for fixed narrative slots.
//
// Ranking is pure: same input list, same output, no clocks, no shared
// state. Tier and point classifications are static tables extensible by
// data rather than new branches.
package ranking

import (
	"sort"

	"github.com/astriel/siderea/internal/domain/model"
)

// DefaultMaxResults caps the key-aspects view when the caller passes no
// explicit limit.
const DefaultMaxResults = 6

// majorAspects are the only aspect types eligible for ranking. Minor
// aspects stay visible in the full grid but are never selected as key.
var majorAspects = map[string]struct{}{
	"conjunction": {},
	"opposition":  {},
	"square":      {},
	"trine":       {},
	"sextile":     {},
}

// personalPoints are the fast-moving bodies whose aspects read as
// personally significant.
var personalPoints = map[string]struct{}{
	"Sun":     {},
	"Moon":    {},
	"Mercury": {},
	"Venus":   {},
	"Mars":    {},
}

// chartAngles are the angles the highlight layer recognizes.
var chartAngles = map[string]struct{}{
	"Ascendant":    {},
	"Medium_Coeli": {},
}

// slowMovers are the transiting heavyweights that dominate tier 1.
var slowMovers = map[string]struct{}{
	"Saturn":  {},
	"Jupiter": {},
}

// IsMajor reports whether aspectType participates in ranking at all.
func IsMajor(aspectType string) bool {
	_, ok := majorAspects[aspectType]
	return ok
}

func isPersonal(name string) bool {
	_, ok := personalPoints[name]
	return ok
}

func isAngle(name string) bool {
	_, ok := chartAngles[name]
	return ok
}

func isSlowMover(name string) bool {
	_, ok := slowMovers[name]
	return ok
}

// tierRule assigns a significance tier when its condition holds. Rules are
// evaluated in order; the first match wins.
type tierRule struct {
	tier  int
	match func(model.Aspect) bool
}

// tierRules is the significance table, highest priority first.
var tierRules = []tierRule{
	// Saturn or Jupiter acting as a transiting/returning point against a
	// personal point or angle.
	{tier: 1, match: func(a model.Aspect) bool {
		if !a.CrossChart() {
			return false
		}
		if isSlowMover(a.P1Name) && (isPersonal(a.P2Name) || isAngle(a.P2Name)) {
			return true
		}
		return isSlowMover(a.P2Name) && (isPersonal(a.P1Name) || isAngle(a.P1Name))
	}},
	// Conjunction or opposition between two personal points.
	{tier: 2, match: func(a model.Aspect) bool {
		if a.Type != "conjunction" && a.Type != "opposition" {
			return false
		}
		return isPersonal(a.P1Name) && isPersonal(a.P2Name)
	}},
	// Luminary involvement.
	{tier: 3, match: func(a model.Aspect) bool {
		return a.Involves("Sun") || a.Involves("Moon")
	}},
	// Venus or Mars involvement.
	{tier: 4, match: func(a model.Aspect) bool {
		return a.Involves("Venus") || a.Involves("Mars")
	}},
	// Angle involvement.
	{tier: 5, match: func(a model.Aspect) bool {
		return isAngle(a.P1Name) || isAngle(a.P2Name)
	}},
}

// lowestTier is assigned to major aspects no rule claims.
const lowestTier = 6

// TierOf returns the significance tier of a, 1 (highest) through 6.
func TierOf(a model.Aspect) int {
	for _, rule := range tierRules {
		if rule.match(a) {
			return rule.tier
		}
	}
	return lowestTier
}

// RankKeyAspects filters aspects to the major set, orders them by
// ascending tier then ascending orb, and returns at most maxResults of
// them. Ties at equal tier and orb keep the input order (the sort is
// stable). maxResults <= 0 falls back to DefaultMaxResults. Empty input,
// or input with no major aspects, yields an empty result.
func RankKeyAspects(aspects []model.Aspect, maxResults int) []model.Aspect {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	ranked := make([]model.Aspect, 0, len(aspects))
	for _, a := range aspects {
		if IsMajor(a.Type) {
			ranked = append(ranked, a)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := TierOf(ranked[i]), TierOf(ranked[j])
		if ti != tj {
			return ti < tj
		}
		return ranked[i].Orbit < ranked[j].Orbit
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// Predicate selects aspects for a headline slot.
type Predicate func(model.Aspect) bool

// Pair builds a predicate matching aspects between p1 and p2, optionally
// in either direction.
func Pair(p1, p2 string, eitherDirection bool) Predicate {
	return func(a model.Aspect) bool {
		return a.IsPair(p1, p2, eitherDirection)
	}
}

// AnyOf builds a predicate matching aspects whose endpoints are both drawn
// from names.
func AnyOf(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(a model.Aspect) bool {
		_, ok1 := set[a.P1Name]
		_, ok2 := set[a.P2Name]
		return ok1 && ok2
	}
}

// FindBestAspect evaluates predicates in the caller-supplied order and
// returns the tightest-orb match of the first predicate with any match.
// The fallback order is entirely the caller's concern. False when no
// predicate matches anything.
func FindBestAspect(aspects []model.Aspect, predicates ...Predicate) (model.Aspect, bool) {
	for _, pred := range predicates {
		best, found := model.Aspect{}, false
		for _, a := range aspects {
			if !pred(a) {
				continue
			}
			if !found || a.Orbit < best.Orbit {
				best, found = a, true
			}
		}
		if found {
			return best, true
		}
	}
	return model.Aspect{}, false
}
