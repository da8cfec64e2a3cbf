// Package relevance narrows a chart's flat aspect list to the subset that
// is meaningful for its chart type, before any significance ranking.
package relevance

import (
	"github.com/astriel/siderea/internal/domain/charttype"
	"github.com/astriel/siderea/internal/domain/model"
)

// inherentExclusion describes an aspect that is definitionally true of a
// chart type and therefore carries zero diagnostic value in the key-aspects
// view. The full aspect grid elsewhere keeps it.
type inherentExclusion struct {
	p1, p2     string
	aspectType string
}

// matches reports whether a is the excluded aspect, in either direction.
func (e inherentExclusion) matches(a model.Aspect) bool {
	return a.Type == e.aspectType && a.IsPair(e.p1, e.p2, true)
}

// inherentExclusions maps chart types to their by-construction aspects:
// a solar return always contains a Sun-Sun conjunction, a lunar return a
// Moon-Moon conjunction.
var inherentExclusions = map[charttype.Type][]inherentExclusion{
	charttype.SolarReturn: {{p1: "Sun", p2: "Sun", aspectType: "conjunction"}},
	charttype.LunarReturn: {{p1: "Moon", p2: "Moon", aspectType: "conjunction"}},
}

// SelectRelevant returns the aspects of result that matter for the given
// chart type. Aspects touching a point outside the active set are always
// dropped first. Unknown chart types yield nil.
func SelectRelevant(t charttype.Type, result *model.ChartResult) []model.Aspect {
	if result == nil || t == charttype.Unknown {
		return nil
	}

	active := result.ActiveSet()
	aspects := filterActive(result.Aspects, active)

	switch t {
	case charttype.Natal, charttype.Composite:
		aspects = internalOnly(aspects)
	case charttype.Transit, charttype.Synastry:
		aspects = crossChartOrAll(aspects)
	case charttype.SolarReturn, charttype.LunarReturn:
		if result.Second != nil {
			aspects = crossChartOrAll(aspects)
		} else {
			aspects = internalOnly(aspects)
		}
	}

	return excludeInherent(t, aspects)
}

// filterActive drops aspects referencing a point the user has disabled.
func filterActive(aspects []model.Aspect, active model.ActiveSet) []model.Aspect {
	if active == nil {
		return aspects
	}
	out := make([]model.Aspect, 0, len(aspects))
	for _, a := range aspects {
		if active.Has(a.P1Name) && active.Has(a.P2Name) {
			out = append(out, a)
		}
	}
	return out
}

// internalOnly keeps aspects whose endpoints belong to a single chart:
// both owner tags empty or equal.
func internalOnly(aspects []model.Aspect) []model.Aspect {
	out := make([]model.Aspect, 0, len(aspects))
	for _, a := range aspects {
		if !a.CrossChart() {
			out = append(out, a)
		}
	}
	return out
}

// crossChartOrAll keeps cross-chart aspects only. When no aspect carries
// two distinct owner tags the full list is returned unchanged: for these
// chart types every aspect relates the two wheels by construction, so an
// untagged payload is entirely relevant rather than entirely noise.
func crossChartOrAll(aspects []model.Aspect) []model.Aspect {
	out := make([]model.Aspect, 0, len(aspects))
	for _, a := range aspects {
		if a.CrossChart() {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return aspects
	}
	return out
}

// excludeInherent removes the chart type's by-construction aspects.
func excludeInherent(t charttype.Type, aspects []model.Aspect) []model.Aspect {
	exclusions, ok := inherentExclusions[t]
	if !ok {
		return aspects
	}
	out := make([]model.Aspect, 0, len(aspects))
	for _, a := range aspects {
		if !anyMatch(exclusions, a) {
			out = append(out, a)
		}
	}
	return out
}

func anyMatch(exclusions []inherentExclusion, a model.Aspect) bool {
	for _, e := range exclusions {
		if e.matches(a) {
			return true
		}
	}
	return false
}
