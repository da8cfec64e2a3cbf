// Package insight turns a raw chart result into the ranked,
// cross-referenced, chart-type-aware view shown to the user: key aspects,
// headline pairs and labeled highlight items enriched with house
// projections and ruler placements.
//
// Derivation is pure and stateless; malformed or partial input degrades to
// empty or neutral output, never an error, because this content is
// advisory and must not block display of the underlying chart.
package insight

import (
	"fmt"

	"github.com/astriel/siderea/internal/domain/charttype"
	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/internal/domain/overlay"
	"github.com/astriel/siderea/internal/domain/ranking"
	"github.com/astriel/siderea/internal/domain/relevance"
	"github.com/astriel/siderea/internal/domain/rulership"
)

// Highlight is one labeled item in the highlights panel.
type Highlight struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// View is the rendering-ready derivation result.
type View struct {
	ChartType  charttype.Type `json:"chart_type"`
	KeyAspects []model.Aspect `json:"key_aspects"`
	Highlights []Highlight    `json:"highlights"`
}

// rulerUnknown is the explicit value rendered when an ascendant ruler
// cannot be resolved; the detail names the expected ruler so the
// astrologer can tell why.
const rulerUnknown = "ruler unknown"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxKeyAspects caps the ranked key-aspects view.
func WithMaxKeyAspects(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxKeyAspects = n
		}
	}
}

// Engine derives insight views from chart results. It holds only
// read-only configuration and is safe for concurrent use.
type Engine struct {
	maxKeyAspects int
}

// New creates an Engine with default configuration.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxKeyAspects: ranking.DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive produces the view for result under the given rulership mode.
// Unknown chart types yield a view with no key aspects and no highlights.
func (e *Engine) Derive(result *model.ChartResult, mode rulership.Mode) *View {
	if result == nil {
		return &View{ChartType: charttype.Unknown, KeyAspects: []model.Aspect{}, Highlights: []Highlight{}}
	}

	t := charttype.Normalize(result.ChartType)
	view := &View{
		ChartType:  t,
		KeyAspects: []model.Aspect{},
		Highlights: []Highlight{},
	}
	if t == charttype.Unknown {
		return view
	}

	relevant := relevance.SelectRelevant(t, result)
	view.KeyAspects = ranking.RankKeyAspects(relevant, e.maxKeyAspects)

	ix := overlay.NewIndex(result.HouseComparison)
	active := result.ActiveSet()
	effective := charttype.EffectiveSubject(t, result.First, result.Second)

	switch t {
	case charttype.Natal, charttype.Composite:
		view.add(rulerHighlight("Chart Ruler", result.First, mode, active))
		view.add(headlineHighlight("Sun-Moon Contact", relevant,
			ranking.Pair("Sun", "Moon", true),
			ranking.AnyOf("Sun", "Moon"),
		))
	case charttype.Transit:
		for _, name := range []string{"Saturn", "Jupiter"} {
			view.add(transitHighlight(name, effective, ix, active))
		}
		view.add(rulerHighlight("Natal Chart Ruler", result.First, mode, active))
	case charttype.Synastry:
		view.add(headlineHighlight("Sun-Moon Contact", relevant,
			ranking.Pair("Sun", "Moon", true),
			ranking.Pair("Sun", "Sun", true),
			ranking.AnyOf("Sun", "Moon"),
		))
		view.add(headlineHighlight("Venus-Mars Contact", relevant,
			ranking.Pair("Venus", "Mars", true),
			ranking.Pair("Venus", "Venus", true),
			ranking.AnyOf("Venus", "Mars"),
		))
		view.add(synastrySunHighlight(result.Second, ix, active))
	case charttype.SolarReturn, charttype.LunarReturn:
		view.add(returnAscendantHighlight(effective, ix, result.Second != nil))
		view.add(rulerHighlight("Return Chart Ruler", effective, mode, active))
	}

	return view
}

// add appends h unless it is empty.
func (v *View) add(h Highlight, ok bool) {
	if ok {
		v.Highlights = append(v.Highlights, h)
	}
}

// rulerHighlight builds the ascendant-ruler item. A missing ruler renders
// with an explicit "ruler unknown" value and a diagnostic naming the
// expected ruler; a subject without an ascendant produces no item at all.
func rulerHighlight(label string, subject *model.Subject, mode rulership.Mode, active model.ActiveSet) (Highlight, bool) {
	if ruler, ok := rulership.AscendantRuler(subject, mode, active); ok {
		return Highlight{
			Label:  label,
			Value:  formatPlacement(ruler),
			Detail: ruler.House,
		}, true
	}
	if expected, ok := rulership.ExpectedAscendantRuler(subject, mode); ok {
		return Highlight{
			Label:  label,
			Value:  rulerUnknown,
			Detail: "expected " + expected,
		}, true
	}
	return Highlight{}, false
}

// headlineHighlight fills a fixed narrative slot via a fallback predicate
// chain, loosest last.
func headlineHighlight(label string, aspects []model.Aspect, chain ...ranking.Predicate) (Highlight, bool) {
	a, ok := ranking.FindBestAspect(aspects, chain...)
	if !ok {
		return Highlight{}, false
	}
	return Highlight{
		Label:  label,
		Value:  formatAspect(a),
		Detail: formatOrb(a),
	}, true
}

// transitHighlight describes a transiting slow mover and, when the
// comparison allows it, the natal house it currently occupies. A missing
// comparison drops only the house annotation, not the item.
func transitHighlight(name string, transiting *model.Subject, ix *overlay.Index, active model.ActiveSet) (Highlight, bool) {
	if !active.Has(name) {
		return Highlight{}, false
	}
	p, ok := transiting.Point(name)
	if !ok {
		return Highlight{}, false
	}
	h := Highlight{
		Label: "Transiting " + name,
		Value: formatPlacement(p),
	}
	if house, found := ix.PointHouse(name, overlay.SecondInFirst); found {
		h.Detail = overlay.OrdinalHouseName(house)
	}
	return h, true
}

// synastrySunHighlight projects the second subject's Sun into the first
// subject's houses.
func synastrySunHighlight(second *model.Subject, ix *overlay.Index, active model.ActiveSet) (Highlight, bool) {
	if second == nil || !active.Has("Sun") {
		return Highlight{}, false
	}
	sun, ok := second.Point("Sun")
	if !ok {
		return Highlight{}, false
	}
	h := Highlight{
		Label: second.Name + "'s Sun",
		Value: formatPlacement(sun),
	}
	if house, found := ix.PointHouse("Sun", overlay.SecondInFirst); found {
		h.Detail = overlay.OrdinalHouseName(house)
	}
	return h, true
}

// returnAscendantHighlight reports the return chart's rising sign and,
// for dual-wheel returns, the natal house its ascendant cusp falls in.
func returnAscendantHighlight(ret *model.Subject, ix *overlay.Index, dualWheel bool) (Highlight, bool) {
	asc, ok := ret.Point(rulership.Ascendant)
	if !ok {
		return Highlight{}, false
	}
	h := Highlight{
		Label: "Return Ascendant",
		Value: "Ascendant in " + asc.Sign,
	}
	if dualWheel {
		if house, found := ix.CuspHouse(rulership.Ascendant, overlay.SecondInFirst); found {
			h.Detail = overlay.OrdinalHouseName(house)
		}
	}
	return h, true
}

func formatPlacement(p model.Point) string {
	s := fmt.Sprintf("%s in %s", p.Name, p.Sign)
	if p.Retrograde {
		s += " (R)"
	}
	return s
}

func formatAspect(a model.Aspect) string {
	return fmt.Sprintf("%s %s %s", a.P1Name, a.Type, a.P2Name)
}

func formatOrb(a model.Aspect) string {
	s := fmt.Sprintf("orb %.1f°", a.Orbit)
	if a.Movement != "" {
		s += ", " + a.Movement
	}
	return s
}
