// Package rulership maps zodiac signs to their ruling points under the
// classical and modern regimes and resolves a chart's ascendant ruler.
//
// The tables are static data so new point sets can be added by extending
// the maps rather than rewriting logic.
package rulership

import "github.com/astriel/siderea/internal/domain/model"

// Mode selects which rulership tradition to apply.
type Mode string

// Supported rulership modes.
const (
	Classical Mode = "classical"
	Modern    Mode = "modern"
)

// ParseMode maps a user-settings string to a Mode, defaulting to Classical
// for anything unrecognized.
func ParseMode(s string) Mode {
	if s == string(Modern) {
		return Modern
	}
	return Classical
}

// Ascendant is the point name the external service uses for the rising
// degree.
const Ascendant = "Ascendant"

// classicalRulers assigns every sign its traditional ruler using the seven
// classical bodies.
var classicalRulers = map[string]string{
	"Aries":       "Mars",
	"Taurus":      "Venus",
	"Gemini":      "Mercury",
	"Cancer":      "Moon",
	"Leo":         "Sun",
	"Virgo":       "Mercury",
	"Libra":       "Venus",
	"Scorpio":     "Mars",
	"Sagittarius": "Jupiter",
	"Capricorn":   "Saturn",
	"Aquarius":    "Saturn",
	"Pisces":      "Jupiter",
}

// modernOverrides replaces exactly three classical assignments with the
// outer planets. Every other sign keeps its classical ruler.
var modernOverrides = map[string]string{
	"Scorpio":  "Pluto",
	"Aquarius": "Uranus",
	"Pisces":   "Neptune",
}

// SignRuler returns the ruling point of sign under mode. The boolean is
// false only for unknown sign names.
func SignRuler(sign string, mode Mode) (string, bool) {
	if mode == Modern {
		if ruler, ok := modernOverrides[sign]; ok {
			return ruler, true
		}
	}
	ruler, ok := classicalRulers[sign]
	return ruler, ok
}

// AscendantRuler resolves the ruler of the subject's ascendant sign and
// returns that ruling point's own placement within the same subject. The
// boolean is false when the subject has no ascendant, the sign is unknown,
// or the ruling point is missing from the subject or excluded from the
// active set; callers render a "ruler unknown" fallback in that case.
func AscendantRuler(subject *model.Subject, mode Mode, active model.ActiveSet) (model.Point, bool) {
	asc, ok := subject.Point(Ascendant)
	if !ok {
		return model.Point{}, false
	}
	ruler, ok := SignRuler(asc.Sign, mode)
	if !ok {
		return model.Point{}, false
	}
	p, ok := subject.Point(ruler)
	if !ok || !active.Has(ruler) {
		return model.Point{}, false
	}
	return p, true
}

// ExpectedAscendantRuler names the point that would rule the subject's
// ascendant, regardless of whether the subject actually carries that
// point. Used for the "ruler unknown" diagnostic.
func ExpectedAscendantRuler(subject *model.Subject, mode Mode) (string, bool) {
	asc, ok := subject.Point(Ascendant)
	if !ok {
		return "", false
	}
	return SignRuler(asc.Sign, mode)
}
