// Package charttype canonicalizes the heterogeneous chart-type labels the
// external computation service emits and resolves which subject a chart
// type foregrounds.
package charttype

import (
	"strings"

	"github.com/astriel/siderea/internal/domain/model"
)

// Type is a canonical chart type.
type Type string

// Canonical chart types. Unknown is the sentinel for labels no alias
// matches; callers must treat it as "no derived content".
const (
	Natal       Type = "natal"
	Transit     Type = "transit"
	Synastry    Type = "synastry"
	Composite   Type = "composite"
	SolarReturn Type = "solar_return"
	LunarReturn Type = "lunar_return"
	Unknown     Type = "unknown"
)

// aliases maps canonicalized label text to a chart type. Keys are the
// lower-cased, separator-collapsed form produced by canonicalize.
var aliases = map[string]Type{
	"natal":        Natal,
	"birth":        Natal,
	"birth chart":  Natal,
	"radix":        Natal,
	"transit":      Transit,
	"transits":     Transit,
	"synastry":     Synastry,
	"composite":    Composite,
	"solar return": SolarReturn,
	"solar":        SolarReturn,
	"lunar return": LunarReturn,
	"lunar":        LunarReturn,
}

// Normalize maps a raw chart-type label to its canonical type. Casing,
// leading/trailing whitespace and "-"/"_" separators are ignored:
// "Solar-Return", "solar_return" and " Solar Return " all normalize to
// SolarReturn. Labels with no alias yield Unknown.
func Normalize(raw string) Type {
	if t, ok := aliases[canonicalize(raw)]; ok {
		return t
	}
	return Unknown
}

// canonicalize lower-cases, replaces separators with single spaces and
// collapses runs of whitespace.
func canonicalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// IsDual reports whether the type compares two distinct charts.
func IsDual(t Type) bool {
	switch t {
	case Transit, Synastry, SolarReturn, LunarReturn:
		return true
	default:
		return false
	}
}

// EffectiveSubject resolves which subject a chart type narratively
// foregrounds: the single subject for natal and composite charts, the
// "moving" party for dual types (the transiting positions, the return
// chart, the second person in a synastry). When a dual-type chart arrives
// with a single subject the present one is used.
func EffectiveSubject(t Type, first, second *model.Subject) *model.Subject {
	if IsDual(t) && second != nil {
		return second
	}
	return first
}
