package relevance_test

import (
	"testing"

	"github.com/astriel/siderea/internal/domain/charttype"
	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/internal/domain/relevance"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelectRelevantByType(t *testing.T) {
	Convey("Given a mixed aspect list with owner tags", t, func() {
		internal := model.Aspect{P1Name: "Sun", P2Name: "Moon", Type: "trine", Orbit: 2.0}
		cross := model.Aspect{P1Name: "Saturn", P2Name: "Sun", Type: "square", Orbit: 0.5, P1Owner: "transit", P2Owner: "natal"}
		sameOwner := model.Aspect{P1Name: "Venus", P2Name: "Mars", Type: "sextile", Orbit: 1.2, P1Owner: "natal", P2Owner: "natal"}
		result := &model.ChartResult{
			First:   &model.Subject{Name: "Ada"},
			Second:  &model.Subject{Name: "Transits"},
			Aspects: []model.Aspect{internal, cross, sameOwner},
		}

		Convey("When the chart type is natal", func() {
			got := relevance.SelectRelevant(charttype.Natal, result)

			Convey("Then only single-chart aspects survive", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0], ShouldResemble, internal)
				So(got[1], ShouldResemble, sameOwner)
			})
		})

		Convey("When the chart type is transit", func() {
			got := relevance.SelectRelevant(charttype.Transit, result)

			Convey("Then only cross-chart aspects survive", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0], ShouldResemble, cross)
			})
		})

		Convey("When the chart type is synastry", func() {
			got := relevance.SelectRelevant(charttype.Synastry, result)

			Convey("Then only cross-chart aspects survive", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0], ShouldResemble, cross)
			})
		})

		Convey("When the chart type is unknown", func() {
			Convey("Then no derived content is produced", func() {
				So(relevance.SelectRelevant(charttype.Unknown, result), ShouldBeNil)
			})
		})
	})
}

func TestTransitFallback(t *testing.T) {
	Convey("Given a transit payload without any owner tags", t, func() {
		aspects := []model.Aspect{
			{P1Name: "Saturn", P2Name: "Sun", Type: "square", Orbit: 0.5},
			{P1Name: "Jupiter", P2Name: "Moon", Type: "trine", Orbit: 3.0},
		}
		result := &model.ChartResult{
			First:   &model.Subject{Name: "Ada"},
			Second:  &model.Subject{Name: "Transits"},
			Aspects: aspects,
		}

		Convey("When selecting for transit", func() {
			got := relevance.SelectRelevant(charttype.Transit, result)

			Convey("Then the full combined list is used as fallback", func() {
				So(got, ShouldHaveLength, 2)
			})
		})
	})
}

func TestSynastryFallback(t *testing.T) {
	Convey("Given a synastry payload without any owner tags", t, func() {
		aspects := []model.Aspect{
			{P1Name: "Sun", P2Name: "Moon", Type: "conjunction", Orbit: 1.2},
			{P1Name: "Venus", P2Name: "Mars", Type: "trine", Orbit: 2.4},
		}
		result := &model.ChartResult{
			First:   &model.Subject{Name: "Ada"},
			Second:  &model.Subject{Name: "Grace"},
			Aspects: aspects,
		}

		Convey("When selecting for synastry", func() {
			got := relevance.SelectRelevant(charttype.Synastry, result)

			Convey("Then the full list is kept, since every synastry aspect relates the two wheels", func() {
				So(got, ShouldHaveLength, 2)
			})
		})
	})
}

func TestActivePointFiltering(t *testing.T) {
	Convey("Given a chart with a restricted active-points set", t, func() {
		result := &model.ChartResult{
			First: &model.Subject{Name: "Ada"},
			Aspects: []model.Aspect{
				{P1Name: "Sun", P2Name: "Moon", Type: "trine", Orbit: 2.0},
				{P1Name: "Sun", P2Name: "Chiron", Type: "square", Orbit: 1.0},
				{P1Name: "Chiron", P2Name: "Lilith", Type: "conjunction", Orbit: 0.2},
			},
			ActivePoints: []string{"Sun", "Moon", "Mercury"},
		}

		Convey("When selecting relevant aspects", func() {
			got := relevance.SelectRelevant(charttype.Natal, result)

			Convey("Then every aspect touching an inactive point is dropped before ranking", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].P1Name, ShouldEqual, "Sun")
				So(got[0].P2Name, ShouldEqual, "Moon")
			})
		})
	})
}

func TestInherentAspectExclusion(t *testing.T) {
	Convey("Given a solar return with its by-construction Sun-Sun conjunction", t, func() {
		result := &model.ChartResult{
			First:  &model.Subject{Name: "Ada"},
			Second: &model.Subject{Name: "Return"},
			Aspects: []model.Aspect{
				{P1Name: "Sun", P2Name: "Sun", Type: "conjunction", Orbit: 0.0, P1Owner: "return", P2Owner: "natal"},
				{P1Name: "Saturn", P2Name: "Moon", Type: "opposition", Orbit: 2.1, P1Owner: "return", P2Owner: "natal"},
			},
		}

		Convey("When selecting for solar_return", func() {
			got := relevance.SelectRelevant(charttype.SolarReturn, result)

			Convey("Then the Sun-Sun conjunction is excluded", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].P1Name, ShouldEqual, "Saturn")
			})
		})
	})

	Convey("Given a lunar return with its Moon-Moon conjunction", t, func() {
		result := &model.ChartResult{
			First: &model.Subject{Name: "Ada"},
			Aspects: []model.Aspect{
				{P1Name: "Moon", P2Name: "Moon", Type: "conjunction", Orbit: 0.1},
				{P1Name: "Moon", P2Name: "Venus", Type: "sextile", Orbit: 1.8},
			},
		}

		Convey("When selecting for lunar_return on a single wheel", func() {
			got := relevance.SelectRelevant(charttype.LunarReturn, result)

			Convey("Then only the Moon-Moon conjunction is excluded", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].P2Name, ShouldEqual, "Venus")
			})
		})
	})

	Convey("Given a solar return whose Sun-Sun aspect is not a conjunction", t, func() {
		result := &model.ChartResult{
			First: &model.Subject{Name: "Ada"},
			Aspects: []model.Aspect{
				{P1Name: "Sun", P2Name: "Sun", Type: "square", Orbit: 0.4},
			},
		}

		Convey("Then it is not treated as inherent", func() {
			got := relevance.SelectRelevant(charttype.SolarReturn, result)
			So(got, ShouldHaveLength, 1)
		})
	})
}

func TestNilResult(t *testing.T) {
	Convey("Given a nil chart result", t, func() {
		Convey("Then selection degrades to nil instead of panicking", func() {
			So(relevance.SelectRelevant(charttype.Natal, nil), ShouldBeNil)
		})
	})
}
