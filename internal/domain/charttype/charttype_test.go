package charttype_test

import (
	"testing"

	"github.com/astriel/siderea/internal/domain/charttype"
	"github.com/astriel/siderea/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given raw chart-type labels", t, func() {
		Convey("When the label uses different casings and separators", func() {
			Convey("Then all solar-return spellings normalize identically", func() {
				So(charttype.Normalize("Solar-Return"), ShouldEqual, charttype.SolarReturn)
				So(charttype.Normalize("solar_return"), ShouldEqual, charttype.SolarReturn)
				So(charttype.Normalize(" Solar Return "), ShouldEqual, charttype.SolarReturn)
				So(charttype.Normalize("SOLAR_RETURN"), ShouldEqual, charttype.SolarReturn)
			})

			Convey("Then the remaining canonical types resolve", func() {
				So(charttype.Normalize("Natal"), ShouldEqual, charttype.Natal)
				So(charttype.Normalize("birth chart"), ShouldEqual, charttype.Natal)
				So(charttype.Normalize("Transits"), ShouldEqual, charttype.Transit)
				So(charttype.Normalize("synastry"), ShouldEqual, charttype.Synastry)
				So(charttype.Normalize("Composite"), ShouldEqual, charttype.Composite)
				So(charttype.Normalize("Lunar-Return"), ShouldEqual, charttype.LunarReturn)
			})
		})

		Convey("When the label matches no alias", func() {
			Convey("Then the sentinel Unknown is returned", func() {
				So(charttype.Normalize("draconic"), ShouldEqual, charttype.Unknown)
				So(charttype.Normalize(""), ShouldEqual, charttype.Unknown)
				So(charttype.Normalize("   "), ShouldEqual, charttype.Unknown)
			})
		})
	})
}

func TestIsDual(t *testing.T) {
	Convey("Given the canonical chart types", t, func() {
		Convey("Then dual-wheel types are recognized", func() {
			So(charttype.IsDual(charttype.Transit), ShouldBeTrue)
			So(charttype.IsDual(charttype.Synastry), ShouldBeTrue)
			So(charttype.IsDual(charttype.SolarReturn), ShouldBeTrue)
			So(charttype.IsDual(charttype.LunarReturn), ShouldBeTrue)
		})

		Convey("Then single-chart types are not", func() {
			So(charttype.IsDual(charttype.Natal), ShouldBeFalse)
			So(charttype.IsDual(charttype.Composite), ShouldBeFalse)
			So(charttype.IsDual(charttype.Unknown), ShouldBeFalse)
		})
	})
}

func TestEffectiveSubject(t *testing.T) {
	Convey("Given a primary and a secondary subject", t, func() {
		first := &model.Subject{Name: "Ada"}
		second := &model.Subject{Name: "Transits"}

		Convey("When the chart type is single", func() {
			Convey("Then the primary subject is foregrounded", func() {
				So(charttype.EffectiveSubject(charttype.Natal, first, second), ShouldEqual, first)
				So(charttype.EffectiveSubject(charttype.Composite, first, second), ShouldEqual, first)
			})
		})

		Convey("When the chart type is dual", func() {
			Convey("Then the second subject is foregrounded", func() {
				So(charttype.EffectiveSubject(charttype.Transit, first, second), ShouldEqual, second)
				So(charttype.EffectiveSubject(charttype.Synastry, first, second), ShouldEqual, second)
				So(charttype.EffectiveSubject(charttype.SolarReturn, first, second), ShouldEqual, second)
			})
		})

		Convey("When a dual-type chart arrives with a single subject", func() {
			Convey("Then the present subject is used", func() {
				So(charttype.EffectiveSubject(charttype.SolarReturn, first, nil), ShouldEqual, first)
			})
		})
	})
}
