package overlay_test

import (
	"testing"

	"github.com/astriel/siderea/internal/domain/model"
	"github.com/astriel/siderea/internal/domain/overlay"
	. "github.com/smartystreets/goconvey/convey"
)

func comparison() *model.HouseComparison {
	return &model.HouseComparison{
		FirstSubjectName:  "Ada",
		SecondSubjectName: "Grace",
		FirstPointsInSecondHouses: []model.PointInHouse{
			{PointName: "Sun", PointSign: "Leo", PointDegree: 12.4, ProjectedHouseNumber: 7, ProjectedHouseName: "Seventh_House"},
			{PointName: "Moon", PointSign: "Cancer", PointDegree: 3.1, ProjectedHouseNumber: 4, ProjectedHouseName: "Fourth_House"},
		},
		SecondPointsInFirstHouses: []model.PointInHouse{
			{PointName: "Saturn", PointSign: "Aquarius", PointDegree: 8.0, ProjectedHouseNumber: 10, ProjectedHouseName: "Tenth_House"},
		},
		FirstCuspsInSecondHouses: []model.PointInHouse{
			{PointName: "Ascendant", PointSign: "Virgo", PointDegree: 0.0, ProjectedHouseNumber: 12, ProjectedHouseName: "Twelfth_House"},
		},
		SecondCuspsInFirstHouses: []model.PointInHouse{
			{PointName: "First_House", PointSign: "Libra", PointDegree: 0.0, ProjectedHouseNumber: 2, ProjectedHouseName: "Second_House"},
		},
	}
}

func TestIndexPointHouse(t *testing.T) {
	Convey("Given an index over a house comparison", t, func() {
		ix := overlay.NewIndex(comparison())

		Convey("When the point is present in the requested direction", func() {
			house, ok := ix.PointHouse("Sun", overlay.FirstInSecond)

			Convey("Then its projected house number is returned and in range", func() {
				So(ok, ShouldBeTrue)
				So(house, ShouldEqual, 7)
				So(house, ShouldBeBetweenOrEqual, 1, 12)
			})
		})

		Convey("When the point is only present in the other direction", func() {
			_, ok := ix.PointHouse("Saturn", overlay.FirstInSecond)

			Convey("Then the lookup reports not found", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When matching is attempted with different casing", func() {
			_, ok := ix.PointHouse("sun", overlay.FirstInSecond)

			Convey("Then the exact, case-sensitive lookup misses", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the point is absent entirely", func() {
			_, ok := ix.PointHouse("Chiron", overlay.SecondInFirst)

			Convey("Then not found is reported, not an error", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a nil index, as for chart types without a comparison", t, func() {
		var ix *overlay.Index

		Convey("Then every lookup reports not found", func() {
			_, ok := ix.PointHouse("Sun", overlay.FirstInSecond)
			So(ok, ShouldBeFalse)
			_, ok = ix.CuspHouse("Ascendant", overlay.SecondInFirst)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestIndexCuspHouse(t *testing.T) {
	Convey("Given an index over a house comparison", t, func() {
		ix := overlay.NewIndex(comparison())

		Convey("When the cusp is recorded under the requested name", func() {
			house, ok := ix.CuspHouse("Ascendant", overlay.FirstInSecond)

			Convey("Then its projection is found directly", func() {
				So(ok, ShouldBeTrue)
				So(house, ShouldEqual, 12)
			})
		})

		Convey("When upstream recorded the ascendant cusp as First_House", func() {
			house, ok := ix.CuspHouse("Ascendant", overlay.SecondInFirst)

			Convey("Then the alias is tried before concluding not found", func() {
				So(ok, ShouldBeTrue)
				So(house, ShouldEqual, 2)
			})
		})

		Convey("When the cusp name has no alias and is absent", func() {
			_, ok := ix.CuspHouse("Tenth_House", overlay.FirstInSecond)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestOrdinalHouseName(t *testing.T) {
	Convey("Given projected house numbers", t, func() {
		Convey("Then 1 through 12 map to their display names", func() {
			So(overlay.OrdinalHouseName(1), ShouldEqual, "First House")
			So(overlay.OrdinalHouseName(4), ShouldEqual, "Fourth House")
			So(overlay.OrdinalHouseName(12), ShouldEqual, "Twelfth House")
		})

		Convey("Then out-of-range input maps to the neutral placeholder", func() {
			So(overlay.OrdinalHouseName(0), ShouldEqual, "-")
			So(overlay.OrdinalHouseName(13), ShouldEqual, "-")
			So(overlay.OrdinalHouseName(-3), ShouldEqual, "-")
		})
	})
}
