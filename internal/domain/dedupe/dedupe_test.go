package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/astriel/siderea/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given an in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When a fresh id is recorded", func() {
			seen := d.SeenAndRecord(ctx, "req-1")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a second submission of the same id is a duplicate", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded after a failed enqueue", func() {
			d.SeenAndRecord(ctx, "req-2")
			d.Unrecord(ctx, "req-2")

			Convey("Then a retry is treated as new again", func() {
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeFalse)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 ids", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When a fourth id arrives", func() {
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i))
			}

			Convey("Then the oldest id was forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "req-4"), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given concurrent submissions of the same id", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		const goroutines = 32
		var wg sync.WaitGroup
		newCount := make(chan bool, goroutines)

		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				newCount <- !d.SeenAndRecord(ctx, "same-id")
			}()
		}
		wg.Wait()
		close(newCount)

		Convey("Then exactly one submission is treated as new", func() {
			fresh := 0
			for isNew := range newCount {
				if isNew {
					fresh++
				}
			}
			So(fresh, ShouldEqual, 1)
			So(d.Size(), ShouldEqual, 1)
		})
	})
}
