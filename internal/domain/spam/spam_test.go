package spam_test

import (
	"context"
	"testing"
	"time"

	"github.com/merito/gigscore/internal/domain/spam"
	. "github.com/smartystreets/goconvey/convey"
)

func detector() *spam.InMemoryDetector {
	return spam.NewInMemoryDetector(
		spam.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
	)
}

func TestNormalize(t *testing.T) {
	Convey("Given raw detector inputs", t, func() {
		Convey("When some required fields are missing", func() {
			out := spam.Normalize(map[string]float64{"review_count": 10})

			Convey("Then the missing fields default to 0", func() {
				So(len(out), ShouldEqual, len(spam.RequiredFeatures))
				So(out["review_count"], ShouldEqual, 10)
				So(out["logins_per_day"], ShouldEqual, 0)
			})
		})

		Convey("When unrelated fields are present", func() {
			out := spam.Normalize(map[string]float64{"rides_30d": 120, "rating_variance": 1})

			Convey("Then they are dropped from the detector input", func() {
				So(out, ShouldNotContainKey, "rides_30d")
				So(out["rating_variance"], ShouldEqual, 1)
			})
		})
	})
}

func TestInMemoryDetector(t *testing.T) {
	Convey("Given an in-memory hybrid detector", t, func() {
		d := detector()

		Convey("When scoring an established, regular account", func() {
			score, err := d.Score(context.Background(), map[string]float64{
				"review_count":      20,
				"rating_variance":   0.4,
				"avg_review_length": 150,
				"logins_per_day":    3,
				"std_login_time":    2,
				"account_age_days":  700,
			})

			Convey("Then the hybrid score stays low", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeBetweenOrEqual, 0, 1)
				So(score, ShouldBeLessThan, spam.DefaultThreshold)
			})
		})

		Convey("When scoring a bursty young account", func() {
			score, err := d.Score(context.Background(), map[string]float64{
				"review_count":      240,
				"rating_variance":   2.8,
				"avg_review_length": 12,
				"logins_per_day":    60,
				"std_login_time":    0.1,
				"account_age_days":  10,
			})

			Convey("Then the anomaly flag pushes the score above the threshold", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeGreaterThan, spam.DefaultThreshold)
				So(score, ShouldBeLessThanOrEqualTo, 1)
			})
		})

		Convey("When fields are missing entirely", func() {
			score, err := d.Score(context.Background(), nil)

			Convey("Then the zero-filled input still yields a probability", func() {
				So(err, ShouldBeNil)
				So(score, ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		Convey("When the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := d.Score(ctx, nil)

			Convey("Then the unavailable sentinel is returned", func() {
				So(err, ShouldWrap, spam.ErrUnavailable)
			})
		})

		Convey("When scoring the same input twice", func() {
			in := map[string]float64{"review_count": 50, "account_age_days": 400}
			a, errA := d.Score(context.Background(), in)
			b, errB := d.Score(context.Background(), in)

			Convey("Then the scores are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldEqual, b)
			})
		})
	})
}

func TestApplyPenalty(t *testing.T) {
	Convey("Given the flagged-account penalty rule", t, func() {
		Convey("When the hybrid score exceeds the threshold", func() {
			primary, secondary, applied := spam.ApplyPenalty(500, 80, 0.85, spam.DefaultThreshold)

			Convey("Then the primary loses 100 and the secondary 50", func() {
				So(applied, ShouldBeTrue)
				So(primary, ShouldEqual, 400)
				So(secondary, ShouldEqual, 30)
			})
		})

		Convey("When the scores are smaller than the penalty", func() {
			primary, secondary, applied := spam.ApplyPenalty(60, 20, 0.9, spam.DefaultThreshold)

			Convey("Then both floor at 0", func() {
				So(applied, ShouldBeTrue)
				So(primary, ShouldEqual, 0)
				So(secondary, ShouldEqual, 0)
			})
		})

		Convey("When the hybrid score equals the threshold", func() {
			primary, secondary, applied := spam.ApplyPenalty(500, 80, spam.DefaultThreshold, spam.DefaultThreshold)

			Convey("Then no penalty fires", func() {
				So(applied, ShouldBeFalse)
				So(primary, ShouldEqual, 500)
				So(secondary, ShouldEqual, 80)
			})
		})
	})
}
