package predictor_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/merito/gigscore/internal/domain/predictor"
	. "github.com/smartystreets/goconvey/convey"
)

func vectorOf(v float64) []float64 {
	vec := make([]float64, 12)
	for i := range vec {
		vec[i] = v
	}
	return vec
}

func TestInMemoryPredictor(t *testing.T) {
	Convey("Given an in-memory raw score predictor", t, func() {
		p := predictor.NewInMemoryPredictor(
			predictor.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
		)

		Convey("When the vector has the wrong length", func() {
			_, err := p.Predict(context.Background(), []float64{1, 2, 3})

			Convey("Then the size sentinel is returned", func() {
				So(err, ShouldWrap, predictor.ErrVectorSize)
			})
		})

		Convey("When predicting from a zero vector", func() {
			est, err := p.Predict(context.Background(), vectorOf(0))

			Convey("Then the estimate and margin are zero", func() {
				So(err, ShouldBeNil)
				So(est.Score, ShouldEqual, 0)
				So(est.Margin, ShouldEqual, 0)
			})
		})

		Convey("When predicting from a large vector", func() {
			est, err := p.Predict(context.Background(), vectorOf(1000))

			Convey("Then the estimate clamps onto [0, 1000]", func() {
				So(err, ShouldBeNil)
				So(est.Score, ShouldBeBetweenOrEqual, 0, 1000)
			})
		})

		Convey("When the margin is derived", func() {
			est, err := p.Predict(context.Background(), vectorOf(0.2))

			Convey("Then it is the score times the relative error", func() {
				So(err, ShouldBeNil)
				So(est.Margin, ShouldAlmostEqual, est.Score*0.12, 1e-9)
			})
		})

		Convey("When the vector contains NaN or Inf", func() {
			vec := vectorOf(0.2)
			vec[3] = math.NaN()
			vec[5] = math.Inf(1)
			est, err := p.Predict(context.Background(), vec)

			Convey("Then the poisoned entries are skipped, not propagated", func() {
				So(err, ShouldBeNil)
				So(math.IsNaN(est.Score), ShouldBeFalse)
				So(math.IsInf(est.Score, 0), ShouldBeFalse)
			})
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := p.Predict(ctx, vectorOf(0.2))

			Convey("Then the unavailable sentinel is returned", func() {
				So(err, ShouldWrap, predictor.ErrUnavailable)
			})
		})

		Convey("When predicting the same vector twice", func() {
			a, errA := p.Predict(context.Background(), vectorOf(0.3))
			b, errB := p.Predict(context.Background(), vectorOf(0.3))

			Convey("Then the estimates are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When custom coefficients are supplied", func() {
			coeffs := make([]float64, 12)
			coeffs[0] = 10
			custom := predictor.NewInMemoryPredictor(
				predictor.WithCoefficients(coeffs),
				predictor.WithLatencyRange(time.Millisecond, 2*time.Millisecond),
			)
			vec := vectorOf(0)
			vec[0] = 5
			est, err := custom.Predict(context.Background(), vec)

			Convey("Then they replace the defaults", func() {
				So(err, ShouldBeNil)
				So(est.Score, ShouldEqual, 50)
			})
		})
	})
}
