package credit_test

import (
	"context"
	"testing"

	"github.com/merito/gigscore/internal/domain/credit"
	"github.com/merito/gigscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func driverProfile(userID string, features map[string]float64) model.UserProfile {
	if features == nil {
		features = map[string]float64{}
	}
	return model.UserProfile{
		UserID:   userID,
		Role:     model.RoleDriver,
		Features: features,
	}
}

func TestComputeUnknownRole(t *testing.T) {
	Convey("Given a profile with an unregistered role", t, func() {
		engine := credit.NewEngine()
		p := model.UserProfile{UserID: "u1", Role: model.Role("pilot")}

		Convey("When computing the credit score", func() {
			_, err := engine.Compute(context.Background(), p, nil, model.ScoreBreakdown{})

			Convey("Then the invalid role sentinel is returned", func() {
				So(err, ShouldWrap, model.ErrInvalidRole)
			})
		})
	})
}

func TestComputeRoleComponent(t *testing.T) {
	Convey("Given a driver with a level score of 500", t, func() {
		engine := credit.NewEngine()
		lvl := model.ScoreBreakdown{FinalScore: 500, Tier: model.Amber}

		Convey("When the extra factors are absent", func() {
			cb, err := engine.Compute(context.Background(), driverProfile("u1", nil), nil, lvl)

			Convey("Then neutral 0.5 factors blend into the role component", func() {
				So(err, ShouldBeNil)
				// (500 + 3*0.2*0.5*100) / (1.0 + 3*0.2*100)
				So(cb.RoleComponent, ShouldAlmostEqual, 530.0/61.0, 0.005)
				So(cb.Warnings, ShouldBeEmpty)
			})
		})

		Convey("When an extra factor is out of range", func() {
			cb, err := engine.Compute(context.Background(), driverProfile("u1", map[string]float64{
				"behavior_score": 1.7,
			}), nil, lvl)

			Convey("Then it defaults to neutral with a warning", func() {
				So(err, ShouldBeNil)
				So(cb.RoleComponent, ShouldAlmostEqual, 530.0/61.0, 0.005)
				So(cb.Warnings[0], ShouldContainSubstring, `factor "behavior_score"`)
			})
		})

		Convey("When strong extra factors are present", func() {
			strong, _ := engine.Compute(context.Background(), driverProfile("u1", map[string]float64{
				"behavior_score": 1.0,
				"loyalty_score":  1.0,
				"demand_score":   1.0,
			}), nil, lvl)
			weak, _ := engine.Compute(context.Background(), driverProfile("u1", map[string]float64{
				"behavior_score": 0.0,
				"loyalty_score":  0.0,
				"demand_score":   0.0,
			}), nil, lvl)

			Convey("Then the role component orders with the factors", func() {
				So(strong.RoleComponent, ShouldBeGreaterThan, weak.RoleComponent)
			})
		})
	})
}

func TestComputeGlobalAndFairness(t *testing.T) {
	Convey("Given a driver ranked against peers", t, func() {
		engine := credit.NewEngine()
		lvl := model.ScoreBreakdown{FinalScore: 500, Tier: model.Amber}

		strong := map[string]float64{
			"rides_completed": 120,
			"avg_rating":      4.8,
			"on_time_ratio":   0.95,
			"complaints":      0,
		}
		weak := map[string]float64{
			"rides_completed": 10,
			"avg_rating":      2.0,
			"on_time_ratio":   0.4,
			"complaints":      8,
		}

		Convey("When there are no peers", func() {
			cb, err := engine.Compute(context.Background(), driverProfile("u1", strong), nil, lvl)

			Convey("Then the empty-population rank floors the global score at 40", func() {
				So(err, ShouldBeNil)
				So(cb.GlobalScore, ShouldEqual, 40)
			})
		})

		Convey("When the user outranks every peer", func() {
			peers := []model.UserProfile{
				driverProfile("p1", weak),
				driverProfile("p2", weak),
			}
			cb, err := engine.Compute(context.Background(), driverProfile("u1", strong), peers, lvl)

			Convey("Then the global score reaches the top of the band", func() {
				So(err, ShouldBeNil)
				So(cb.GlobalScore, ShouldEqual, 100)
			})
		})

		Convey("When peers carry other roles", func() {
			merchant := model.UserProfile{UserID: "m1", Role: model.RoleMerchant, Features: map[string]float64{"transactions": 500}}
			withNoise, _ := engine.Compute(context.Background(), driverProfile("u1", strong),
				[]model.UserProfile{merchant, driverProfile("p1", weak)}, lvl)
			clean, _ := engine.Compute(context.Background(), driverProfile("u1", strong),
				[]model.UserProfile{driverProfile("p1", weak)}, lvl)

			Convey("Then cross-role peers are ignored", func() {
				So(withNoise.GlobalScore, ShouldEqual, clean.GlobalScore)
			})
		})

		Convey("When the acceptance rate trails the target", func() {
			cb, err := engine.Compute(context.Background(), driverProfile("u1", strong), nil, lvl)

			Convey("Then the default disparity parameters nudge the fairness score up", func() {
				So(err, ShouldBeNil)
				// -0.1 * (0.6 - 0.7)
				So(cb.FairnessAdj, ShouldEqual, 0.01)
				So(cb.FairnessScore, ShouldEqual, 40.01)
			})
		})
	})
}

func TestComputeCombination(t *testing.T) {
	Convey("Given the combination stage", t, func() {
		lvl := model.ScoreBreakdown{FinalScore: 500, Tier: model.Gold}

		Convey("When combining with the default parameters", func() {
			engine := credit.NewEngine()
			cb, err := engine.Compute(context.Background(), driverProfile("u1", nil), nil, lvl)

			Convey("Then the delta adjustment scales with the Gold multiplier", func() {
				So(err, ShouldBeNil)
				So(cb.DeltaAdj, ShouldEqual, 3.5)
				So(cb.FinalScore, ShouldBeBetweenOrEqual, 0, 100)
			})
		})

		Convey("When the tier drops", func() {
			engine := credit.NewEngine()
			gold, _ := engine.Compute(context.Background(), driverProfile("u1", nil), nil,
				model.ScoreBreakdown{FinalScore: 500, Tier: model.Gold})
			bronze, _ := engine.Compute(context.Background(), driverProfile("u1", nil), nil,
				model.ScoreBreakdown{FinalScore: 500, Tier: model.Bronze})

			Convey("Then the delta adjustment shrinks toward the base", func() {
				So(gold.DeltaAdj, ShouldEqual, 3.5)
				So(bronze.DeltaAdj, ShouldEqual, 2)
				So(gold.FinalScore, ShouldBeGreaterThan, bronze.FinalScore)
			})
		})

		Convey("When lambda weighs only the role component", func() {
			engine := credit.NewEngine(credit.WithLambda(1))
			cb, err := engine.Compute(context.Background(), driverProfile("u1", nil), nil, lvl)

			Convey("Then the combined score equals the role component", func() {
				So(err, ShouldBeNil)
				So(cb.CombinedScore, ShouldEqual, cb.RoleComponent)
			})
		})

		Convey("When the report scale is applied", func() {
			engine := credit.NewEngine(credit.WithReportScale(10))
			cb, err := engine.Compute(context.Background(), driverProfile("u1", nil), nil, lvl)

			Convey("Then the reported score is the rounded final times the scale", func() {
				So(err, ShouldBeNil)
				So(cb.ReportScale, ShouldEqual, 10)
				So(cb.ReportedScore, ShouldEqual, cb.FinalScore*10)
			})
		})

		Convey("When the breakdown is assembled", func() {
			engine := credit.NewEngine()
			cb, err := engine.Compute(context.Background(), driverProfile("u1", nil), nil, lvl)

			Convey("Then identity fields carry through", func() {
				So(err, ShouldBeNil)
				So(cb.UserID, ShouldEqual, "u1")
				So(cb.Tier, ShouldEqual, model.Gold)
				So(cb.LevelScore, ShouldEqual, 500)
			})
		})
	})
}
