// Package strategy builds the long-term investment case: a 30-year
// discounted cash flow from annualized DR revenue, reliability-adjusted by a
// configurable haircut policy, with tornado sensitivity decomposition and a
// capacity scale-up scenario. Base case, sensitivity runs, and scale-up all
// share one projection code path.
package strategy

import (
	"math"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"
)

const stage = "long_term_strategy"

// HaircutPolicy couples the reliability metrics into the projection. With
// "proportional", every year's revenue is reduced by Factor times the
// shortfall probability; "none" leaves revenue untouched. The coupling is a
// policy choice, not a fixed formula.
type HaircutPolicy struct {
	Policy string  // "none" or "proportional"
	Factor float64 // revenue share removed per unit of shortfall probability
}

// Assumptions is the immutable input set of one projection run.
// Cost fields are magnitudes (>= 0) and are subtracted by the engine.
type Assumptions struct {
	DiscountRate float64
	Years        int

	CapacityRevenueY1 float64
	EnergyRevenueY1   float64
	CapacityGrowth    float64 // annual, e.g. 0.02
	EnergyGrowth      float64 // annual, e.g. -0.01
	AggregatorFee     float64 // share of gross revenue

	CapexInitial      float64 // front-loaded at year 0
	CapexReinvestRate float64 // share of initial capex, charged at ReinvestYears
	ReinvestYears     []int
	ESSRefurbCost     float64 // charged at RefurbYear
	RefurbYear        int
	OpexRate          float64 // share of initial capex, every operating year

	Haircut HaircutPolicy
}

// AssumptionsFromConfig binds the finance configuration to the annualized
// revenue produced by the revenue stage.
func AssumptionsFromConfig(fc config.FinanceConfig, annual model.AnnualSummary) Assumptions {
	return Assumptions{
		DiscountRate:      fc.DiscountRate,
		Years:             fc.ProjectionYears,
		CapacityRevenueY1: annual.CapacityRevenue,
		EnergyRevenueY1:   annual.EnergyRevenue,
		CapacityGrowth:    fc.CapacityGrowth,
		EnergyGrowth:      fc.EnergyGrowth,
		AggregatorFee:     fc.AggregatorFee,
		CapexInitial:      fc.CapexInitial,
		CapexReinvestRate: fc.CapexReinvestRate,
		ReinvestYears:     []int{10, 20},
		ESSRefurbCost:     fc.ESSRefurbCost,
		RefurbYear:        15,
		OpexRate:          fc.OpexRate,
		Haircut: HaircutPolicy{
			Policy: fc.HaircutPolicy,
			Factor: fc.HaircutFactor,
		},
	}
}

func (a Assumptions) Validate() error {
	if a.DiscountRate <= -1 {
		return &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "discount_rate",
			Reason: "must be greater than -100%",
		}
	}
	if a.Years <= 0 {
		return &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "projection_years",
			Reason: "must be positive",
		}
	}
	if a.CapacityRevenueY1 < 0 || a.EnergyRevenueY1 < 0 {
		return &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "revenue_y1",
			Reason: "first-year revenue must be >= 0",
		}
	}
	if a.CapexInitial < 0 || a.ESSRefurbCost < 0 {
		return &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "capex",
			Reason: "cost magnitudes must be >= 0",
		}
	}
	if a.AggregatorFee < 0 || a.AggregatorFee >= 1 {
		return &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "aggregator_fee",
			Reason: "must be in [0, 1)",
		}
	}
	return nil
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Project builds the discounted cash flow under the given assumptions and
// shortfall probability. A year-0 row appears only when initial capex is
// front-loaded; operating years run 1..N.
func (e *Engine) Project(a Assumptions, shortfallProb float64) (*model.DCFProjection, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if shortfallProb < 0 || shortfallProb > 1 {
		return nil, &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "shortfall_probability",
			Reason: "must be in [0, 1]",
		}
	}

	haircut := 1.0
	if a.Haircut.Policy == "proportional" {
		haircut = 1 - a.Haircut.Factor*shortfallProb
		if haircut < 0 {
			haircut = 0
		}
	}

	proj := &model.DCFProjection{PaybackYear: -1}
	cum := 0.0

	if a.CapexInitial > 0 {
		row := model.YearCashFlow{
			Year:           0,
			Capex:          a.CapexInitial,
			CashFlow:       -a.CapexInitial,
			DiscountFactor: 1,
			DiscountedCF:   -a.CapexInitial,
		}
		cum += row.DiscountedCF
		row.CumulativeNPV = cum
		proj.Years = append(proj.Years, row)
	}

	opex := a.OpexRate * a.CapexInitial
	reinvest := map[int]bool{}
	for _, y := range a.ReinvestYears {
		reinvest[y] = true
	}

	for t := 1; t <= a.Years; t++ {
		revCap := a.CapacityRevenueY1 * math.Pow(1+a.CapacityGrowth, float64(t-1))
		revEn := a.EnergyRevenueY1 * math.Pow(1+a.EnergyGrowth, float64(t-1))
		gross := revCap + revEn
		net := gross * (1 - a.AggregatorFee) * haircut

		capex := 0.0
		if reinvest[t] {
			capex += a.CapexReinvestRate * a.CapexInitial
		}
		if t == a.RefurbYear {
			capex += a.ESSRefurbCost
		}

		row := model.YearCashFlow{
			Year:           t,
			Revenue:        gross,
			NetRevenue:     net,
			Opex:           opex,
			Capex:          capex,
			CashFlow:       net - opex - capex,
			DiscountFactor: 1 / math.Pow(1+a.DiscountRate, float64(t)),
		}
		row.DiscountedCF = row.CashFlow * row.DiscountFactor
		cum += row.DiscountedCF
		row.CumulativeNPV = cum

		if proj.PaybackYear < 0 && cum >= 0 {
			proj.PaybackYear = t
		}
		proj.Years = append(proj.Years, row)
	}

	proj.NPV = cum
	proj.IRR = irr(proj.Years)
	return proj, nil
}

// irr solves NPV(r) = 0 over the net cash-flow stream with Newton iteration.
// Returns NaN when the iteration leaves the valid domain or does not
// converge (e.g. a stream with no sign change has no IRR).
func irr(years []model.YearCashFlow) float64 {
	hasPos, hasNeg := false, false
	for _, y := range years {
		if y.CashFlow > 0 {
			hasPos = true
		}
		if y.CashFlow < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return math.NaN()
	}

	f := func(r float64) (float64, float64) {
		var v, d float64
		for _, y := range years {
			t := float64(y.Year)
			den := math.Pow(1+r, t)
			v += y.CashFlow / den
			d -= t * y.CashFlow / (den * (1 + r))
		}
		return v, d
	}

	r := 0.1
	for i := 0; i < 100; i++ {
		v, d := f(r)
		if math.Abs(v) < 1e-7 {
			return r
		}
		if d == 0 || math.IsNaN(d) {
			return math.NaN()
		}
		next := r - v/d
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			return math.NaN()
		}
		if math.Abs(next-r) < 1e-10 {
			return next
		}
		r = next
	}
	return math.NaN()
}
