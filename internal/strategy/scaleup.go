package strategy

import "github.com/RoyceCho1/DCDR/internal/model"

// ScaleUpParams parameterizes the capacity scale-up scenario, e.g. growing
// the DR resource from its current rating to a 50MW hyperscale commitment.
type ScaleUpParams struct {
	// Scale multiplies revenue drivers (committed capacity scales both the
	// capacity and energy components proportionally).
	Scale float64

	// EconomyOfScale multiplies capex per unit of scale; building at 11x
	// does not cost 11x. Reinvestment and opex are rates of initial capex,
	// so they follow automatically.
	EconomyOfScale float64

	// ESSScale multiplies the refurbishment cost, which tracks the ESS
	// capacity rather than the load.
	ESSScale float64
}

// ScaleUp re-runs the projection under scaled capacity assumptions. It
// delegates to Project, so discounting and risk adjustment are exactly the
// base-case logic; there is no parallel formula path to drift.
func (e *Engine) ScaleUp(a Assumptions, shortfallProb float64, p ScaleUpParams) (*model.DCFProjection, error) {
	if p.Scale <= 0 || p.EconomyOfScale <= 0 || p.ESSScale <= 0 {
		return nil, &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    "scale_up",
			Reason: "scale factors must be positive",
		}
	}
	scaled := a
	scaled.CapacityRevenueY1 = a.CapacityRevenueY1 * p.Scale
	scaled.EnergyRevenueY1 = a.EnergyRevenueY1 * p.Scale
	scaled.CapexInitial = a.CapexInitial * p.Scale * p.EconomyOfScale
	scaled.ESSRefurbCost = a.ESSRefurbCost * p.ESSScale
	return e.Project(scaled, shortfallProb)
}
