package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"
)

// Tornado runs a one-at-a-time sensitivity analysis: each configured
// parameter is perturbed to its low and high bound while everything else
// stays at base, and the NPV swing is recorded. Entries come back sorted by
// swing magnitude descending, the tornado presentation order.
//
// Each perturbation run is independent and side-effect-free, so the runs are
// evaluated concurrently.
func (e *Engine) Tornado(a Assumptions, shortfallProb float64, params []config.ParamBound) ([]model.SensitivityEntry, error) {
	base, err := e.Project(a, shortfallProb)
	if err != nil {
		return nil, err
	}

	entries := make([]model.SensitivityEntry, len(params))
	errs := make([]error, len(params))

	var wg sync.WaitGroup
	for i, p := range params {
		wg.Add(1)
		go func(i int, p config.ParamBound) {
			defer wg.Done()
			low, err := e.perturbed(a, shortfallProb, p.Name, p.Low)
			if err != nil {
				errs[i] = err
				return
			}
			high, err := e.perturbed(a, shortfallProb, p.Name, p.High)
			if err != nil {
				errs[i] = err
				return
			}
			swing := high - low
			if swing < 0 {
				swing = -swing
			}
			entries[i] = model.SensitivityEntry{
				Parameter: p.Name,
				Low:       p.Low,
				High:      p.High,
				LowNPV:    low,
				BaseNPV:   base.NPV,
				HighNPV:   high,
				Swing:     swing,
			}
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Swing != entries[j].Swing {
			return entries[i].Swing > entries[j].Swing
		}
		return entries[i].Parameter < entries[j].Parameter
	})
	return entries, nil
}

func (e *Engine) perturbed(a Assumptions, shortfallProb float64, name string, value float64) (float64, error) {
	a, shortfallProb, err := applyParam(a, shortfallProb, name, value)
	if err != nil {
		return 0, err
	}
	proj, err := e.Project(a, shortfallProb)
	if err != nil {
		return 0, err
	}
	return proj.NPV, nil
}

// applyParam maps a sensitivity parameter name onto the assumption set.
// Assumptions is passed by value, so the caller's base case is untouched.
func applyParam(a Assumptions, shortfallProb float64, name string, value float64) (Assumptions, float64, error) {
	switch name {
	case "capacity_revenue", "capacity_price":
		a.CapacityRevenueY1 = value
	case "energy_revenue", "energy_price":
		a.EnergyRevenueY1 = value
	case "discount_rate":
		a.DiscountRate = value
	case "capacity_growth":
		a.CapacityGrowth = value
	case "energy_growth":
		a.EnergyGrowth = value
	case "aggregator_fee":
		a.AggregatorFee = value
	case "capex_initial":
		a.CapexInitial = value
	case "capex_reinvest_rate":
		a.CapexReinvestRate = value
	case "opex_rate":
		a.OpexRate = value
	case "ess_refurb_cost":
		a.ESSRefurbCost = value
	case "shortfall_probability":
		shortfallProb = value
	default:
		return a, shortfallProb, &model.InvalidAssumptionError{
			Stage:  stage,
			Ref:    fmt.Sprintf("sensitivity param %q", name),
			Reason: "unknown parameter",
		}
	}
	return a, shortfallProb, nil
}
