package strategy

import (
	"math"
	"testing"

	"github.com/RoyceCho1/DCDR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatAssumptions() Assumptions {
	return Assumptions{
		DiscountRate:      0.05,
		Years:             30,
		CapacityRevenueY1: 1000,
		ReinvestYears:     []int{10, 20},
		RefurbYear:        15,
		Haircut:           HaircutPolicy{Policy: "none"},
	}
}

func TestProjectFlatAnnuity(t *testing.T) {
	proj, err := New().Project(flatAssumptions(), 0)
	require.NoError(t, err)

	// 1000/year for 30 years at 5%: NPV = 1000 * (1 - 1.05^-30) / 0.05.
	assert.InDelta(t, 15372.45, proj.NPV, 0.5)
	require.Len(t, proj.Years, 30)
	assert.Equal(t, 1, proj.Years[0].Year)
	assert.Equal(t, 1, proj.PaybackYear)

	for _, y := range proj.Years {
		assert.InDelta(t, 1000.0, y.CashFlow, 1e-9)
	}
}

func TestProjectDiscountFactorStrictlyDecreasing(t *testing.T) {
	proj, err := New().Project(flatAssumptions(), 0)
	require.NoError(t, err)

	for i := 1; i < len(proj.Years); i++ {
		assert.Less(t, proj.Years[i].DiscountFactor, proj.Years[i-1].DiscountFactor)
	}
}

func TestProjectProportionalHaircut(t *testing.T) {
	a := flatAssumptions()
	a.Haircut = HaircutPolicy{Policy: "proportional", Factor: 1}

	proj, err := New().Project(a, 0.1)
	require.NoError(t, err)

	base, err := New().Project(flatAssumptions(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.9*base.NPV, proj.NPV, 1e-6)
}

func TestProjectFrontLoadedCapex(t *testing.T) {
	a := flatAssumptions()
	a.CapexInitial = 10000

	proj, err := New().Project(a, 0)
	require.NoError(t, err)

	require.Len(t, proj.Years, 31)
	assert.Equal(t, 0, proj.Years[0].Year)
	assert.InDelta(t, -10000.0, proj.Years[0].CashFlow, 1e-9)
	assert.InDelta(t, 15372.45-10000, proj.NPV, 0.5)

	// Discounted payback of 10000 at 1000/year, 5%: between year 14 and 15.
	assert.Equal(t, 15, proj.PaybackYear)

	require.False(t, math.IsNaN(proj.IRR))
	assert.Greater(t, proj.IRR, 0.05)
	assert.Less(t, proj.IRR, 0.15)
}

func TestProjectScheduledCosts(t *testing.T) {
	a := flatAssumptions()
	a.CapexInitial = 10000
	a.CapexReinvestRate = 0.1 // 1000 at years 10 and 20
	a.ESSRefurbCost = 500     // year 15
	a.OpexRate = 0.01         // 100 every operating year

	proj, err := New().Project(a, 0)
	require.NoError(t, err)

	byYear := map[int]model.YearCashFlow{}
	for _, y := range proj.Years {
		byYear[y.Year] = y
	}
	assert.InDelta(t, 1000-100-1000, byYear[10].CashFlow, 1e-9)
	assert.InDelta(t, 1000-100-500, byYear[15].CashFlow, 1e-9)
	assert.InDelta(t, 1000-100-1000, byYear[20].CashFlow, 1e-9)
	assert.InDelta(t, 1000-100, byYear[7].CashFlow, 1e-9)
}

func TestProjectRevenueGrowth(t *testing.T) {
	a := flatAssumptions()
	a.CapacityGrowth = 0.02
	a.EnergyRevenueY1 = 500
	a.EnergyGrowth = -0.01

	proj, err := New().Project(a, 0)
	require.NoError(t, err)

	y3 := proj.Years[2]
	wantCap := 1000 * math.Pow(1.02, 2)
	wantEn := 500 * math.Pow(0.99, 2)
	assert.InDelta(t, wantCap+wantEn, y3.Revenue, 1e-9)
}

func TestProjectInvalidAssumptions(t *testing.T) {
	cases := map[string]func(*Assumptions){
		"discount rate at -100%": func(a *Assumptions) { a.DiscountRate = -1 },
		"discount rate below -1": func(a *Assumptions) { a.DiscountRate = -1.5 },
		"zero projection years":  func(a *Assumptions) { a.Years = 0 },
		"negative capacity rev":  func(a *Assumptions) { a.CapacityRevenueY1 = -1 },
		"negative initial capex": func(a *Assumptions) { a.CapexInitial = -5 },
		"aggregator fee at 100%": func(a *Assumptions) { a.AggregatorFee = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a := flatAssumptions()
			mutate(&a)
			_, err := New().Project(a, 0)
			var want *model.InvalidAssumptionError
			require.ErrorAs(t, err, &want)
		})
	}
}

func TestProjectRejectsBadShortfall(t *testing.T) {
	_, err := New().Project(flatAssumptions(), 1.5)
	var want *model.InvalidAssumptionError
	require.ErrorAs(t, err, &want)
}

func TestIRRNoSignChange(t *testing.T) {
	proj, err := New().Project(flatAssumptions(), 0)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(proj.IRR))
}
