package strategy

import (
	"testing"

	"github.com/RoyceCho1/DCDR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleUpIdentity(t *testing.T) {
	a := flatAssumptions()
	a.CapexInitial = 10000
	a.OpexRate = 0.01

	base, err := New().Project(a, 0)
	require.NoError(t, err)

	scaled, err := New().ScaleUp(a, 0, ScaleUpParams{Scale: 1, EconomyOfScale: 1, ESSScale: 1})
	require.NoError(t, err)

	// Scale 1 with no economies must reproduce the base projection exactly.
	assert.Equal(t, base.NPV, scaled.NPV)
	require.Equal(t, len(base.Years), len(scaled.Years))
	for i := range base.Years {
		assert.Equal(t, base.Years[i], scaled.Years[i])
	}
}

func TestScaleUpLinearWithoutCapex(t *testing.T) {
	base, err := New().Project(flatAssumptions(), 0)
	require.NoError(t, err)

	scaled, err := New().ScaleUp(flatAssumptions(), 0, ScaleUpParams{Scale: 2, EconomyOfScale: 1, ESSScale: 1})
	require.NoError(t, err)
	assert.InDelta(t, 2*base.NPV, scaled.NPV, 1e-6)
}

func TestScaleUpEconomyOfScale(t *testing.T) {
	a := flatAssumptions()
	a.CapexInitial = 1000

	scaled, err := New().ScaleUp(a, 0, ScaleUpParams{Scale: 10, EconomyOfScale: 0.5, ESSScale: 1})
	require.NoError(t, err)

	// Initial capex scales by 10 * 0.5 = 5x.
	assert.InDelta(t, -5000.0, scaled.Years[0].CashFlow, 1e-9)
}

func TestScaleUpRejectsNonPositiveFactors(t *testing.T) {
	for _, p := range []ScaleUpParams{
		{Scale: 0, EconomyOfScale: 1, ESSScale: 1},
		{Scale: 1, EconomyOfScale: 0, ESSScale: 1},
		{Scale: 1, EconomyOfScale: 1, ESSScale: -1},
	} {
		_, err := New().ScaleUp(flatAssumptions(), 0, p)
		var want *model.InvalidAssumptionError
		require.ErrorAs(t, err, &want)
	}
}
