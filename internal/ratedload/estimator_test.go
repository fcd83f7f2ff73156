package ratedload

import (
	"testing"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(start time.Time, totals []float64) *model.LoadSeries {
	s := &model.LoadSeries{}
	for i, v := range totals {
		s.Points = append(s.Points, model.LoadPoint{
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			TotalLoadKW: v,
		})
	}
	return s
}

func pctCfg() config.RatedLoadConfig {
	return config.RatedLoadConfig{
		Method:        string(model.MethodPercentile),
		Percentile:    0.05,
		MinWindowDays: 1,
	}
}

func TestPercentileIgnoresSingleOutlier(t *testing.T) {
	// One anomalous zero-curtailment hour among a hundred must not drag the
	// commitment to zero the way a raw minimum would.
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 100)
	for i := range totals {
		totals[i] = 580 // 500 kW curtailable over an 80 kW baseline
	}
	totals[37] = 80

	rated, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), pctCfg())
	require.NoError(t, err)
	assert.InDelta(t, 500.0, rated.OverallKW, 1e-9)
	assert.InDelta(t, 500.0, rated.ForMonth(time.June), 1e-9)
}

func TestPercentileFloorsAtZero(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 48)
	for i := range totals {
		totals[i] = 60 // below baseline: curtailable is negative everywhere
	}

	rated, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), pctCfg())
	require.NoError(t, err)
	assert.Zero(t, rated.OverallKW)
}

func TestShortWindowFails(t *testing.T) {
	cfg := pctCfg()
	cfg.MinWindowDays = 365

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 24*30)
	for i := range totals {
		totals[i] = 500
	}

	_, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), cfg)
	var want *model.InsufficientDataError
	require.ErrorAs(t, err, &want)
}

func TestTinySeriesFails(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := Estimate(seriesOf(start, []float64{500}), model.FlatBaseline(80), pctCfg())
	var want *model.InsufficientDataError
	require.ErrorAs(t, err, &want)
}

func TestMonthlyRatingsAreIndependent(t *testing.T) {
	// June runs 500 kW curtailable, July runs 300; each month gets its own
	// rating and an uncovered month falls back to the overall figure.
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	var totals []float64
	for i := 0; i < 24*30; i++ {
		totals = append(totals, 580)
	}
	for i := 0; i < 24*30; i++ {
		totals = append(totals, 380)
	}

	rated, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), pctCfg())
	require.NoError(t, err)
	assert.InDelta(t, 500.0, rated.ForMonth(time.June), 1e-9)
	assert.InDelta(t, 300.0, rated.ForMonth(time.July), 1e-9)
	assert.InDelta(t, rated.OverallKW, rated.ForMonth(time.December), 1e-9)
}

func TestRollingMinConstantSeries(t *testing.T) {
	cfg := config.RatedLoadConfig{
		Method:        string(model.MethodRollingMin),
		RollingWindow: 24,
		MinWindowDays: 1,
	}

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 72)
	for i := range totals {
		totals[i] = 480
	}

	rated, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 400.0, rated.OverallKW, 1e-9)
	assert.Equal(t, model.MethodRollingMin, rated.Method)
}

func TestRollingMinBelowPercentile(t *testing.T) {
	// A rolling minimum carries a dip across its whole window, so its rating
	// cannot exceed the percentile rating on the same data.
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 96)
	for i := range totals {
		totals[i] = 580
	}
	totals[40] = 180

	pct, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), pctCfg())
	require.NoError(t, err)

	rmCfg := config.RatedLoadConfig{
		Method:        string(model.MethodRollingMin),
		RollingWindow: 24,
		MinWindowDays: 1,
	}
	rm, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), rmCfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, rm.OverallKW, pct.OverallKW)
}

func TestUnknownMethod(t *testing.T) {
	cfg := pctCfg()
	cfg.Method = "magic"

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 48)
	for i := range totals {
		totals[i] = 500
	}

	_, err := Estimate(seriesOf(start, totals), model.FlatBaseline(80), cfg)
	require.Error(t, err)
}

func TestCandidateScenarios(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	totals := make([]float64, 200)
	for i := range totals {
		totals[i] = float64(i + 1) // 1..200
	}

	c := ComputeCandidates(seriesOf(start, totals))
	assert.InDelta(t, 200.0, c.PeakKW, 1e-9)
	assert.InDelta(t, 1.1*c.P99KW, c.ScenarioA, 1e-9)
	assert.InDelta(t, c.PeakKW, c.ScenarioB, 1e-9)
	assert.InDelta(t, 1.1*c.P95KW, c.ScenarioC, 1e-9)
	assert.Less(t, c.P95KW, c.P99KW)
	assert.Less(t, c.MedianKW, c.P95KW)
}

func TestLoadDurationCurve(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	curve := LoadDurationCurve(seriesOf(start, []float64{100, 300, 200}))
	require.Len(t, curve, 3)
	assert.Equal(t, []float64{300, 200, 100}, curve)
}
