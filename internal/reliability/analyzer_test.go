package reliability

import (
	"testing"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsAt(start time.Time, actuals []float64) []Observation {
	out := make([]Observation, len(actuals))
	for i, a := range actuals {
		out[i] = Observation{Timestamp: start.Add(time.Duration(i) * time.Hour), ActualKW: a}
	}
	return out
}

func monthly() *Analyzer {
	return New(config.ReliabilityConfig{Grouping: "month", Tolerance: 0.05})
}

func TestKnownMetricValues(t *testing.T) {
	// Committed 50, actuals 40 and 60: errors are +-10, RMSE 10, RRMSE 0.2.
	// One of two hours falls short, and the shortfall averages 5 kW.
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	metrics, err := monthly().Analyze(obsAt(start, []float64{40, 60}), model.Scalar(50))
	require.NoError(t, err)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, "2024-06", m.Period)
	assert.InDelta(t, 50.0, m.CommittedKW, 1e-9)
	assert.InDelta(t, 50.0, m.MeanActualKW, 1e-9)
	assert.InDelta(t, 0.2, m.RRMSE, 1e-9)
	assert.InDelta(t, 0.5, m.ShortfallProbability, 1e-9)
	assert.InDelta(t, 5.0, m.ExpectedShortfallKW, 1e-9)
	assert.Equal(t, 2, m.SampleCount)
}

func TestRRMSEZeroOnlyWhenExact(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	exact, err := monthly().Analyze(obsAt(start, []float64{50, 50, 50}), model.Scalar(50))
	require.NoError(t, err)
	assert.Zero(t, exact[0].RRMSE)
	assert.Zero(t, exact[0].ShortfallProbability)

	off, err := monthly().Analyze(obsAt(start, []float64{50, 50.1, 50}), model.Scalar(50))
	require.NoError(t, err)
	assert.Greater(t, off[0].RRMSE, 0.0)
}

func TestToleranceShortfall(t *testing.T) {
	// Two mild shortfalls inside 5% slack, one beyond it.
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	metrics, err := monthly().Analyze(obsAt(start, []float64{98, 96, 90, 105}), model.Scalar(100))
	require.NoError(t, err)

	m := metrics[0]
	assert.InDelta(t, 0.75, m.ShortfallProbability, 1e-9)
	assert.InDelta(t, 0.25, m.ToleranceShortfallProbability, 1e-9)
}

func TestZeroCommittedCapacity(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := monthly().Analyze(obsAt(start, []float64{40, 60}), model.Scalar(0))
	var want *model.DivisionByZeroError
	require.ErrorAs(t, err, &want)
}

func TestNoObservations(t *testing.T) {
	_, err := monthly().Analyze(nil, model.Scalar(50))
	var want *model.InsufficientDataError
	require.ErrorAs(t, err, &want)
}

func TestMonthlyGroupingSplitsPeriods(t *testing.T) {
	june := time.Date(2024, time.June, 30, 22, 0, 0, 0, time.UTC)
	metrics, err := monthly().Analyze(obsAt(june, []float64{40, 45, 60, 55}), model.Scalar(50))
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, "2024-06", metrics[0].Period)
	assert.Equal(t, "2024-07", metrics[1].Period)
	assert.Equal(t, 2, metrics[0].SampleCount)
	assert.Equal(t, 2, metrics[1].SampleCount)
}

func TestSeasonGrouping(t *testing.T) {
	a := New(config.ReliabilityConfig{Grouping: "season", Tolerance: 0.05})
	// May (spring) rolling into June (summer).
	may := time.Date(2024, time.May, 31, 22, 0, 0, 0, time.UTC)
	metrics, err := a.Analyze(obsAt(may, []float64{40, 45, 60, 55}), model.Scalar(50))
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, string(model.Spring), metrics[0].Period)
	assert.Equal(t, string(model.Summer), metrics[1].Period)
}

func TestAggregateShortfall(t *testing.T) {
	metrics := []model.ReliabilityMetric{
		{ShortfallProbability: 0.1, SampleCount: 30},
		{ShortfallProbability: 0.4, SampleCount: 10},
	}
	assert.InDelta(t, 0.175, AggregateShortfall(metrics), 1e-9)
	assert.Zero(t, AggregateShortfall(nil))
}

func TestObservationsFromSeries(t *testing.T) {
	start := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)
	s := &model.LoadSeries{}
	for i, v := range []float64{100, 120, 140, 120} { // one hour of 15-min samples
		s.Points = append(s.Points, model.LoadPoint{
			Timestamp:   start.Add(time.Duration(i) * 15 * time.Minute),
			TotalLoadKW: v,
		})
	}

	obs := ObservationsFromSeries(s, model.FlatBaseline(80))
	require.Len(t, obs, 1)
	assert.Equal(t, start, obs[0].Timestamp)
	assert.InDelta(t, 40.0, obs[0].ActualKW, 1e-9)
}
