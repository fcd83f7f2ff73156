package revenue

import (
	"testing"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(start time.Time, curtailedKW float64) model.DREvent {
	return model.DREvent{
		Start:       start,
		Duration:    model.EventDuration,
		Season:      model.SeasonOf(start),
		CurtailedKW: curtailedKW,
	}
}

func flatPrices(start time.Time, hours int, smp float64) *model.PriceSeries {
	p := &model.PriceSeries{}
	for i := 0; i < hours; i++ {
		p.Points = append(p.Points, model.PricePoint{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			SMP:       smp,
		})
	}
	return p
}

func TestMonthlyRevenue(t *testing.T) {
	// Two events at 100 kWh curtailed energy each, SMP 0.14/kWh -> 28 per
	// event... scaled x100: curtailed 1000 kW, SMP 1.4 -> 1400 per event,
	// 2800 energy. Capacity: 50 kW registered at 5/kW-month -> 250.
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	events := []model.DREvent{
		event(start.Add(10*time.Hour), 1000),
		event(start.Add(34*time.Hour), 1000),
	}
	prices := flatPrices(start, 48, 1.4)

	cfg := config.RevenueConfig{CapacityPrice: 5, RateScenario: "base"}
	records, err := New(cfg).Compute(events, model.Scalar(50), prices, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, time.July, rec.Month)
	assert.InDelta(t, 2800.0, rec.EnergyPayment, 1e-9)
	assert.InDelta(t, 250.0, rec.CapacityPayment, 1e-9)
	assert.InDelta(t, 3050.0, rec.Total, 1e-9)
	assert.Equal(t, 2, rec.EventCount)
}

func TestTotalIsSumOfComponents(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := []model.DREvent{
		event(start.Add(9*time.Hour), 320),
		event(start.Add(11*time.Hour), 510),
	}
	prices := flatPrices(start, 24, 0.12)

	cfg := config.RevenueConfig{CapacityPrice: 7.5, RateScenario: "base"}
	records, err := New(cfg).Compute(events, model.Scalar(400), prices, start, start.AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.InDelta(t, rec.CapacityPayment+rec.EnergyPayment, rec.Total, 1e-9)
	}
	// The second month has no events: capacity still accrues, energy is zero.
	assert.Zero(t, records[1].EventCount)
	assert.Zero(t, records[1].EnergyPayment)
	assert.InDelta(t, 3000.0, records[1].CapacityPayment, 1e-9)
}

func TestMissingPriceForEventHour(t *testing.T) {
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	events := []model.DREvent{event(start.Add(30*time.Hour), 500)}
	prices := flatPrices(start, 24, 1.0) // only day one covered

	_, err := New(config.RevenueConfig{CapacityPrice: 5, RateScenario: "base"}).
		Compute(events, model.Scalar(50), prices, start, start.AddDate(0, 1, 0))
	var want *model.MalformedSeriesError
	require.ErrorAs(t, err, &want)
}

func TestMonthlyRateBands(t *testing.T) {
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	rates := map[int]config.RateBand{7: {Low: 4, High: 8}}

	cases := []struct {
		scenario string
		want     float64
	}{
		{"low", 4},
		{"base", 6},
		{"high", 8},
	}
	for _, tc := range cases {
		t.Run(tc.scenario, func(t *testing.T) {
			cfg := config.RevenueConfig{CapacityPrice: 99, MonthlyRates: rates, RateScenario: tc.scenario}
			records, err := New(cfg).Compute(nil, model.Scalar(10), flatPrices(start, 1, 1), start, start.AddDate(0, 1, 0))
			require.NoError(t, err)
			assert.InDelta(t, 10*tc.want, records[0].CapacityPayment, 1e-9)
		})
	}

	// A month without a band falls back to the flat price.
	cfg := config.RevenueConfig{CapacityPrice: 3, MonthlyRates: rates, RateScenario: "base"}
	aug := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	records, err := New(cfg).Compute(nil, model.Scalar(10), flatPrices(aug, 1, 1), aug, aug.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, records[0].CapacityPayment, 1e-9)
}

func TestWeekdayAvailability(t *testing.T) {
	// July 2024: 31 days, 23 weekdays.
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	cfg := config.RevenueConfig{CapacityPrice: 10, RateScenario: "base", WeekdayAvailability: true}

	records, err := New(cfg).Compute(nil, model.Scalar(100), flatPrices(start, 1, 1), start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1000.0*23.0/31.0, records[0].CapacityPayment, 1e-9)
}

func TestTopNEnergy(t *testing.T) {
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	prices := flatPrices(start, 5, 1)
	events := []model.DREvent{
		event(start, 100),
		event(start.Add(time.Hour), 300),
		event(start.Add(2*time.Hour), 200),
	}

	assert.InDelta(t, 500.0, TopNEnergy(events, prices, 2), 1e-9)
	assert.InDelta(t, 600.0, TopNEnergy(events, prices, 10), 1e-9)
	assert.Zero(t, TopNEnergy(events, prices, 0))
}

func TestEmptyWindowRejected(t *testing.T) {
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	_, err := New(config.RevenueConfig{RateScenario: "base"}).
		Compute(nil, model.Scalar(10), &model.PriceSeries{}, start, start)
	require.Error(t, err)
}
