// Package revenue converts DR events and the SMP series into monthly
// capacity- and energy-component revenue records.
package revenue

import (
	"fmt"
	"sort"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"
)

const stage = "revenue_calculator"

type Calculator struct {
	cfg config.RevenueConfig
}

func New(cfg config.RevenueConfig) *Calculator { return &Calculator{cfg: cfg} }

// Compute produces one record per calendar month in [start, end). Capacity
// revenue accrues for every covered month regardless of dispatch; energy
// revenue only for months with realized events.
//
// All accumulation is exact float arithmetic; rounding happens at table
// output, never here.
func (c *Calculator) Compute(events []model.DREvent, rated model.RatedLoad, prices *model.PriceSeries, start, end time.Time) ([]model.RevenueRecord, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%s: empty window [%s, %s)", stage, start, end)
	}
	if err := prices.Validate(stage); err != nil {
		return nil, err
	}

	type key struct {
		year  int
		month time.Month
	}
	energy := map[key]float64{}
	count := map[key]int{}
	for i, ev := range events {
		smp, ok := prices.At(ev.Start)
		if !ok {
			return nil, &model.MalformedSeriesError{
				Stage:  stage,
				Ref:    fmt.Sprintf("price_series (event %d at %s)", i, ev.Start.Format(time.RFC3339)),
				Reason: "no SMP price for event hour",
			}
		}
		k := key{ev.Start.Year(), ev.Start.Month()}
		energy[k] += ev.EnergyKWh() * smp
		count[k]++
	}

	var records []model.RevenueRecord
	for cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); cur.Before(end); cur = cur.AddDate(0, 1, 0) {
		k := key{cur.Year(), cur.Month()}
		capacity := rated.ForMonth(cur.Month()) * c.monthlyRate(cur.Month()) * c.availability(cur.Year(), cur.Month())
		rec := model.RevenueRecord{
			Year:            k.year,
			Month:           k.month,
			CapacityPayment: capacity,
			EnergyPayment:   energy[k],
			EventCount:      count[k],
		}
		rec.Total = rec.CapacityPayment + rec.EnergyPayment
		records = append(records, rec)
	}
	return records, nil
}

// monthlyRate resolves the capacity price for a month: the per-month rate
// band under the configured scenario when one is supplied, the flat price
// otherwise.
func (c *Calculator) monthlyRate(m time.Month) float64 {
	band, ok := c.cfg.MonthlyRates[int(m)]
	if !ok {
		return c.cfg.CapacityPrice
	}
	switch c.cfg.RateScenario {
	case "low":
		return band.Low
	case "high":
		return band.High
	default:
		return band.Base()
	}
}

// availability is the weekday share of the month when weekday-only capacity
// registration is configured, 1 otherwise.
func (c *Calculator) availability(year int, m time.Month) float64 {
	if !c.cfg.WeekdayAvailability {
		return 1
	}
	days := daysIn(year, m)
	weekdays := 0
	for d := 1; d <= days; d++ {
		wd := time.Date(year, m, d, 0, 0, 0, 0, time.UTC).Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			weekdays++
		}
	}
	return float64(weekdays) / float64(days)
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// TopNEnergy returns the energy revenue of the n most valuable event hours,
// the scenario form used when annual dispatch hours are capped by contract.
func TopNEnergy(events []model.DREvent, prices *model.PriceSeries, n int) float64 {
	if n <= 0 {
		return 0
	}
	vals := make([]float64, 0, len(events))
	for _, ev := range events {
		if smp, ok := prices.At(ev.Start); ok {
			vals = append(vals, ev.EnergyKWh()*smp)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	if n > len(vals) {
		n = len(vals)
	}
	total := 0.0
	for _, v := range vals[:n] {
		total += v
	}
	return total
}
