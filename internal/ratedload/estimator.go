// Package ratedload derives the curtailable-capacity commitment from the
// historical load series. The recommended method is a fixed low percentile of
// the per-month curtailable distribution rather than the raw minimum, so a
// single anomalous hour cannot drive the commitment to zero.
package ratedload

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"

	"gonum.org/v1/gonum/stat"
)

const stage = "rated_load_estimator"

// Estimate returns the rated-load commitment for the analysis run.
// The series must span at least cfg.MinWindowDays (one seasonal cycle by
// default); shorter windows fail with InsufficientDataError.
func Estimate(series *model.LoadSeries, baseline *model.BaselineProfile, cfg config.RatedLoadConfig) (model.RatedLoad, error) {
	if err := series.Validate(stage); err != nil {
		return model.RatedLoad{}, err
	}
	first, last := series.Span()
	minSpan := time.Duration(cfg.MinWindowDays) * 24 * time.Hour
	if span := last.Sub(first); span < minSpan {
		return model.RatedLoad{}, &model.InsufficientDataError{
			Stage:  stage,
			Ref:    "load_series",
			Reason: fmt.Sprintf("window %s shorter than required %s", span, minSpan),
		}
	}

	byMonth := map[time.Month][]float64{}
	all := make([]float64, 0, len(series.Points))
	for _, p := range series.Points {
		q := p.TotalLoadKW - baseline.Expected(p.Timestamp)
		byMonth[p.Timestamp.Month()] = append(byMonth[p.Timestamp.Month()], q)
		all = append(all, q)
	}

	out := model.RatedLoad{
		Method:    model.RatedLoadMethod(cfg.Method),
		MonthlyKW: make(map[time.Month]float64, len(byMonth)),
	}

	switch out.Method {
	case model.MethodPercentile:
		out.Percentile = cfg.Percentile
		for m, vals := range byMonth {
			out.MonthlyKW[m] = floorZero(quantile(vals, cfg.Percentile))
		}
		out.OverallKW = floorZero(quantile(all, cfg.Percentile))
	case model.MethodRollingMin:
		window := cfg.RollingWindow
		mins := rollingMin(all, windowSamples(series, window))
		perMonth := map[time.Month][]float64{}
		for i, p := range series.Points {
			perMonth[p.Timestamp.Month()] = append(perMonth[p.Timestamp.Month()], mins[i])
		}
		for m, vals := range perMonth {
			out.MonthlyKW[m] = floorZero(stat.Mean(vals, nil))
		}
		out.OverallKW = floorZero(stat.Mean(mins, nil))
	default:
		return model.RatedLoad{}, fmt.Errorf("%s: unknown method %q", stage, cfg.Method)
	}
	return out, nil
}

// Candidates summarizes the load distribution and the rating scenarios used
// in capacity planning: 1.1xP99 (recommended), absolute peak coverage, and
// 1.1xP95.
type Candidates struct {
	PeakKW   float64
	P99KW    float64
	P95KW    float64
	MedianKW float64

	ScenarioA float64 // 1.1 * P99, recommended
	ScenarioB float64 // 1.0 * peak
	ScenarioC float64 // 1.1 * P95
}

func ComputeCandidates(series *model.LoadSeries) Candidates {
	vals := make([]float64, 0, len(series.Points))
	for _, p := range series.Points {
		vals = append(vals, p.TotalLoadKW)
	}
	c := Candidates{
		PeakKW:   maxOf(vals),
		P99KW:    quantile(vals, 0.99),
		P95KW:    quantile(vals, 0.95),
		MedianKW: quantile(vals, 0.50),
	}
	c.ScenarioA = 1.1 * c.P99KW
	c.ScenarioB = c.PeakKW
	c.ScenarioC = 1.1 * c.P95KW
	return c
}

// LoadDurationCurve returns the load values sorted descending, the standard
// reporting form for duration analysis.
func LoadDurationCurve(series *model.LoadSeries) []float64 {
	vals := make([]float64, 0, len(series.Points))
	for _, p := range series.Points {
		vals = append(vals, p.TotalLoadKW)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	return vals
}

func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(q, stat.Empirical, sorted, nil)
}

// windowSamples converts a window in hours to a sample count at the series
// resolution, never below 1.
func windowSamples(series *model.LoadSeries, hours int) int {
	res := series.Resolution()
	if res <= 0 {
		return 1
	}
	n := int(float64(hours) * float64(time.Hour) / float64(res))
	if n < 1 {
		n = 1
	}
	return n
}

func rollingMin(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		m := math.Inf(1)
		for j := lo; j <= i; j++ {
			if vals[j] < m {
				m = vals[j]
			}
		}
		out[i] = m
	}
	return out
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
