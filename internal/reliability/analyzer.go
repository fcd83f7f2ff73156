// Package reliability validates the rated-load commitment against realized
// curtailable capacity: forecast error (RRMSE) and empirical shortfall
// frequency per period. No distributional assumption is imposed; shortfall
// is a pure frequency over sampled hours.
package reliability

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"

	"gonum.org/v1/gonum/stat"
)

const stage = "reliability_analyzer"

// Observation is one realized curtailable-capacity sample, derived from the
// load series whether or not a DR event fired at that hour.
type Observation struct {
	Timestamp time.Time
	ActualKW  float64
}

// ObservationsFromSeries derives hourly curtailable-capacity observations the
// same way the simulator does: hourly mean load minus the baseline profile.
func ObservationsFromSeries(series *model.LoadSeries, baseline *model.BaselineProfile) []Observation {
	type bucket struct {
		sum   float64
		count int
	}
	var order []time.Time
	buckets := map[time.Time]*bucket{}
	for _, p := range series.Points {
		h := p.Timestamp.Truncate(time.Hour)
		b, ok := buckets[h]
		if !ok {
			b = &bucket{}
			buckets[h] = b
			order = append(order, h)
		}
		b.sum += p.TotalLoadKW
		b.count++
	}
	out := make([]Observation, 0, len(order))
	for _, h := range order {
		b := buckets[h]
		out = append(out, Observation{
			Timestamp: h,
			ActualKW:  b.sum/float64(b.count) - baseline.Expected(h),
		})
	}
	return out
}

type Analyzer struct {
	cfg config.ReliabilityConfig
}

func New(cfg config.ReliabilityConfig) *Analyzer { return &Analyzer{cfg: cfg} }

// Analyze computes one metric row per period (calendar month or season per
// configuration). A period whose mean committed capacity is zero is a
// degenerate computation and fails with DivisionByZeroError rather than
// silently reporting zero or NaN.
func (a *Analyzer) Analyze(obs []Observation, rated model.RatedLoad) ([]model.ReliabilityMetric, error) {
	if len(obs) == 0 {
		return nil, &model.InsufficientDataError{
			Stage:  stage,
			Ref:    "observations",
			Reason: "no realized capacity samples",
		}
	}

	type group struct {
		order     time.Time
		actual    []float64
		committed []float64
	}
	groups := map[string]*group{}
	for _, o := range obs {
		period := a.periodKey(o.Timestamp)
		g, ok := groups[period]
		if !ok {
			g = &group{order: o.Timestamp}
			groups[period] = g
		}
		g.actual = append(g.actual, o.ActualKW)
		g.committed = append(g.committed, rated.ForMonth(o.Timestamp.Month()))
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return groups[keys[i]].order.Before(groups[keys[j]].order) })

	out := make([]model.ReliabilityMetric, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		m, err := computeMetric(k, g.actual, g.committed, a.cfg.Tolerance)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (a *Analyzer) periodKey(t time.Time) string {
	if a.cfg.Grouping == "season" {
		return string(model.SeasonOf(t))
	}
	return t.Format("2006-01")
}

func computeMetric(period string, actual, committed []float64, tolerance float64) (model.ReliabilityMetric, error) {
	meanC := stat.Mean(committed, nil)
	if meanC == 0 {
		return model.ReliabilityMetric{}, &model.DivisionByZeroError{
			Stage:  stage,
			Ref:    fmt.Sprintf("period %s", period),
			Reason: "mean committed capacity is zero; RRMSE undefined",
		}
	}

	n := len(actual)
	sq := make([]float64, n)
	shortfalls := 0
	tolShortfalls := 0
	expShortfall := 0.0
	for i := range actual {
		diff := committed[i] - actual[i]
		sq[i] = diff * diff
		if actual[i] < committed[i] {
			shortfalls++
		}
		if actual[i] < (1-tolerance)*committed[i] {
			tolShortfalls++
		}
		if diff > 0 {
			expShortfall += diff
		}
	}

	return model.ReliabilityMetric{
		Period:                        period,
		CommittedKW:                   meanC,
		MeanActualKW:                  stat.Mean(actual, nil),
		RRMSE:                         math.Sqrt(stat.Mean(sq, nil)) / meanC,
		ShortfallProbability:          float64(shortfalls) / float64(n),
		ToleranceShortfallProbability: float64(tolShortfalls) / float64(n),
		ExpectedShortfallKW:           expShortfall / float64(n),
		SampleCount:                   n,
	}, nil
}

// AggregateShortfall returns the sample-weighted mean shortfall probability
// across periods, the single risk factor the long-term engine consumes.
func AggregateShortfall(metrics []model.ReliabilityMetric) float64 {
	total := 0
	weighted := 0.0
	for _, m := range metrics {
		total += m.SampleCount
		weighted += m.ShortfallProbability * float64(m.SampleCount)
	}
	if total == 0 {
		return 0
	}
	return weighted / float64(total)
}
