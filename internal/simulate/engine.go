// Package simulate turns the historical load series and the rated-load
// commitment into the ordered set of standardized 1-hour DR events.
package simulate

import (
	"fmt"
	"time"

	"github.com/RoyceCho1/DCDR/internal/analysis"
	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"
)

const stage = "dr_event_simulator"

type Engine struct {
	cfg config.DRConfig
}

func New(cfg config.DRConfig) *Engine { return &Engine{cfg: cfg} }

// Result carries the emitted events plus evaluation bookkeeping.
type Result struct {
	Events []model.DREvent

	HoursEvaluated int
	Start          time.Time
	End            time.Time
}

// Run evaluates every hour of the series against the rated-load commitment.
//
// Sub-hour samples are averaged (mean) into their hour bucket before the
// qualification test, so a single curtailment is never fragmented into
// partial sub-hour events. Consecutive qualifying hours stay separate
// events; the dispatch grain of hourly capacity markets is one hour.
func (e *Engine) Run(series *model.LoadSeries, baseline *model.BaselineProfile, rated model.RatedLoad) (*Result, error) {
	if len(series.Points) == 0 {
		return nil, &model.InsufficientDataError{
			Stage:  stage,
			Ref:    "load_series",
			Reason: "empty series",
		}
	}
	if baseline == nil {
		return nil, fmt.Errorf("%s: baseline profile is nil", stage)
	}

	// A gap wider than one hour makes hour buckets unsafe to infer.
	for i := 1; i < len(series.Points); i++ {
		gap := series.Points[i].Timestamp.Sub(series.Points[i-1].Timestamp)
		if gap <= 0 {
			return nil, &model.MalformedSeriesError{
				Stage:  stage,
				Ref:    fmt.Sprintf("load_series row %d", i),
				Reason: "timestamps not strictly increasing",
			}
		}
		if gap > time.Hour {
			return nil, &model.MalformedSeriesError{
				Stage:  stage,
				Ref:    fmt.Sprintf("load_series row %d", i),
				Reason: fmt.Sprintf("gap of %s exceeds 1 hour", gap),
			}
		}
	}

	buckets := bucketByHour(series)
	res := &Result{
		Start: buckets[0].start,
		End:   buckets[len(buckets)-1].start.Add(model.EventDuration),
	}

	samplesPerHour := expectedSamplesPerHour(series)
	for _, b := range buckets {
		res.HoursEvaluated++

		actual := b.mean()
		base := baseline.Expected(b.start)
		curtailed := actual - base

		coverage := float64(b.count) / float64(samplesPerHour)
		if coverage > 1 {
			coverage = 1
		}

		if !e.qualifies(b.start, curtailed, coverage, rated) {
			continue
		}
		res.Events = append(res.Events, model.DREvent{
			Start:         b.start,
			Duration:      model.EventDuration,
			Season:        model.SeasonOf(b.start),
			BaselineKW:    base,
			ActualKW:      actual,
			CurtailedKW:   curtailed,
			SampleCount:   b.count,
			CoverageRatio: coverage,
		})
	}
	return res, nil
}

func (e *Engine) qualifies(start time.Time, curtailed, coverage float64, rated model.RatedLoad) bool {
	if curtailed < rated.ForMonth(start.Month()) {
		return false
	}
	if curtailed <= e.cfg.ThresholdKW {
		return false
	}
	if e.cfg.RequireFullCoverage && coverage < 1 {
		return false
	}
	if e.cfg.WeekdayWindowsOnly && !analysis.InShedWindow(start) {
		return false
	}
	return true
}

type hourBucket struct {
	start time.Time
	sum   float64
	count int
}

func (b hourBucket) mean() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sum / float64(b.count)
}

func bucketByHour(series *model.LoadSeries) []hourBucket {
	var out []hourBucket
	for _, p := range series.Points {
		start := p.Timestamp.Truncate(time.Hour)
		if n := len(out); n > 0 && out[n-1].start.Equal(start) {
			out[n-1].sum += p.TotalLoadKW
			out[n-1].count++
			continue
		}
		out = append(out, hourBucket{start: start, sum: p.TotalLoadKW, count: 1})
	}
	return out
}

func expectedSamplesPerHour(series *model.LoadSeries) int {
	res := series.Resolution()
	if res <= 0 || res > time.Hour {
		return 1
	}
	n := int(time.Hour / res)
	if n < 1 {
		n = 1
	}
	return n
}
