package model

import (
	"fmt"
	"time"
)

// LoadPoint is one sample of the facility load decomposition.
// Units are kW throughout; the decomposition into IT and cooling components
// is produced upstream (external collaborator) and consumed as-is.
type LoadPoint struct {
	Timestamp   time.Time
	ITLoadKW    float64
	CoolingKW   float64
	TotalLoadKW float64
}

// LoadSeries is an ordered, regularly sampled load decomposition series.
type LoadSeries struct {
	Points []LoadPoint
}

// Resolution returns the sampling step of the series. It requires at least
// two points; callers should Validate first.
func (s *LoadSeries) Resolution() time.Duration {
	if len(s.Points) < 2 {
		return 0
	}
	return s.Points[1].Timestamp.Sub(s.Points[0].Timestamp)
}

// Span returns the covered interval [first, last].
func (s *LoadSeries) Span() (time.Time, time.Time) {
	if len(s.Points) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.Points[0].Timestamp, s.Points[len(s.Points)-1].Timestamp
}

// Validate enforces the series invariant: strictly increasing timestamps with
// a uniform step. Gap-filling is an upstream responsibility; a hole here is
// an input defect, not something to coerce.
func (s *LoadSeries) Validate(stage string) error {
	if len(s.Points) < 2 {
		return &InsufficientDataError{
			Stage:  stage,
			Ref:    "load_series",
			Reason: fmt.Sprintf("need at least 2 samples, got %d", len(s.Points)),
		}
	}
	step := s.Points[1].Timestamp.Sub(s.Points[0].Timestamp)
	if step <= 0 {
		return &MalformedSeriesError{
			Stage:  stage,
			Ref:    "load_series row 1",
			Reason: "timestamps not strictly increasing",
		}
	}
	for i := 1; i < len(s.Points); i++ {
		d := s.Points[i].Timestamp.Sub(s.Points[i-1].Timestamp)
		if d != step {
			return &MalformedSeriesError{
				Stage:  stage,
				Ref:    fmt.Sprintf("load_series row %d", i),
				Reason: fmt.Sprintf("non-uniform step: expected %s, got %s", step, d),
			}
		}
	}
	return nil
}

// PricePoint is one SMP observation, in currency per kWh.
type PricePoint struct {
	Timestamp time.Time
	SMP       float64
}

// PriceSeries is an ordered SMP series joined to the load series by timestamp.
type PriceSeries struct {
	Points []PricePoint
}

// Validate enforces strictly increasing timestamps.
func (s *PriceSeries) Validate(stage string) error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i].Timestamp.After(s.Points[i-1].Timestamp) {
			return &MalformedSeriesError{
				Stage:  stage,
				Ref:    fmt.Sprintf("price_series row %d", i),
				Reason: "timestamps not strictly increasing",
			}
		}
	}
	return nil
}

// At returns the price whose hour bucket contains t. Prices are hourly; the
// lookup truncates t to the hour and binary-searches the series.
func (s *PriceSeries) At(t time.Time) (float64, bool) {
	want := t.Truncate(time.Hour)
	lo, hi := 0, len(s.Points)
	for lo < hi {
		mid := (lo + hi) / 2
		mt := s.Points[mid].Timestamp.Truncate(time.Hour)
		switch {
		case mt.Equal(want):
			return s.Points[mid].SMP, true
		case mt.Before(want):
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// Season buckets months the way the DR program windows are defined:
// Spring 3-5, Summer 6-8, Fall 9-11, Winter 12-2.
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
	Winter Season = "Winter"
)

func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// BaselineProfile is the reference non-DR-day hourly load profile, one 24-slot
// curve per season, in kW. Produced upstream from non-event weekdays.
type BaselineProfile struct {
	Hourly map[Season][24]float64
}

// Expected returns the baseline load for the hour containing t.
func (p *BaselineProfile) Expected(t time.Time) float64 {
	curve, ok := p.Hourly[SeasonOf(t)]
	if !ok {
		return 0
	}
	return curve[t.Hour()]
}

// FlatBaseline builds a profile with the same value in every slot. Used in
// tests and for facilities with season-independent reference profiles.
func FlatBaseline(kw float64) *BaselineProfile {
	var curve [24]float64
	for i := range curve {
		curve[i] = kw
	}
	return &BaselineProfile{Hourly: map[Season][24]float64{
		Spring: curve,
		Summer: curve,
		Fall:   curve,
		Winter: curve,
	}}
}
