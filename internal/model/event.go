package model

import "time"

// EventDuration is the standardized DR dispatch grain. Events are always
// emitted on exact 1-hour boundaries; sub-hour samples are averaged into the
// hour bucket before the qualification test.
const EventDuration = time.Hour

// DREvent is one qualifying curtailment hour. Events are immutable once
// emitted and never overlap; consecutive qualifying hours stay separate
// events, matching the dispatch grain of hourly capacity markets.
type DREvent struct {
	Start    time.Time
	Duration time.Duration
	Season   Season

	// BaselineKW is the reference non-DR load for the hour, ActualKW the
	// realized hourly mean load, CurtailedKW their difference (>= 0).
	BaselineKW  float64
	ActualKW    float64
	CurtailedKW float64

	// SampleCount and CoverageRatio record how many source samples landed in
	// the hour bucket and what fraction of the hour they cover.
	SampleCount   int
	CoverageRatio float64
}

// End returns the exclusive end of the event hour.
func (e DREvent) End() time.Time { return e.Start.Add(e.Duration) }

// EnergyKWh is the curtailed energy over the standardized hour.
func (e DREvent) EnergyKWh() float64 {
	return e.CurtailedKW * e.Duration.Hours()
}
