package model

import "time"

// RatedLoadMethod selects how the curtailable-capacity commitment is derived
// from the historical distribution.
type RatedLoadMethod string

const (
	MethodPercentile RatedLoadMethod = "percentile"
	MethodRollingMin RatedLoadMethod = "rolling_min"
)

// RatedLoad is the curtailable-capacity commitment, in kW. It carries one
// value per calendar month plus an overall fallback, and is immutable once
// computed for an analysis run.
//
// A percentile-based rating is deliberately not a lower bound on observed
// capacity; the asymmetry is validated downstream by the reliability stage.
type RatedLoad struct {
	Method     RatedLoadMethod
	Percentile float64 // quantile used when Method == percentile, e.g. 0.05

	MonthlyKW map[time.Month]float64
	OverallKW float64
}

// ForMonth returns the commitment for a calendar month, falling back to the
// overall rating when no monthly value was derived.
func (r RatedLoad) ForMonth(m time.Month) float64 {
	if v, ok := r.MonthlyKW[m]; ok {
		return v
	}
	return r.OverallKW
}

// Scalar builds a flat rating, the same commitment in every month.
func Scalar(kw float64) RatedLoad {
	return RatedLoad{OverallKW: kw}
}
