package model

import "time"

// RevenueRecord is one calendar month of DR revenue. Currency units are
// whatever the price inputs use (e.g. KRW); no conversion happens inside the
// pipeline, and rounding is applied only at table output.
type RevenueRecord struct {
	Year  int
	Month time.Month

	// CapacityPayment is earned on the committed rating regardless of
	// dispatch; EnergyPayment only on realized events at the hourly SMP.
	CapacityPayment float64
	EnergyPayment   float64
	Total           float64

	EventCount int
}

// AnnualSummary aggregates a run of monthly records for the long-term engine.
type AnnualSummary struct {
	CapacityRevenue float64
	EnergyRevenue   float64
	TotalRevenue    float64
	EventHours      int
}

// Summarize rolls monthly records up to annual totals.
func Summarize(records []RevenueRecord) AnnualSummary {
	var s AnnualSummary
	for _, r := range records {
		s.CapacityRevenue += r.CapacityPayment
		s.EnergyRevenue += r.EnergyPayment
		s.TotalRevenue += r.Total
		s.EventHours += r.EventCount
	}
	return s
}
