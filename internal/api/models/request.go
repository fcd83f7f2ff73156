package models

// AnalyzeRequest runs the full feasibility chain over server-local input
// files. Config is optional; defaults apply when omitted.
type AnalyzeRequest struct {
	LoadPath     string `json:"load_path" binding:"required"`
	PricePath    string `json:"price_path" binding:"required"`
	BaselinePath string `json:"baseline_path,omitempty"` // flat baseline_kw used when absent
	ConfigPath   string `json:"config_path,omitempty"`

	// BaselineKW is the flat reference profile used when no baseline file is
	// supplied.
	BaselineKW float64 `json:"baseline_kw,omitempty"`

	Options AnalyzeOptions `json:"options,omitempty"`
}

// AnalyzeOptions controls response verbosity.
type AnalyzeOptions struct {
	IncludeEvents     bool `json:"include_events,omitempty"`
	IncludeProjection bool `json:"include_projection,omitempty"`
}

// DCFRequest runs the long-term projection standalone from explicit
// assumptions, without the upstream stages.
type DCFRequest struct {
	Assumptions          DCFAssumptions `json:"assumptions" binding:"required"`
	ShortfallProbability float64        `json:"shortfall_probability,omitempty"`
}

// DCFAssumptions mirrors the finance configuration for API callers.
type DCFAssumptions struct {
	DiscountRate      float64 `json:"discount_rate"`
	ProjectionYears   int     `json:"projection_years,omitempty"`
	CapacityRevenueY1 float64 `json:"capacity_revenue_y1"`
	EnergyRevenueY1   float64 `json:"energy_revenue_y1"`
	CapacityGrowth    float64 `json:"capacity_growth,omitempty"`
	EnergyGrowth      float64 `json:"energy_growth,omitempty"`
	AggregatorFee     float64 `json:"aggregator_fee,omitempty"`
	CapexInitial      float64 `json:"capex_initial,omitempty"`
	CapexReinvestRate float64 `json:"capex_reinvest_rate,omitempty"`
	ESSRefurbCost     float64 `json:"ess_refurb_cost,omitempty"`
	OpexRate          float64 `json:"opex_rate,omitempty"`
	HaircutPolicy     string  `json:"haircut_policy,omitempty"`
	HaircutFactor     float64 `json:"haircut_factor,omitempty"`
}

// SensitivityRequest runs tornado analysis over the given parameter bounds.
type SensitivityRequest struct {
	DCFRequest
	Params []SensitivityParam `json:"params" binding:"required"`
}

type SensitivityParam struct {
	Name string  `json:"name" binding:"required"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}
