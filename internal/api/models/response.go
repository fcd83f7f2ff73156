package models

import (
	"time"

	"github.com/RoyceCho1/DCDR/internal/model"
)

// AnalyzeResponse is the full-chain result.
type AnalyzeResponse struct {
	Status  string         `json:"status"`
	Summary AnalyzeSummary `json:"summary"`

	Revenue     []model.RevenueRecord     `json:"revenue"`
	Reliability []model.ReliabilityMetric `json:"reliability"`
	Sensitivity []model.SensitivityEntry  `json:"sensitivity,omitempty"`

	Events     []model.DREvent      `json:"events,omitempty"`
	Projection *model.DCFProjection `json:"projection,omitempty"`
	ScaleUp    *model.DCFProjection `json:"scale_up,omitempty"`
}

// AnalyzeSummary aggregates the headline numbers.
type AnalyzeSummary struct {
	RatedLoadKW   float64    `json:"rated_load_kw"`
	EventCount    int        `json:"event_count"`
	Window        TimeWindow `json:"window"`
	AnnualRevenue float64    `json:"annual_revenue"`
	ShortfallProb float64    `json:"shortfall_probability"`
	NPV           float64    `json:"npv"`
	IRR           float64    `json:"irr"`
	PaybackYear   int        `json:"payback_year"`
	ScaleUpNPV    float64    `json:"scale_up_npv,omitempty"`
}

type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DCFResponse is the standalone projection result.
type DCFResponse struct {
	Status      string               `json:"status"`
	NPV         float64              `json:"npv"`
	IRR         float64              `json:"irr"`
	PaybackYear int                  `json:"payback_year"`
	Projection  *model.DCFProjection `json:"projection"`
}

// SensitivityResponse is the tornado result, sorted by swing descending.
type SensitivityResponse struct {
	Status  string                   `json:"status"`
	BaseNPV float64                  `json:"base_npv"`
	Entries []model.SensitivityEntry `json:"entries"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
