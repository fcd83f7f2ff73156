package model

// YearCashFlow is one row of the long-term projection. Year 0 exists only
// when initial capex is front-loaded; operating years run 1..N.
type YearCashFlow struct {
	Year int

	Revenue    float64 // gross capacity + energy revenue
	NetRevenue float64 // after aggregator fee and reliability haircut
	Opex       float64 // >= 0, subtracted
	Capex      float64 // >= 0, subtracted (initial, reinvestment, refurbishment)

	CashFlow       float64
	DiscountFactor float64
	DiscountedCF   float64
	CumulativeNPV  float64
}

// DCFProjection is the discounted cash flow result for one scenario.
type DCFProjection struct {
	Years []YearCashFlow

	NPV float64

	// IRR is the internal rate of return of the net cash-flow stream; NaN
	// when the Newton iteration does not converge (e.g. no sign change).
	IRR float64

	// PaybackYear is the first year the cumulative discounted cash flow
	// turns non-negative; -1 when it never does within the horizon.
	PaybackYear int
}

// SensitivityEntry is one tornado bar: NPV at the parameter's low and high
// bound with everything else held at base. Swing = |HighNPV - LowNPV|.
type SensitivityEntry struct {
	Parameter string
	Low       float64 // perturbed input, low bound
	High      float64 // perturbed input, high bound

	LowNPV  float64
	BaseNPV float64
	HighNPV float64
	Swing   float64
}
