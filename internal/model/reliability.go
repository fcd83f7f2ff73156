package model

// ReliabilityMetric quantifies how well realized curtailable capacity tracked
// the committed rating within one period (a month or a season).
type ReliabilityMetric struct {
	Period string

	CommittedKW  float64 // mean committed capacity over the period
	MeanActualKW float64

	// RRMSE = sqrt(mean((committed-actual)^2)) / mean(committed).
	RRMSE float64

	// ShortfallProbability is the empirical fraction of sampled hours where
	// actual < committed; no distributional assumption is imposed.
	ShortfallProbability float64

	// ToleranceShortfallProbability relaxes the comparison to
	// actual < (1-tolerance)*committed.
	ToleranceShortfallProbability float64

	// ExpectedShortfallKW = mean(max(0, committed-actual)) over all samples.
	ExpectedShortfallKW float64

	SampleCount int
}
