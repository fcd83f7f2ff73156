// Package pipeline wires the analysis stages end to end. Data flows strictly
// forward: estimator -> simulator -> {revenue, reliability} -> strategy
// engine. Each stage consumes immutable inputs and emits a new derived
// dataset; nothing is mutated in place.
package pipeline

import (
	"github.com/RoyceCho1/DCDR/internal/analysis"
	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"
	"github.com/RoyceCho1/DCDR/internal/ratedload"
	"github.com/RoyceCho1/DCDR/internal/reliability"
	"github.com/RoyceCho1/DCDR/internal/revenue"
	"github.com/RoyceCho1/DCDR/internal/simulate"
	"github.com/RoyceCho1/DCDR/internal/strategy"
)

// Inputs are the clean, regularly sampled series the upstream collaborators
// produce.
type Inputs struct {
	Load     *model.LoadSeries
	Prices   *model.PriceSeries
	Baseline *model.BaselineProfile
}

// Outputs are the decision-support artifacts of one full run.
type Outputs struct {
	Rated       model.RatedLoad
	Candidates  ratedload.Candidates
	Events      []model.DREvent
	Revenue     []model.RevenueRecord
	Annual      model.AnnualSummary
	Reliability []model.ReliabilityMetric
	Shortfall   float64
	Potential   []analysis.SeasonPotential

	Projection  *model.DCFProjection
	Sensitivity []model.SensitivityEntry
	ScaleUp     *model.DCFProjection
}

// Run executes the full chain under one immutable configuration.
func Run(cfg *config.Config, in Inputs) (*Outputs, error) {
	rated, err := ratedload.Estimate(in.Load, in.Baseline, cfg.RatedLoad)
	if err != nil {
		return nil, err
	}

	sim, err := simulate.New(cfg.DR).Run(in.Load, in.Baseline, rated)
	if err != nil {
		return nil, err
	}

	records, err := revenue.New(cfg.Revenue).Compute(sim.Events, rated, in.Prices, sim.Start, sim.End)
	if err != nil {
		return nil, err
	}

	obs := reliability.ObservationsFromSeries(in.Load, in.Baseline)
	metrics, err := reliability.New(cfg.Reliability).Analyze(obs, rated)
	if err != nil {
		return nil, err
	}

	out := &Outputs{
		Rated:       rated,
		Candidates:  ratedload.ComputeCandidates(in.Load),
		Events:      sim.Events,
		Revenue:     records,
		Annual:      model.Summarize(records),
		Reliability: metrics,
		Shortfall:   reliability.AggregateShortfall(metrics),
		Potential:   analysis.SummarizeBySeason(analysis.ComputeShedPotential(in.Load, cfg.DR)),
	}

	eng := strategy.New()
	asm := strategy.AssumptionsFromConfig(cfg.Finance, out.Annual)
	out.Projection, err = eng.Project(asm, out.Shortfall)
	if err != nil {
		return nil, err
	}

	if len(cfg.Sensitivity) > 0 {
		out.Sensitivity, err = eng.Tornado(asm, out.Shortfall, cfg.Sensitivity)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Finance.ScaleFactor > 0 && cfg.Finance.ScaleFactor != 1 {
		out.ScaleUp, err = eng.ScaleUp(asm, out.Shortfall, strategy.ScaleUpParams{
			Scale:          cfg.Finance.ScaleFactor,
			EconomyOfScale: cfg.Finance.EconomyOfScale,
			ESSScale:       cfg.Finance.ESSScale,
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
