package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/RoyceCho1/DCDR/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). It is loaded once,
// validated, and passed by value into each stage; no stage mutates it.
type Config struct {
	// Optional: load financial assumptions from a separate YAML so different
	// scenarios can share one main config. Explicit Finance fields override it.
	FinanceFile string `yaml:"finance_file"`

	RatedLoad   RatedLoadConfig   `yaml:"rated_load"`
	DR          DRConfig          `yaml:"dr"`
	Revenue     RevenueConfig     `yaml:"revenue"`
	Reliability ReliabilityConfig `yaml:"reliability"`
	Finance     FinanceConfig     `yaml:"finance"`
	Sensitivity []ParamBound      `yaml:"sensitivity"`
}

type RatedLoadConfig struct {
	Method        string  `yaml:"method"`          // "percentile" or "rolling_min"
	Percentile    float64 `yaml:"percentile"`      // quantile in (0,1), default 0.05
	RollingWindow int     `yaml:"rolling_window"`  // hours, rolling_min only
	MinWindowDays int     `yaml:"min_window_days"` // minimum series span, default 365
}

type DRConfig struct {
	// ThresholdKW is the floor below which a curtailment does not qualify as
	// an event, on top of the rated-load test.
	ThresholdKW float64 `yaml:"threshold_kw"`

	// RequireFullCoverage demands every source sample of the hour be present
	// before the hour can qualify (conservative completeness rule).
	RequireFullCoverage bool `yaml:"require_full_coverage"`

	// WeekdayWindowsOnly restricts events to the seasonal weekday dispatch
	// windows. Off by default so the simulator evaluates every hour.
	WeekdayWindowsOnly bool `yaml:"weekday_windows_only"`

	// Shed-potential coefficients (analysis stage).
	AlphaIT         float64 `yaml:"alpha_it"`          // default 0.10
	AlphaCoolSummer float64 `yaml:"alpha_cool_summer"` // default 0.15
	AlphaCoolOther  float64 `yaml:"alpha_cool_other"`  // default 0.10
	ESSKW           float64 `yaml:"ess_kw"`            // fixed ESS contribution, default 1250
}

type RevenueConfig struct {
	// CapacityPrice is the flat per-kW-per-month rate. MonthlyRates, if
	// supplied, override it with a per-month low/high band.
	CapacityPrice       float64          `yaml:"capacity_price"`
	MonthlyRates        map[int]RateBand `yaml:"monthly_rates"`
	RateScenario        string           `yaml:"rate_scenario"` // low|base|high, default base
	WeekdayAvailability bool             `yaml:"weekday_availability"`
}

type RateBand struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Base is the midpoint rate used by the base scenario.
func (b RateBand) Base() float64 { return (b.Low + b.High) / 2 }

type ReliabilityConfig struct {
	// Grouping selects the period: "month" or "season".
	Grouping  string  `yaml:"grouping"`
	Tolerance float64 `yaml:"tolerance"` // tolerance-shortfall slack, default 0.05
}

type FinanceConfig struct {
	DiscountRate    float64 `yaml:"discount_rate"`    // default 0.045
	ProjectionYears int     `yaml:"projection_years"` // default 30
	CapacityGrowth  float64 `yaml:"capacity_growth"`  // default 0.02
	EnergyGrowth    float64 `yaml:"energy_growth"`    // default -0.01
	AggregatorFee   float64 `yaml:"aggregator_fee"`   // default 0.10

	CapexInitial      float64 `yaml:"capex_initial"`       // >= 0, charged up front
	CapexReinvestRate float64 `yaml:"capex_reinvest_rate"` // share of initial, years 10/20
	ESSRefurbCost     float64 `yaml:"ess_refurb_cost"`     // >= 0, year 15
	OpexRate          float64 `yaml:"opex_rate"`           // share of initial capex per year

	// HaircutPolicy couples reliability into the projection: "none" leaves
	// revenue untouched, "proportional" removes HaircutFactor * shortfall
	// probability from every year's revenue.
	HaircutPolicy string  `yaml:"haircut_policy"`
	HaircutFactor float64 `yaml:"haircut_factor"`

	ScaleFactor    float64 `yaml:"scale_factor"`     // scale-up scenario, e.g. 50/4.5
	EconomyOfScale float64 `yaml:"economy_of_scale"` // capex multiplier under scale-up, default 0.5
	ESSScale       float64 `yaml:"ess_scale"`        // refurbishment multiplier under scale-up
}

// ParamBound names one sensitivity driver and its low/high inputs.
type ParamBound struct {
	Name string  `yaml:"name"`
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate or default it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.FinanceFile != "" {
		financePath := c.FinanceFile
		if !filepath.IsAbs(financePath) {
			// Prefer interpreting relative paths as relative to the config file
			// directory, falling back to cwd-relative if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), financePath)
			if _, err := os.Stat(cand); err == nil {
				financePath = cand
			}
		}
		loaded, err := loadFinanceFile(financePath)
		if err != nil {
			return nil, err
		}
		c.Finance = MergeFinance(loaded, c.Finance)
	}
	return &c, nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.RatedLoad.Method == "" {
		c.RatedLoad.Method = string(model.MethodPercentile)
	}
	if c.RatedLoad.Percentile == 0 {
		c.RatedLoad.Percentile = 0.05
	}
	if c.RatedLoad.RollingWindow == 0 {
		c.RatedLoad.RollingWindow = 24 * 7
	}
	if c.RatedLoad.MinWindowDays == 0 {
		c.RatedLoad.MinWindowDays = 365
	}
	if c.DR.AlphaIT == 0 {
		c.DR.AlphaIT = 0.10
	}
	if c.DR.AlphaCoolSummer == 0 {
		c.DR.AlphaCoolSummer = 0.15
	}
	if c.DR.AlphaCoolOther == 0 {
		c.DR.AlphaCoolOther = 0.10
	}
	if c.DR.ESSKW == 0 {
		c.DR.ESSKW = 1250
	}
	if c.Revenue.RateScenario == "" {
		c.Revenue.RateScenario = "base"
	}
	if c.Reliability.Grouping == "" {
		c.Reliability.Grouping = "month"
	}
	if c.Reliability.Tolerance == 0 {
		c.Reliability.Tolerance = 0.05
	}
	if c.Finance.DiscountRate == 0 {
		c.Finance.DiscountRate = 0.045
	}
	if c.Finance.ProjectionYears == 0 {
		c.Finance.ProjectionYears = 30
	}
	if c.Finance.AggregatorFee == 0 {
		c.Finance.AggregatorFee = 0.10
	}
	if c.Finance.HaircutPolicy == "" {
		c.Finance.HaircutPolicy = "none"
	}
	if c.Finance.EconomyOfScale == 0 {
		c.Finance.EconomyOfScale = 0.5
	}
	if c.Finance.ESSScale == 0 {
		c.Finance.ESSScale = 1
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch model.RatedLoadMethod(c.RatedLoad.Method) {
	case model.MethodPercentile, model.MethodRollingMin:
	default:
		return fmt.Errorf("rated_load.method must be %q or %q, got %q",
			model.MethodPercentile, model.MethodRollingMin, c.RatedLoad.Method)
	}
	if c.RatedLoad.Percentile <= 0 || c.RatedLoad.Percentile >= 1 {
		return errors.New("rated_load.percentile must be in (0, 1)")
	}
	if c.RatedLoad.MinWindowDays < 1 {
		return errors.New("rated_load.min_window_days must be >= 1")
	}
	if c.DR.ThresholdKW < 0 {
		return errors.New("dr.threshold_kw must be >= 0")
	}
	switch c.Revenue.RateScenario {
	case "low", "base", "high":
	default:
		return fmt.Errorf("revenue.rate_scenario must be low/base/high, got %q", c.Revenue.RateScenario)
	}
	switch c.Reliability.Grouping {
	case "month", "season":
	default:
		return fmt.Errorf("reliability.grouping must be month or season, got %q", c.Reliability.Grouping)
	}
	if c.Reliability.Tolerance < 0 || c.Reliability.Tolerance >= 1 {
		return errors.New("reliability.tolerance must be in [0, 1)")
	}
	if c.Finance.DiscountRate <= -1 {
		return &model.InvalidAssumptionError{
			Stage:  "config",
			Ref:    "finance.discount_rate",
			Reason: "discount rate must be > -100%",
		}
	}
	if c.Finance.ScaleFactor < 0 {
		return &model.InvalidAssumptionError{
			Stage:  "config",
			Ref:    "finance.scale_factor",
			Reason: "scale factor must be >= 0",
		}
	}
	seen := map[string]bool{}
	for _, p := range c.Sensitivity {
		if p.Name == "" {
			return errors.New("sensitivity entries need a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate sensitivity parameter %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// SortedSensitivity returns the sensitivity parameters in a stable order.
func (c *Config) SortedSensitivity() []ParamBound {
	out := make([]ParamBound, len(c.Sensitivity))
	copy(out, c.Sensitivity)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type financeFileWrapper struct {
	Finance FinanceConfig `yaml:"finance"`
}

func loadFinanceFile(path string) (FinanceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FinanceConfig{}, err
	}
	var w financeFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return FinanceConfig{}, err
	}
	return w.Finance, nil
}

// MergeFinance overlays non-zero fields from override onto base. Used when a
// finance file is loaded and the main config carries explicit overrides.
func MergeFinance(base, override FinanceConfig) FinanceConfig {
	out := base
	if override.DiscountRate != 0 {
		out.DiscountRate = override.DiscountRate
	}
	if override.ProjectionYears != 0 {
		out.ProjectionYears = override.ProjectionYears
	}
	if override.CapacityGrowth != 0 {
		out.CapacityGrowth = override.CapacityGrowth
	}
	if override.EnergyGrowth != 0 {
		out.EnergyGrowth = override.EnergyGrowth
	}
	if override.AggregatorFee != 0 {
		out.AggregatorFee = override.AggregatorFee
	}
	if override.CapexInitial != 0 {
		out.CapexInitial = override.CapexInitial
	}
	if override.CapexReinvestRate != 0 {
		out.CapexReinvestRate = override.CapexReinvestRate
	}
	if override.ESSRefurbCost != 0 {
		out.ESSRefurbCost = override.ESSRefurbCost
	}
	if override.OpexRate != 0 {
		out.OpexRate = override.OpexRate
	}
	if override.HaircutPolicy != "" {
		out.HaircutPolicy = override.HaircutPolicy
	}
	if override.HaircutFactor != 0 {
		out.HaircutFactor = override.HaircutFactor
	}
	if override.ScaleFactor != 0 {
		out.ScaleFactor = override.ScaleFactor
	}
	if override.EconomyOfScale != 0 {
		out.EconomyOfScale = override.EconomyOfScale
	}
	if override.ESSScale != 0 {
		out.ESSScale = override.ESSScale
	}
	return out
}
