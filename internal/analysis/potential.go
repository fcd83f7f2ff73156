package analysis

import (
	"sort"
	"time"

	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/model"

	"gonum.org/v1/gonum/stat"
)

// ShedSample is the shed potential for one timestamp:
// Q_shed = alpha_IT * P_IT + alpha_cool * P_cool + Q_ESS, nonzero only inside
// the season's weekday shed window. The cooling coefficient is seasonal
// (summer cooling responds more than shoulder-season cooling).
type ShedSample struct {
	Timestamp time.Time
	Season    model.Season
	InWindow  bool
	QShedKW   float64
	QUpKW     float64
}

// ComputeShedPotential evaluates the shed and load-up potential for every
// sample of the series.
func ComputeShedPotential(series *model.LoadSeries, cfg config.DRConfig) []ShedSample {
	out := make([]ShedSample, 0, len(series.Points))
	for _, p := range series.Points {
		season := model.SeasonOf(p.Timestamp)
		s := ShedSample{
			Timestamp: p.Timestamp,
			Season:    season,
			InWindow:  InShedWindow(p.Timestamp),
		}
		if s.InWindow {
			alphaCool := cfg.AlphaCoolOther
			if season == model.Summer {
				alphaCool = cfg.AlphaCoolSummer
			}
			s.QShedKW = cfg.AlphaIT*p.ITLoadKW + alphaCool*p.CoolingKW + cfg.ESSKW
		}
		if InUpWindow(p.Timestamp) {
			s.QUpKW = cfg.AlphaIT*p.ITLoadKW + cfg.ESSKW
		}
		out = append(out, s)
	}
	return out
}

// SeasonPotential summarizes the active-window shed potential of one season.
type SeasonPotential struct {
	Season model.Season

	Count  int
	MeanKW float64
	P05KW  float64
	P90KW  float64
	P95KW  float64
}

// SummarizeBySeason computes per-season potential statistics over the active
// shed windows only.
func SummarizeBySeason(samples []ShedSample) []SeasonPotential {
	bySeason := map[model.Season][]float64{}
	for _, s := range samples {
		if s.InWindow && s.QShedKW > 0 {
			bySeason[s.Season] = append(bySeason[s.Season], s.QShedKW)
		}
	}
	out := make([]SeasonPotential, 0, len(bySeason))
	for season, vals := range bySeason {
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)
		out = append(out, SeasonPotential{
			Season: season,
			Count:  len(vals),
			MeanKW: stat.Mean(vals, nil),
			P05KW:  stat.Quantile(0.05, stat.Empirical, sorted, nil),
			P90KW:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
			P95KW:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

// RankByMeanPotential sorts season summaries descending by mean shed
// potential, the presentation order for capacity planning.
func RankByMeanPotential(summaries []SeasonPotential) []SeasonPotential {
	out := make([]SeasonPotential, len(summaries))
	copy(out, summaries)
	sort.Slice(out, func(i, j int) bool { return out[i].MeanKW > out[j].MeanKW })
	return out
}
