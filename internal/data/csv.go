package data

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/RoyceCho1/DCDR/internal/model"
)

// Output table writers. Currency columns are rounded here, at the final
// output boundary; all upstream accumulation stays exact.

func WriteEventsCSV(path string, events []model.DREvent) error {
	header := []string{
		"start",
		"end",
		"season",
		"baseline_kw",
		"actual_kw",
		"curtailed_kw",
		"energy_kwh",
		"sample_count",
		"coverage_ratio",
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			fmtTime(e.Start),
			fmtTime(e.End()),
			string(e.Season),
			fmtFloat(e.BaselineKW),
			fmtFloat(e.ActualKW),
			fmtFloat(e.CurtailedKW),
			fmtFloat(e.EnergyKWh()),
			strconv.Itoa(e.SampleCount),
			fmtFloat(e.CoverageRatio),
		})
	}
	return writeCSV(path, header, rows)
}

func WriteRevenueCSV(path string, records []model.RevenueRecord) error {
	header := []string{
		"year",
		"month",
		"capacity_payment",
		"energy_payment",
		"total",
		"event_count",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(int(r.Month)),
			fmtMoney(r.CapacityPayment),
			fmtMoney(r.EnergyPayment),
			fmtMoney(r.Total),
			strconv.Itoa(r.EventCount),
		})
	}
	return writeCSV(path, header, rows)
}

func WriteReliabilityCSV(path string, metrics []model.ReliabilityMetric) error {
	header := []string{
		"period",
		"committed_kw",
		"mean_actual_kw",
		"rrmse",
		"shortfall_probability",
		"tolerance_shortfall_probability",
		"expected_shortfall_kw",
		"sample_count",
	}
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{
			m.Period,
			fmtFloat(m.CommittedKW),
			fmtFloat(m.MeanActualKW),
			fmtFloat(m.RRMSE),
			fmtFloat(m.ShortfallProbability),
			fmtFloat(m.ToleranceShortfallProbability),
			fmtFloat(m.ExpectedShortfallKW),
			strconv.Itoa(m.SampleCount),
		})
	}
	return writeCSV(path, header, rows)
}

func WriteDCFCSV(path string, proj *model.DCFProjection) error {
	header := []string{
		"year",
		"revenue",
		"net_revenue",
		"opex",
		"capex",
		"cash_flow",
		"discount_factor",
		"discounted_cf",
		"cumulative_npv",
	}
	rows := make([][]string, 0, len(proj.Years))
	for _, y := range proj.Years {
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			fmtMoney(y.Revenue),
			fmtMoney(y.NetRevenue),
			fmtMoney(y.Opex),
			fmtMoney(y.Capex),
			fmtMoney(y.CashFlow),
			fmtFloat(y.DiscountFactor),
			fmtMoney(y.DiscountedCF),
			fmtMoney(y.CumulativeNPV),
		})
	}
	return writeCSV(path, header, rows)
}

func WriteSensitivityCSV(path string, entries []model.SensitivityEntry) error {
	header := []string{
		"parameter",
		"low_input",
		"high_input",
		"low_npv",
		"base_npv",
		"high_npv",
		"swing",
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Parameter,
			fmtFloat(e.Low),
			fmtFloat(e.High),
			fmtMoney(e.LowNPV),
			fmtMoney(e.BaseNPV),
			fmtMoney(e.HighNPV),
			fmtMoney(e.Swing),
		})
	}
	return writeCSV(path, header, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func fmtMoney(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
