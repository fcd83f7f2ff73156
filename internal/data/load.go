// Package data reads the input time series and writes the output tables.
// Everything is plain CSV; this is a batch file-to-file pipeline with no
// wire protocol or database.
package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RoyceCho1/DCDR/internal/model"
)

const stage = "data_loader"

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadLoadCSV reads a load series with header
// timestamp,it_load_kw,cooling_load_kw[,total_load_kw]. When the total
// column is absent, total = IT + cooling.
func LoadLoadCSV(path string) (*model.LoadSeries, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, &model.InsufficientDataError{
			Stage:  stage,
			Ref:    path,
			Reason: "no data rows",
		}
	}

	header := rows[0]
	col, err := columnIndex(header, path, "timestamp", "it_load_kw", "cooling_load_kw")
	if err != nil {
		return nil, err
	}
	totalIdx := indexOf(header, "total_load_kw")

	series := &model.LoadSeries{Points: make([]model.LoadPoint, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		ref := fmt.Sprintf("%s row %d", path, i+1)
		ts, err := parseTime(row[col["timestamp"]], ref)
		if err != nil {
			return nil, err
		}
		it, err := parseFloat(row[col["it_load_kw"]], ref)
		if err != nil {
			return nil, err
		}
		cool, err := parseFloat(row[col["cooling_load_kw"]], ref)
		if err != nil {
			return nil, err
		}
		total := it + cool
		if totalIdx >= 0 {
			total, err = parseFloat(row[totalIdx], ref)
			if err != nil {
				return nil, err
			}
		}
		series.Points = append(series.Points, model.LoadPoint{
			Timestamp:   ts,
			ITLoadKW:    it,
			CoolingKW:   cool,
			TotalLoadKW: total,
		})
	}
	return series, nil
}

// LoadPriceCSV reads an SMP series with header timestamp,smp.
func LoadPriceCSV(path string) (*model.PriceSeries, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, &model.InsufficientDataError{
			Stage:  stage,
			Ref:    path,
			Reason: "no data rows",
		}
	}
	col, err := columnIndex(rows[0], path, "timestamp", "smp")
	if err != nil {
		return nil, err
	}

	series := &model.PriceSeries{Points: make([]model.PricePoint, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		ref := fmt.Sprintf("%s row %d", path, i+1)
		ts, err := parseTime(row[col["timestamp"]], ref)
		if err != nil {
			return nil, err
		}
		smp, err := parseFloat(row[col["smp"]], ref)
		if err != nil {
			return nil, err
		}
		series.Points = append(series.Points, model.PricePoint{Timestamp: ts, SMP: smp})
	}
	return series, nil
}

// LoadBaselineCSV reads the reference non-DR-day profile with header
// season,hour,baseline_kw.
func LoadBaselineCSV(path string) (*model.BaselineProfile, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, &model.InsufficientDataError{
			Stage:  stage,
			Ref:    path,
			Reason: "no data rows",
		}
	}
	col, err := columnIndex(rows[0], path, "season", "hour", "baseline_kw")
	if err != nil {
		return nil, err
	}

	profile := &model.BaselineProfile{Hourly: map[model.Season][24]float64{}}
	for i, row := range rows[1:] {
		ref := fmt.Sprintf("%s row %d", path, i+1)
		season := model.Season(strings.TrimSpace(row[col["season"]]))
		hour, err := strconv.Atoi(strings.TrimSpace(row[col["hour"]]))
		if err != nil || hour < 0 || hour > 23 {
			return nil, &model.MalformedSeriesError{
				Stage:  stage,
				Ref:    ref,
				Reason: fmt.Sprintf("invalid hour %q", row[col["hour"]]),
			}
		}
		kw, err := parseFloat(row[col["baseline_kw"]], ref)
		if err != nil {
			return nil, err
		}
		curve := profile.Hourly[season]
		curve[hour] = kw
		profile.Hourly[season] = curve
	}
	return profile, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

func columnIndex(header []string, path string, names ...string) (map[string]int, error) {
	col := map[string]int{}
	for _, name := range names {
		idx := indexOf(header, name)
		if idx < 0 {
			return nil, &model.MalformedSeriesError{
				Stage:  stage,
				Ref:    fmt.Sprintf("%s header", path),
				Reason: fmt.Sprintf("missing required column %q", name),
			}
		}
		col[name] = idx
	}
	return col, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func parseTime(s, ref string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &model.MalformedSeriesError{
		Stage:  stage,
		Ref:    ref,
		Reason: fmt.Sprintf("unparseable timestamp %q", s),
	}
}

func parseFloat(s, ref string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &model.MalformedSeriesError{
			Stage:  stage,
			Ref:    ref,
			Reason: fmt.Sprintf("non-numeric value %q", s),
		}
	}
	return v, nil
}
