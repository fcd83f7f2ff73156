package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RoyceCho1/DCDR/internal/analysis"
	"github.com/RoyceCho1/DCDR/internal/config"
	"github.com/RoyceCho1/DCDR/internal/data"
	"github.com/RoyceCho1/DCDR/internal/model"
	"github.com/RoyceCho1/DCDR/internal/pipeline"
	"github.com/RoyceCho1/DCDR/internal/ratedload"
	"github.com/RoyceCho1/DCDR/internal/strategy"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "estimate":
		cmdEstimate(os.Args[2:])
	case "rank":
		cmdRank(os.Args[2:])
	case "dcf":
		cmdDCF(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --load load.csv --prices smp.csv --config config.yaml --out results/")
	fmt.Println("  cli estimate --load load.csv --config config.yaml")
	fmt.Println("  cli rank --load load.csv")
	fmt.Println("  cli dcf --config config.yaml --capacity-rev 27989920 --energy-rev 12003998")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run executes the full chain and writes events/revenue/reliability/dcf/sensitivity CSVs")
	fmt.Println("  - estimate prints the rated-load commitment and capacity-planning candidates")
	fmt.Println("  - rank scores seasons by mean shed potential")
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger.Sugar()
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	return cfg
}

func loadInputs(loadPath, pricePath, baselinePath string, baselineKW float64) pipeline.Inputs {
	series, err := data.LoadLoadCSV(loadPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	in := pipeline.Inputs{Load: series, Baseline: model.FlatBaseline(baselineKW)}
	if pricePath != "" {
		in.Prices, err = data.LoadPriceCSV(pricePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if baselinePath != "" {
		in.Baseline, err = data.LoadBaselineCSV(baselinePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	return in
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	loadPath := fs.String("load", "data/load.csv", "Load series CSV (timestamp,it_load_kw,cooling_load_kw[,total_load_kw])")
	pricePath := fs.String("prices", "data/smp.csv", "SMP series CSV (timestamp,smp)")
	baselinePath := fs.String("baseline", "", "Baseline profile CSV (season,hour,baseline_kw)")
	baselineKW := fs.Float64("baseline-kw", 0, "Flat baseline kW used when --baseline is absent")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	log := newLogger()
	cfg := loadConfig(*cfgPath)
	in := loadInputs(*loadPath, *pricePath, *baselinePath, *baselineKW)

	out, err := pipeline.Run(cfg, in)
	if err != nil {
		log.Fatalw("pipeline failed", "error", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalw("mkdir", "error", err)
	}
	writes := []struct {
		name string
		fn   func(string) error
	}{
		{"dr_events.csv", func(p string) error { return data.WriteEventsCSV(p, out.Events) }},
		{"revenue.csv", func(p string) error { return data.WriteRevenueCSV(p, out.Revenue) }},
		{"reliability.csv", func(p string) error { return data.WriteReliabilityCSV(p, out.Reliability) }},
		{"dcf_projection.csv", func(p string) error { return data.WriteDCFCSV(p, out.Projection) }},
	}
	for _, w := range writes {
		if err := w.fn(filepath.Join(*outDir, w.name)); err != nil {
			log.Fatalw("write", "file", w.name, "error", err)
		}
	}
	if len(out.Sensitivity) > 0 {
		if err := data.WriteSensitivityCSV(filepath.Join(*outDir, "sensitivity.csv"), out.Sensitivity); err != nil {
			log.Fatalw("write", "file", "sensitivity.csv", "error", err)
		}
	}
	if out.ScaleUp != nil {
		if err := data.WriteDCFCSV(filepath.Join(*outDir, "dcf_projection_scaled.csv"), out.ScaleUp); err != nil {
			log.Fatalw("write", "file", "dcf_projection_scaled.csv", "error", err)
		}
	}

	fmt.Printf("Rated load: %.2f kW (overall)\n", out.Rated.OverallKW)
	fmt.Printf("DR events: %d, annual revenue: %.0f\n", len(out.Events), out.Annual.TotalRevenue)
	fmt.Printf("Shortfall probability: %.4f\n", out.Shortfall)
	fmt.Printf("NPV: %.0f  IRR: %.4f  Payback: year %d\n",
		out.Projection.NPV, out.Projection.IRR, out.Projection.PaybackYear)
	if out.ScaleUp != nil {
		fmt.Printf("Scale-up NPV: %.0f\n", out.ScaleUp.NPV)
	}
	fmt.Printf("Wrote results to %s\n", *outDir)
}

func cmdEstimate(args []string) {
	fs := flag.NewFlagSet("estimate", flag.ExitOnError)
	loadPath := fs.String("load", "data/load.csv", "Load series CSV")
	baselinePath := fs.String("baseline", "", "Baseline profile CSV")
	baselineKW := fs.Float64("baseline-kw", 0, "Flat baseline kW")
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	in := loadInputs(*loadPath, "", *baselinePath, *baselineKW)

	rated, err := ratedload.Estimate(in.Load, in.Baseline, cfg.RatedLoad)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cand := ratedload.ComputeCandidates(in.Load)

	fmt.Printf("Method: %s (q=%.2f)\n", rated.Method, rated.Percentile)
	fmt.Printf("Overall rated load: %.2f kW\n", rated.OverallKW)
	for m := 1; m <= 12; m++ {
		if v, ok := rated.MonthlyKW[monthOf(m)]; ok {
			fmt.Printf("  %-10s %.2f kW\n", monthOf(m), v)
		}
	}
	fmt.Println("\nCapacity planning candidates:")
	fmt.Printf("  Peak:   %.2f kW\n", cand.PeakKW)
	fmt.Printf("  P99:    %.2f kW  (A: 1.1xP99 = %.2f, recommended)\n", cand.P99KW, cand.ScenarioA)
	fmt.Printf("  P95:    %.2f kW  (C: 1.1xP95 = %.2f)\n", cand.P95KW, cand.ScenarioC)
	fmt.Printf("  Median: %.2f kW\n", cand.MedianKW)
}

func cmdRank(args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	loadPath := fs.String("load", "data/load.csv", "Load series CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	in := loadInputs(*loadPath, "", "", 0)

	samples := analysis.ComputeShedPotential(in.Load, cfg.DR)
	ranked := analysis.RankByMeanPotential(analysis.SummarizeBySeason(samples))

	fmt.Printf("%-4s %-8s %-8s %-12s %-12s %-12s\n", "rank", "season", "hours", "mean_kw", "p90_kw", "p95_kw")
	for i, r := range ranked {
		fmt.Printf("%-4d %-8s %-8d %-12.2f %-12.2f %-12.2f\n",
			i+1, r.Season, r.Count, r.MeanKW, r.P90KW, r.P95KW)
	}
}

func cmdDCF(args []string) {
	fs := flag.NewFlagSet("dcf", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	capRev := fs.Float64("capacity-rev", 0, "Year-1 capacity revenue")
	enRev := fs.Float64("energy-rev", 0, "Year-1 energy revenue")
	shortfall := fs.Float64("shortfall", 0, "Shortfall probability for the haircut policy")
	outPath := fs.String("out", "", "Optional projection CSV path")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	asm := strategy.AssumptionsFromConfig(cfg.Finance, model.AnnualSummary{
		CapacityRevenue: *capRev,
		EnergyRevenue:   *enRev,
	})

	eng := strategy.New()
	proj, err := eng.Project(asm, *shortfall)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("NPV: %.0f  IRR: %.4f  Payback: year %d\n", proj.NPV, proj.IRR, proj.PaybackYear)

	if len(cfg.Sensitivity) > 0 {
		entries, err := eng.Tornado(asm, *shortfall, cfg.Sensitivity)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("\n%-24s %-14s %-14s %-14s\n", "parameter", "low_npv", "high_npv", "swing")
		for _, e := range entries {
			fmt.Printf("%-24s %-14.0f %-14.0f %-14.0f\n", e.Parameter, e.LowNPV, e.HighNPV, e.Swing)
		}
	}

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := data.WriteDCFCSV(*outPath, proj); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outPath)
	}
}

func monthOf(m int) time.Month { return time.Month(m) }
