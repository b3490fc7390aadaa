// Command track-sim runs a synthetic constant-velocity tracking
// scenario through the Kalman filter and reports how much the filter
// improves on the raw measurements. Results can optionally be stored in
// a SQLite database and rendered as a trajectory plot.
package main

import (
	"flag"
	"fmt"
	"log"
)

// Config holds the simulation parameters.
type Config struct {
	Steps        int
	Dt           float64
	ProcessNoise float64
	MeasureNoise float64
	Seed         int64
	DBPath       string
	PlotPath     string
	Verbose      bool
}

func parseFlags() Config {
	var cfg Config
	flag.IntVar(&cfg.Steps, "steps", 200, "number of simulation steps")
	flag.Float64Var(&cfg.Dt, "dt", 0.1, "time step in seconds")
	flag.Float64Var(&cfg.ProcessNoise, "process-noise", 1e-3, "process noise variance fed to the filter")
	flag.Float64Var(&cfg.MeasureNoise, "measure-noise", 0.5, "measurement noise standard deviation (metres)")
	flag.Int64Var(&cfg.Seed, "seed", 1, "random seed")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite file to store the run in (optional)")
	flag.StringVar(&cfg.PlotPath, "plot", "", "PNG file for the trajectory plot (optional)")
	flag.BoolVar(&cfg.Verbose, "v", false, "print per-step estimates")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	if cfg.Steps <= 0 {
		log.Fatal("steps must be positive")
	}
	if cfg.Dt <= 0 {
		log.Fatal("dt must be positive")
	}

	result, err := runSimulation(cfg)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	if cfg.Verbose {
		for _, s := range result.Steps {
			fmt.Printf("step %3d truth=(%7.2f,%7.2f) meas=(%7.2f,%7.2f) est=(%7.2f,%7.2f)\n",
				s.Index, s.Truth.X, s.Truth.Y, s.Measured.X, s.Measured.Y, s.Estimate.X, s.Estimate.Y)
		}
	}

	fmt.Printf("steps:          %d\n", cfg.Steps)
	fmt.Printf("raw RMSE:       %.4f m\n", result.RawRMSE)
	fmt.Printf("filtered RMSE:  %.4f m\n", result.FilteredRMSE)
	fmt.Printf("improvement:    %.1f%%\n", 100*(1-result.FilteredRMSE/result.RawRMSE))

	if cfg.DBPath != "" {
		store, err := OpenRunStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open run store: %v", err)
		}
		defer store.Close()

		runID, err := store.SaveRun(cfg, result)
		if err != nil {
			log.Fatalf("Failed to store run: %v", err)
		}
		fmt.Printf("stored run %d in %s\n", runID, cfg.DBPath)
	}

	if cfg.PlotPath != "" {
		if err := renderPlot(cfg.PlotPath, result); err != nil {
			log.Fatalf("Failed to render plot: %v", err)
		}
		fmt.Printf("wrote plot to %s\n", cfg.PlotPath)
	}
}
