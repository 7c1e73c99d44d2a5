package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/KanOlha/monte-carlo-brain-scattering/internal/config"
	"github.com/KanOlha/monte-carlo-brain-scattering/internal/profile"
	"github.com/KanOlha/monte-carlo-brain-scattering/internal/stats"
	"github.com/KanOlha/monte-carlo-brain-scattering/internal/tissue"
	"github.com/KanOlha/monte-carlo-brain-scattering/internal/transport"
	"github.com/KanOlha/monte-carlo-brain-scattering/internal/utils"
)

func main() {
	var configFileNamePointer = flag.String("input", "brain_model", "model configuration in toml format")
	var threadsPointer = flag.Int("threads", 0, "photon tracing workers per model (0 keeps the configured value)")
	flag.Parse()

	startTime := time.Now()
	fmt.Printf("Current time: %s\n", startTime.UTC().Format(time.UnixDate))

	cfg, err := config.Load(*configFileNamePointer)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outputPath := "."
	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		outputPath = cfg.OutputDir
	}

	var summary utils.CSV
	for modelName, parameters := range cfg.Models {
		fmt.Println("\n" + modelName)

		if *threadsPointer > 0 {
			parameters.Threads = *threadsPointer
		}

		aggregated, err := tissue.Aggregate(parameters.TissueInput(), parameters.AggregationScheme())
		if err != nil {
			fmt.Fprintln(os.Stderr, modelName+": ", err)
			continue
		}
		layers, err := tissue.BuildStack(aggregated.N, aggregated.Mua, aggregated.Mus, aggregated.G, aggregated.D)
		if err != nil {
			fmt.Fprintln(os.Stderr, modelName+": ", err)
			continue
		}

		grid := transport.Grid{
			Photons: parameters.Photons,
			Dz:      parameters.Dz,
			Dr:      parameters.Dr,
			Nz:      parameters.Nz,
			Nr:      parameters.Nr,
			Na:      parameters.Na,
		}
		kernel := &transport.PhotonKernel{
			NAbove:  aggregated.N[0],
			NBelow:  aggregated.N[len(aggregated.N)-1],
			Seed:    parameters.Seed,
			Threads: parameters.Threads,
		}

		raw, err := kernel.Trace(grid, layers)
		if err != nil {
			fmt.Fprintln(os.Stderr, modelName+": ", err)
			continue
		}
		scaled, err := transport.Normalize(raw, grid)
		if err != nil {
			fmt.Fprintln(os.Stderr, modelName+": ", err)
			continue
		}
		fmt.Printf("Rd = %.6f  Ab = %.6f  Tt = %.6f  (sum %.6f)\n",
			scaled.Rd, scaled.Ab, scaled.Tt, scaled.Rd+scaled.Ab+scaled.Tt)

		queries := profile.Queries(parameters.AnalysisStart, parameters.AnalysisEnd, parameters.AnalysisStep)
		samples, err := profile.Sample(profile.Midpoints(grid.Nr, grid.Dr), scaled.RdR, queries)
		if err != nil {
			fmt.Fprintln(os.Stderr, modelName+": ", err)
			continue
		}

		artifactDir := outputPath
		if parameters.MakeDir {
			artifactDir = filepath.Join(outputPath, modelName)
			if err := os.MkdirAll(artifactDir, 0750); err != nil {
				fmt.Fprintln(os.Stderr, modelName+": ", err)
				continue
			}
		}
		if err := profile.WriteReflectance(artifactDir, samples); err != nil {
			log.Fatalln("error writing reflectance artifact:", err)
		}
		fmt.Println(profile.ReflectanceFile + " saved")

		analysis, err := stats.Analyze(samples, parameters.Alpha)
		if errors.Is(err, stats.ErrDegenerateSample) {
			fmt.Printf("statistics skipped: %v\n", err)
			summary = append(summary, summaryRow(modelName, scaled, nil))
			continue
		} else if err != nil {
			fmt.Fprintln(os.Stderr, modelName+": ", err)
			continue
		}
		printTables(analysis)
		summary = append(summary, summaryRow(modelName, scaled, analysis))
	}

	columns := []string{
		"model", "Rd", "Ab", "Tt",
		"chi2 normal", "p normal", "normal",
		"chi2 exponential", "p exponential", "exponential",
	}
	summaryName := utils.GetFilename(*configFileNamePointer) + "_summary"
	if err := utils.WriteAsCSV(summary, outputPath, "", summaryName, columns); err != nil {
		log.Fatalln("error writing summary:", err)
	}
	fmt.Println(summaryName + " saved")
	fmt.Printf("Elapsed time: %v\n", time.Since(startTime))
}

func printTables(a *stats.Analysis) {
	fmt.Printf("N = %d, min = %.10f, max = %.10f, h = %.10f\n", a.N, a.Min, a.Max, a.Histogram.Width)
	fmt.Printf("Mean     = %.7f  CI [%.10f, %.10f]\n", a.Mean, a.MeanCI.Lo, a.MeanCI.Hi)
	fmt.Printf("Variance = %.10f  CI [%.10f, %.10f]\n", a.Variance, a.VarianceCI.Lo, a.VarianceCI.Hi)
	for _, fit := range []stats.FitResult{a.Normal, a.Exponential} {
		fmt.Printf("%-12s chi2 = %8.4f  dof = %d  p = %.7f  %s\n",
			fit.Distribution, fit.ChiSquare, fit.DoF, fit.PValue, verdict(fit))
	}
}

func verdict(fit stats.FitResult) string {
	if fit.Accepted {
		return "Accepted"
	}
	return "Rejected"
}

func summaryRow(modelName string, s *transport.Scaled, a *stats.Analysis) []string {
	row := []string{
		modelName,
		strconv.FormatFloat(s.Rd, 'f', -1, 64),
		strconv.FormatFloat(s.Ab, 'f', -1, 64),
		strconv.FormatFloat(s.Tt, 'f', -1, 64),
	}
	if a == nil {
		return append(row, "NaN", "NaN", "-", "NaN", "NaN", "-")
	}
	for _, fit := range []stats.FitResult{a.Normal, a.Exponential} {
		row = append(row,
			formatStat(fit.ChiSquare, 4),
			formatStat(fit.PValue, 7),
			verdict(fit),
		)
	}
	return row
}

func formatStat(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
