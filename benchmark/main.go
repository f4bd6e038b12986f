// Package main provides a performance benchmarking tool for the ration formulator.
// It measures solver times across catalog sizes, running each size multiple times,
// treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Every catalog holds the built-in dairy table plus generated ingredients, so all
// sizes stay feasible for the dairy requirements.
//
// Usage: go run benchmark/main.go [output-dir]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/algo"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Ingredients int
	TotalCost   float64
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	OutputDir string
	Timeout   time.Duration
	Runs      int
	Sizes     []int // generated ingredients added to the dairy table
	Seed      uint64
}

func main() {
	outputDir := os.TempDir()
	if len(os.Args) == 2 {
		outputDir = os.Args[1]
	} else if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [output-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		OutputDir: outputDir,
		Timeout:   time.Minute,
		Runs:      5,
		Sizes:     []int{0, 25, 100, 400},
		Seed:      42,
	}

	results := runBenchmarks(config)

	if err := saveResults(config, results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// generateCatalog returns the dairy table followed by n pseudo-random feeds.
func generateCatalog(rng *rand.Rand, n int) (*catalog.Catalog, error) {
	ingredients := schema.DairyIngredients()
	for i := range n {
		ingredients = append(ingredients, schema.Ingredient{
			Name:      fmt.Sprintf("Feed %03d", i+1),
			UnitPrice: 0.5 + rng.Float64()*4.5,
			Content: map[schema.Nutrient]float64{
				schema.DryMatter:    0.2 + rng.Float64()*0.7,
				schema.CrudeProtein: rng.Float64() * 0.5,
				schema.TDN:          rng.Float64() * 0.9,
				schema.Calcium:      rng.Float64() * 0.02,
				schema.Phosphorus:   rng.Float64() * 0.01,
			},
		})
	}
	return catalog.New(ingredients)
}

// runBenchmarks formulates the dairy profile against every configured catalog size.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult
	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d runs each\n",
		len(config.Sizes), config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		cat, err := generateCatalog(rng, size)
		if err != nil {
			fmt.Printf("Skipping size %d: %v\n", size, err)
			continue
		}
		results = append(results, runBenchmarkSuite(config, cat))
	}

	return results
}

// runBenchmarkSuite runs one catalog several times and summarizes the timings.
func runBenchmarkSuite(config BenchmarkConfig, cat *catalog.Catalog) BenchmarkResult {
	fmt.Printf("Formulating with %d ingredients (%d runs)\n", cat.Len(), config.Runs)

	var (
		times []float64
		cost  float64
	)
	spec := schema.RationSpec{TargetTotalMass: schema.DefaultTargetMass}
	for range config.Runs {
		start := time.Now()
		result, err := algo.Formulate(context.Background(), cat, schema.DairyRequirements(), spec,
			algo.WithTimeout(config.Timeout))
		if err != nil {
			fmt.Printf("  run failed: %v\n", err)
			continue
		}
		times = append(times, time.Since(start).Seconds())
		cost = result.TotalCost
	}

	coldTimeStr, warmAvg := "FAILED", "FAILED"
	if len(times) > 0 {
		coldTimeStr = fmt.Sprintf("%.6fs", times[0])
	}
	if warm := times[min(1, len(times)):]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.6fs", sum/float64(len(warm)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s, Total cost: %.2f\n", coldTimeStr, warmAvg, cost)

	return BenchmarkResult{
		Ingredients: cat.Len(),
		TotalCost:   cost,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(config BenchmarkConfig, results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(config.OutputDir, fmt.Sprintf("ration_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"ingredients", "total_cost", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		row := []string{fmt.Sprint(result.Ingredients), fmt.Sprintf("%.2f", result.TotalCost), result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %5d ingredients: Cold: %s, Warm: %s, Cost: R$ %.2f\n",
			result.Ingredients, result.ColdTime, result.WarmTime, result.TotalCost)
	}
}
