// Package main provides CMA-ES optimization of the flocking rule strengths.
// Fitness is the mean flock polarization over short headless runs: higher
// polarization means the rules produced a coherent flock instead of noise.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flock/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 600, "Simulation ticks per evaluation run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	boids := flag.Int("n", 2000, "Boid count per evaluation run")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := newParamVector()

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := newEvaluator(baseCfg, *boids, int64(*ticks), evalSeeds)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.evaluate(params.clamp(params.denormalize(x)))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // sequential: each run already uses the worker pool
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   4 + 3*params.dim()/2,
	}

	// Open eval log
	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness"}
	for _, spec := range params.specs {
		header = append(header, spec.name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		raw := params.clamp(params.denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = append([]float64(nil), raw...)
		}

		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness)}
		for _, v := range raw {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		fmt.Printf("Eval %d/%d: polarization=%.3f (best=%.3f) | elapsed: %s\n",
			evalCount, *maxEvals, -fitness, -bestFitness,
			time.Since(startTime).Round(time.Second))

		return fitness
	}

	fmt.Printf("Starting CMA-ES over %d parameters, max_evals=%d, %d seeds x %d ticks\n",
		params.dim(), *maxEvals, *seeds, *ticks)

	result, err := optimize.Minimize(problem, params.normalize(params.defaults()), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if bestParams == nil {
		bestParams = params.clamp(params.denormalize(result.X))
	}

	fmt.Printf("\nBest polarization: %.3f\n", -bestFitness)
	for i, spec := range params.specs {
		fmt.Printf("  %s: %.6f\n", spec.name, bestParams[i])
	}

	// Save best config
	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload base config: %v", err)
	}
	params.applyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOutPath)
	}
}
