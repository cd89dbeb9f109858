package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/adgarrio/survfit"
	"github.com/adgarrio/survfit/simulate"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: survfit <fit|contrast|sim> [args...]")
		return
	}

	switch os.Args[1] {
	case "fit":
		runFit(os.Args[2:])
	case "contrast":
		runContrast(os.Args[2:])
	case "sim":
		runSim(os.Args[2:])
	default:
		panic("Unsupported subcommand: " + os.Args[1] + ". Options: fit, contrast, sim")
	}
}

// runFit expects: survfit fit <family> <csv-path> [tau1,tau2,...]
func runFit(args []string) {
	if len(args) < 2 {
		panic("Usage: survfit fit <family> <csv-path> [tau1,tau2,...]")
	}
	family, path := args[0], args[1]

	opts := survfit.FitOptions{}
	if len(args) >= 3 {
		opts.Tau = parseFloatList(args[2])
	}

	groups, err := survfit.LoadObservationsCSV(path)
	if err != nil {
		panic(err)
	}
	obs := mergeGroups(groups)

	fmt.Println("Loaded", len(obs), "observations")

	fit, err := survfit.Fit(obs, family, opts)
	if err != nil {
		panic(err)
	}
	survfit.PrintSummary(os.Stdout, fit)
}

// runContrast expects: survfit contrast <dist1> <dist0> <arm1-csv> <arm0-csv> [tau1,tau2,...]
func runContrast(args []string) {
	if len(args) < 4 {
		panic("Usage: survfit contrast <dist1> <dist0> <arm1-csv> <arm0-csv> [tau1,tau2,...]")
	}
	dist1, dist0, path1, path0 := args[0], args[1], args[2], args[3]

	opts := survfit.ContrastOptions{}
	if len(args) >= 5 {
		opts.Tau = parseFloatList(args[4])
	}

	groups1, err := survfit.LoadObservationsCSV(path1)
	if err != nil {
		panic(err)
	}
	groups0, err := survfit.LoadObservationsCSV(path0)
	if err != nil {
		panic(err)
	}

	contrast, err := survfit.FitTwoSample(mergeGroups(groups1), mergeGroups(groups0), dist1, dist0, opts)
	if err != nil {
		panic(err)
	}
	survfit.PrintSummary(os.Stdout, contrast.Arm1)
	survfit.PrintSummary(os.Stdout, contrast.Arm0)
	survfit.PrintContrast(os.Stdout, contrast)
}

// runSim expects: survfit sim <family> <n> <p> <theta1,theta2,...> <out-csv>
func runSim(args []string) {
	if len(args) < 5 {
		panic("Usage: survfit sim <family> <n> <p> <theta1,theta2,...> <out-csv>")
	}
	family := args[0]
	n, err := strconv.Atoi(args[1])
	if err != nil {
		panic("bad n: " + err.Error())
	}
	p, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		panic("bad p: " + err.Error())
	}
	theta := parseFloatList(args[3])
	outPath := args[4]

	obs, err := simulate.Sample(family, n, theta, p, rand.New(rand.NewPCG(1, 0)))
	if err != nil {
		panic(err)
	}
	if err := survfit.WriteObservationsCSV(outPath, "", obs); err != nil {
		panic(err)
	}
	fmt.Println("Wrote", len(obs), "simulated observations to", outPath)
}

func parseFloatList(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			panic("bad float list entry " + p + ": " + err.Error())
		}
		out[i] = v
	}
	return out
}

func mergeGroups(groups map[string]survfit.ObservationSet) survfit.ObservationSet {
	var out survfit.ObservationSet
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
