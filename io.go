package survfit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadObservationsCSV reads an observation-level CSV file:
//
//   - The first row is a header containing "time", "status", and
//     optionally "arm".
//   - time is a positive float; status is 0 (censored) or 1 (event).
//   - When an arm column is present, rows are partitioned by its value and
//     returned as a map keyed by that value; otherwise every row lands
//     under the empty-string key.
func LoadObservationsCSV(path string) (map[string]ObservationSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	timeCol, statusCol, armCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "time":
			timeCol = i
		case "status":
			statusCol = i
		case "arm":
			armCol = i
		}
	}
	if timeCol < 0 || statusCol < 0 {
		return nil, fmt.Errorf("%s: header must contain \"time\" and \"status\" columns", path)
	}

	out := make(map[string]ObservationSet)
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err)
		}
		row++

		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse time %q: %w", row+1, record[timeCol], err)
		}
		s, err := strconv.ParseFloat(strings.TrimSpace(record[statusCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse status %q: %w", row+1, record[statusCol], err)
		}
		if s != 0 && s != 1 {
			return nil, newErr(ErrBadStatusCode, "row %d: status must be 0 or 1, got %v", row+1, s)
		}

		arm := ""
		if armCol >= 0 {
			arm = strings.TrimSpace(record[armCol])
		}
		out[arm] = append(out[arm], Observation{Time: t, Event: s == 1})
	}
	if row == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}
	return out, nil
}

// WriteObservationsCSV writes obs as a time,status[,arm] CSV, the inverse of
// LoadObservationsCSV and the format simulate.Sample output is staged
// through on its way back into Fit.
func WriteObservationsCSV(path, arm string, obs ObservationSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time", "status"}
	if arm != "" {
		header = append(header, "arm")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, o := range obs {
		status := "0"
		if o.Event {
			status = "1"
		}
		record := []string{strconv.FormatFloat(o.Time, 'g', -1, 64), status}
		if arm != "" {
			record = append(record, arm)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// PrintSummary writes theta hat, its covariance, and every functional's
// point estimate and confidence interval as plain text.
func PrintSummary(w io.Writer, f *Fit) {
	fmt.Fprintf(w, "\n=== %s fit ===\n", f.Family)
	fmt.Fprintf(w, "converged=%v iterations=%d loglik=%.6g robust=%v\n", f.Converged, f.Iterations, f.LogLik, f.Robust)

	fmt.Fprintln(w, "\n--- theta hat ---")
	for i, v := range f.Theta {
		fmt.Fprintf(w, "  theta[%d] = %.6g\n", i, v)
	}

	fmt.Fprintln(w, "\n--- covariance ---")
	fmt.Fprintf(w, "%v\n", mat.Formatted(f.Cov, mat.Prefix("  ")))

	fmt.Fprintln(w, "\n--- functionals ---")
	names := make([]string, 0, len(f.Functionals))
	for name := range f.Functionals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := f.Functionals[name]
		flag := ""
		if g.QuadratureFailed {
			flag = " (quadrature failed)"
		}
		fmt.Fprintf(w, "  %-12s %.6g  [%.6g, %.6g]%s\n", name, g.Estimate, g.CILower, g.CIUpper, flag)
	}
}

// PrintContrast writes every shared functional's difference and ratio
// contrast, with Wald confidence intervals and p-values, as plain text.
func PrintContrast(w io.Writer, c *Contrast) {
	fmt.Fprintf(w, "\n=== contrast: %s vs %s ===\n", c.Arm1.Family, c.Arm0.Family)

	names := make([]string, 0, len(c.Functionals))
	for name := range c.Functionals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := c.Functionals[name]
		fmt.Fprintf(w, "  %-12s diff=%.6g [%.6g, %.6g] p=%.4g   ratio=%.6g [%.6g, %.6g] p=%.4g\n",
			name, g.Diff, g.DiffLo, g.DiffHi, g.DiffP, g.Ratio, g.RatioLo, g.RatioHi, g.RatioP)
	}
}
