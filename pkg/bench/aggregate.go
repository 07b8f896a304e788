// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bench

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/sparkstack/sparkctl/pkg/constants"
)

// Metric selects the ranking key of the final report.
type Metric string

const (
	MetricRequestThroughput Metric = "request_throughput"
	MetricOutputThroughput  Metric = "output_throughput"
	MetricMeanTTFT          Metric = "mean_ttft_ms"
	MetricP99TTFT           Metric = "p99_ttft_ms"
	MetricMeanTPOT          Metric = "mean_tpot_ms"
)

func (m Metric) value(r Result) float64 {
	switch m {
	case MetricOutputThroughput:
		return r.OutputThroughput
	case MetricMeanTTFT:
		return r.MeanTTFTMs
	case MetricP99TTFT:
		return r.P99TTFTMs
	case MetricMeanTPOT:
		return r.MeanTPOTMs
	default:
		return r.RequestThroughput
	}
}

// ascending reports whether lower is better for the metric.
func (m Metric) ascending() bool {
	switch m {
	case MetricMeanTTFT, MetricP99TTFT, MetricMeanTPOT:
		return true
	default:
		return false
	}
}

// SortResults ranks results by the metric: descending for throughput,
// ascending for latency. Models without a real outcome sink to the bottom.
// Ties break on model name, ascending, so the report is deterministic.
func SortResults(results []Result, metric Metric) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		if (ri.Status == StatusOK) != (rj.Status == StatusOK) {
			return ri.Status == StatusOK
		}
		vi, vj := metric.value(ri), metric.value(rj)
		if vi != vj {
			if metric.ascending() {
				return vi < vj
			}
			return vi > vj
		}
		return ri.Model < rj.Model
	})
}

// RenderTable writes the ranked comparison table.
func RenderTable(w io.Writer, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Model", "Status", "Req/s", "Tok/s", "TTFT ms", "p99 TTFT", "TPOT ms"})
	table.SetAutoWrapText(false)
	for i, r := range results {
		row := []string{strconv.Itoa(i + 1), r.Model, string(r.Status)}
		if r.Status == StatusOK {
			row = append(row,
				fmt.Sprintf("%.2f", r.RequestThroughput),
				fmt.Sprintf("%.1f", r.OutputThroughput),
				fmt.Sprintf("%.1f", r.MeanTTFTMs),
				fmt.Sprintf("%.1f", r.P99TTFTMs),
				fmt.Sprintf("%.1f", r.MeanTPOTMs),
			)
		} else {
			row = append(row, "-", "-", "-", "-", "-")
		}
		table.Append(row)
	}
	table.Render()
}

// Export writes the machine-readable result files next to the table.
func Export(outputDir string, results []Result) error {
	if err := os.MkdirAll(outputDir, constants.DefaultPerms755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "results.json"), data, constants.WriteReadReadPerms); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(outputDir, "results.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"model", "profile", "status", "request_throughput", "output_throughput", "mean_ttft_ms", "p99_ttft_ms", "mean_tpot_ms", "p99_tpot_ms", "completed"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Model, r.Profile, string(r.Status),
			strconv.FormatFloat(r.RequestThroughput, 'f', 3, 64),
			strconv.FormatFloat(r.OutputThroughput, 'f', 1, 64),
			strconv.FormatFloat(r.MeanTTFTMs, 'f', 1, 64),
			strconv.FormatFloat(r.P99TTFTMs, 'f', 1, 64),
			strconv.FormatFloat(r.MeanTPOTMs, 'f', 1, 64),
			strconv.FormatFloat(r.P99TPOTMs, 'f', 1, 64),
			strconv.Itoa(r.Completed),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
