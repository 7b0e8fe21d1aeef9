// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package combo

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/stats"
)

// Column names used when a result is converted to a dataframe
const (
	ColW1          = "w1"
	ColAnnReturn   = "ann_ret"
	ColStdDev      = "standard_dev"
	ColDownsideDev = "downside_dev"
)

// VolMetric selects which volatility measure drives the optimizer
type VolMetric int

const (
	VolStandard VolMetric = iota + 1 // standard deviation
	VolDownside                      // downside deviation
)

func (v VolMetric) String() string {
	switch v {
	case VolStandard:
		return "standard"
	case VolDownside:
		return "downside"
	default:
		return fmt.Sprintf("VolMetric(%d)", int(v))
	}
}

// ParseVolMetric converts "standard" or "downside" to a VolMetric
func ParseVolMetric(s string) (VolMetric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "std", "standard_dev":
		return VolStandard, nil
	case "downside", "downside_dev":
		return VolDownside, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVolMetric, s)
	}
}

// DateRange is an inclusive range of dates
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Row holds the annualized statistics of one blend of two return series
type Row struct {
	W1           float64 `json:"w1"`
	AnnualReturn float64 `json:"ann_ret"`
	StdDev       float64 `json:"standard_dev"`
	DownsideDev  float64 `json:"downside_dev"`
}

// Vol returns the volatility measure selected by metric
func (r Row) Vol(metric VolMetric) float64 {
	if metric == VolStandard {
		return r.StdDev
	}
	return r.DownsideDev
}

// Table lists every blend evaluated over Range, ordered by descending W1
type Table struct {
	Rows  []Row     `json:"rows"`
	Range DateRange `json:"date_range"`
}

// String renders the table in ASCII
func (tbl *Table) String() string {
	s := &strings.Builder{}
	fmt.Fprintf(s, "%s to %s\n", tbl.Range.Start.Format("2006-01-02"), tbl.Range.End.Format("2006-01-02"))
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{ColW1, ColAnnReturn, ColStdDev, ColDownsideDev})
	table.SetBorder(false)
	for _, row := range tbl.Rows {
		table.Append([]string{
			fmt.Sprintf("%.2f", row.W1),
			fmt.Sprintf("%.4f", row.AnnualReturn),
			fmt.Sprintf("%.4f", row.StdDev),
			fmt.Sprintf("%.4f", row.DownsideDev),
		})
	}
	table.Render()
	return s.String()
}

// Window is an inclusive range of dates taken from an index; results computed over the
// window are keyed by End
type Window struct {
	Start time.Time
	End   time.Time
}

// RollingRow is the optimal blend of a single window
type RollingRow struct {
	End time.Time `json:"date"`
	Row
}

// RollingTable holds one optimal blend per window ordered by window end date
type RollingTable struct {
	Metric VolMetric    `json:"-"`
	Rows   []RollingRow `json:"rows"`
}

// Len returns the number of windows in the table
func (rt *RollingTable) Len() int {
	return len(rt.Rows)
}

// DataFrame converts the table to a dataframe indexed by window end date
func (rt *RollingTable) DataFrame() *dataframe.DataFrame {
	df := &dataframe.DataFrame{
		Dates:    make([]time.Time, len(rt.Rows)),
		ColNames: []string{ColW1, ColAnnReturn, ColStdDev, ColDownsideDev},
		Vals:     make([][]float64, 4),
	}

	for colIdx := range df.Vals {
		df.Vals[colIdx] = make([]float64, len(rt.Rows))
	}

	for rowIdx, row := range rt.Rows {
		df.Dates[rowIdx] = row.End
		df.Vals[0][rowIdx] = row.W1
		df.Vals[1][rowIdx] = row.AnnualReturn
		df.Vals[2][rowIdx] = row.StdDev
		df.Vals[3][rowIdx] = row.DownsideDev
	}

	return df
}

// Options controls how two return series are blended
type Options struct {
	// Steps is the number of intervals the [0, 1] weight range is divided into
	Steps int

	// Period is the sampling interval of the return series
	Period stats.Period

	// RebalancePeriod is the number of periods between resets to the target weights
	RebalancePeriod int
}

// DefaultOptions returns 20 steps of monthly data rebalanced quarterly
func DefaultOptions() Options {
	return Options{
		Steps:           20,
		Period:          stats.Monthly,
		RebalancePeriod: 3,
	}
}

func (opts Options) validate() error {
	if opts.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidWindowParameters, opts.Steps)
	}
	if opts.RebalancePeriod < 1 {
		return fmt.Errorf("%w: rebalance period must be at least 1, got %d", ErrInvalidWindowParameters, opts.RebalancePeriod)
	}
	if _, err := opts.Period.AnnualizationFactor(); err != nil {
		return err
	}
	return nil
}
