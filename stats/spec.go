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

package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/pvcombo/dataframe"
)

// MetricFunc reduces a sequence of period returns to a single value
type MetricFunc func(returns []float64) float64

// Metric is a named statistic
type Metric struct {
	Name string
	Fn   MetricFunc

	// Ratio metrics are unitless and are not displayed as a percentage
	Ratio bool
}

// DefaultStatsSpec builds the standard set of statistics for returns sampled at period.
// The annual risk free rate is converted to a per period rate for the Sharpe ratio.
func DefaultStatsSpec(period Period, annualRiskFree float64) []Metric {
	periodRiskFree := AnnualRateToPeriodRate(annualRiskFree, period)

	return []Metric{
		{Name: "Annual Return", Fn: func(r []float64) float64 { return AnnualReturn(r, period) }},
		{Name: "Max Drawdown", Fn: MaxDrawdown},
		{Name: "Annual Volatility", Fn: func(r []float64) float64 { return AnnualVolatility(r, period) }},
		{Name: "Sharpe Ratio", Fn: func(r []float64) float64 { return SharpeRatio(r, periodRiskFree, period) }, Ratio: true},
	}
}

// StatsTable has one row per statistic and one column per return series
type StatsTable struct {
	RowNames []string    `json:"stats"`
	ColNames []string    `json:"series"`
	Vals     [][]float64 `json:"values"` // Vals[row][col]
	Ratios   []bool      `json:"-"`
}

// PerfStatsTable applies every metric to every column of returns
func PerfStatsTable(returns *dataframe.DataFrame, metrics []Metric) *StatsTable {
	tbl := &StatsTable{
		RowNames: make([]string, len(metrics)),
		ColNames: returns.ColNames,
		Vals:     make([][]float64, len(metrics)),
		Ratios:   make([]bool, len(metrics)),
	}

	for rowIdx, metric := range metrics {
		tbl.RowNames[rowIdx] = metric.Name
		tbl.Ratios[rowIdx] = metric.Ratio
		tbl.Vals[rowIdx] = make([]float64, len(returns.Vals))
		for colIdx, col := range returns.Vals {
			tbl.Vals[rowIdx][colIdx] = metric.Fn(col)
		}
	}

	return tbl
}

// Value returns the value of the named statistic for the named series; NaN if either is missing
func (tbl *StatsTable) Value(statName, seriesName string) float64 {
	for rowIdx, row := range tbl.RowNames {
		if row != statName {
			continue
		}
		for colIdx, col := range tbl.ColNames {
			if col == seriesName {
				return tbl.Vals[rowIdx][colIdx]
			}
		}
	}
	return math.NaN()
}

// Table renders the statistics as an ASCII table; everything but ratios is formatted as a
// percentage
func (tbl *StatsTable) Table() string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(append([]string{"Statistic"}, tbl.ColNames...))
	table.SetBorder(false)

	for rowIdx, name := range tbl.RowNames {
		row := make([]string, 0, len(tbl.ColNames)+1)
		row = append(row, name)
		ratio := rowIdx < len(tbl.Ratios) && tbl.Ratios[rowIdx]
		for _, val := range tbl.Vals[rowIdx] {
			if ratio {
				row = append(row, fmt.Sprintf("%.2f", val))
			} else {
				row = append(row, fmt.Sprintf("%.2f%%", val*100))
			}
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}
