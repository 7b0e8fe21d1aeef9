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

package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/guptarohit/asciigraph"
	"github.com/penny-vault/pvcombo/combo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	rollingWindow     int
	rollingWindowStep int
	rollingSteps      int
	rollingPeriod     string
	rollingRebalance  int
	rollingVol        string
	rollingWorkers    int
	rollingPlot       bool
)

func init() {
	defaults := combo.DefaultOptions()

	rootCmd.AddCommand(rollingCmd)
	rollingCmd.Flags().IntVar(&rollingWindow, "window", 36, "Number of periods in each window")
	rollingCmd.Flags().IntVar(&rollingWindowStep, "window-step", 1, "Number of periods between the start of consecutive windows")
	rollingCmd.Flags().IntVar(&rollingSteps, "steps", defaults.Steps, "Number of increments between 100% SERIES1 and 100% SERIES2")
	rollingCmd.Flags().StringVar(&rollingPeriod, "period", string(defaults.Period), "Sampling period of the series one of: daily, weekly, monthly, or yearly")
	rollingCmd.Flags().IntVar(&rollingRebalance, "rebalance", defaults.RebalancePeriod, "Number of periods between rebalances")
	rollingCmd.Flags().StringVar(&rollingVol, "vol", combo.VolDownside.String(), "Volatility to minimize one of: standard, or downside")
	rollingCmd.Flags().IntVar(&rollingWorkers, "workers", runtime.NumCPU(), "Number of windows evaluated concurrently")
	rollingCmd.Flags().BoolVar(&rollingPlot, "plot", false, "Plot the weight of SERIES1 over time")
}

var rollingCmd = &cobra.Command{
	Use:        "rolling [flags] SERIES1 SERIES2",
	Short:      "Find the minimum volatility blend of two series over a rolling window",
	Args:       cobra.ExactArgs(2),
	ArgAliases: []string{"SERIES1", "SERIES2"},
	Run: func(cmd *cobra.Command, args []string) {
		checkFormat()
		ctx := context.Background()

		metric, err := combo.ParseVolMetric(rollingVol)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --vol")
		}

		opts := combo.Options{
			Steps:           rollingSteps,
			Period:          parsePeriod(rollingPeriod),
			RebalancePeriod: rollingRebalance,
		}

		series := loadSeries(ctx, args, opts.Period)

		combiner := combo.NewCombiner()
		combiner.Workers = rollingWorkers
		res, err := combiner.RollingOptimalComboStats(series[0], series[1], rollingWindow, rollingWindowStep, opts, metric)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute rolling combinations")
		}

		if res.Len() == 0 {
			log.Warn().Int("Window", rollingWindow).Msg("series are shorter than the window")
		}

		switch {
		case formatFlag == "json":
			printJSON(res)
		case rollingPlot && res.Len() > 0:
			fmt.Println(plotWeights(res, series[0].ColNames[0]))
		default:
			fmt.Print(res.DataFrame().Table())
		}
	},
}

// plotWeights charts the weight of the first series in each window
func plotWeights(res *combo.RollingTable, name string) string {
	weights := make([]float64, res.Len())
	for idx, row := range res.Rows {
		weights[idx] = row.W1 * 100
	}

	caption := fmt.Sprintf("%% %s minimizing %s deviation, %s to %s", name, res.Metric,
		res.Rows[0].End.Format("2006-01-02"), res.Rows[res.Len()-1].End.Format("2006-01-02"))
	return asciigraph.Plot(weights, asciigraph.Height(15), asciigraph.Width(80), asciigraph.Caption(caption))
}
