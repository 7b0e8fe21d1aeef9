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

	"github.com/penny-vault/pvcombo/combo"
	"github.com/penny-vault/pvcombo/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	windowStatsWindow     int
	windowStatsWindowStep int
	windowStatsPeriod     string
	windowStatsRiskFree   float64
)

func init() {
	rootCmd.AddCommand(windowStatsCmd)
	windowStatsCmd.Flags().IntVar(&windowStatsWindow, "window", 36, "Number of periods in each window")
	windowStatsCmd.Flags().IntVar(&windowStatsWindowStep, "window-step", 1, "Number of periods between the start of consecutive windows")
	windowStatsCmd.Flags().StringVar(&windowStatsPeriod, "period", string(stats.Monthly), "Sampling period of the series one of: daily, weekly, monthly, or yearly")
	windowStatsCmd.Flags().Float64Var(&windowStatsRiskFree, "risk-free", 0, "Annual risk free rate used for the Sharpe ratio, e.g. 0.02")
}

var windowStatsCmd = &cobra.Command{
	Use:        "window-stats [flags] SERIES",
	Short:      "Compute performance statistics of a series over a rolling window",
	Args:       cobra.ExactArgs(1),
	ArgAliases: []string{"SERIES"},
	Run: func(cmd *cobra.Command, args []string) {
		checkFormat()
		ctx := context.Background()

		period := parsePeriod(windowStatsPeriod)
		series := loadSeries(ctx, args, period)

		res, err := combo.WindowStats(series[0], windowStatsWindow, windowStatsWindowStep, stats.DefaultStatsSpec(period, windowStatsRiskFree))
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute window statistics")
		}

		if formatFlag == "json" {
			printJSON(res)
			return
		}

		fmt.Print(res.Table())
	},
}
