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

	"github.com/penny-vault/pvcombo/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	statsPeriod   string
	statsRiskFree float64
	statsExtended bool
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsPeriod, "period", string(stats.Monthly), "Sampling period of the series one of: daily, weekly, monthly, or yearly")
	statsCmd.Flags().Float64Var(&statsRiskFree, "risk-free", 0, "Annual risk free rate used for the Sharpe ratio, e.g. 0.02")
	statsCmd.Flags().BoolVar(&statsExtended, "extended", false, "Include draw down and distribution statistics")
}

var statsCmd = &cobra.Command{
	Use:   "stats [flags] SERIES...",
	Short: "Summarize the performance of one or more series over their common dates",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkFormat()
		ctx := context.Background()

		period := parsePeriod(statsPeriod)
		series := loadSeries(ctx, args, period)

		returns := series[0]
		if len(series) > 1 {
			returns = returns.Join(series[1:]...)
		}

		if returns.Len() == 0 {
			log.Fatal().Strs("Series", args).Msg("series have no dates in common")
		}

		spec := stats.DefaultStatsSpec(period, statsRiskFree)
		if statsExtended {
			spec = stats.ExtendedStatsSpec(period, statsRiskFree)
		}

		tbl := stats.PerfStatsTable(returns, spec)
		if formatFlag == "json" {
			printJSON(tbl)
			return
		}

		fmt.Printf("%s to %s\n", returns.Start().Format("2006-01-02"), returns.End().Format("2006-01-02"))
		fmt.Print(tbl.Table())
	},
}
