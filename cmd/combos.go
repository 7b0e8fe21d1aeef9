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
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	combosSteps     int
	combosPeriod    string
	combosRebalance int
)

func init() {
	defaults := combo.DefaultOptions()

	rootCmd.AddCommand(combosCmd)
	combosCmd.Flags().IntVar(&combosSteps, "steps", defaults.Steps, "Number of increments between 100% SERIES1 and 100% SERIES2")
	combosCmd.Flags().StringVar(&combosPeriod, "period", string(defaults.Period), "Sampling period of the series one of: daily, weekly, monthly, or yearly")
	combosCmd.Flags().IntVar(&combosRebalance, "rebalance", defaults.RebalancePeriod, "Number of periods between rebalances")
}

var combosCmd = &cobra.Command{
	Use:        "combos [flags] SERIES1 SERIES2",
	Short:      "Compute return and volatility of every blend of two series",
	Args:       cobra.ExactArgs(2),
	ArgAliases: []string{"SERIES1", "SERIES2"},
	Run: func(cmd *cobra.Command, args []string) {
		checkFormat()
		ctx := context.Background()

		opts := combo.Options{
			Steps:           combosSteps,
			Period:          parsePeriod(combosPeriod),
			RebalancePeriod: combosRebalance,
		}

		series := loadSeries(ctx, args, opts.Period)
		tbl, err := combo.RetVolCombos(series[0], series[1], opts)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute combinations")
		}

		if formatFlag == "json" {
			printJSON(tbl)
			return
		}

		fmt.Print(tbl.String())
	},
}
