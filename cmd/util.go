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
	"os"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvcombo/common"
	"github.com/penny-vault/pvcombo/data"
	"github.com/penny-vault/pvcombo/data/database"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/stats"
	"github.com/rs/zerolog/log"
)

// seriesRequests converts series arguments into data requests. Price series are resampled
// to period before they are converted to returns.
func seriesRequests(args []string, period stats.Period) ([]*data.Request, error) {
	start, err := common.ParseDate(startFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --start: %w", err)
	}

	end, err := common.ParseDate(endFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --end: %w", err)
	}

	reqs := make([]*data.Request, len(args))
	for idx, arg := range args {
		req := data.ParseRequest(arg).Between(start, end)
		if pricesFlag {
			req.Prices = true
		}
		if req.Prices {
			req.Frequency = period.Frequency()
		}
		reqs[idx] = req
	}

	return reqs, nil
}

// loadSeries loads every series argument as a return series, exiting on failure
func loadSeries(ctx context.Context, args []string, period stats.Period) []*dataframe.DataFrame {
	reqs, err := seriesRequests(args, period)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid series date range")
	}

	for _, req := range reqs {
		if req.Source == data.SourceDB && !database.Connected() {
			if err := database.Connect(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not connect to database")
			}
		}
	}

	series, err := data.GetManagerInstance().LoadAll(ctx, reqs...)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("could not load series")
	}

	return series
}

func parsePeriod(s string) stats.Period {
	period, err := stats.ParsePeriod(s)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid --period")
	}
	return period
}

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("could not encode result as JSON")
	}
	fmt.Fprintln(os.Stdout, string(enc))
}

func checkFormat() {
	if formatFlag != "table" && formatFlag != "json" {
		log.Fatal().Str("Format", formatFlag).Msg("--format must be table or json")
	}
}
