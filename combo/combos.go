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

	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/portfolio"
	"github.com/penny-vault/pvcombo/stats"
	"github.com/rs/zerolog/log"
)

// Combiner blends two return series using an Aggregator and scores the blends with a
// statistics Provider
type Combiner struct {
	Aggregator portfolio.Aggregator
	Stats      stats.Provider

	// Workers is the number of windows evaluated concurrently by the rolling optimizer;
	// values less than 2 evaluate windows sequentially
	Workers int
}

// NewCombiner creates a combiner using fixed weight rebalancing and empyrical statistics
func NewCombiner() *Combiner {
	return &Combiner{
		Aggregator: portfolio.FixedWeight{},
		Stats:      stats.Empyrical{},
		Workers:    1,
	}
}

// RetVolCombos computes the annualized return and volatility that results from combining
// ret1 and ret2 in proportions from 100% ret1 to 100% ret2 in opts.Steps increments.
// Only dates present in both series are used; the date range actually used is returned
// with the table.
func RetVolCombos(ret1, ret2 *dataframe.DataFrame, opts Options) (*Table, error) {
	return NewCombiner().RetVolCombos(ret1, ret2, opts)
}

// RetVolCombos is the Combiner form of the package level RetVolCombos
func (c *Combiner) RetVolCombos(ret1, ret2 *dataframe.DataFrame, opts Options) (*Table, error) {
	if err := opts.validate(); err != nil {
		log.Error().Err(err).Int("Steps", opts.Steps).Int("RebalancePeriod", opts.RebalancePeriod).Str("Period", opts.Period.String()).Msg("invalid combo options")
		return nil, err
	}

	if err := checkSeries(ret1, ret2); err != nil {
		return nil, err
	}

	ret1 = dropMissing(ret1)
	ret2 = dropMissing(ret2)

	// the inner join ensures the same date range is used for both series
	combined := portfolio.ReturnsToWealthRelatives(ret1).Join(portfolio.ReturnsToWealthRelatives(ret2))
	if combined.Len() == 0 {
		log.Warn().Str("Series1", ret1.ColNames[0]).Str("Series2", ret2.ColNames[0]).
			Time("Series1Start", ret1.Start()).Time("Series1End", ret1.End()).
			Time("Series2Start", ret2.Start()).Time("Series2End", ret2.End()).
			Msg("return series do not overlap")
		return nil, fmt.Errorf("%w: %s and %s", ErrEmptyDateRange, ret1.ColNames[0], ret2.ColNames[0])
	}

	tbl := &Table{
		Rows: make([]Row, 0, opts.Steps+1),
		Range: DateRange{
			Start: combined.Start(),
			End:   combined.End(),
		},
	}

	for ix := 0; ix <= opts.Steps; ix++ {
		w2 := float64(ix) / float64(opts.Steps)
		w1 := 1 - w2

		res, err := c.Aggregator.PeriodReturns(combined, []float64{w1, w2}, opts.RebalancePeriod, fmt.Sprintf("combined_%.2f", w1))
		if err != nil {
			log.Error().Stack().Err(err).Float64("W1", w1).Msg("could not compute blended portfolio returns")
			return nil, err
		}

		rets := res.Vals[0]
		tbl.Rows = append(tbl.Rows, Row{
			W1:           w1,
			AnnualReturn: c.Stats.AnnualReturn(rets, opts.Period),
			StdDev:       c.Stats.AnnualVolatility(rets, opts.Period),
			DownsideDev:  c.Stats.DownsideRisk(rets, opts.Period),
		})
	}

	return tbl, nil
}

func checkSeries(series ...*dataframe.DataFrame) error {
	for _, s := range series {
		if s == nil || s.ColCount() != 1 || len(s.Vals) != 1 {
			return fmt.Errorf("%w: series must have exactly one column", ErrInvalidSeries)
		}
		if err := s.Validate(); err != nil {
			log.Error().Err(err).Str("Series", s.ColNames[0]).Msg("malformed return series")
			return fmt.Errorf("%w: %s", ErrInvalidSeries, err)
		}
	}
	return nil
}

// dropMissing removes dates with a NaN return. A single NaN would otherwise poison every
// later blended return once the holdings are rebalanced.
func dropMissing(series *dataframe.DataFrame) *dataframe.DataFrame {
	cleaned := series.DropNA()
	if dropped := series.Len() - cleaned.Len(); dropped > 0 {
		log.Warn().Str("Series", series.ColNames[0]).Int("NumDropped", dropped).Msg("ignoring dates with missing returns")
	}
	return cleaned
}
