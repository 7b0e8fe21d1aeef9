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

package portfolio

import (
	"fmt"

	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// Aggregator converts the wealth relatives (1 + r) of a set of assets into the period
// returns of a portfolio holding those assets at the given target weights
type Aggregator interface {
	PeriodReturns(wealthRelatives *dataframe.DataFrame, weights []float64, rebalancePeriod int, label string) (*dataframe.DataFrame, error)
}

// FixedWeight is a buy-and-hold portfolio that is reset to its target weights every
// rebalancePeriod periods. Between rebalances the holdings drift with the market.
type FixedWeight struct{}

// PeriodReturns computes the portfolio's return for every row of wealthRelatives. Column
// ii of wealthRelatives is held at weights[ii]. The result is a single column dataframe
// named label with the same date index as wealthRelatives.
func (FixedWeight) PeriodReturns(wealthRelatives *dataframe.DataFrame, weights []float64, rebalancePeriod int, label string) (*dataframe.DataFrame, error) {
	if len(weights) != wealthRelatives.ColCount() {
		log.Error().Int("NumWeights", len(weights)).Int("NumColumns", wealthRelatives.ColCount()).Msg("weights do not match columns")
		return nil, fmt.Errorf("%w: %d weights for %d columns", ErrWeightMismatch, len(weights), wealthRelatives.ColCount())
	}

	if rebalancePeriod < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRebalancePeriod, rebalancePeriod)
	}

	totalWeight := floats.Sum(weights)
	if totalWeight <= 0 {
		return nil, ErrInvalidWeights
	}

	holdings := make([]float64, len(weights))
	copy(holdings, weights)

	rets := make([]float64, wealthRelatives.Len())
	prevValue := totalWeight
	for rowIdx := range wealthRelatives.Dates {
		for colIdx, col := range wealthRelatives.Vals {
			holdings[colIdx] *= col[rowIdx]
		}

		value := floats.Sum(holdings)
		rets[rowIdx] = value/prevValue - 1.0
		prevValue = value

		// reset to target weights at the end of each rebalance period
		if (rowIdx+1)%rebalancePeriod == 0 {
			for colIdx := range holdings {
				holdings[colIdx] = weights[colIdx] / totalWeight * value
			}
		}
	}

	return dataframe.NewSeries(label, wealthRelatives.Dates, rets), nil
}
