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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CalmarRatio is a gauge of the risk adjusted performance of a portfolio. It is the
// compound annual growth rate divided by the magnitude of the maximum draw down. NaN when
// the series never draws down.
func CalmarRatio(returns []float64, period Period) float64 {
	maxDrawdown := MaxDrawdown(returns)
	if maxDrawdown == 0 || math.IsNaN(maxDrawdown) {
		return math.NaN()
	}
	return AnnualReturn(returns, period) / math.Abs(maxDrawdown)
}

// ExcessKurtosis calculates the kurtosis of the returns relative to the normal
// distribution. Positive values indicate fatter tails and a higher probability of
// extreme outcomes.
func ExcessKurtosis(returns []float64) float64 {
	if len(returns) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(returns, nil)
}

// Skew computes the skew of the returns relative to the normal distribution
func Skew(returns []float64) float64 {
	if len(returns) < 3 {
		return math.NaN()
	}
	return stat.Skew(returns, nil)
}

// SortinoRatio a variation of the Sharpe ratio that differentiates harmful volatility
// from total overall volatility by using the downside deviation of the excess returns
// instead of their standard deviation
//
// Calculation is based on this paper by Red Rock Capital
// http://www.redrockcapital.com/Sortino__A__Sharper__Ratio_Red_Rock_Capital.pdf
func SortinoRatio(returns []float64, riskFree float64, period Period) float64 {
	if len(returns) < 2 || !period.Valid() {
		return math.NaN()
	}

	excess := make([]float64, len(returns))
	copy(excess, returns)
	floats.AddConst(-riskFree, excess)

	downside := DownsideRisk(excess, period)
	if downside == 0 {
		return math.NaN()
	}

	return stat.Mean(excess, nil) * period.factor() / downside
}

// UlcerIndex measures the depth and duration of draw downs: the square root of the mean
// squared percent draw down from the running peak of cumulative wealth
func UlcerIndex(returns []float64) float64 {
	if len(returns) < 1 {
		return math.NaN()
	}

	wealth := 1.0
	peak := 1.0
	var sqSum float64
	for _, r := range returns {
		wealth *= 1 + r
		peak = math.Max(peak, wealth)
		drawDown := wealth/peak - 1.0
		sqSum += drawDown * drawDown // much faster than math.Pow
	}

	return math.Sqrt(sqSum / float64(len(returns)))
}

// ExtendedStatsSpec adds draw down and distribution statistics to DefaultStatsSpec
func ExtendedStatsSpec(period Period, annualRiskFree float64) []Metric {
	periodRiskFree := AnnualRateToPeriodRate(annualRiskFree, period)

	return append(DefaultStatsSpec(period, annualRiskFree),
		Metric{Name: "Downside Deviation", Fn: func(r []float64) float64 { return DownsideRisk(r, period) }},
		Metric{Name: "Sortino Ratio", Fn: func(r []float64) float64 { return SortinoRatio(r, periodRiskFree, period) }, Ratio: true},
		Metric{Name: "Calmar Ratio", Fn: func(r []float64) float64 { return CalmarRatio(r, period) }, Ratio: true},
		Metric{Name: "Ulcer Index", Fn: UlcerIndex},
		Metric{Name: "Skew", Fn: Skew, Ratio: true},
		Metric{Name: "Excess Kurtosis", Fn: ExcessKurtosis, Ratio: true},
	)
}
