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

// Metric Functions
//
// All functions take a slice of period returns (.01 = 1%) sampled at the given
// period. NaN is returned when there is not enough data to compute the metric.

// AnnualRateToPeriodRate converts an annual rate of return to the equivalent
// compounded rate for a single period
func AnnualRateToPeriodRate(annualRate float64, period Period) float64 {
	if !period.Valid() {
		return math.NaN()
	}
	return math.Pow(1+annualRate, 1/period.factor()) - 1
}

// AnnualReturn is the compound annual growth rate of the return series. The number
// of years covered is the number of returns divided by the annualization factor.
func AnnualReturn(returns []float64, period Period) float64 {
	if len(returns) < 1 || !period.Valid() {
		return math.NaN()
	}

	endingValue := 1.0
	for _, r := range returns {
		endingValue *= 1 + r
	}

	numYears := float64(len(returns)) / period.factor()
	return math.Pow(endingValue, 1/numYears) - 1
}

// AnnualVolatility is the sample standard deviation of the returns scaled by the
// square root of the annualization factor
func AnnualVolatility(returns []float64, period Period) float64 {
	if len(returns) < 2 || !period.Valid() {
		return math.NaN()
	}
	return stat.StdDev(returns, nil) * math.Sqrt(period.factor())
}

// DownsideRisk computes the annualized downside deviation of the returns below a
// required return of zero. Only returns below the threshold contribute to the
// deviation but every period counts in the denominator.
func DownsideRisk(returns []float64, period Period) float64 {
	if len(returns) < 1 || !period.Valid() {
		return math.NaN()
	}

	downside := 0.0
	for _, r := range returns {
		if r < 0 {
			downside += r * r // much faster than math.Pow
		}
	}

	return math.Sqrt(downside/float64(len(returns))) * math.Sqrt(period.factor())
}

// MaxDrawdown is the largest peak to trough decline of the cumulative wealth implied
// by the returns, expressed as a negative fraction. Wealth starts at 1 so a loss in
// the first period counts as a draw down.
func MaxDrawdown(returns []float64) float64 {
	if len(returns) < 1 {
		return math.NaN()
	}

	wealth := 1.0
	peak := 1.0
	maxDrawdown := 0.0
	for _, r := range returns {
		wealth *= 1 + r
		peak = math.Max(peak, wealth)
		maxDrawdown = math.Min(maxDrawdown, wealth/peak-1.0)
	}

	return maxDrawdown
}

// SharpeRatio is the annualized ratio of the mean excess return over the per period
// risk free rate to the standard deviation of the excess return
func SharpeRatio(returns []float64, riskFree float64, period Period) float64 {
	if len(returns) < 2 || !period.Valid() {
		return math.NaN()
	}

	excess := make([]float64, len(returns))
	copy(excess, returns)
	floats.AddConst(-riskFree, excess)

	mean, std := stat.MeanStdDev(excess, nil)
	if std == 0 {
		return math.NaN()
	}

	return mean / std * math.Sqrt(period.factor())
}

// CumReturns computes the cumulative compounded return at each period, i.e.
// res[ii] = (1+r[0]) * ... * (1+r[ii]) - 1
func CumReturns(returns []float64) []float64 {
	res := make([]float64, len(returns))
	wealth := 1.0
	for ii, r := range returns {
		wealth *= 1 + r
		res[ii] = wealth - 1.0
	}
	return res
}
