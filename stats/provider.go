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

// Provider computes annualized statistics of a return series. It is the seam used by
// the return combiner so that alternative statistics (or deterministic stand-ins in
// tests) can be substituted.
type Provider interface {
	AnnualReturn(returns []float64, period Period) float64
	AnnualVolatility(returns []float64, period Period) float64
	DownsideRisk(returns []float64, period Period) float64
}

// Empyrical is the default Provider; formulas follow the conventions of the
// empyrical python package
type Empyrical struct{}

func (Empyrical) AnnualReturn(returns []float64, period Period) float64 {
	return AnnualReturn(returns, period)
}

func (Empyrical) AnnualVolatility(returns []float64, period Period) float64 {
	return AnnualVolatility(returns, period)
}

func (Empyrical) DownsideRisk(returns []float64, period Period) float64 {
	return DownsideRisk(returns, period)
}
