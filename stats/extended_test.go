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

package stats_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvcombo/stats"
)

var _ = Describe("Extended metrics", func() {
	returns := []float64{.1, -.2, .05, .1}

	It("computes the calmar ratio", func() {
		// wealth 1.1, .88 so the max draw down is 20%
		expected := stats.AnnualReturn(returns, stats.Yearly) / .2
		Expect(stats.CalmarRatio(returns, stats.Yearly)).To(BeNumerically("~", expected, 1e-12))
		Expect(math.IsNaN(stats.CalmarRatio([]float64{.01, .02}, stats.Yearly))).To(BeTrue())
	})

	It("computes the sortino ratio", func() {
		// mean .0125, downside deviation sqrt(.04 / 4) = .1
		Expect(stats.SortinoRatio(returns, 0, stats.Yearly)).To(BeNumerically("~", .125, 1e-12))
		Expect(math.IsNaN(stats.SortinoRatio([]float64{.01, .02}, 0, stats.Yearly))).To(BeTrue())
	})

	It("computes the ulcer index", func() {
		// draw downs: 0, -.2, -.16, -.076
		dd := []float64{0, -.2, .88*1.05/1.1 - 1, .88*1.05*1.1/1.1 - 1}
		sq := 0.0
		for _, d := range dd {
			sq += d * d
		}
		Expect(stats.UlcerIndex(returns)).To(BeNumerically("~", math.Sqrt(sq/4), 1e-12))
		Expect(stats.UlcerIndex([]float64{.01, .02})).To(Equal(0.0))
	})

	It("requires enough data for distribution statistics", func() {
		Expect(math.IsNaN(stats.Skew([]float64{.01, .02}))).To(BeTrue())
		Expect(math.IsNaN(stats.ExcessKurtosis([]float64{.01, .02, .03}))).To(BeTrue())
		Expect(stats.Skew([]float64{.01, .02, .03})).To(BeNumerically("~", 0, 1e-12))
		Expect(math.IsNaN(stats.ExcessKurtosis(returns))).To(BeFalse())
	})

	It("extends the default statistics", func() {
		spec := stats.ExtendedStatsSpec(stats.Monthly, .02)
		Expect(spec).To(HaveLen(10))
		Expect(spec[0].Name).To(Equal("Annual Return"))
		Expect(spec[5].Name).To(Equal("Sortino Ratio"))
		Expect(spec[5].Ratio).To(BeTrue())
	})
})
