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

package dataframe_test

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvcombo/dataframe"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			df = &dataframe.DataFrame{}
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero columns", func() {
			Expect(df.ColCount()).To(Equal(0))
		})

		It("does not error on drop", func() {
			df = df.Drop(1)
			Expect(df.Len()).To(Equal(0))
		})

		It("does not error on trim", func() {
			df = df.Trim(day(2021, 1, 1), day(2022, 1, 1))
			Expect(df.Len()).To(Equal(0))
		})

		It("does not error on frequency", func() {
			df = df.Frequency(dataframe.Weekly)
			Expect(df.Len()).To(Equal(0))
		})

		It("has zero start and end", func() {
			Expect(df.Start().IsZero()).To(BeTrue())
			Expect(df.End().IsZero()).To(BeTrue())
		})

		It("renders a placeholder table", func() {
			Expect(df.Table()).To(Equal("<NO DATA>"))
		})
	})

	Context("with 2 years of values and a single column", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			dates := make([]time.Time, 730)
			vals := make([]float64, 730)
			dt := day(2020, 1, 1)
			for idx := range dates {
				dates[idx] = dt
				dt = dt.AddDate(0, 0, 1)
				vals[idx] = float64(idx)
			}
			df = dataframe.NewSeries("Col1", dates, vals)
		})

		It("has length", func() {
			Expect(df.Len()).To(Equal(730))
		})

		It("has 1 column", func() {
			Expect(df.ColCount()).To(Equal(1))
		})

		It("can remove all 0s with drop", func() {
			df = df.Drop(0)
			Expect(df.Len()).To(Equal(729))
			Expect(df.Vals[0][0]).To(BeNumerically("==", 1.0))
		})

		It("drops rows holding NaN without touching the original", func() {
			df.Vals[0][3] = math.NaN()
			df.Vals[0][10] = math.NaN()
			cleaned := df.DropNA()
			Expect(cleaned.Len()).To(Equal(728))
			Expect(cleaned.Dates[3]).To(Equal(day(2020, 1, 5)))
			Expect(df.Len()).To(Equal(730))
			Expect(math.IsNaN(df.Vals[0][3])).To(BeTrue())
		})

		It("validates", func() {
			Expect(df.Validate()).To(Succeed())
		})

		It("copies are independent", func() {
			df2 := df.Copy()
			df2.Vals[0][0] = 100
			Expect(df.Vals[0][0]).To(BeNumerically("==", 0.0))
		})

		DescribeTable("trims values by date range", func(a, b time.Time, expectedLen int) {
			trimmed := df.Trim(a, b)
			Expect(trimmed.Len()).To(Equal(expectedLen))
			Expect(trimmed.Vals[0]).To(HaveLen(expectedLen))
			if expectedLen > 0 {
				Expect(trimmed.Start().Before(a)).To(BeFalse())
				Expect(trimmed.End().After(b)).To(BeFalse())
			}
		},
			Entry("when the range is a subset", day(2020, 2, 1), day(2020, 2, 29), 29),
			Entry("when the range starts before the data", day(2019, 1, 1), day(2020, 1, 10), 10),
			Entry("when the range ends after the data", day(2021, 12, 25), day(2023, 1, 1), 6),
			Entry("when the end date falls between dates", day(2020, 1, 1), day(2020, 1, 5).Add(12*time.Hour), 5),
			Entry("when begin is after end", day(2020, 3, 1), day(2020, 2, 1), 0),
			Entry("when the range is before the data", day(2018, 1, 1), day(2018, 2, 1), 0),
			Entry("when the range is after the data", day(2023, 1, 1), day(2023, 2, 1), 0),
		)

		It("resamples to month end", func() {
			monthly := df.Frequency(dataframe.Monthly)
			Expect(monthly.Len()).To(Equal(24))
			Expect(monthly.Dates[0]).To(Equal(day(2020, 1, 31)))
			Expect(monthly.Dates[1]).To(Equal(day(2020, 2, 29)))
			Expect(monthly.Vals[0][0]).To(BeNumerically("==", 30))
		})

		It("resamples to month begin", func() {
			monthly := df.Frequency(dataframe.MonthBegin)
			Expect(monthly.Len()).To(Equal(24))
			Expect(monthly.Dates[1]).To(Equal(day(2020, 2, 1)))
		})

		It("resamples to year end", func() {
			yearly := df.Frequency(dataframe.Annually)
			Expect(yearly.Dates).To(Equal([]time.Time{day(2020, 12, 31), day(2021, 12, 30)}))
		})

		It("resamples to week end", func() {
			weekly := df.Frequency(dataframe.Weekly)
			// 2020-01-05 is the first Sunday
			Expect(weekly.Dates[0]).To(Equal(day(2020, 1, 5)))
			Expect(weekly.Dates[1]).To(Equal(day(2020, 1, 12)))
		})
	})

	Context("when joining dataframes", func() {
		var (
			df1 *dataframe.DataFrame
			df2 *dataframe.DataFrame
		)

		BeforeEach(func() {
			df1 = dataframe.NewSeries("a",
				[]time.Time{day(2021, 1, 1), day(2021, 1, 2), day(2021, 1, 3), day(2021, 1, 5)},
				[]float64{1, 2, 3, 5})
			df2 = dataframe.NewSeries("b",
				[]time.Time{day(2021, 1, 2), day(2021, 1, 3), day(2021, 1, 4), day(2021, 1, 5), day(2021, 1, 6)},
				[]float64{20, 30, 40, 50, 60})
		})

		It("keeps only dates present in both", func() {
			joined := df1.Join(df2)
			Expect(joined.ColNames).To(Equal([]string{"a", "b"}))
			Expect(joined.Dates).To(Equal([]time.Time{day(2021, 1, 2), day(2021, 1, 3), day(2021, 1, 5)}))
			Expect(joined.Vals[0]).To(Equal([]float64{2, 3, 5}))
			Expect(joined.Vals[1]).To(Equal([]float64{20, 30, 50}))
		})

		It("returns an empty frame when the indexes are disjoint", func() {
			df3 := dataframe.NewSeries("c", []time.Time{day(2022, 1, 1)}, []float64{1})
			joined := df1.Join(df3)
			Expect(joined.Len()).To(Equal(0))
			Expect(joined.ColCount()).To(Equal(2))
		})

		It("joins more than two frames", func() {
			df3 := dataframe.NewSeries("c", []time.Time{day(2021, 1, 3), day(2021, 1, 5)}, []float64{300, 500})
			joined := df1.Join(df2, df3)
			Expect(joined.Dates).To(Equal([]time.Time{day(2021, 1, 3), day(2021, 1, 5)}))
			Expect(joined.Vals[2]).To(Equal([]float64{300, 500}))
		})

		It("does not modify its inputs", func() {
			df1.Join(df2)
			Expect(df1.Len()).To(Equal(4))
			Expect(df2.Len()).To(Equal(5))
		})
	})

	Context("when inserting rows", func() {
		It("appends rows in date order", func() {
			df := &dataframe.DataFrame{ColNames: []string{"a", "b"}}
			df.InsertRow(day(2021, 1, 1), 1, 2)
			df.InsertRow(day(2021, 1, 2), 3, 4)
			Expect(df.Len()).To(Equal(2))
			Expect(df.Vals[1]).To(Equal([]float64{2, 4}))
		})

		It("panics when dates are out of order", func() {
			df := &dataframe.DataFrame{ColNames: []string{"a"}}
			df.InsertRow(day(2021, 1, 2), 1)
			Expect(func() { df.InsertRow(day(2021, 1, 1), 2) }).To(Panic())
		})
	})
})

var _ = Describe("When computing with scalars", func() {
	var (
		df *dataframe.DataFrame
	)

	BeforeEach(func() {
		df = dataframe.NewSeries("prices",
			[]time.Time{day(2021, 1, 1), day(2021, 2, 1), day(2021, 3, 1), day(2021, 4, 1)},
			[]float64{100, 110, 99, 0})
	})

	It("adds a scalar without modifying the original", func() {
		res := df.AddScalar(1)
		Expect(res.Vals[0]).To(Equal([]float64{101, 111, 100, 1}))
		Expect(df.Vals[0][0]).To(BeNumerically("==", 100))
	})

	It("computes percent change", func() {
		df.Vals[0][3] = 99
		res := df.PctChange()
		Expect(res.Len()).To(Equal(3))
		Expect(res.Dates[0]).To(Equal(day(2021, 2, 1)))
		Expect(res.Vals[0][0]).To(BeNumerically("~", 0.10, 1e-12))
		Expect(res.Vals[0][1]).To(BeNumerically("~", -0.10, 1e-12))
		Expect(res.Vals[0][2]).To(BeNumerically("~", 0.0, 1e-12))
	})

	It("yields NaN when dividing by a zero price", func() {
		df.Vals[0][2] = 0
		res := df.PctChange()
		Expect(math.IsNaN(res.Vals[0][2])).To(BeTrue())
	})

	It("returns an empty frame for a single row", func() {
		res := df.Trim(day(2021, 1, 1), day(2021, 1, 1)).PctChange()
		Expect(res.Len()).To(Equal(0))
	})
})

var _ = Describe("Validate", func() {
	DescribeTable("rejects malformed frames", func(df *dataframe.DataFrame, expected error) {
		Expect(errors.Is(df.Validate(), expected)).To(BeTrue())
	},
		Entry("missing column values", &dataframe.DataFrame{
			Dates:    []time.Time{day(2021, 1, 1)},
			ColNames: []string{"a", "b"},
			Vals:     [][]float64{{1}},
		}, dataframe.ErrColumnCount),
		Entry("short column", &dataframe.DataFrame{
			Dates:    []time.Time{day(2021, 1, 1), day(2021, 1, 2)},
			ColNames: []string{"a"},
			Vals:     [][]float64{{1}},
		}, dataframe.ErrDateIndexNotAligned),
		Entry("repeated date", &dataframe.DataFrame{
			Dates:    []time.Time{day(2021, 1, 1), day(2021, 1, 1)},
			ColNames: []string{"a"},
			Vals:     [][]float64{{1, 2}},
		}, dataframe.ErrDateNotIncreasing),
		Entry("decreasing dates", &dataframe.DataFrame{
			Dates:    []time.Time{day(2021, 1, 2), day(2021, 1, 1)},
			ColNames: []string{"a"},
			Vals:     [][]float64{{1, 2}},
		}, dataframe.ErrDateNotIncreasing),
	)
})
