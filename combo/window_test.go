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

package combo_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvcombo/combo"
)

var _ = Describe("WindowGen", func() {
	var (
		dates []time.Time
	)

	BeforeEach(func() {
		dates = weeklyDates(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 10)
	})

	It("creates contiguous non-overlapping windows when step equals length", func() {
		windows, err := combo.WindowGen(dates, 5, 5)
		Expect(err).To(BeNil())
		Expect(windows).To(Equal([]combo.Window{
			{Start: dates[0], End: dates[4]},
			{Start: dates[5], End: dates[9]},
		}))
	})

	It("creates overlapping windows when step is less than length", func() {
		windows, err := combo.WindowGen(dates, 4, 2)
		Expect(err).To(BeNil())
		Expect(windows).To(HaveLen(4))
		Expect(windows[1]).To(Equal(combo.Window{Start: dates[2], End: dates[5]}))
		Expect(windows[3]).To(Equal(combo.Window{Start: dates[6], End: dates[9]}))
	})

	It("never extends past the end of the index", func() {
		windows, err := combo.WindowGen(dates, 4, 3)
		Expect(err).To(BeNil())
		Expect(windows).To(HaveLen(3))
		Expect(windows[2].End).To(Equal(dates[9]))
	})

	It("is empty when the window is longer than the index", func() {
		windows, err := combo.WindowGen(dates, 11, 1)
		Expect(err).To(BeNil())
		Expect(windows).To(BeEmpty())
	})

	It("returns the same windows every time it is called", func() {
		first, err := combo.WindowGen(dates, 3, 2)
		Expect(err).To(BeNil())
		second, err := combo.WindowGen(dates, 3, 2)
		Expect(err).To(BeNil())
		Expect(first).To(Equal(second))
	})

	DescribeTable("emits max(0, floor((N-L)/S)+1) windows",
		func(n, windowLen, windowStep int) {
			idx := weeklyDates(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), n)
			windows, err := combo.WindowGen(idx, windowLen, windowStep)
			Expect(err).To(BeNil())

			expected := 0
			if n >= windowLen {
				expected = (n-windowLen)/windowStep + 1
			}
			Expect(windows).To(HaveLen(expected))
		},
		Entry("N=10 L=5 S=5", 10, 5, 5),
		Entry("N=10 L=1 S=1", 10, 1, 1),
		Entry("N=10 L=10 S=3", 10, 10, 3),
		Entry("N=10 L=3 S=4", 10, 3, 4),
		Entry("N=100 L=36 S=1", 100, 36, 1),
		Entry("N=100 L=12 S=12", 100, 12, 12),
		Entry("N=3 L=4 S=1", 3, 4, 1),
		Entry("N=0 L=1 S=1", 0, 1, 1),
	)

	DescribeTable("rejects invalid parameters",
		func(windowLen, windowStep int) {
			_, err := combo.WindowGen(dates, windowLen, windowStep)
			Expect(errors.Is(err, combo.ErrInvalidWindowParameters)).To(BeTrue())
		},
		Entry("zero length", 0, 1),
		Entry("negative length", -1, 1),
		Entry("zero step", 5, 0),
		Entry("negative step", 5, -2),
	)
})
