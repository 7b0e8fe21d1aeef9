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

package data_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/pvcombo/data"
	"github.com/penny-vault/pvcombo/dataframe"
)

var _ = Describe("CSV", func() {
	Context("when reading", func() {
		It("reads dates and values", func() {
			df, err := data.ReadCSV(strings.NewReader("date,VFINX\n2021-01-04,0.01\n2021-01-05,-0.02\n2021-01-06,\n"), "vfinx")
			Expect(err).To(BeNil())
			Expect(df.ColNames).To(Equal([]string{"VFINX"}))
			Expect(df.Dates).To(Equal([]time.Time{
				time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 6, 0, 0, 0, 0, time.UTC),
			}))
			Expect(df.Vals[0][:2]).To(Equal([]float64{.01, -.02}))
			Expect(math.IsNaN(df.Vals[0][2])).To(BeTrue())
		})

		It("names generic value columns after the file", func() {
			df, err := data.ReadCSV(strings.NewReader("date,value\n2021-01-04,0.01\n"), "bonds")
			Expect(err).To(BeNil())
			Expect(df.ColNames).To(Equal([]string{"bonds"}))
		})

		DescribeTable("rejects malformed files",
			func(contents string) {
				_, err := data.ReadCSV(strings.NewReader(contents), "bad")
				Expect(errors.Is(err, data.ErrMalformedFile)).To(BeTrue())
			},
			Entry("single column", "date\n2021-01-04\n"),
			Entry("bad date", "date,value\n01/04/2021,0.01\n"),
			Entry("bad value", "date,value\n2021-01-04,abc\n"),
			Entry("dates out of order", "date,value\n2021-01-05,0.01\n2021-01-04,0.02\n"),
			Entry("duplicate dates", "date,value\n2021-01-04,0.01\n2021-01-04,0.02\n"),
		)

		It("reports files without rows", func() {
			_, err := data.ReadCSV(strings.NewReader("date,value\n"), "empty")
			Expect(errors.Is(err, data.ErrNoData)).To(BeTrue())

			_, err = data.ReadCSV(strings.NewReader(""), "empty")
			Expect(errors.Is(err, data.ErrNoData)).To(BeTrue())
		})
	})

	It("reads what it writes", func() {
		dates := []time.Time{
			time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 1, 11, 0, 0, 0, 0, time.UTC),
		}
		df := dataframe.NewSeries("VFINX", dates, []float64{.0125, -.5})

		buf := &bytes.Buffer{}
		Expect(data.WriteCSV(buf, df)).To(Succeed())
		Expect(buf.String()).To(Equal("date,VFINX\n2021-01-04,0.0125\n2021-01-11,-0.5\n"))

		res, err := data.ReadCSV(buf, "vfinx")
		Expect(err).To(BeNil())
		Expect(res).To(Equal(df))
	})

	It("loads files from disk", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "stocks.csv")
		Expect(os.WriteFile(fn, []byte("date,value\n2021-01-04,0.01\n2021-01-11,0.02\n"), 0600)).To(Succeed())

		df, err := data.CSVProvider{}.Load(context.Background(), data.ParseRequest(fn))
		Expect(err).To(BeNil())
		Expect(df.ColNames).To(Equal([]string{"stocks"}))
		Expect(df.Len()).To(Equal(2))
	})
})
