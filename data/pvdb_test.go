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
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"
	"github.com/penny-vault/pvcombo/data"
	"github.com/penny-vault/pvcombo/data/database"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/pgxmockhelper"
)

var _ = Describe("PVDB tests", func() {
	var (
		dbPool pgxmock.PgxConnIface
		pvdb   *data.PvDb
		ctx    context.Context
		begin  time.Time
		end    time.Time
	)

	BeforeEach(func() {
		var err error
		dbPool, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(dbPool)
		pvdb = data.NewPvDb()
		ctx = context.Background()
		begin = time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
		end = time.Date(2021, 1, 6, 0, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		Expect(dbPool.ExpectationsWereMet()).To(Succeed())
		Expect(database.OpenTransactionCount()).To(Equal(0))
	})

	Context("when interacting with pvdb", func() {
		It("fetches adjusted close prices", func() {
			tz, err := time.LoadLocation("America/New_York")
			Expect(err).To(BeNil())

			// event_date  ticker  adj_close
			// 2021-01-04  TSLA    729.7700
			// 2021-01-05  TSLA    735.1100
			dbPool.ExpectBegin()
			dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
			dbPool.ExpectQuery("SELECT event_date, adj_close FROM eod").WithArgs("TSLA", begin, end).WillReturnRows(
				pgxmock.NewRows([]string{"event_date", "adj_close"}).
					AddRow(time.Date(2021, 1, 4, 16, 0, 0, 0, tz), 729.77).
					AddRow(time.Date(2021, 1, 5, 16, 0, 0, 0, tz), 735.11))
			dbPool.ExpectCommit()

			df, err := pvdb.GetEOD(ctx, "TSLA", begin, end)
			Expect(err).To(BeNil())
			Expect(df.ColNames).To(Equal([]string{"TSLA"}))
			Expect(df.Dates).To(Equal([]time.Time{
				time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC),
			}))
			Expect(df.Vals[0]).To(Equal([]float64{729.77, 735.11}))
		})

		It("reports when no data is available", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
			dbPool.ExpectQuery("SELECT event_date, adj_close FROM eod").WillReturnRows(
				pgxmock.NewRows([]string{"event_date", "adj_close"}))
			dbPool.ExpectCommit()

			_, err := pvdb.GetEOD(ctx, "TSLA", begin, end)
			Expect(errors.Is(err, data.ErrNoData)).To(BeTrue())
		})

		It("rolls back when the query fails", func() {
			dbPool.ExpectBegin()
			dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
			dbPool.ExpectQuery("SELECT event_date, adj_close FROM eod").WillReturnError(errors.New("relation eod does not exist"))
			dbPool.ExpectRollback()

			_, err := pvdb.GetEOD(ctx, "TSLA", begin, end)
			Expect(err).ToNot(BeNil())
		})

		It("loads monthly returns through the manager", func() {
			begin = time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)
			end = time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC)
			pgxmockhelper.MockDBEodQuery(dbPool, "testdata/vfinx.csv", "VFINX", begin, end)

			manager := data.NewManager(nil)
			req := data.ParseRequest("db:VFINX").Between(begin, end)
			req.Frequency = dataframe.MonthEnd
			df, err := manager.Load(ctx, req)
			Expect(err).To(BeNil())

			// month end prices 2019-12-31 99.9944, 2020-01-31 98.9802, 2020-02-28 99.3611
			Expect(df.Dates).To(Equal([]time.Time{
				time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 2, 28, 0, 0, 0, 0, time.UTC),
			}))
			Expect(df.Vals[0][0]).To(BeNumerically("~", 98.9802/99.9944-1, 1e-12))
			Expect(df.Vals[0][1]).To(BeNumerically("~", 99.3611/98.9802-1, 1e-12))
		})

		It("rejects an inverted date range", func() {
			_, err := pvdb.GetEOD(ctx, "TSLA", end, begin)
			Expect(errors.Is(err, data.ErrInvalidTimeRange)).To(BeTrue())
		})
	})
})
