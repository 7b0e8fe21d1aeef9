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

package data

import (
	"context"
	"fmt"
	"time"

	"github.com/penny-vault/pvcombo/data/database"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const eodSQL = "SELECT event_date, adj_close FROM eod WHERE ticker=$1 AND event_date BETWEEN $2 AND $3 ORDER BY event_date"

var (
	// earliest and latest dates queried when a request leaves a side unbounded
	pvdbMinDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	pvdbMaxDate = time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
)

// PvDb loads adjusted close prices from the penny vault database
type PvDb struct {
}

// NewPvDb Create a new PVDB data provider
func NewPvDb() *PvDb {
	return &PvDb{}
}

// GetEOD fetches the adjusted close price of ticker for every trading day between begin
// and end (inclusive)
func (p *PvDb) GetEOD(ctx context.Context, ticker string, begin, end time.Time) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "pvdb.GetEOD")
	defer span.End()

	span.SetAttributes(attribute.String("Ticker", ticker))

	if begin.IsZero() {
		begin = pvdbMinDate
	}
	if end.IsZero() {
		end = pvdbMaxDate
	}

	subLog := log.With().Str("Ticker", ticker).Time("Begin", begin).Time("End", end).Logger()

	if end.Before(begin) {
		subLog.Warn().Stack().Msg("end before begin in call to GetEOD")
		return nil, ErrInvalidTimeRange
	}

	trx, err := database.Trx(ctx)
	if err != nil {
		span.RecordError(err)
		msg := "failed to load eod prices -- could not get a database transaction"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Stack().Err(err).Msg(msg)
		return nil, err
	}

	rows, err := trx.Query(ctx, eodSQL, ticker, begin, end)
	if err != nil {
		span.RecordError(err)
		msg := "failed to load eod prices -- db query failed"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Stack().Err(err).Str("SQL", eodSQL).Msg(msg)
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	dates := make([]time.Time, 0, 252)
	vals := make([]float64, 0, 252)
	for rows.Next() {
		var eventDate time.Time
		var adjClose float64
		if err := rows.Scan(&eventDate, &adjClose); err != nil {
			subLog.Error().Stack().Err(err).Msg("failed to load eod prices -- db query scan failed")
			rows.Close()
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}

		// dates are compared with dates read from files so drop the time of day
		dates = append(dates, time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC))
		vals = append(vals, adjClose)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		subLog.Error().Stack().Err(err).Msg("failed to load eod prices -- reading rows failed")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	if len(dates) == 0 {
		span.SetStatus(codes.Error, "no eod prices found")
		subLog.Warn().Msg("no eod prices found")
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	span.SetAttributes(attribute.Int("NumRows", len(dates)))
	subLog.Debug().Int("NumRows", len(dates)).Msg("loaded eod prices")
	return dataframe.NewSeries(ticker, dates, vals), nil
}

// Load fetches the prices requested by req
func (p *PvDb) Load(ctx context.Context, req *Request) (*dataframe.DataFrame, error) {
	return p.GetEOD(ctx, req.Name, req.Begin, req.End)
}
