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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/pvcombo/common"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/rs/zerolog/log"
)

// ReadCSV parses a two column CSV with a header row. The first column is a YYYY-MM-DD date
// and the second a value; dates must be strictly increasing. Empty values are read as NaN.
// The series is named after the header of the value column unless that is empty or the
// generic "value", in which case name is used.
func ReadCSV(r io.Reader, name string) (*dataframe.DataFrame, error) {
	subLog := log.With().Str("Series", name).Logger()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoData, name)
	}
	if err != nil {
		subLog.Error().Err(err).Msg("could not read csv header")
		return nil, fmt.Errorf("%w: %s", ErrMalformedFile, err)
	}

	if len(header) < 2 {
		return nil, fmt.Errorf("%w: %s needs a date and a value column", ErrMalformedFile, name)
	}

	colName := strings.TrimSpace(header[1])
	if colName == "" || strings.EqualFold(colName, "value") {
		colName = name
	}

	dates := make([]time.Time, 0, 256)
	vals := make([]float64, 0, 256)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			subLog.Error().Err(err).Msg("could not read csv record")
			return nil, fmt.Errorf("%w: %s", ErrMalformedFile, err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: %s line %d has %d fields", ErrMalformedFile, name, line, len(record))
		}

		dt, err := time.Parse(common.DateFormat, strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %s", ErrMalformedFile, name, line, err)
		}

		if len(dates) > 0 && !dt.After(dates[len(dates)-1]) {
			return nil, fmt.Errorf("%w: %s line %d: %s does not follow %s", ErrMalformedFile, name, line,
				dt.Format(common.DateFormat), dates[len(dates)-1].Format(common.DateFormat))
		}

		val := math.NaN()
		if raw := strings.TrimSpace(record[1]); raw != "" {
			val, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %s", ErrMalformedFile, name, line, err)
			}
		}

		dates = append(dates, dt)
		vals = append(vals, val)
	}

	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrNoData, name)
	}

	subLog.Debug().Int("NumRows", len(dates)).Time("Start", dates[0]).Time("End", dates[len(dates)-1]).Msg("read csv")
	return dataframe.NewSeries(colName, dates, vals), nil
}

// WriteCSV writes the first column of df in the format read by ReadCSV
func WriteCSV(w io.Writer, df *dataframe.DataFrame) error {
	writer := csv.NewWriter(w)
	colName := "value"
	if df.ColCount() > 0 {
		colName = df.ColNames[0]
	}

	if err := writer.Write([]string{"date", colName}); err != nil {
		return err
	}

	for idx, dt := range df.Dates {
		val := ""
		if df.ColCount() > 0 && !math.IsNaN(df.Vals[0][idx]) {
			val = strconv.FormatFloat(df.Vals[0][idx], 'g', -1, 64)
		}
		if err := writer.Write([]string{dt.Format(common.DateFormat), val}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVProvider loads series from CSV files on disk
type CSVProvider struct{}

// Load reads the file named by req
func (CSVProvider) Load(_ context.Context, req *Request) (*dataframe.DataFrame, error) {
	fh, err := os.Open(req.Name)
	if err != nil {
		log.Error().Err(err).Str("Path", req.Name).Msg("could not open csv file")
		return nil, err
	}
	defer fh.Close()

	return ReadCSV(fh, req.SeriesName())
}
