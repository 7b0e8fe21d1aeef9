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
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/zeebo/blake3"
)

// Source identifies where a series is loaded from
type Source string

const (
	SourceCSV Source = "csv"
	SourceDB  Source = "db"
)

const dbPrefix = "db:"

// Request describes a single series to load
type Request struct {
	Source Source `json:"source"`

	// Name is the file path for csv sources and the ticker for db sources
	Name string `json:"name"`

	// Begin and End restrict the loaded series (inclusive); the zero time leaves that
	// side unbounded
	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`

	// Frequency resamples the series before prices are converted to returns; the empty
	// string keeps every row
	Frequency dataframe.Frequency `json:"frequency"`

	// Prices is true if the series holds prices that must be converted to returns
	Prices bool `json:"prices"`
}

// ParseRequest converts a command line series argument to a request. Arguments of the form
// db:TICKER load adjusted close prices from the database; anything else is a CSV file path.
func ParseRequest(arg string) *Request {
	if strings.HasPrefix(strings.ToLower(arg), dbPrefix) {
		return &Request{
			Source: SourceDB,
			Name:   strings.ToUpper(strings.TrimSpace(arg[len(dbPrefix):])),
			Prices: true,
		}
	}

	return &Request{
		Source: SourceCSV,
		Name:   arg,
	}
}

// Between restricts the request to the inclusive range [begin, end]
func (req *Request) Between(begin, end time.Time) *Request {
	req.Begin = begin
	req.End = end
	return req
}

// SeriesName is the column name given to the loaded series
func (req *Request) SeriesName() string {
	if req.Source == SourceCSV {
		base := filepath.Base(req.Name)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return req.Name
}

// Key returns a hash that uniquely identifies the request
func (req *Request) Key() string {
	// a struct of strings, times and bools always encodes
	enc, _ := json.Marshal(req)
	sum := blake3.Sum256(enc)
	return hex.EncodeToString(sum[:])
}

func (req *Request) validate() error {
	if req.Name == "" {
		return fmt.Errorf("%w: empty series name", ErrUnknownSource)
	}

	if !req.Begin.IsZero() && !req.End.IsZero() && req.End.Before(req.Begin) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTimeRange, req.Begin.Format("2006-01-02"), req.End.Format("2006-01-02"))
	}

	switch req.Frequency {
	case "", dataframe.Daily, dataframe.WeekBegin, dataframe.WeekEnd, dataframe.MonthBegin,
		dataframe.MonthEnd, dataframe.YearBegin, dataframe.YearEnd:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFrequency, req.Frequency)
	}
}
