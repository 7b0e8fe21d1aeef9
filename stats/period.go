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
	"errors"
	"fmt"
	"strings"

	"github.com/penny-vault/pvcombo/dataframe"
)

// Period describes the sampling interval of a return series
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

var (
	ErrUnknownPeriod = errors.New("unknown period")
)

// annualization factors, e.g. 252 trading days in a year
var annualizationFactors = map[Period]float64{
	Daily:   252,
	Weekly:  52,
	Monthly: 12,
	Yearly:  1,
}

// ParsePeriod converts a string such as "monthly" to a Period
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := annualizationFactors[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// AnnualizationFactor returns the number of periods in a year
func (p Period) AnnualizationFactor() (float64, error) {
	factor, ok := annualizationFactors[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	return factor, nil
}

// Valid reports whether p has a known annualization factor
func (p Period) Valid() bool {
	_, ok := annualizationFactors[p]
	return ok
}

// Frequency returns the dataframe frequency used to resample daily data to p
func (p Period) Frequency() dataframe.Frequency {
	switch p {
	case Weekly:
		return dataframe.Weekly
	case Monthly:
		return dataframe.Monthly
	case Yearly:
		return dataframe.Annually
	default:
		return dataframe.Daily
	}
}

func (p Period) String() string {
	return string(p)
}

func (p Period) factor() float64 {
	if factor, ok := annualizationFactors[p]; ok {
		return factor
	}
	return 0
}
