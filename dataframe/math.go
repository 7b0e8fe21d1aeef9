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

package dataframe

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// AddScalar adds the scalar value to all columns in dataframe df and returns a new dataframe
func (df *DataFrame) AddScalar(scalar float64) *DataFrame {
	df = df.Copy()

	for colIdx := range df.ColNames {
		floats.AddConst(scalar, df.Vals[colIdx])
	}
	return df
}

// PctChange computes the percent change between consecutive rows of every column:
// res[ii] = df[ii] / df[ii-1] - 1. The first row has no predecessor and is dropped.
func (df *DataFrame) PctChange() *DataFrame {
	res := &DataFrame{
		ColNames: df.ColNames,
		Dates:    []time.Time{},
		Vals:     make([][]float64, len(df.ColNames)),
	}

	if df.Len() < 2 {
		for colIdx := range res.Vals {
			res.Vals[colIdx] = []float64{}
		}
		return res
	}

	res.Dates = make([]time.Time, df.Len()-1)
	copy(res.Dates, df.Dates[1:])

	for colIdx, col := range df.Vals {
		pct := make([]float64, len(col)-1)
		for rowIdx := 1; rowIdx < len(col); rowIdx++ {
			if col[rowIdx-1] == 0 {
				pct[rowIdx-1] = math.NaN()
				continue
			}
			pct[rowIdx-1] = col[rowIdx]/col[rowIdx-1] - 1.0
		}
		res.Vals[colIdx] = pct
	}

	return res
}
