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

package portfolio

import (
	"github.com/penny-vault/pvcombo/dataframe"
)

// PricesToReturns converts a frame of prices into period returns. The first date has no
// prior price and is dropped.
func PricesToReturns(prices *dataframe.DataFrame) *dataframe.DataFrame {
	return prices.PctChange()
}

// ReturnsToWealthRelatives converts period returns r into wealth relatives 1 + r
func ReturnsToWealthRelatives(returns *dataframe.DataFrame) *dataframe.DataFrame {
	return returns.AddScalar(1.0)
}

// CumulativeToPeriodReturns converts a cumulative wealth relative sequence (growth of $1)
// into period returns. The first period's return is measured against a starting value of 1.
func CumulativeToPeriodReturns(cumulative *dataframe.DataFrame) *dataframe.DataFrame {
	res := cumulative.Copy()
	for colIdx, col := range cumulative.Vals {
		prev := 1.0
		for rowIdx, val := range col {
			res.Vals[colIdx][rowIdx] = val/prev - 1.0
			prev = val
		}
	}
	return res
}
