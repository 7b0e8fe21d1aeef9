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

package combo

import (
	"strconv"
	"time"

	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/penny-vault/pvcombo/stats"
)

// WindowStats computes statistics over a rolling window of returns. Each metric is
// applied to the returns in every window and the results are indexed by the last date
// of the window; columns are in the same order as metrics. A series shorter than
// windowLen produces an empty dataframe.
func WindowStats(returns *dataframe.DataFrame, windowLen, windowStep int, metrics []stats.Metric) (*dataframe.DataFrame, error) {
	if err := checkSeries(returns); err != nil {
		return nil, err
	}

	windows, err := WindowGen(returns.Dates, windowLen, windowStep)
	if err != nil {
		return nil, err
	}

	res := &dataframe.DataFrame{
		Dates:    make([]time.Time, 0, len(windows)),
		ColNames: make([]string, len(metrics)),
		Vals:     make([][]float64, len(metrics)),
	}

	for colIdx, metric := range metrics {
		res.ColNames[colIdx] = metric.Name
		if metric.Name == "" {
			res.ColNames[colIdx] = strconv.Itoa(colIdx)
		}
		res.Vals[colIdx] = make([]float64, 0, len(windows))
	}

	for _, window := range windows {
		windowReturns := returns.Trim(window.Start, window.End).Vals[0]
		for colIdx, metric := range metrics {
			res.Vals[colIdx] = append(res.Vals[colIdx], metric.Fn(windowReturns))
		}
		res.Dates = append(res.Dates, window.End)
	}

	return res, nil
}
