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
	"fmt"
	"math"

	"github.com/penny-vault/pvcombo/dataframe"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// RollingOptimalComboStats finds the volatility minimizing blend of ret1 and ret2 over a
// rolling window. Windows are taken over the dates common to both series; the result has
// exactly one row per window keyed by the window's last date.
func RollingOptimalComboStats(ret1, ret2 *dataframe.DataFrame, windowLen, windowStep int, opts Options, metric VolMetric) (*RollingTable, error) {
	return NewCombiner().RollingOptimalComboStats(ret1, ret2, windowLen, windowStep, opts, metric)
}

// RollingOptimalComboStats is the Combiner form of the package level RollingOptimalComboStats
func (c *Combiner) RollingOptimalComboStats(ret1, ret2 *dataframe.DataFrame, windowLen, windowStep int, opts Options, metric VolMetric) (*RollingTable, error) {
	if metric != VolStandard && metric != VolDownside {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVolMetric, int(metric))
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	if err := checkSeries(ret1, ret2); err != nil {
		return nil, err
	}

	ret1 = dropMissing(ret1)
	ret2 = dropMissing(ret2)

	joined := ret1.Join(ret2)
	if joined.Len() == 0 {
		return nil, fmt.Errorf("%w: %s and %s", ErrEmptyDateRange, ret1.ColNames[0], ret2.ColNames[0])
	}

	windows, err := WindowGen(joined.Dates, windowLen, windowStep)
	if err != nil {
		return nil, err
	}

	subLog := log.With().Str("Series1", ret1.ColNames[0]).Str("Series2", ret2.ColNames[0]).Str("VolMetric", metric.String()).Logger()
	subLog.Debug().Int("NumWindows", len(windows)).Int("WindowLen", windowLen).Int("WindowStep", windowStep).Msg("computing rolling optimal combinations")

	res := &RollingTable{
		Metric: metric,
		Rows:   make([]RollingRow, len(windows)),
	}

	evaluate := func(idx int) error {
		window := windows[idx]
		tbl, err := c.RetVolCombos(ret1.Trim(window.Start, window.End), ret2.Trim(window.Start, window.End), opts)
		if err != nil {
			subLog.Error().Err(err).Time("WindowStart", window.Start).Time("WindowEnd", window.End).Msg("could not compute combinations for window")
			return err
		}
		res.Rows[idx] = RollingRow{
			End: window.End,
			Row: tbl.Rows[optimalRow(tbl.Rows, metric)],
		}
		return nil
	}

	if c.Workers < 2 {
		for idx := range windows {
			if err := evaluate(idx); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	// each goroutine writes only its own slot in res.Rows so ordering is preserved
	var group errgroup.Group
	group.SetLimit(c.Workers)
	for idx := range windows {
		idx := idx
		group.Go(func() error {
			return evaluate(idx)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}

// optimalRow returns the index of the row with the smallest volatility; the first row wins
// ties and NaN never wins unless every row is NaN
func optimalRow(rows []Row, metric VolMetric) int {
	best := 0
	bestVol := math.NaN()
	for idx, row := range rows {
		vol := row.Vol(metric)
		if math.IsNaN(vol) {
			continue
		}
		if math.IsNaN(bestVol) || vol < bestVol {
			best = idx
			bestVol = vol
		}
	}
	return best
}
