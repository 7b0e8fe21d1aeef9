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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
)

// NewSeries creates a single column dataframe
func NewSeries(name string, dates []time.Time, vals []float64) *DataFrame {
	return &DataFrame{
		Dates:    dates,
		ColNames: []string{name},
		Vals:     [][]float64{vals},
	}
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// Copy creates a copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Drop removes rows that contain the value `val` from the dataframe
func (df *DataFrame) Drop(val float64) *DataFrame {
	isNA := math.IsNaN(val)
	newVals := make([][]float64, len(df.Vals))
	newDates := make([]time.Time, 0, len(df.Dates))

	for idx, rowDate := range df.Dates {
		keep := true
		for _, col := range df.Vals {
			rowVal := col[idx]
			keep = keep && !(rowVal == val || (isNA && math.IsNaN(rowVal)))
			if !keep {
				break
			}
		}

		if keep {
			newDates = append(newDates, rowDate)
			for colIdx, col := range df.Vals {
				newVals[colIdx] = append(newVals[colIdx], col[idx])
			}
		}
	}

	df.Vals = newVals
	df.Dates = newDates
	return df
}

// DropNA removes rows that contain NaN in any column. Unlike Drop the receiver is left
// unchanged.
func (df *DataFrame) DropNA() *DataFrame {
	return df.Copy().Drop(math.NaN())
}

// End returns the last time in the DataFrame
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// Frequency returns a data frame filtered to the requested frequency; note this is not
// an in-place function but creates a copy of the data. Periods are calendar periods in the
// location of each date: the first (Begin) or last (End) row observed in each week, month or
// year is kept.
func (df *DataFrame) Frequency(frequency Frequency) *DataFrame {
	var (
		periodKey func(time.Time) int
		keepFirst bool
	)

	switch frequency {
	case Daily:
		periodKey = func(t time.Time) int { return t.Year()*1000 + t.YearDay() }
	case WeekBegin, WeekEnd:
		periodKey = func(t time.Time) int {
			year, week := t.ISOWeek()
			return year*100 + week
		}
		keepFirst = (frequency == WeekBegin)
	case MonthBegin, MonthEnd:
		periodKey = func(t time.Time) int { return t.Year()*100 + int(t.Month()) }
		keepFirst = (frequency == MonthBegin)
	case YearBegin, YearEnd:
		periodKey = func(t time.Time) int { return t.Year() }
		keepFirst = (frequency == YearBegin)
	default:
		log.Panic().Str("Frequency", string(frequency)).Msg("Unknown frequncy provided to dataframe frequency function")
	}

	newDates := make([]time.Time, 0, len(df.Dates))
	newVals := make([][]float64, len(df.ColNames))
	for idx, rowDate := range df.Dates {
		var keep bool
		key := periodKey(rowDate)
		if keepFirst {
			keep = idx == 0 || periodKey(df.Dates[idx-1]) != key
		} else {
			keep = idx == len(df.Dates)-1 || periodKey(df.Dates[idx+1]) != key
		}

		if keep {
			newDates = append(newDates, rowDate)
			for colIdx := range newVals {
				newVals[colIdx] = append(newVals[colIdx], df.Vals[colIdx][idx])
			}
		}
	}

	return &DataFrame{
		Dates:    newDates,
		ColNames: df.ColNames,
		Vals:     newVals,
	}
}

// Insert a new column to the end of the dataframe
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// InsertRow adds a new row to the dataframe. Date must be after the last date in the dataframe and vals must equal the number
// of columns. If either of these conditions are not met then panic
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) *DataFrame {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			log.Panic().Time("lastDate", last).Time("newDate", date).Msg("newDate must be after lastDate")
		}
	}

	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}

	if len(df.Vals) != len(df.ColNames) {
		df.Vals = make([][]float64, len(df.ColNames))
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return df
}

// Join performs an inner join of df and others on their date index. Only dates present in
// every dataframe are kept; columns are concatenated in argument order.
func (df *DataFrame) Join(others ...*DataFrame) *DataFrame {
	frames := append([]*DataFrame{df}, others...)

	res := &DataFrame{
		Dates:    make([]time.Time, 0, df.Len()),
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	for _, frame := range frames {
		res.ColNames = append(res.ColNames, frame.ColNames...)
	}
	res.Vals = make([][]float64, len(res.ColNames))

	// walk all indexes in lock step; each index is sorted ascending
	cursors := make([]int, len(frames))
	for {
		var maxDate time.Time
		for frameIdx, frame := range frames {
			if cursors[frameIdx] >= frame.Len() {
				return res
			}
			if dt := frame.Dates[cursors[frameIdx]]; frameIdx == 0 || dt.After(maxDate) {
				maxDate = dt
			}
		}

		aligned := true
		for frameIdx, frame := range frames {
			for cursors[frameIdx] < frame.Len() && frame.Dates[cursors[frameIdx]].Before(maxDate) {
				cursors[frameIdx]++
			}
			if cursors[frameIdx] >= frame.Len() {
				return res
			}
			if !frame.Dates[cursors[frameIdx]].Equal(maxDate) {
				aligned = false
			}
		}

		if !aligned {
			continue
		}

		res.Dates = append(res.Dates, maxDate)
		colIdx := 0
		for frameIdx, frame := range frames {
			for _, col := range frame.Vals {
				res.Vals[colIdx] = append(res.Vals[colIdx], col[cursors[frameIdx]])
				colIdx++
			}
			cursors[frameIdx]++
		}
	}
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	return len(df.Dates)
}

// Validate checks that every column has one value per date and that the dates are
// strictly increasing
func (df *DataFrame) Validate() error {
	if len(df.Vals) != len(df.ColNames) {
		return fmt.Errorf("%w: %d columns named but %d present", ErrColumnCount, len(df.ColNames), len(df.Vals))
	}

	for colIdx, col := range df.Vals {
		if len(col) != len(df.Dates) {
			return fmt.Errorf("%w: column %s has %d values for %d dates", ErrDateIndexNotAligned, df.ColNames[colIdx], len(col), len(df.Dates))
		}
	}

	for idx := 1; idx < len(df.Dates); idx++ {
		if !df.Dates[idx-1].Before(df.Dates[idx]) {
			return fmt.Errorf("%w: %s follows %s", ErrDateNotIncreasing, df.Dates[idx].Format("2006-01-02"), df.Dates[idx-1].Format("2006-01-02"))
		}
	}

	return nil
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// Table prints an ASCII formatted table to stdout
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>" // nothing to do as there is no data available in the dataframe
	}

	// construct table header
	tableCols := append([]string{"Date"}, df.ColNames...)

	// initialize table
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false) // Set Border to false

	for idx, date := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, date.Format("2006-01-02"))
		for _, col := range df.Vals {
			row = append(row, fmt.Sprintf("%.4f", col[idx]))
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}

// Trim the dataframe to the specified date range (inclusive). The returned dataframe
// shares storage with df.
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    []time.Time{},
		Vals:     make([][]float64, len(df.Vals)),
	}

	for colIdx := range df2.Vals {
		df2.Vals[colIdx] = []float64{}
	}

	// special case 0: requested range is invalid
	if end.Before(begin) {
		return df2
	}

	// special case 1: data frame is empty
	if df.Len() == 0 {
		return df2
	}

	// Use binary search to find the index corresponding to the start and end times
	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(end)
	})

	if beginIdx >= endIdx {
		return df2
	}

	df2.Dates = df.Dates[beginIdx:endIdx]
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}
