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

import "errors"

var (
	// ErrEmptyDateRange is returned when two return series share no dates
	ErrEmptyDateRange = errors.New("return series have no overlapping dates")

	// ErrInvalidWindowParameters is returned when a window length, window step, number of
	// weight steps or rebalance period is less than 1
	ErrInvalidWindowParameters = errors.New("invalid window parameters")

	ErrInvalidSeries    = errors.New("invalid return series")
	ErrUnknownVolMetric = errors.New("unknown volatility metric")
)
