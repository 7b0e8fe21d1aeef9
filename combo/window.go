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
	"time"
)

// WindowGen creates the sequence of (start, end) dates of a fixed width rolling window
// over dates. Window ii covers dates[ii*windowStep] through dates[ii*windowStep+windowLen-1];
// only windows that fit entirely within dates are returned. windowStep == windowLen yields
// contiguous non-overlapping windows.
func WindowGen(dates []time.Time, windowLen, windowStep int) ([]Window, error) {
	if windowLen < 1 || windowStep < 1 {
		return nil, fmt.Errorf("%w: window length %d and step %d must be at least 1", ErrInvalidWindowParameters, windowLen, windowStep)
	}

	if windowLen > len(dates) {
		return []Window{}, nil
	}

	windows := make([]Window, 0, (len(dates)-windowLen)/windowStep+1)
	for startIdx := 0; startIdx+windowLen-1 < len(dates); startIdx += windowStep {
		windows = append(windows, Window{
			Start: dates[startIdx],
			End:   dates[startIdx+windowLen-1],
		})
	}

	return windows, nil
}
