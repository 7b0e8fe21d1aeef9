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

	"github.com/penny-vault/pvcombo/dataframe"
)

// Provider loads the raw series described by a request. Providers may return rows outside
// of the requested date range; the Manager trims the result.
type Provider interface {
	Load(ctx context.Context, req *Request) (*dataframe.DataFrame, error)
}
