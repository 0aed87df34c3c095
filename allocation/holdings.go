// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package allocation

import (
	"context"

	"github.com/shopspring/decimal"
)

// Holding is one line of the portfolio collaborator's view of a user's
// current positions. The engine treats it as read-only input.
type Holding struct {
	Symbol        string
	DataSource    string
	Name          string
	AssetClass    AssetClass
	AssetSubClass AssetSubClass
	Quantity      decimal.Decimal
	MarketPrice   decimal.Decimal
	Value         decimal.Decimal
}

// PortfolioSnapshot is the full response of the portfolio collaborator.
type PortfolioSnapshot struct {
	Holdings     []Holding
	BaseCurrency string
}

// PortfolioProvider is the portfolio aggregation collaborator named in
// spec.md §6: it pre-computes per-holding market values. The engine never
// fetches market data itself.
type PortfolioProvider interface {
	Holdings(ctx context.Context, userID string) (PortfolioSnapshot, error)
}
