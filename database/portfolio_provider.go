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

package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/penny-vault/rebalance-engine/allocation"
)

// PortfolioProvider is a thin adapter onto the portfolio aggregation
// collaborator (spec.md §6): it reads the per-holding market values a
// separate service has already pre-computed into holding_v1, rather than
// fetching or pricing anything itself.
type PortfolioProvider struct{}

// NewPortfolioProvider constructs the Postgres-backed portfolio collaborator.
func NewPortfolioProvider() *PortfolioProvider {
	return &PortfolioProvider{}
}

func (p *PortfolioProvider) Holdings(ctx context.Context, userID string) (allocation.PortfolioSnapshot, error) {
	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.PortfolioSnapshot{}, err
	}

	holdingSQL := `SELECT
		symbol,
		data_source,
		name,
		asset_class,
		asset_sub_class,
		quantity,
		market_price,
		value_in_base_currency
	FROM holding_v1
	WHERE user_id=$1`
	rows, err := trx.Query(ctx, holdingSQL, userID)
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("Query", holdingSQL).Msg("could not load holdings")
		trx.Rollback(ctx)
		return allocation.PortfolioSnapshot{}, err
	}

	holdings := make([]allocation.Holding, 0, 16)
	for rows.Next() {
		var h allocation.Holding
		var class, subClass string
		var quantity, price, value decimal.Decimal
		if err := rows.Scan(&h.Symbol, &h.DataSource, &h.Name, &class, &subClass, &quantity, &price, &value); err != nil {
			log.Error().Err(err).Str("UserID", userID).Msg("failed scanning holding row")
			trx.Rollback(ctx)
			return allocation.PortfolioSnapshot{}, err
		}
		h.AssetClass = allocation.AssetClass(class)
		h.AssetSubClass = allocation.AssetSubClass(subClass)
		h.Quantity = quantity
		h.MarketPrice = price
		h.Value = value
		holdings = append(holdings, h)
	}
	trx.Commit(ctx)

	return allocation.PortfolioSnapshot{Holdings: holdings, BaseCurrency: "USD"}, nil
}

var _ allocation.PortfolioProvider = (*PortfolioProvider)(nil)
