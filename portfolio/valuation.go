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

package portfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Valuation is a daily portfolio snapshot.
type Valuation struct {
	Date        time.Time
	TotalValue  decimal.Decimal
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}

// ExternalFlow is the net cash moved into (positive) or out of (negative)
// the portfolio on this day, independent of market movement.
func (v *Valuation) ExternalFlow() decimal.Decimal {
	return v.Deposits.Sub(v.Withdrawals)
}

// ToCashFlow produces the portfolio-level DEPOSIT/WITHDRAWAL cash flow for
// this valuation, if any. Deposits are a negative (outflow-from-investor)
// cash flow; withdrawals are positive, matching spec.md §3's sign
// convention. A day with no external flow returns ok=false.
func (v *Valuation) ToCashFlow() (CashFlow, bool) {
	net := v.ExternalFlow()
	switch {
	case net.IsPositive():
		return CashFlow{Date: v.Date, Amount: net.Neg(), Kind: CashFlowDeposit}, true
	case net.IsNegative():
		return CashFlow{Date: v.Date, Amount: net.Neg(), Kind: CashFlowWithdrawal}, true
	default:
		return CashFlow{}, false
	}
}

// ValuationPoint is the market-value/external-flow pair consumed by the
// TTWROR accumulator (C2).
type ValuationPoint struct {
	Date         time.Time
	MarketValue  decimal.Decimal
	ExternalFlow decimal.Decimal
}

// SortValuations sorts valuations ascending by date (stable).
func SortValuations(valuations []*Valuation) []*Valuation {
	sorted := make([]*Valuation, len(valuations))
	copy(sorted, valuations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// ValuationPoints converts a sorted valuation slice into ValuationPoints.
func ValuationPoints(valuations []*Valuation) []ValuationPoint {
	sorted := SortValuations(valuations)
	points := make([]ValuationPoint, len(sorted))
	for i, v := range sorted {
		points[i] = ValuationPoint{
			Date:         v.Date,
			MarketValue:  v.TotalValue,
			ExternalFlow: v.ExternalFlow(),
		}
	}
	return points
}
