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
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculatePerformance_CapitalGainsDividendsFees(t *testing.T) {
	activities := []*Activity{
		{Date: mustDate("2023-01-01"), Kind: ActivityBuy, Symbol: "AAPL", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100), Fee: decimal.NewFromInt(5)},
		{Date: mustDate("2023-06-01"), Kind: ActivityDividend, Symbol: "AAPL", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20)},
		{Date: mustDate("2023-09-01"), Kind: ActivitySell, Symbol: "AAPL", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(130), Fee: decimal.NewFromInt(2)},
	}
	valuations := []*Valuation{
		{Date: mustDate("2023-01-01"), TotalValue: decimal.NewFromInt(1005), Deposits: decimal.NewFromInt(1005)},
		{Date: mustDate("2024-01-01"), TotalValue: decimal.NewFromInt(900)},
	}

	result := CalculatePerformance(activities, valuations, mustDate("2023-01-01"), mustDate("2024-01-01"), decimal.NewFromInt(900))

	if !result.Dividends.Equal(decimal.NewFromInt(20)) {
		t.Errorf("dividends = %v, want 20", result.Dividends)
	}
	if !result.Fees.Equal(decimal.NewFromInt(7)) {
		t.Errorf("fees = %v, want 7", result.Fees)
	}
	// The lot's cost includes the 5 buy fee: (1000+5)/10 = 100.5 per share.
	// 4 shares sold at 130: realized gain = 4*130 - 4*100.5 = 520 - 402 = 118.
	if !result.CapitalGains.Equal(decimal.NewFromInt(118)) {
		t.Errorf("capital_gains = %v, want 118", result.CapitalGains)
	}
	if !result.NetInvested.Equal(decimal.NewFromInt(1005)) {
		t.Errorf("net_invested = %v, want 1005", result.NetInvested)
	}
}

func TestCalculateHoldingPerformance(t *testing.T) {
	activities := []*Activity{
		{Date: mustDate("2023-01-01"), Kind: ActivityBuy, Symbol: "AAPL", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100)},
	}

	result := CalculateHoldingPerformance("AAPL", activities, decimal.NewFromInt(150), mustDate("2024-06-01"))

	if !result.CostBasisSummary.TotalShares.Equal(decimal.NewFromInt(10)) {
		t.Errorf("total_shares = %v, want 10", result.CostBasisSummary.TotalShares)
	}
	if !result.IsLongTerm {
		t.Errorf("expected long-term holding classification")
	}
	if result.OldestHoldingDays == nil || *result.OldestHoldingDays < 365 {
		t.Errorf("oldest_holding_days = %v, want >= 365", result.OldestHoldingDays)
	}
}
