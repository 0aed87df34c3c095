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

func TestProcessSale_FIFOAcrossTwoLots(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2023-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)
	ledger.AddPurchase("AAPL", mustDate("2023-02-01"), decimal.NewFromInt(10), decimal.NewFromInt(1200), decimal.Zero)

	result := ledger.ProcessSale("AAPL", decimal.NewFromInt(15), decimal.NewFromInt(130), mustDate("2023-03-01"))

	if !result.TotalCostBasis.Equal(decimal.NewFromInt(1600)) {
		t.Errorf("cost_basis = %v, want 1600", result.TotalCostBasis)
	}
	if !result.TotalProceeds.Equal(decimal.NewFromInt(1950)) {
		t.Errorf("proceeds = %v, want 1950", result.TotalProceeds)
	}
	if !result.RealizedGain.Equal(decimal.NewFromInt(350)) {
		t.Errorf("realized_gain = %v, want 350", result.RealizedGain)
	}
	if len(result.LotsUsed) != 2 {
		t.Fatalf("expected 2 lots consumed, got %d", len(result.LotsUsed))
	}
}

func TestProcessSale_ClampsShortSale(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2023-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)

	result := ledger.ProcessSale("AAPL", decimal.NewFromInt(15), decimal.NewFromInt(130), mustDate("2023-03-01"))

	if !result.SharesSold.Equal(decimal.NewFromInt(10)) {
		t.Errorf("shares_sold = %v, want clamped to 10", result.SharesSold)
	}
	if result.SharesSold.GreaterThan(result.SharesRequested) {
		t.Errorf("shares_sold must never exceed shares_requested")
	}
}

func TestProcessSale_ZeroRemainingLotRetainedForAudit(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2023-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)
	ledger.ProcessSale("AAPL", decimal.NewFromInt(10), decimal.NewFromInt(150), mustDate("2023-03-01"))

	if len(ledger.lots["AAPL"]) != 1 {
		t.Fatalf("expected the exhausted lot to remain in the ledger, got %d lots", len(ledger.lots["AAPL"]))
	}
	if !ledger.lots["AAPL"][0].RemainingShares.IsZero() {
		t.Errorf("expected RemainingShares == 0 on the exhausted lot")
	}
	if len(ledger.activeLots("AAPL")) != 0 {
		t.Errorf("exhausted lot must not appear in active lots")
	}
}

func TestSummary_UnrealizedGain(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2023-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)

	summary := ledger.Summary("AAPL", decimal.NewFromInt(150))

	if !summary.TotalShares.Equal(decimal.NewFromInt(10)) {
		t.Errorf("total_shares = %v, want 10", summary.TotalShares)
	}
	if !summary.UnrealizedGain.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unrealized_gain = %v, want 500", summary.UnrealizedGain)
	}
}

func TestSellThenBuySameShares_LeavesZeroUnrealizedGain(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2023-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)
	ledger.ProcessSale("AAPL", decimal.NewFromInt(10), decimal.NewFromInt(100), mustDate("2023-02-01"))
	ledger.AddPurchase("AAPL", mustDate("2023-02-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)

	summary := ledger.Summary("AAPL", decimal.NewFromInt(100))

	if !summary.UnrealizedGain.IsZero() {
		t.Errorf("unrealized_gain = %v, want 0 after selling then repurchasing the same shares at the same price", summary.UnrealizedGain)
	}
}

func TestIsLongTerm(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2022-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)

	if !ledger.IsLongTerm("AAPL", mustDate("2023-06-01"), 365) {
		t.Errorf("expected long-term classification for a lot held over 365 days")
	}
	if ledger.IsLongTerm("AAPL", mustDate("2022-03-01"), 365) {
		t.Errorf("expected short-term classification for a recently acquired lot")
	}
}

func TestProcessTransfer_PreservesAcquisitionDateAndProportionalFees(t *testing.T) {
	ledger := NewLotLedger()
	ledger.AddPurchase("AAPL", mustDate("2022-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.NewFromInt(10))

	transfer := ledger.ProcessTransfer("AAPL", decimal.NewFromInt(4), mustDate("2023-01-01"))

	if !transfer.SharesTransferred.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("shares_transferred = %v, want 4", transfer.SharesTransferred)
	}
	if len(transfer.Lots) != 1 {
		t.Fatalf("expected 1 transferred lot, got %d", len(transfer.Lots))
	}

	lot := transfer.Lots[0]
	if !lot.Date.Equal(mustDate("2022-01-01")) {
		t.Errorf("transferred lot date = %v, want original acquisition date", lot.Date)
	}
	if !lot.Fees.Equal(decimal.NewFromInt(4)) {
		t.Errorf("transferred lot fees = %v, want 4 (10 * 4/10)", lot.Fees)
	}
}

func TestReplayActivityStreamTwice_ProducesEqualSummaries(t *testing.T) {
	build := func() *LotLedger {
		ledger := NewLotLedger()
		ledger.AddPurchase("AAPL", mustDate("2023-01-01"), decimal.NewFromInt(10), decimal.NewFromInt(1000), decimal.Zero)
		ledger.AddPurchase("AAPL", mustDate("2023-02-01"), decimal.NewFromInt(10), decimal.NewFromInt(1200), decimal.Zero)
		ledger.ProcessSale("AAPL", decimal.NewFromInt(5), decimal.NewFromInt(130), mustDate("2023-03-01"))
		return ledger
	}

	a, b := build(), build()
	sa, sb := a.Summary("AAPL", decimal.NewFromInt(150)), b.Summary("AAPL", decimal.NewFromInt(150))

	if !sa.TotalShares.Equal(sb.TotalShares) || !sa.TotalCostBasis.Equal(sb.TotalCostBasis) {
		t.Errorf("replaying the same activity stream twice produced different summaries: %+v vs %+v", sa, sb)
	}
}
