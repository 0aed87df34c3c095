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
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLot is one acquisition, the unit of FIFO accounting. CostPerShare
// is frozen at creation; only RemainingShares decreases over time.
type PurchaseLot struct {
	ID              string
	Date            time.Time
	Shares          decimal.Decimal
	CostPerShare    decimal.Decimal
	TotalCost       decimal.Decimal
	RemainingShares decimal.Decimal
	Fees            decimal.Decimal
}

// LotConsumed records one lot's contribution to a sale or transfer.
type LotConsumed struct {
	LotID     string
	LotDate   time.Time
	Shares    decimal.Decimal
	CostBasis decimal.Decimal
}

// GainTermSplit separates realized gain on a sale into its long-term and
// short-term components, derived from the same per-lot holding-period check
// used for the ledger's is_long_term flag (supplemental to spec.md §4.3:
// the holding-period threshold is usually queried per-ledger, but the
// per-lot data is already produced by the FIFO walk below).
type GainTermSplit struct {
	LongTerm  decimal.Decimal
	ShortTerm decimal.Decimal
}

// SaleResult is the output of LotLedger.ProcessSale.
type SaleResult struct {
	SharesSold          decimal.Decimal
	SharesRequested     decimal.Decimal
	TotalCostBasis      decimal.Decimal
	TotalProceeds       decimal.Decimal
	RealizedGain        decimal.Decimal
	RealizedGainPercent decimal.Decimal
	GainTerm            GainTermSplit
	LotsUsed            []LotConsumed
}

// TransferredLots is the output of LotLedger.ProcessTransfer: new lot
// records for a destination ledger that preserve the original acquisition
// date and a proportional slice of fees.
type TransferredLots struct {
	SharesTransferred decimal.Decimal
	Lots              []*PurchaseLot
}

// CostBasisSummary is the output of LotLedger.Summary, computed over active
// (RemainingShares > 0) lots only.
type CostBasisSummary struct {
	TotalShares     decimal.Decimal
	TotalCostBasis  decimal.Decimal
	AvgCost         decimal.Decimal
	CurrentPrice    decimal.Decimal
	MarketValue     decimal.Decimal
	UnrealizedGain  decimal.Decimal
}

const longTermHoldingDays = 365

// LotLedger is a mutable, securities-keyed FIFO cost-basis store. It is
// always instantiated per request: built, populated, queried, and discarded
// within one analysis call (spec.md §5, §9).
type LotLedger struct {
	lots map[string][]*PurchaseLot
}

// NewLotLedger returns an empty ledger.
func NewLotLedger() *LotLedger {
	return &LotLedger{lots: make(map[string][]*PurchaseLot)}
}

// AddPurchase records a new lot. Lots are kept sorted ascending by date.
func (l *LotLedger) AddPurchase(security string, date time.Time, shares, totalCost, fees decimal.Decimal) *PurchaseLot {
	lot := &PurchaseLot{
		ID:              uuid.NewString(),
		Date:            date,
		Shares:          shares,
		TotalCost:       totalCost,
		RemainingShares: shares,
		Fees:            fees,
	}
	if shares.IsPositive() {
		lot.CostPerShare = totalCost.Div(shares)
	}

	existing := l.lots[security]
	idx := len(existing)
	for i, other := range existing {
		if date.Before(other.Date) {
			idx = i
			break
		}
	}
	existing = append(existing, nil)
	copy(existing[idx+1:], existing[idx:])
	existing[idx] = lot
	l.lots[security] = existing

	return lot
}

// activeLots returns lots with RemainingShares > 0, in FIFO (date-ascending)
// order. Zero-remaining lots stay in the ledger for audit (spec.md §4.3)
// but are excluded here.
func (l *LotLedger) activeLots(security string) []*PurchaseLot {
	all := l.lots[security]
	active := make([]*PurchaseLot, 0, len(all))
	for _, lot := range all {
		if lot.RemainingShares.IsPositive() {
			active = append(active, lot)
		}
	}
	return active
}

// consume walks lots oldest-first, consuming up to `shares` total across
// them, and returns the per-lot consumption records plus shares actually
// consumed. The ledger never goes negative: requesting more than available
// silently yields fewer shares consumed than requested (spec.md §4.3 "Sale
// algorithm").
func (l *LotLedger) consume(security string, shares decimal.Decimal) ([]LotConsumed, decimal.Decimal) {
	remaining := shares
	consumed := make([]LotConsumed, 0, 4)

	for _, lot := range l.lots[security] {
		if !remaining.IsPositive() {
			break
		}
		if !lot.RemainingShares.IsPositive() {
			continue
		}

		take := decimal.Min(remaining, lot.RemainingShares)
		costBasis := take.Mul(lot.CostPerShare)

		lot.RemainingShares = lot.RemainingShares.Sub(take)
		remaining = remaining.Sub(take)

		consumed = append(consumed, LotConsumed{
			LotID:     lot.ID,
			LotDate:   lot.Date,
			Shares:    take,
			CostBasis: costBasis,
		})
	}

	sharesConsumed := shares.Sub(remaining)
	return consumed, sharesConsumed
}

// ProcessSale realizes a FIFO sale. If shares exceeds what is available,
// SharesSold is clamped below SharesRequested rather than erroring
// (spec.md §9 "Open question — short sales").
func (l *LotLedger) ProcessSale(security string, shares, price decimal.Decimal, asOf time.Time) SaleResult {
	consumed, sold := l.consume(security, shares)

	var basis decimal.Decimal
	var longGain, shortGain decimal.Decimal
	cutoff := asOf.AddDate(0, 0, -longTermHoldingDays)

	for _, c := range consumed {
		basis = basis.Add(c.CostBasis)
		gain := c.Shares.Mul(price).Sub(c.CostBasis)
		if c.LotDate.Before(cutoff) {
			longGain = longGain.Add(gain)
		} else {
			shortGain = shortGain.Add(gain)
		}
	}

	proceeds := sold.Mul(price)
	gain := proceeds.Sub(basis)

	var gainPercent decimal.Decimal
	if basis.IsPositive() {
		gainPercent = gain.Div(basis).Mul(decimal.NewFromInt(100))
	}

	return SaleResult{
		SharesSold:          sold,
		SharesRequested:     shares,
		TotalCostBasis:      basis,
		TotalProceeds:       proceeds,
		RealizedGain:        gain,
		RealizedGainPercent: gainPercent,
		GainTerm:            GainTermSplit{LongTerm: longGain, ShortTerm: shortGain},
		LotsUsed:            consumed,
	}
}

// ProcessTransfer performs the same FIFO consumption as a sale, but instead
// of realizing gain it produces new lot records preserving the original
// acquisition date (for holding-period continuity) and a proportional
// slice of fees. The destination ledger is the caller's responsibility
// (spec.md §4.3 "Transfer algorithm").
func (l *LotLedger) ProcessTransfer(security string, shares decimal.Decimal, _ time.Time) TransferredLots {
	consumed, transferred := l.consume(security, shares)

	out := make([]*PurchaseLot, 0, len(consumed))
	for _, c := range consumed {
		var srcFees, srcShares decimal.Decimal
		for _, lot := range l.lots[security] {
			if lot.ID == c.LotID {
				srcFees = lot.Fees
				srcShares = lot.Shares
				break
			}
		}

		var fees decimal.Decimal
		if srcShares.IsPositive() {
			fees = srcFees.Mul(c.Shares).Div(srcShares)
		}

		out = append(out, &PurchaseLot{
			ID:              uuid.NewString(),
			Date:            c.LotDate,
			Shares:          c.Shares,
			CostPerShare:    c.CostBasis.Div(c.Shares),
			TotalCost:       c.CostBasis.Add(fees),
			RemainingShares: c.Shares,
			Fees:            fees,
		})
	}

	return TransferredLots{SharesTransferred: transferred, Lots: out}
}

// Summary reports cost-basis and unrealized-gain figures over active lots
// only (spec.md §4.3 "Summary"). The ledger never consults market data;
// currentPrice is supplied by the caller.
func (l *LotLedger) Summary(security string, currentPrice decimal.Decimal) CostBasisSummary {
	var shares, basis decimal.Decimal
	for _, lot := range l.activeLots(security) {
		shares = shares.Add(lot.RemainingShares)
		basis = basis.Add(lot.RemainingShares.Mul(lot.CostPerShare))
	}

	var avgCost decimal.Decimal
	if shares.IsPositive() {
		avgCost = basis.Div(shares)
	}

	marketValue := shares.Mul(currentPrice)

	return CostBasisSummary{
		TotalShares:    shares,
		TotalCostBasis: basis,
		AvgCost:        avgCost,
		CurrentPrice:   currentPrice,
		MarketValue:    marketValue,
		UnrealizedGain: marketValue.Sub(basis),
	}
}

// OldestHoldingDays returns the age in days of the oldest active lot as of
// asOf, or ok=false if there are no active lots.
func (l *LotLedger) OldestHoldingDays(security string, asOf time.Time) (int, bool) {
	active := l.activeLots(security)
	if len(active) == 0 {
		return 0, false
	}

	oldest := active[0]
	for _, lot := range active[1:] {
		if lot.Date.Before(oldest.Date) {
			oldest = lot
		}
	}

	days := int(asOf.Sub(oldest.Date).Hours() / hoursPerDay)
	return days, true
}

// IsLongTerm reports whether a security's oldest holding period exceeds the
// caller-supplied threshold (spec.md §4.3 "Holding-period flag").
func (l *LotLedger) IsLongTerm(security string, asOf time.Time, thresholdDays int) bool {
	days, ok := l.OldestHoldingDays(security, asOf)
	return ok && days > thresholdDays
}

// NetShares is the sum of RemainingShares across all lots (active and
// inactive) for a security — the invariant spec.md §3 requires to always
// equal net purchases minus FIFO-consumed shares.
func (l *LotLedger) NetShares(security string) decimal.Decimal {
	var total decimal.Decimal
	for _, lot := range l.lots[security] {
		total = total.Add(lot.RemainingShares)
	}
	return total
}

// Clear discards all lots across all securities.
func (l *LotLedger) Clear() {
	l.lots = make(map[string][]*PurchaseLot)
}
