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
	"encoding/hex"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/blake3"
)

// ActivityKind identifies the type of a financial event.
type ActivityKind string

const (
	ActivityBuy       ActivityKind = "BUY"
	ActivitySell      ActivityKind = "SELL"
	ActivityDividend  ActivityKind = "DIVIDEND"
	ActivityInterest  ActivityKind = "INTEREST"
	ActivityFee       ActivityKind = "FEE"
	ActivityItem      ActivityKind = "ITEM"
	ActivityLiability ActivityKind = "LIABILITY"
)

// Activity is an observed, append-only financial event. The engine never
// mutates an Activity once constructed.
type Activity struct {
	Date       time.Time
	Kind       ActivityKind
	Symbol     string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Fee        decimal.Decimal
	ValueOverride *decimal.Decimal
}

// Value returns Quantity*UnitPrice unless an explicit override was supplied.
func (a *Activity) Value() decimal.Decimal {
	if a.ValueOverride != nil {
		return *a.ValueOverride
	}
	return a.Quantity.Mul(a.UnitPrice)
}

// SourceID is a stable, deterministic identifier for the activity derived
// from its observable fields. Replaying the same activity stream twice
// produces identical SourceIDs, which lets callers detect duplicate
// ingestion.
func (a *Activity) SourceID() string {
	h := blake3.New()
	h.Write([]byte(a.Date.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(a.Kind))
	h.Write([]byte(a.Symbol))
	h.Write([]byte(a.Quantity.String()))
	h.Write([]byte(a.UnitPrice.String()))
	h.Write([]byte(a.Fee.String()))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// CashFlowKind tags the origin of a CashFlow. It is a superset of
// ActivityKind because portfolio-level cash flows (DEPOSIT/WITHDRAWAL) come
// from Valuation.external_flow, not from any Activity.
type CashFlowKind string

const (
	CashFlowBuy        CashFlowKind = "BUY"
	CashFlowSell       CashFlowKind = "SELL"
	CashFlowDividend   CashFlowKind = "DIVIDEND"
	CashFlowInterest   CashFlowKind = "INTEREST"
	CashFlowFee        CashFlowKind = "FEE"
	CashFlowDeposit    CashFlowKind = "DEPOSIT"
	CashFlowWithdrawal CashFlowKind = "WITHDRAWAL"
)

// CashFlow is the internal, signed representation of a cash-impacting event
// used by the IRR solver. Negative amounts are outflows from the investor's
// point of view (BUY/FEE/DEPOSIT); positive amounts are inflows
// (SELL/DIVIDEND/INTEREST/WITHDRAWAL).
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
	Kind   CashFlowKind
}

// ToCashFlow converts an Activity into its signed CashFlow per spec.md's
// sign convention. ITEM and LIABILITY activities carry no cash impact and
// are excluded by returning ok=false. Used to build the holding-level cash
// flow stream consumed by holding_performance (spec.md §6, operation 5).
func (a *Activity) ToCashFlow() (CashFlow, bool) {
	value := a.Value()
	fee := a.Fee

	switch a.Kind {
	case ActivityBuy:
		return CashFlow{Date: a.Date, Amount: value.Add(fee).Neg(), Kind: CashFlowBuy}, true
	case ActivityFee:
		return CashFlow{Date: a.Date, Amount: fee.Neg(), Kind: CashFlowFee}, true
	case ActivitySell:
		return CashFlow{Date: a.Date, Amount: value.Sub(fee), Kind: CashFlowSell}, true
	case ActivityDividend:
		return CashFlow{Date: a.Date, Amount: value, Kind: CashFlowDividend}, true
	case ActivityInterest:
		return CashFlow{Date: a.Date, Amount: value, Kind: CashFlowInterest}, true
	default:
		return CashFlow{}, false
	}
}

// SortActivities sorts activities by date ascending; ties break by the
// order they appear in the input (stable sort), per spec.md §5's ordering
// guarantee.
func SortActivities(activities []*Activity) []*Activity {
	sorted := make([]*Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
