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

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// PerformanceResult is the output of CalculatePerformance (engine-exposed
// operation 4, spec.md §6).
type PerformanceResult struct {
	IRR    IRRResult
	TTWROR TTWRORResult

	CapitalGains decimal.Decimal
	Dividends    decimal.Decimal
	Fees         decimal.Decimal
	Taxes        decimal.Decimal

	AbsolutePerf        decimal.Decimal
	AbsolutePerfPercent decimal.Decimal

	// NetInvested is deposits minus withdrawals over the window
	// (supplemental to spec.md, SPEC_FULL §4: mirrors ghostfolio's
	// netPerformance complement).
	NetInvested decimal.Decimal

	// TTWRORStdDev is the sample standard deviation of the per-period TTWROR
	// sub-returns (supplemental, SPEC_FULL §3), a volatility figure the core
	// contract does not ask for but the data already in hand supports.
	TTWRORStdDev float64
}

// HoldingPerformanceResult is the output of CalculateHoldingPerformance
// (engine-exposed operation 5, spec.md §6).
type HoldingPerformanceResult struct {
	IRR               IRRResult
	CostBasisSummary  CostBasisSummary
	OldestHoldingDays *int
	IsLongTerm        bool
}

// CalculatePerformance composes C1 (IRR), C2 (TTWROR) and C3 (LotLedger) to
// produce combined portfolio-level metrics from an activity stream and a
// daily valuation series (spec.md §6 operation 4). start is accepted for
// symmetry with the operation signature; only valuations/activities on or
// before end are considered.
func CalculatePerformance(activities []*Activity, valuations []*Valuation, start, end time.Time, currentValue decimal.Decimal) PerformanceResult {
	_ = start

	sortedActivities := SortActivities(activities)
	sortedValuations := SortValuations(valuations)

	flows := make([]CashFlow, 0, len(sortedActivities)+len(sortedValuations))
	var dividends, fees, netInvested decimal.Decimal

	for _, a := range sortedActivities {
		if a.Date.After(end) {
			continue
		}
		if cf, ok := a.ToCashFlow(); ok {
			flows = append(flows, cf)
		}
		if a.Kind == ActivityDividend {
			dividends = dividends.Add(a.Value())
		}
		fees = fees.Add(a.Fee)
	}

	inWindow := make([]*Valuation, 0, len(sortedValuations))
	for _, v := range sortedValuations {
		if v.Date.After(end) {
			continue
		}
		inWindow = append(inWindow, v)
		if cf, ok := v.ToCashFlow(); ok {
			flows = append(flows, cf)
		}
		netInvested = netInvested.Add(v.ExternalFlow())
	}

	irr := SolveIRR(flows, currentValue, end)

	points := ValuationPoints(inWindow)
	ttwror := AccumulateTTWROR(points)

	capitalGains := realizedCapitalGains(sortedActivities, end)

	var absPerf, absPerfPercent decimal.Decimal
	absPerf = currentValue.Sub(netInvested)
	if netInvested.IsPositive() {
		absPerfPercent = absPerf.Div(netInvested).Mul(decimal.NewFromInt(100))
	}

	return PerformanceResult{
		IRR:                 irr,
		TTWROR:              ttwror,
		CapitalGains:         capitalGains,
		Dividends:            dividends,
		Fees:                 fees,
		Taxes:                decimal.Zero,
		AbsolutePerf:         absPerf,
		AbsolutePerfPercent:  absPerfPercent,
		NetInvested:          netInvested,
		TTWRORStdDev:         stdevOfSeries(ttwror.Series),
	}
}

// realizedCapitalGains replays the full activity stream into a fresh,
// per-symbol FIFO ledger and sums every sale's realized gain (spec.md §4.3).
// The ledger is built and discarded within this call (spec.md §5, §9).
func realizedCapitalGains(activities []*Activity, end time.Time) decimal.Decimal {
	ledger := NewLotLedger()
	var total decimal.Decimal

	for _, a := range activities {
		if a.Date.After(end) {
			continue
		}
		switch a.Kind {
		case ActivityBuy:
			ledger.AddPurchase(a.Symbol, a.Date, a.Quantity, a.Value().Add(a.Fee), a.Fee)
		case ActivitySell:
			result := ledger.ProcessSale(a.Symbol, a.Quantity, a.UnitPrice, a.Date)
			total = total.Add(result.RealizedGain)
		}
	}

	return total
}

// stdevOfSeries computes the sample standard deviation of a cumulative
// factor series expressed as period-over-period returns, using
// gonum.org/v1/gonum/stat. Fewer than two usable points yields 0.
func stdevOfSeries(series []decimal.Decimal) float64 {
	if len(series) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev, _ := series[i-1].Float64()
		curr, _ := series[i].Float64()
		if prev == 0 {
			continue
		}
		returns = append(returns, curr/prev-1)
	}

	if len(returns) < 2 {
		return 0
	}

	return stat.StdDev(returns, nil)
}

// CalculateHoldingPerformance composes C1 and C3 for a single security
// (spec.md §6 operation 5). activities is expected to already be scoped to
// symbol by the caller; entries for other symbols are ignored defensively.
func CalculateHoldingPerformance(symbol string, activities []*Activity, currentPrice decimal.Decimal, end time.Time) HoldingPerformanceResult {
	sorted := SortActivities(activities)
	ledger := NewLotLedger()

	flows := make([]CashFlow, 0, len(sorted))
	for _, a := range sorted {
		if a.Symbol != symbol || a.Date.After(end) {
			continue
		}

		if cf, ok := a.ToCashFlow(); ok {
			flows = append(flows, cf)
		}

		switch a.Kind {
		case ActivityBuy:
			ledger.AddPurchase(symbol, a.Date, a.Quantity, a.Value().Add(a.Fee), a.Fee)
		case ActivitySell:
			ledger.ProcessSale(symbol, a.Quantity, a.UnitPrice, a.Date)
		}
	}

	summary := ledger.Summary(symbol, currentPrice)
	endValue := summary.TotalShares.Mul(currentPrice)

	irr := SolveIRR(flows, endValue, end)

	var oldestDays *int
	if days, ok := ledger.OldestHoldingDays(symbol, end); ok {
		oldestDays = &days
	}

	return HoldingPerformanceResult{
		IRR:               irr,
		CostBasisSummary:  summary,
		OldestHoldingDays: oldestDays,
		IsLongTerm:        ledger.IsLongTerm(symbol, end, longTermHoldingDays),
	}
}
