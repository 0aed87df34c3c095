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
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSolveIRR_SingleBuy(t *testing.T) {
	flows := []CashFlow{
		{Date: mustDate("2023-01-01"), Amount: decimal.NewFromInt(-1000), Kind: CashFlowBuy},
	}

	result := SolveIRR(flows, decimal.NewFromInt(1100), mustDate("2024-01-01"))

	if !result.Converged {
		t.Fatalf("expected convergence")
	}
	if math.Abs(*result.IRR-0.10) > 1e-3 {
		t.Errorf("irr = %v, want ~0.10", *result.IRR)
	}
	if math.Abs(*result.IRRAnnualized-0.10) > 1e-3 {
		t.Errorf("irr_annualized = %v, want ~0.10", *result.IRRAnnualized)
	}
}

func TestSolveIRR_DoublingOverTwoYears(t *testing.T) {
	flows := []CashFlow{
		{Date: mustDate("2022-01-01"), Amount: decimal.NewFromInt(-1000), Kind: CashFlowBuy},
	}

	result := SolveIRR(flows, decimal.NewFromInt(2000), mustDate("2024-01-01"))

	if !result.Converged {
		t.Fatalf("expected convergence")
	}
	if math.Abs(*result.IRR-1.00) > 1e-3 {
		t.Errorf("irr = %v, want ~1.00", *result.IRR)
	}
	if math.Abs(*result.IRRAnnualized-0.414) > 1e-3 {
		t.Errorf("irr_annualized = %v, want ~0.414", *result.IRRAnnualized)
	}
}

func TestSolveIRR_EmptyFlows(t *testing.T) {
	result := SolveIRR(nil, decimal.Zero, mustDate("2024-01-01"))

	if result.IRR != nil || result.IRRAnnualized != nil {
		t.Errorf("expected nil IRR/IRRAnnualized for empty input, got %v / %v", result.IRR, result.IRRAnnualized)
	}
}

func TestSolveIRR_DegenerateZeroFlows(t *testing.T) {
	flows := []CashFlow{
		{Date: mustDate("2023-01-01"), Amount: decimal.Zero, Kind: CashFlowBuy},
	}

	result := SolveIRR(flows, decimal.Zero, mustDate("2024-01-01"))

	if result.IRR != nil {
		t.Errorf("expected nil IRR when total absolute flow and end value are both zero, got %v", *result.IRR)
	}
}

func TestSolveIRR_ZeroHoldingPeriodDoesNotPanic(t *testing.T) {
	d := mustDate("2023-06-01")
	flows := []CashFlow{
		{Date: d, Amount: decimal.NewFromInt(-500), Kind: CashFlowBuy},
	}

	result := SolveIRR(flows, decimal.NewFromInt(500), d)

	if result.IRR == nil {
		t.Fatalf("expected a non-nil result for a same-day buy/end")
	}
}
