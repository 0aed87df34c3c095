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

func TestValuation_ToCashFlow_NetsDepositsAgainstWithdrawals(t *testing.T) {
	v := Valuation{
		Date:        mustDate("2023-01-01"),
		Deposits:    decimal.NewFromInt(100),
		Withdrawals: decimal.NewFromInt(30),
	}

	cf, ok := v.ToCashFlow()
	if !ok {
		t.Fatal("expected a cash flow")
	}
	if cf.Kind != CashFlowDeposit {
		t.Errorf("kind = %v, want DEPOSIT", cf.Kind)
	}
	if !cf.Amount.Equal(decimal.NewFromInt(-70)) {
		t.Errorf("amount = %v, want -70", cf.Amount)
	}
}

func TestValuation_ToCashFlow_NetWithdrawal(t *testing.T) {
	v := Valuation{
		Date:        mustDate("2023-01-01"),
		Deposits:    decimal.NewFromInt(30),
		Withdrawals: decimal.NewFromInt(100),
	}

	cf, ok := v.ToCashFlow()
	if !ok {
		t.Fatal("expected a cash flow")
	}
	if cf.Kind != CashFlowWithdrawal {
		t.Errorf("kind = %v, want WITHDRAWAL", cf.Kind)
	}
	if !cf.Amount.Equal(decimal.NewFromInt(70)) {
		t.Errorf("amount = %v, want 70", cf.Amount)
	}
}

func TestValuation_ToCashFlow_EqualDepositsAndWithdrawalsIsNoFlow(t *testing.T) {
	v := Valuation{
		Date:        mustDate("2023-01-01"),
		Deposits:    decimal.NewFromInt(50),
		Withdrawals: decimal.NewFromInt(50),
	}

	if _, ok := v.ToCashFlow(); ok {
		t.Error("expected no cash flow when deposits and withdrawals offset exactly")
	}
}
