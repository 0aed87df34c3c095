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
	"testing"

	"github.com/shopspring/decimal"
)

func driftStrategy() Strategy {
	return Strategy{
		ID:             "s1",
		Name:           "balanced",
		IsActive:       true,
		DriftThreshold: decimal.NewFromInt(5),
		ClassTargets: []AssetClassTarget{
			{
				AssetClass:    AssetClassEquity,
				TargetPercent: decimal.NewFromInt(60),
				SubClasses: []AssetSubClassTarget{
					{AssetSubClass: AssetSubClassStock, TargetPercent: decimal.NewFromInt(100)},
				},
			},
			{
				AssetClass:    AssetClassDebt,
				TargetPercent: decimal.NewFromInt(40),
				SubClasses: []AssetSubClassTarget{
					{AssetSubClass: AssetSubClassBond, TargetPercent: decimal.NewFromInt(100)},
				},
			},
		},
	}
}

func TestAnalyzeAllocationDrift(t *testing.T) {
	holdings := []Holding{
		{Symbol: "VTI", DataSource: "tiingo", AssetClass: AssetClassEquity, AssetSubClass: AssetSubClassStock, Quantity: decimal.NewFromInt(100), MarketPrice: decimal.NewFromInt(70), Value: decimal.NewFromInt(7000)},
		{Symbol: "BND", DataSource: "tiingo", AssetClass: AssetClassDebt, AssetSubClass: AssetSubClassBond, Quantity: decimal.NewFromInt(100), MarketPrice: decimal.NewFromInt(30), Value: decimal.NewFromInt(3000)},
	}

	analysis := Analyze(driftStrategy(), holdings)

	if !analysis.PortfolioValue.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected portfolio value 10000, got %s", analysis.PortfolioValue)
	}

	equity := analysis.ClassRows[0]
	if !equity.DriftPercent.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected equity drift +10, got %s", equity.DriftPercent)
	}
	if equity.Status != StatusCritical {
		t.Fatalf("expected equity status CRITICAL, got %s", equity.Status)
	}

	debt := analysis.ClassRows[1]
	if !debt.DriftPercent.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("expected debt drift -10, got %s", debt.DriftPercent)
	}
	if debt.Status != StatusCritical {
		t.Fatalf("expected debt status CRITICAL, got %s", debt.Status)
	}

	if analysis.OverallStatus != StatusCritical {
		t.Fatalf("expected overall status CRITICAL, got %s", analysis.OverallStatus)
	}

	suggestions := GenerateSuggestions(driftStrategy(), holdings, analysis)
	var sellTotal, buyTotal decimal.Decimal
	for _, s := range suggestions {
		switch s.Action {
		case ActionSell:
			sellTotal = sellTotal.Add(s.SuggestedAmount)
		case ActionBuy:
			buyTotal = buyTotal.Add(s.SuggestedAmount)
		}
	}
	if sellTotal.GreaterThan(decimal.NewFromInt(1000)) {
		t.Fatalf("sell total %s exceeds drift value 1000 (share-floored, should be <=)", sellTotal)
	}
	if !sellTotal.GreaterThan(decimal.NewFromInt(900)) {
		t.Fatalf("sell total %s should be close to 1000", sellTotal)
	}
	if !buyTotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected buy total 1000, got %s", buyTotal)
	}
}

func TestAnalyzeExclusionReducesPortfolioValue(t *testing.T) {
	strategy := driftStrategy()
	strategy.Exclusions = []Exclusion{
		{SymbolProfileID: exclusionKey("tiingo", "VTI"), ExcludeFromCalculation: true},
	}

	holdings := []Holding{
		{Symbol: "VTI", DataSource: "tiingo", AssetClass: AssetClassEquity, AssetSubClass: AssetSubClassStock, Quantity: decimal.NewFromInt(20), MarketPrice: decimal.NewFromInt(100), Value: decimal.NewFromInt(2000)},
		{Symbol: "QQQ", DataSource: "tiingo", AssetClass: AssetClassEquity, AssetSubClass: AssetSubClassStock, Quantity: decimal.NewFromInt(100), MarketPrice: decimal.NewFromInt(50), Value: decimal.NewFromInt(5000)},
		{Symbol: "BND", DataSource: "tiingo", AssetClass: AssetClassDebt, AssetSubClass: AssetSubClassBond, Quantity: decimal.NewFromInt(100), MarketPrice: decimal.NewFromInt(30), Value: decimal.NewFromInt(3000)},
	}

	analysis := Analyze(strategy, holdings)

	if !analysis.PortfolioValue.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("expected portfolio value 8000 after exclusion, got %s", analysis.PortfolioValue)
	}
	if !analysis.ExcludedValue.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected excluded value 2000, got %s", analysis.ExcludedValue)
	}
}

func TestValidateClassTargetsRejectsOverage(t *testing.T) {
	targets := []AssetClassTarget{
		{AssetClass: AssetClassEquity, TargetPercent: decimal.NewFromInt(70)},
		{AssetClass: AssetClassDebt, TargetPercent: decimal.NewFromInt(40)},
	}
	if err := ValidateClassTargets(targets); err == nil {
		t.Fatal("expected validation error for targets summing to 110")
	}
}

func TestValidateClassTargetsRejectsInvalidSubClass(t *testing.T) {
	targets := []AssetClassTarget{
		{
			AssetClass:    AssetClassEquity,
			TargetPercent: decimal.NewFromInt(100),
			SubClasses: []AssetSubClassTarget{
				{AssetSubClass: AssetSubClassBond, TargetPercent: decimal.NewFromInt(100)},
			},
		},
	}
	if err := ValidateClassTargets(targets); err == nil {
		t.Fatal("expected validation error for BOND under EQUITY")
	}
}

func TestSummarizeNoActiveStrategy(t *testing.T) {
	summary := Summarize(nil, nil)
	if summary.HasActiveStrategy {
		t.Fatal("expected HasActiveStrategy false")
	}
	if summary.OverallStatus != StatusNoStrategy {
		t.Fatalf("expected NO_STRATEGY, got %s", summary.OverallStatus)
	}
}
