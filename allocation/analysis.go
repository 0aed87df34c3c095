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
	"github.com/shopspring/decimal"
)

// DriftStatus classifies a row's |drift| against a strategy's threshold.
type DriftStatus string

const (
	StatusOK         DriftStatus = "OK"
	StatusWarning    DriftStatus = "WARNING"
	StatusCritical   DriftStatus = "CRITICAL"
	StatusNoStrategy DriftStatus = "NO_STRATEGY"
)

// SubClassRow is the per-sub-class line of an allocation analysis. Targets
// and actuals are kept in both percent-of-parent and percent-of-total form;
// drift is always evaluated percent-of-total (see spec §9).
type SubClassRow struct {
	AssetSubClass         AssetSubClass
	TargetPercentOfParent decimal.Decimal
	TargetPercentOfTotal  decimal.Decimal
	TargetValue           decimal.Decimal
	ActualValue           decimal.Decimal
	ActualPercentOfTotal  decimal.Decimal
	ActualPercentOfParent decimal.Decimal
	DriftPercent          decimal.Decimal
	DriftValue            decimal.Decimal
	Status                DriftStatus
}

// ClassRow is the per-asset-class line of an allocation analysis, owning
// its nested sub-class rows.
type ClassRow struct {
	AssetClass    AssetClass
	TargetPercent decimal.Decimal
	TargetValue   decimal.Decimal
	ActualValue   decimal.Decimal
	ActualPercent decimal.Decimal
	DriftPercent  decimal.Decimal
	DriftValue    decimal.Decimal
	Status        DriftStatus
	SubClasses    []SubClassRow
}

// AllocationAnalysis is the full result of reconciling actual holdings
// against a strategy's two-level target tree.
type AllocationAnalysis struct {
	PortfolioValue decimal.Decimal
	ExcludedValue  decimal.Decimal
	DriftThreshold decimal.Decimal
	ClassRows      []ClassRow
	OverallStatus  DriftStatus
}

func exclusionKey(dataSource, symbol string) string {
	return dataSource + "|" + symbol
}

func driftStatus(drift, threshold decimal.Decimal) DriftStatus {
	abs := drift.Abs()
	half := threshold.Div(decimal.NewFromInt(2))
	switch {
	case abs.LessThan(half):
		return StatusOK
	case abs.LessThan(threshold):
		return StatusWarning
	default:
		return StatusCritical
	}
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.Sign() == 0 {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(hundred))
}

// Analyze reconciles holdings against a strategy's targets, producing the
// two-level drift report described in spec.md §4.4.1. Exclusions whose
// ExcludeFromCalculation flag is set are removed from both the actual
// figures and the portfolio_value denominator before percentages are
// computed.
func Analyze(strategy Strategy, holdings []Holding) AllocationAnalysis {
	excluded := make(map[string]Exclusion, len(strategy.Exclusions))
	for _, e := range strategy.Exclusions {
		excluded[e.SymbolProfileID] = e
	}

	portfolioValue := decimal.Zero
	excludedValue := decimal.Zero
	byClass := make(map[AssetClass]decimal.Decimal)
	bySubClass := make(map[AssetClass]map[AssetSubClass]decimal.Decimal)

	for _, h := range holdings {
		key := exclusionKey(h.DataSource, h.Symbol)
		if ex, ok := excluded[key]; ok && ex.ExcludeFromCalculation {
			excludedValue = excludedValue.Add(h.Value)
			continue
		}
		portfolioValue = portfolioValue.Add(h.Value)
		byClass[h.AssetClass] = byClass[h.AssetClass].Add(h.Value)
		if bySubClass[h.AssetClass] == nil {
			bySubClass[h.AssetClass] = make(map[AssetSubClass]decimal.Decimal)
		}
		bySubClass[h.AssetClass][h.AssetSubClass] = bySubClass[h.AssetClass][h.AssetSubClass].Add(h.Value)
	}

	rows := make([]ClassRow, 0, len(strategy.ClassTargets))
	maxAbsDrift := decimal.Zero

	for _, t := range strategy.ClassTargets {
		actualValue := byClass[t.AssetClass]
		actualPercent := percentOf(actualValue, portfolioValue)
		targetValue := t.TargetPercent.Div(decimal.NewFromInt(hundred)).Mul(portfolioValue)
		driftPercent := actualPercent.Sub(t.TargetPercent)
		driftValue := actualValue.Sub(targetValue)

		row := ClassRow{
			AssetClass:    t.AssetClass,
			TargetPercent: t.TargetPercent,
			TargetValue:   targetValue,
			ActualValue:   actualValue,
			ActualPercent: actualPercent,
			DriftPercent:  driftPercent,
			DriftValue:    driftValue,
			Status:        driftStatus(driftPercent, strategy.DriftThreshold),
			SubClasses:    make([]SubClassRow, 0, len(t.SubClasses)),
		}

		for _, s := range t.SubClasses {
			subTargetPercentOfTotal := t.TargetPercent.Mul(s.TargetPercent).Div(decimal.NewFromInt(hundred))
			subTargetValue := subTargetPercentOfTotal.Div(decimal.NewFromInt(hundred)).Mul(portfolioValue)
			subActualValue := bySubClass[t.AssetClass][s.AssetSubClass]
			subActualPercentOfTotal := percentOf(subActualValue, portfolioValue)
			subActualPercentOfParent := percentOf(subActualValue, actualValue)
			subDriftPercent := subActualPercentOfTotal.Sub(subTargetPercentOfTotal)
			subDriftValue := subActualValue.Sub(subTargetValue)

			row.SubClasses = append(row.SubClasses, SubClassRow{
				AssetSubClass:         s.AssetSubClass,
				TargetPercentOfParent: s.TargetPercent,
				TargetPercentOfTotal:  subTargetPercentOfTotal,
				TargetValue:           subTargetValue,
				ActualValue:           subActualValue,
				ActualPercentOfTotal:  subActualPercentOfTotal,
				ActualPercentOfParent: subActualPercentOfParent,
				DriftPercent:          subDriftPercent,
				DriftValue:            subDriftValue,
				Status:                driftStatus(subDriftPercent, strategy.DriftThreshold),
			})
		}

		rows = append(rows, row)
		if driftPercent.Abs().GreaterThan(maxAbsDrift) {
			maxAbsDrift = driftPercent.Abs()
		}
	}

	return AllocationAnalysis{
		PortfolioValue: portfolioValue,
		ExcludedValue:  excludedValue,
		DriftThreshold: strategy.DriftThreshold,
		ClassRows:      rows,
		OverallStatus:  driftStatus(maxAbsDrift, strategy.DriftThreshold),
	}
}
