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
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction classifies a CategoryDrift as over or under its target.
type Direction string

const (
	DirectionOver  Direction = "OVER"
	DirectionUnder Direction = "UNDER"
)

// CategoryDrift names one class or class/sub-class row whose |drift|
// reached the strategy's threshold, in either direction.
type CategoryDrift struct {
	Name      string
	Drift     decimal.Decimal
	Direction Direction
}

// DriftSummary is the compressed dashboard-facing form of an allocation
// analysis (spec.md §4.4.3).
type DriftSummary struct {
	HasActiveStrategy       bool
	OverallStatus           DriftStatus
	MaxDrift                decimal.Decimal
	DriftThreshold          decimal.Decimal
	CategoriesOverThreshold []CategoryDrift
}

// Summarize compresses an analysis into a DriftSummary. When strategy is
// nil, NO_STRATEGY is emitted with all numeric fields at zero.
func Summarize(strategy *Strategy, holdings []Holding) DriftSummary {
	if strategy == nil {
		return DriftSummary{
			HasActiveStrategy: false,
			OverallStatus:     StatusNoStrategy,
		}
	}

	analysis := Analyze(*strategy, holdings)

	maxDrift := decimal.Zero
	var categories []CategoryDrift

	for _, classRow := range analysis.ClassRows {
		if classRow.DriftPercent.Abs().GreaterThan(maxDrift) {
			maxDrift = classRow.DriftPercent.Abs()
		}
		if classRow.DriftPercent.Abs().GreaterThanOrEqual(strategy.DriftThreshold) {
			categories = append(categories, CategoryDrift{
				Name:      string(classRow.AssetClass),
				Drift:     classRow.DriftPercent,
				Direction: direction(classRow.DriftPercent),
			})
		}
		for _, subRow := range classRow.SubClasses {
			if subRow.DriftPercent.Abs().GreaterThanOrEqual(strategy.DriftThreshold) {
				categories = append(categories, CategoryDrift{
					Name:      fmt.Sprintf("%s/%s", classRow.AssetClass, subRow.AssetSubClass),
					Drift:     subRow.DriftPercent,
					Direction: direction(subRow.DriftPercent),
				})
			}
		}
	}

	return DriftSummary{
		HasActiveStrategy:       true,
		OverallStatus:           analysis.OverallStatus,
		MaxDrift:                maxDrift,
		DriftThreshold:          strategy.DriftThreshold,
		CategoriesOverThreshold: categories,
	}
}

func direction(drift decimal.Decimal) Direction {
	if drift.IsNegative() {
		return DirectionUnder
	}
	return DirectionOver
}
