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

// Action is the recommendation direction of a Suggestion.
type Action string

const (
	ActionSell Action = "SELL"
	ActionBuy  Action = "BUY"
)

// Suggestion is one prioritized rebalancing recommendation. Priority is
// positional: callers that depend on it must pin the iteration order of
// the holdings they supply (spec §5, §9).
type Suggestion struct {
	Priority           int
	Action             Action
	AssetClass         AssetClass
	AssetSubClass      AssetSubClass
	Symbol             string
	DataSource         string
	CurrentValue       decimal.Decimal
	CurrentShares      decimal.Decimal
	SuggestedAmount    decimal.Decimal
	SuggestedShares    decimal.Decimal
	Reason             string
	TargetPercentAfter decimal.Decimal
	DriftAfter         decimal.Decimal
}

// GenerateSuggestions runs the two ordered passes from spec.md §4.4.2:
// sells (overweight classes/sub-classes) first, then buys (underweight),
// assigning a monotonically increasing priority across both passes.
func GenerateSuggestions(strategy Strategy, holdings []Holding, analysis AllocationAnalysis) []Suggestion {
	excluded := make(map[string]Exclusion, len(strategy.Exclusions))
	for _, e := range strategy.Exclusions {
		excluded[e.SymbolProfileID] = e
	}

	byClassSub := make(map[AssetClass]map[AssetSubClass][]Holding)
	for _, h := range holdings {
		if byClassSub[h.AssetClass] == nil {
			byClassSub[h.AssetClass] = make(map[AssetSubClass][]Holding)
		}
		byClassSub[h.AssetClass][h.AssetSubClass] = append(byClassSub[h.AssetClass][h.AssetSubClass], h)
	}

	var suggestions []Suggestion
	priority := 0

	// Pass 1 - sells
	for _, classRow := range analysis.ClassRows {
		if !classRow.DriftPercent.IsPositive() {
			continue
		}
		for _, subRow := range classRow.SubClasses {
			if !subRow.DriftPercent.IsPositive() {
				continue
			}
			amountToSell := subRow.DriftValue.Abs()

			candidates := byClassSub[classRow.AssetClass][subRow.AssetSubClass]
			totalSellable := decimal.Zero
			sellable := make([]Holding, 0, len(candidates))
			for _, h := range candidates {
				key := exclusionKey(h.DataSource, h.Symbol)
				if ex, ok := excluded[key]; ok && ex.NeverSell {
					continue
				}
				sellable = append(sellable, h)
				totalSellable = totalSellable.Add(h.Value)
			}
			if totalSellable.Sign() <= 0 {
				continue
			}

			for _, h := range sellable {
				holdingSellAmount := amountToSell.Mul(h.Value).Div(totalSellable)
				if h.MarketPrice.Sign() <= 0 {
					continue
				}
				shares := holdingSellAmount.Div(h.MarketPrice).Floor()
				if !shares.IsPositive() {
					continue
				}
				priority++
				suggestions = append(suggestions, Suggestion{
					Priority:           priority,
					Action:             ActionSell,
					AssetClass:         classRow.AssetClass,
					AssetSubClass:      subRow.AssetSubClass,
					Symbol:             h.Symbol,
					DataSource:         h.DataSource,
					CurrentValue:       h.Value,
					CurrentShares:      h.Quantity,
					SuggestedAmount:    shares.Mul(h.MarketPrice),
					SuggestedShares:    shares,
					Reason:             fmt.Sprintf("%s/%s is overweight by %s%%; sell to rebalance", classRow.AssetClass, subRow.AssetSubClass, subRow.DriftPercent.StringFixed(2)),
					TargetPercentAfter: subRow.TargetPercentOfTotal,
					DriftAfter:         decimal.Zero,
				})
			}
		}
	}

	// Pass 2 - buys
	for _, classRow := range analysis.ClassRows {
		if !classRow.DriftPercent.IsNegative() {
			continue
		}
		for _, subRow := range classRow.SubClasses {
			if !subRow.DriftPercent.IsNegative() {
				continue
			}
			priority++
			suggestions = append(suggestions, Suggestion{
				Priority:           priority,
				Action:             ActionBuy,
				AssetClass:         classRow.AssetClass,
				AssetSubClass:      subRow.AssetSubClass,
				SuggestedAmount:    subRow.DriftValue.Abs(),
				Reason:             fmt.Sprintf("%s/%s is underweight by %s%%; buy to rebalance", classRow.AssetClass, subRow.AssetSubClass, subRow.DriftPercent.Abs().StringFixed(2)),
				TargetPercentAfter: subRow.TargetPercentOfTotal,
				DriftAfter:         decimal.Zero,
			})
		}
	}

	return suggestions
}
