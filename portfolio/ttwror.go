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
	"sort"

	"github.com/shopspring/decimal"
)

// TTWRORResult is the output of AccumulateTTWROR.
type TTWRORResult struct {
	TTWROR           decimal.Decimal
	TTWRORAnnualized decimal.Decimal
	Series           []decimal.Decimal // cumulative factor after each point in date order, same length as input; nil for fewer than two points
}

// AccumulateTTWROR computes the true time-weighted rate of return over a
// sequence of daily valuation points (spec.md §4.2). curr.market_value
// already includes that day's external flow, so the flow is backed out of
// the numerator (inbound subtracted, outbound added back) before dividing
// by the unadjusted prior value; a deposit or withdrawal with no
// accompanying market movement then contributes a period return of exactly
// zero, and the flow becomes part of the base for the following period.
func AccumulateTTWROR(points []ValuationPoint) TTWRORResult {
	if len(points) < 2 {
		return TTWRORResult{}
	}

	sorted := make([]ValuationPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	points = sorted

	cumulative := decimal.NewFromInt(1)
	series := make([]decimal.Decimal, len(points))
	series[0] = cumulative

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]

		inbound := decimal.Max(curr.ExternalFlow, zero)
		outbound := decimal.Max(curr.ExternalFlow.Neg(), zero)

		denominator := prev.MarketValue
		if denominator.Sign() <= 0 {
			series[i] = cumulative
			continue
		}

		numerator := curr.MarketValue.Sub(inbound).Add(outbound)
		periodReturn := numerator.Div(denominator).Sub(decimal.NewFromInt(1))
		cumulative = cumulative.Mul(decimal.NewFromInt(1).Add(periodReturn))
		series[i] = cumulative
	}

	ttwror := cumulative.Sub(decimal.NewFromInt(1))

	days := points[len(points)-1].Date.Sub(points[0].Date).Hours() / hoursPerDay
	var annualized decimal.Decimal
	base := decimal.NewFromInt(1).Add(ttwror)
	if base.IsPositive() && days > 0 {
		baseF, _ := base.Float64()
		annF := math.Pow(baseF, daysPerYear/days) - 1
		annualized = decimal.NewFromFloat(annF)
	} else if !base.IsPositive() {
		annualized = decimal.NewFromInt(-1)
	}

	return TTWRORResult{
		TTWROR:           ttwror,
		TTWRORAnnualized: annualized,
		Series:           series,
	}
}
