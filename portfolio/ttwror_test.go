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

	"github.com/shopspring/decimal"
)

func TestAccumulateTTWROR_MidPeriodDeposit(t *testing.T) {
	points := []ValuationPoint{
		{Date: mustDate("2023-01-01"), MarketValue: decimal.NewFromInt(1000), ExternalFlow: decimal.Zero},
		{Date: mustDate("2023-07-01"), MarketValue: decimal.NewFromInt(1550), ExternalFlow: decimal.NewFromInt(500)},
		{Date: mustDate("2024-01-01"), MarketValue: decimal.NewFromInt(1650), ExternalFlow: decimal.Zero},
	}

	result := AccumulateTTWROR(points)
	ttwror, _ := result.TTWROR.Float64()

	if math.Abs(ttwror-0.1177) > 1e-3 {
		t.Errorf("ttwror = %v, want ~0.1177", ttwror)
	}
}

func TestAccumulateTTWROR_NeutralOnPureDeposit(t *testing.T) {
	points := []ValuationPoint{
		{Date: mustDate("2023-01-01"), MarketValue: decimal.NewFromInt(1000), ExternalFlow: decimal.Zero},
		{Date: mustDate("2023-02-01"), MarketValue: decimal.NewFromInt(1500), ExternalFlow: decimal.NewFromInt(500)},
	}

	result := AccumulateTTWROR(points)

	if !result.TTWROR.IsZero() {
		t.Errorf("ttwror = %v, want 0 for a pure deposit with no market movement", result.TTWROR)
	}
}

func TestAccumulateTTWROR_NeutralOnPureWithdrawal(t *testing.T) {
	points := []ValuationPoint{
		{Date: mustDate("2023-01-01"), MarketValue: decimal.NewFromInt(1000), ExternalFlow: decimal.Zero},
		{Date: mustDate("2023-02-01"), MarketValue: decimal.NewFromInt(800), ExternalFlow: decimal.NewFromInt(-200)},
	}

	result := AccumulateTTWROR(points)

	if !result.TTWROR.IsZero() {
		t.Errorf("ttwror = %v, want 0 for a pure withdrawal with no market movement", result.TTWROR)
	}
}

func TestAccumulateTTWROR_FewerThanTwoPoints(t *testing.T) {
	result := AccumulateTTWROR([]ValuationPoint{
		{Date: mustDate("2023-01-01"), MarketValue: decimal.NewFromInt(1000)},
	})

	if !result.TTWROR.IsZero() || !result.TTWRORAnnualized.IsZero() {
		t.Errorf("expected all-zero result for fewer than two points, got %+v", result)
	}
}

func TestAccumulateTTWROR_SkipsNonPositiveDenominator(t *testing.T) {
	points := []ValuationPoint{
		{Date: mustDate("2023-01-01"), MarketValue: decimal.Zero, ExternalFlow: decimal.Zero},
		{Date: mustDate("2023-02-01"), MarketValue: decimal.NewFromInt(100), ExternalFlow: decimal.NewFromInt(100)},
	}

	result := AccumulateTTWROR(points)

	if !result.TTWROR.IsZero() {
		t.Errorf("ttwror = %v, want 0 when the prior period's value is zero", result.TTWROR)
	}
}
