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

import "github.com/shopspring/decimal"

// moneyScale and shareScale are rounding precisions for money and share
// amounts, wrapped by roundMoney and roundShares. No function in the package
// calls these helpers: computed amounts are returned at full decimal.Decimal
// precision, unrounded.
const (
	moneyScale = 2
	shareScale = 6
)

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

func roundShares(d decimal.Decimal) decimal.Decimal {
	return d.Round(shareScale)
}

// zero is the canonical zero Decimal, used where a zero value is compared
// rather than constructed inline, for readability.
var zero = decimal.Zero
