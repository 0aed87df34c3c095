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

// AssetClass is a frozen top-level allocation bucket. Callers supply it as
// an opaque identifier; the engine never fetches or interprets security
// metadata itself.
type AssetClass string

const (
	AssetClassAlternativeInvestment AssetClass = "ALTERNATIVE_INVESTMENT"
	AssetClassCommodity             AssetClass = "COMMODITY"
	AssetClassDebt                  AssetClass = "DEBT"
	AssetClassEquity                AssetClass = "EQUITY"
	AssetClassFixedIncome           AssetClass = "FIXED_INCOME"
	AssetClassLiquidity             AssetClass = "LIQUIDITY"
	AssetClassPreciousMetals        AssetClass = "PRECIOUS_METALS"
	AssetClassRealEstate            AssetClass = "REAL_ESTATE"
)

// AssetSubClass is a frozen second-level bucket, valid only under specific
// parent classes per subClassesOf.
type AssetSubClass string

const (
	AssetSubClassBond           AssetSubClass = "BOND"
	AssetSubClassCash           AssetSubClass = "CASH"
	AssetSubClassCollectible    AssetSubClass = "COLLECTIBLE"
	AssetSubClassCommodity      AssetSubClass = "COMMODITY"
	AssetSubClassCryptocurrency AssetSubClass = "CRYPTOCURRENCY"
	AssetSubClassDebtFund       AssetSubClass = "DEBT_FUND"
	AssetSubClassETF            AssetSubClass = "ETF"
	AssetSubClassFixedDeposit   AssetSubClass = "FIXED_DEPOSIT"
	AssetSubClassGold22K        AssetSubClass = "GOLD_22K"
	AssetSubClassGold24K        AssetSubClass = "GOLD_24K"
	AssetSubClassGoldETF        AssetSubClass = "GOLD_ETF"
	AssetSubClassHouse          AssetSubClass = "HOUSE"
	AssetSubClassMutualFund     AssetSubClass = "MUTUALFUND"
	AssetSubClassPlot           AssetSubClass = "PLOT"
	AssetSubClassPreciousMetal  AssetSubClass = "PRECIOUS_METAL"
	AssetSubClassPrivateEquity  AssetSubClass = "PRIVATE_EQUITY"
	AssetSubClassSilverBar      AssetSubClass = "SILVER_BAR"
	AssetSubClassStock          AssetSubClass = "STOCK"
)

// subClassesOf is the class -> valid sub-class mapping. A sub-class target
// must appear in its parent class's set or mutation is rejected.
var subClassesOf = map[AssetClass]map[AssetSubClass]bool{
	AssetClassEquity: {
		AssetSubClassETF:           true,
		AssetSubClassMutualFund:    true,
		AssetSubClassPrivateEquity: true,
		AssetSubClassStock:         true,
	},
	AssetClassDebt: {
		AssetSubClassBond:         true,
		AssetSubClassDebtFund:     true,
		AssetSubClassFixedDeposit: true,
	},
	AssetClassPreciousMetals: {
		AssetSubClassGold22K:   true,
		AssetSubClassGold24K:   true,
		AssetSubClassGoldETF:   true,
		AssetSubClassSilverBar: true,
	},
	AssetClassRealEstate: {
		AssetSubClassHouse: true,
		AssetSubClassPlot:  true,
	},
	AssetClassCommodity: {
		AssetSubClassCommodity:     true,
		AssetSubClassPreciousMetal: true,
	},
	AssetClassLiquidity: {
		AssetSubClassCash:           true,
		AssetSubClassCryptocurrency: true,
	},
	AssetClassFixedIncome: {
		AssetSubClassBond: true,
	},
	AssetClassAlternativeInvestment: {
		AssetSubClassCollectible: true,
	},
}

// ValidSubClass reports whether sub is a permitted sub-class of class.
func ValidSubClass(class AssetClass, sub AssetSubClass) bool {
	subs, ok := subClassesOf[class]
	if !ok {
		return false
	}
	return subs[sub]
}
