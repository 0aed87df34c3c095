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

	"github.com/penny-vault/rebalance-engine/common"
)

// AssetSubClassTarget is a leaf of the two-level target tree. TargetPercent
// is expressed as a percentage of the parent class, not of the portfolio.
type AssetSubClassTarget struct {
	ID            string
	AssetSubClass AssetSubClass
	TargetPercent decimal.Decimal
}

// AssetClassTarget is one branch of the two-level target tree.
type AssetClassTarget struct {
	ID            string
	AssetClass    AssetClass
	TargetPercent decimal.Decimal
	SubClasses    []AssetSubClassTarget
}

// Exclusion opts a symbol out of drift calculation, sell suggestions, or
// both, for one strategy.
type Exclusion struct {
	ID                     string
	SymbolProfileID        string
	ExcludeFromCalculation bool
	NeverSell              bool
	Reason                 string
}

// Strategy is a user's target allocation tree plus the drift band used to
// classify rows as OK/WARNING/CRITICAL.
type Strategy struct {
	ID             string
	Name           string
	IsActive       bool
	DriftThreshold decimal.Decimal
	ClassTargets   []AssetClassTarget
	Exclusions     []Exclusion
}

const (
	minDriftThreshold = 1
	maxDriftThreshold = 50
	hundred           = 100
)

// ValidateDriftThreshold enforces the 1-50 percent range spec.md requires.
func ValidateDriftThreshold(pct decimal.Decimal) error {
	if pct.LessThan(decimal.NewFromInt(minDriftThreshold)) || pct.GreaterThan(decimal.NewFromInt(maxDriftThreshold)) {
		return common.NewValidationError("drift threshold %s must be between %d and %d", pct.String(), minDriftThreshold, maxDriftThreshold)
	}
	return nil
}

// ValidateClassTargets enforces: sum of class targets <= 100, each class
// appears at most once, and recursively validates each class's sub-targets.
func ValidateClassTargets(targets []AssetClassTarget) error {
	seen := make(map[AssetClass]bool, len(targets))
	sum := decimal.Zero
	for _, t := range targets {
		if seen[t.AssetClass] {
			return common.NewValidationError("asset class %s appears more than once in strategy", t.AssetClass)
		}
		seen[t.AssetClass] = true
		sum = sum.Add(t.TargetPercent)
		if err := validateSubClassTargets(t.AssetClass, t.SubClasses); err != nil {
			return err
		}
	}
	if sum.GreaterThan(decimal.NewFromInt(hundred)) {
		return common.NewValidationError("class targets sum to %s, exceeds 100", sum.String())
	}
	return nil
}

func validateSubClassTargets(class AssetClass, subs []AssetSubClassTarget) error {
	seen := make(map[AssetSubClass]bool, len(subs))
	sum := decimal.Zero
	for _, s := range subs {
		if !ValidSubClass(class, s.AssetSubClass) {
			return common.NewValidationError("sub-class %s is not valid under class %s", s.AssetSubClass, class)
		}
		if seen[s.AssetSubClass] {
			return common.NewValidationError("sub-class %s appears more than once within class %s", s.AssetSubClass, class)
		}
		seen[s.AssetSubClass] = true
		sum = sum.Add(s.TargetPercent)
	}
	if sum.GreaterThan(decimal.NewFromInt(hundred)) {
		return common.NewValidationError("sub-class targets within class %s sum to %s, exceeds 100", class, sum.String())
	}
	return nil
}

// FindActive returns the single active strategy in a list, or nil if none.
func FindActive(strategies []Strategy) *Strategy {
	for i := range strategies {
		if strategies[i].IsActive {
			return &strategies[i]
		}
	}
	return nil
}
