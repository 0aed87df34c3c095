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
	"time"

	"github.com/shopspring/decimal"
)

const (
	irrMaxIterations  = 500
	irrNewtonTol      = 1e-5
	irrBisectWidthTol = 1e-3
	irrDerivEpsilon   = 1e-10
	irrXMin           = 1e-4
	irrXMax           = 100.0
	hoursPerDay       = 24.0
	daysPerYear       = 365.0
)

// irrEntry is a CashFlow reduced to the float64 (amount, position) pair the
// root finder operates on, where position is the entry's distance from the
// earliest cash flow expressed as a fraction of the full holding period
// (0 at the earliest flow, 1 at endDate). The boundary from exact Decimal
// arithmetic to float64 is crossed exactly once, here, because
// Newton-Raphson needs transcendental discounting (spec.md §9).
type irrEntry struct {
	position float64
	value    float64
}

// IRRResult is the output of SolveIRR. IRR and IRRAnnualized are nil when the
// input is empty or both total absolute cash flow and end value are zero.
type IRRResult struct {
	IRR           *float64
	IRRAnnualized *float64
	Converged     bool
	Iterations    int
}

// npv evaluates the discount-factor-form net present value at base x = 1+r.
// Each entry's exponent is its position in [0,1] along the full holding
// period (earliest cash flow to endDate), so the root x* is the total-period
// growth factor and irr = x*-1 is the (non-annualized) holding-period return;
// irr_annualized then rescales it to a 365-day basis.
func npv(entries []irrEntry, x float64) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.value * math.Pow(x, -e.position)
	}
	return sum
}

// npvDerivative approximates NPV'(x) by central finite differences with
// step |x|*1e-6, matching spec.md §4.1.
func npvDerivative(entries []irrEntry, x float64) float64 {
	h := math.Abs(x) * 1e-6
	if h == 0 {
		h = 1e-9
	}
	return (npv(entries, x+h) - npv(entries, x-h)) / (2 * h)
}

// bisect finds a root of npv within [lo, hi], which must bracket a sign
// change, by repeated interval halving until the width is below tol.
func bisect(entries []irrEntry, lo, hi, tol float64) float64 {
	fLo := npv(entries, lo)
	for hi-lo >= tol {
		mid := (lo + hi) / 2
		fMid := npv(entries, mid)
		if (fMid < 0) == (fLo < 0) {
			lo = mid
			fLo = fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// SolveIRR solves for the money-weighted rate of return (spec.md §4.1)
// given an unordered list of cash flows, a terminal value treated as a
// positive inflow on endDate, and endDate itself.
func SolveIRR(flows []CashFlow, endValue decimal.Decimal, endDate time.Time) IRRResult {
	if len(flows) == 0 {
		return IRRResult{}
	}

	earliest := flows[0].Date
	var totalAbs decimal.Decimal
	for _, f := range flows {
		if f.Date.Before(earliest) {
			earliest = f.Date
		}
		totalAbs = totalAbs.Add(f.Amount.Abs())
	}

	if totalAbs.IsZero() && endValue.IsZero() {
		return IRRResult{}
	}

	holdingDays := endDate.Sub(earliest).Hours() / hoursPerDay
	if holdingDays < 1 {
		holdingDays = 1
	}

	entries := make([]irrEntry, 0, len(flows)+1)
	for _, f := range flows {
		amt, _ := f.Amount.Float64()
		days := f.Date.Sub(earliest).Hours() / hoursPerDay
		entries = append(entries, irrEntry{
			position: days / holdingDays,
			value:    amt,
		})
	}
	endValFloat, _ := endValue.Float64()
	entries = append(entries, irrEntry{
		position: 1.0,
		value:    endValFloat,
	})

	x0, x1 := 0.001, 1.0
	f0, f1 := npv(entries, x0), npv(entries, x1)

	var guess float64
	if (f0 < 0) != (f1 < 0) {
		guess = bisect(entries, x0, x1, irrBisectWidthTol)
	} else {
		guess = 1.05
	}

	x := guess
	converged := false
	iterations := 0
	for iterations = 0; iterations < irrMaxIterations; iterations++ {
		deriv := npvDerivative(entries, x)
		if math.Abs(deriv) < irrDerivEpsilon {
			break
		}

		next := x - npv(entries, x)/deriv
		if next < irrXMin {
			next = irrXMin
		}
		if next > irrXMax {
			next = irrXMax
		}

		delta := next - x
		x = next

		if math.Abs(delta) < irrNewtonTol {
			converged = true
			iterations++
			break
		}
	}

	irr := x - 1

	var annualized float64
	base := 1 + irr
	if base > 0 {
		annualized = math.Pow(base, daysPerYear/holdingDays) - 1
	} else {
		annualized = -1
	}

	return IRRResult{
		IRR:           &irr,
		IRRAnnualized: &annualized,
		Converged:     converged,
		Iterations:    iterations,
	}
}
