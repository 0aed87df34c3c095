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

package handler

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/penny-vault/rebalance-engine/portfolio"
)

// performanceRequest is the wire shape of engine-exposed operation 4
// (spec.md §6): `performance(activities, valuations, start, end,
// current_value)`. The engine never stores activities/valuations itself;
// the caller supplies the full stream on every request.
type performanceRequest struct {
	Activities   []*portfolio.Activity  `json:"activities"`
	Valuations   []*portfolio.Valuation `json:"valuations"`
	Start        time.Time              `json:"start"`
	End          time.Time              `json:"end"`
	CurrentValue decimal.Decimal        `json:"currentValue"`
}

// GetPerformance implements engine-exposed operation 4.
func GetPerformance(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req performanceRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Warn().Err(err).Str("Endpoint", "GetPerformance").Str("UserID", userID).Msg("could not deserialize performance request")
		return fiber.ErrBadRequest
	}

	result := portfolio.CalculatePerformance(req.Activities, req.Valuations, req.Start, req.End, req.CurrentValue)
	return c.JSON(result)
}

// holdingPerformanceRequest is the wire shape of engine-exposed operation 5
// (spec.md §6): `holding_performance(symbol, activities, current_price, end)`.
type holdingPerformanceRequest struct {
	Symbol       string                `json:"symbol"`
	Activities   []*portfolio.Activity `json:"activities"`
	CurrentPrice decimal.Decimal       `json:"currentPrice"`
	End          time.Time             `json:"end"`
}

// GetHoldingPerformance implements engine-exposed operation 5.
func GetHoldingPerformance(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req holdingPerformanceRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Warn().Err(err).Str("Endpoint", "GetHoldingPerformance").Str("UserID", userID).Msg("could not deserialize holding performance request")
		return fiber.ErrBadRequest
	}

	result := portfolio.CalculateHoldingPerformance(req.Symbol, req.Activities, req.CurrentPrice, req.End)
	return c.JSON(result)
}
