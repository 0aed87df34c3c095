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
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/rebalance-engine/allocation"
	"github.com/penny-vault/rebalance-engine/common"
)

// driftCacheKey matches the key cmd/serve.go's refreshDriftSummaries job
// writes to, so a request can read back what the background job warmed.
func driftCacheKey(userID string) string {
	return fmt.Sprintf("%s:drift", userID)
}

// resolveStrategy loads the strategy named by the optional ?strategy=
// query param, or the user's active strategy when it is omitted.
func resolveStrategy(c *fiber.Ctx, userID string) (*allocation.Strategy, error) {
	if id := c.Query("strategy"); id != "" {
		st, err := store.GetStrategy(c.Context(), userID, id)
		if err != nil {
			return nil, err
		}
		return &st, nil
	}
	return store.GetActiveStrategy(c.Context(), userID)
}

func engineErrorStatus(err *common.EngineError) int {
	switch err.Kind {
	case common.ErrValidation:
		return fiber.StatusBadRequest
	case common.ErrNotFound:
		return fiber.StatusNotFound
	case common.ErrNoActiveStrategy:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func handleEngineError(c *fiber.Ctx, endpoint, userID string, err error) error {
	if ee, ok := err.(*common.EngineError); ok {
		log.Warn().Err(ee).Str("Endpoint", endpoint).Str("UserID", userID).Msg("engine error")
		return c.Status(engineErrorStatus(ee)).JSON(fiber.Map{"status": "error", "message": ee.Msg})
	}
	log.Error().Err(err).Str("Endpoint", endpoint).Str("UserID", userID).Msg("unexpected error")
	return fiber.ErrInternalServerError
}

// GetAnalysis implements the `analysis(user, strategy?)` engine-exposed
// operation (spec.md §6).
func GetAnalysis(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	strategy, err := resolveStrategy(c, userID)
	if err != nil {
		return handleEngineError(c, "GetAnalysis", userID, err)
	}
	if strategy == nil {
		return handleEngineError(c, "GetAnalysis", userID, common.NewNoActiveStrategyError())
	}

	snapshot, err := portfolioProvider.Holdings(c.Context(), userID)
	if err != nil {
		return handleEngineError(c, "GetAnalysis", userID, err)
	}

	analysis := allocation.Analyze(*strategy, snapshot.Holdings)
	return c.JSON(analysis)
}

// GetDriftSummary implements the `drift_summary(user)` engine-exposed
// operation (spec.md §6).
func GetDriftSummary(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	key := driftCacheKey(userID)

	if cached, err := common.CacheGet(key); err == nil && len(cached) > 0 {
		var summary allocation.DriftSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return c.JSON(summary)
		}
		log.Warn().Str("UserID", userID).Msg("could not deserialize cached drift summary")
	}

	strategy, err := store.GetActiveStrategy(c.Context(), userID)
	if err != nil {
		return handleEngineError(c, "GetDriftSummary", userID, err)
	}

	var holdings []allocation.Holding
	if strategy != nil {
		snapshot, err := portfolioProvider.Holdings(c.Context(), userID)
		if err != nil {
			return handleEngineError(c, "GetDriftSummary", userID, err)
		}
		holdings = snapshot.Holdings
	}

	summary := allocation.Summarize(strategy, holdings)
	if blob, err := json.Marshal(summary); err == nil {
		if err := common.CacheSet(key, blob); err != nil {
			log.Warn().Err(err).Str("UserID", userID).Msg("could not cache drift summary")
		}
	}

	return c.JSON(summary)
}

// GetSuggestions implements the `suggestions(user, strategy?)`
// engine-exposed operation (spec.md §6).
func GetSuggestions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	strategy, err := resolveStrategy(c, userID)
	if err != nil {
		return handleEngineError(c, "GetSuggestions", userID, err)
	}
	if strategy == nil {
		return handleEngineError(c, "GetSuggestions", userID, common.NewNoActiveStrategyError())
	}

	snapshot, err := portfolioProvider.Holdings(c.Context(), userID)
	if err != nil {
		return handleEngineError(c, "GetSuggestions", userID, err)
	}

	analysis := allocation.Analyze(*strategy, snapshot.Holdings)
	suggestions := allocation.GenerateSuggestions(*strategy, snapshot.Holdings, analysis)
	return c.JSON(suggestions)
}
