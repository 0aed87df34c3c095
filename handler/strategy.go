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
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/rebalance-engine/allocation"
)

func ListStrategies(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	strategies, err := store.ListStrategies(c.Context(), userID)
	if err != nil {
		return handleEngineError(c, "ListStrategies", userID, err)
	}
	return c.JSON(strategies)
}

func GetStrategy(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	strategy, err := store.GetStrategy(c.Context(), userID, c.Params("id"))
	if err != nil {
		return handleEngineError(c, "GetStrategy", userID, err)
	}
	return c.JSON(strategy)
}

func CreateStrategy(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var strategy allocation.Strategy
	if err := json.Unmarshal(c.Body(), &strategy); err != nil {
		log.Warn().Err(err).Str("Endpoint", "CreateStrategy").Str("UserID", userID).Msg("could not deserialize strategy")
		return fiber.ErrBadRequest
	}

	created, err := store.CreateStrategy(c.Context(), userID, strategy)
	if err != nil {
		return handleEngineError(c, "CreateStrategy", userID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func UpdateStrategy(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var strategy allocation.Strategy
	if err := json.Unmarshal(c.Body(), &strategy); err != nil {
		log.Warn().Err(err).Str("Endpoint", "UpdateStrategy").Str("UserID", userID).Msg("could not deserialize strategy")
		return fiber.ErrBadRequest
	}
	strategy.ID = c.Params("id")

	updated, err := store.UpdateStrategy(c.Context(), userID, strategy)
	if err != nil {
		return handleEngineError(c, "UpdateStrategy", userID, err)
	}
	return c.JSON(updated)
}

func DeleteStrategy(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if err := store.DeleteStrategy(c.Context(), userID, c.Params("id")); err != nil {
		return handleEngineError(c, "DeleteStrategy", userID, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ActivateStrategy(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if err := store.ActivateStrategy(c.Context(), userID, c.Params("id")); err != nil {
		return handleEngineError(c, "ActivateStrategy", userID, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListExclusions(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	exclusions, err := store.ListExclusions(c.Context(), userID, c.Params("id"))
	if err != nil {
		return handleEngineError(c, "ListExclusions", userID, err)
	}
	return c.JSON(exclusions)
}

func UpsertExclusion(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var exclusion allocation.Exclusion
	if err := json.Unmarshal(c.Body(), &exclusion); err != nil {
		log.Warn().Err(err).Str("Endpoint", "UpsertExclusion").Str("UserID", userID).Msg("could not deserialize exclusion")
		return fiber.ErrBadRequest
	}

	upserted, err := store.UpsertExclusion(c.Context(), userID, c.Params("id"), exclusion)
	if err != nil {
		return handleEngineError(c, "UpsertExclusion", userID, err)
	}
	return c.JSON(upserted)
}

func DeleteExclusion(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if err := store.DeleteExclusion(c.Context(), userID, c.Params("id"), c.Params("exclusionId")); err != nil {
		return handleEngineError(c, "DeleteExclusion", userID, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
