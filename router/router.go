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

package router

import (
	"github.com/penny-vault/rebalance-engine/handler"
	"github.com/penny-vault/rebalance-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/jwk"
)

// SetupRoutes binds spec.md §6's five engine-exposed operations plus
// strategy and exclusion CRUD to the fiber app. Class and sub-class targets
// have no routes of their own; they are written only as part of a strategy
// create or update. CORS and request
// logging middleware are configured once on app by cmd/serve.go.
func SetupRoutes(app *fiber.App, jwks *jwk.AutoRefresh, jwksUrl string) {
	api := app.Group("/v1")
	api.Get("/", handler.Ping)

	auth := middleware.EngineAuth(jwks, jwksUrl)

	// Engine-exposed operations
	api.Get("/analysis", auth, handler.GetAnalysis)
	api.Get("/drift-summary", auth, handler.GetDriftSummary)
	api.Get("/suggestions", auth, handler.GetSuggestions)
	api.Post("/performance", auth, handler.GetPerformance)
	api.Post("/holding-performance", auth, handler.GetHoldingPerformance)

	// Strategy / target / exclusion CRUD
	strategy := api.Group("/strategy")
	strategy.Get("/", auth, handler.ListStrategies)
	strategy.Post("/", auth, handler.CreateStrategy)
	strategy.Get("/:id", auth, handler.GetStrategy)
	strategy.Patch("/:id", auth, handler.UpdateStrategy)
	strategy.Delete("/:id", auth, handler.DeleteStrategy)
	strategy.Post("/:id/activate", auth, handler.ActivateStrategy)
	strategy.Get("/:id/exclusions", auth, handler.ListExclusions)
	strategy.Put("/:id/exclusions", auth, handler.UpsertExclusion)
	strategy.Delete("/:id/exclusions/:exclusionId", auth, handler.DeleteExclusion)
}
