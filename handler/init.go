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

// Package handler binds the engine-exposed operations (spec.md §6) and the
// strategy/exclusion CRUD surface to fiber routes. Class and sub-class
// targets are carried inside the strategy body; there are no per-target
// handlers.
package handler

import "github.com/penny-vault/rebalance-engine/allocation"

var store allocation.Store
var portfolioProvider allocation.PortfolioProvider

// Configure wires the persistence and portfolio collaborators into the
// handler package. Called once during server startup.
func Configure(s allocation.Store, p allocation.PortfolioProvider) {
	store = s
	portfolioProvider = p
}
