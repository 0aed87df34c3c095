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

import "context"

// Store is the persistence collaborator contract from spec.md §6. The
// engine consumes it as a pure read/write capability; it never opens a
// connection or issues SQL itself. Activation must atomically ensure at
// most one strategy per user has IsActive = true.
type Store interface {
	ListStrategies(ctx context.Context, userID string) ([]Strategy, error)
	GetStrategy(ctx context.Context, userID, strategyID string) (Strategy, error)
	GetActiveStrategy(ctx context.Context, userID string) (*Strategy, error)
	CreateStrategy(ctx context.Context, userID string, s Strategy) (Strategy, error)
	UpdateStrategy(ctx context.Context, userID string, s Strategy) (Strategy, error)
	DeleteStrategy(ctx context.Context, userID, strategyID string) error
	ActivateStrategy(ctx context.Context, userID, strategyID string) error

	CreateClassTarget(ctx context.Context, userID, strategyID string, t AssetClassTarget) (AssetClassTarget, error)
	UpdateClassTarget(ctx context.Context, userID, strategyID string, t AssetClassTarget) (AssetClassTarget, error)
	DeleteClassTarget(ctx context.Context, userID, strategyID, targetID string) error

	CreateSubClassTarget(ctx context.Context, userID, strategyID, classTargetID string, t AssetSubClassTarget) (AssetSubClassTarget, error)
	UpdateSubClassTarget(ctx context.Context, userID, strategyID, classTargetID string, t AssetSubClassTarget) (AssetSubClassTarget, error)
	DeleteSubClassTarget(ctx context.Context, userID, strategyID, classTargetID, subTargetID string) error

	ListExclusions(ctx context.Context, userID, strategyID string) ([]Exclusion, error)
	UpsertExclusion(ctx context.Context, userID, strategyID string, e Exclusion) (Exclusion, error)
	DeleteExclusion(ctx context.Context, userID, strategyID, exclusionID string) error
}
