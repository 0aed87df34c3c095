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

package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/penny-vault/rebalance-engine/allocation"
	"github.com/penny-vault/rebalance-engine/common"
)

// StrategyStore implements allocation.Store against the shared per-user-role
// pgx connection pool set up in database.go.
type StrategyStore struct{}

// NewStrategyStore constructs the Postgres-backed persistence collaborator.
func NewStrategyStore() *StrategyStore {
	return &StrategyStore{}
}

func (s *StrategyStore) ListStrategies(ctx context.Context, userID string) ([]allocation.Strategy, error) {
	trx, err := TrxForUser(userID)
	if err != nil {
		return nil, err
	}

	strategySQL := `SELECT id, name, is_active, drift_threshold FROM strategy_v1 WHERE user_id=$1 ORDER BY name`
	rows, err := trx.Query(ctx, strategySQL, userID)
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("Query", strategySQL).Msg("could not list strategies")
		trx.Rollback(ctx)
		return nil, err
	}

	strategies := make([]allocation.Strategy, 0, 4)
	for rows.Next() {
		var st allocation.Strategy
		var threshold decimal.Decimal
		if err := rows.Scan(&st.ID, &st.Name, &st.IsActive, &threshold); err != nil {
			log.Error().Err(err).Str("UserID", userID).Msg("failed scanning strategy row")
			trx.Rollback(ctx)
			return nil, err
		}
		st.DriftThreshold = threshold
		strategies = append(strategies, st)
	}
	trx.Commit(ctx)

	for i := range strategies {
		if err := s.hydrate(ctx, userID, &strategies[i]); err != nil {
			return nil, err
		}
	}
	return strategies, nil
}

func (s *StrategyStore) GetStrategy(ctx context.Context, userID, strategyID string) (allocation.Strategy, error) {
	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.Strategy{}, err
	}

	strategySQL := `SELECT id, name, is_active, drift_threshold FROM strategy_v1 WHERE id=$1 AND user_id=$2`
	var st allocation.Strategy
	var threshold decimal.Decimal
	err = trx.QueryRow(ctx, strategySQL, strategyID, userID).Scan(&st.ID, &st.Name, &st.IsActive, &threshold)
	if err == pgx.ErrNoRows {
		trx.Rollback(ctx)
		return allocation.Strategy{}, common.NewNotFoundError("strategy %s not found", strategyID)
	}
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("StrategyID", strategyID).Msg("could not load strategy")
		trx.Rollback(ctx)
		return allocation.Strategy{}, err
	}
	st.DriftThreshold = threshold
	trx.Commit(ctx)

	if err := s.hydrate(ctx, userID, &st); err != nil {
		return allocation.Strategy{}, err
	}
	return st, nil
}

func (s *StrategyStore) GetActiveStrategy(ctx context.Context, userID string) (*allocation.Strategy, error) {
	trx, err := TrxForUser(userID)
	if err != nil {
		return nil, err
	}

	strategySQL := `SELECT id, name, is_active, drift_threshold FROM strategy_v1 WHERE user_id=$1 AND is_active=true`
	var st allocation.Strategy
	var threshold decimal.Decimal
	err = trx.QueryRow(ctx, strategySQL, userID).Scan(&st.ID, &st.Name, &st.IsActive, &threshold)
	if err == pgx.ErrNoRows {
		trx.Commit(ctx)
		return nil, nil
	}
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Msg("could not load active strategy")
		trx.Rollback(ctx)
		return nil, err
	}
	st.DriftThreshold = threshold
	trx.Commit(ctx)

	if err := s.hydrate(ctx, userID, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// hydrate populates a strategy's class targets, sub-class targets, and
// exclusions after its scalar fields have been loaded.
func (s *StrategyStore) hydrate(ctx context.Context, userID string, st *allocation.Strategy) error {
	trx, err := TrxForUser(userID)
	if err != nil {
		return err
	}

	classSQL := `SELECT id, asset_class, target_percent FROM asset_class_target_v1 WHERE strategy_id=$1 ORDER BY asset_class`
	rows, err := trx.Query(ctx, classSQL, st.ID)
	if err != nil {
		log.Error().Err(err).Str("StrategyID", st.ID).Msg("could not load class targets")
		trx.Rollback(ctx)
		return err
	}

	targets := make([]allocation.AssetClassTarget, 0, 4)
	for rows.Next() {
		var t allocation.AssetClassTarget
		var pct decimal.Decimal
		var class string
		if err := rows.Scan(&t.ID, &class, &pct); err != nil {
			log.Error().Err(err).Str("StrategyID", st.ID).Msg("failed scanning class target row")
			trx.Rollback(ctx)
			return err
		}
		t.AssetClass = allocation.AssetClass(class)
		t.TargetPercent = pct
		targets = append(targets, t)
	}

	for i := range targets {
		subSQL := `SELECT id, asset_sub_class, target_percent FROM asset_sub_class_target_v1 WHERE class_target_id=$1 ORDER BY asset_sub_class`
		subRows, err := trx.Query(ctx, subSQL, targets[i].ID)
		if err != nil {
			log.Error().Err(err).Str("ClassTargetID", targets[i].ID).Msg("could not load sub-class targets")
			trx.Rollback(ctx)
			return err
		}
		subs := make([]allocation.AssetSubClassTarget, 0, 4)
		for subRows.Next() {
			var sub allocation.AssetSubClassTarget
			var pct decimal.Decimal
			var subClass string
			if err := subRows.Scan(&sub.ID, &subClass, &pct); err != nil {
				log.Error().Err(err).Str("ClassTargetID", targets[i].ID).Msg("failed scanning sub-class target row")
				trx.Rollback(ctx)
				return err
			}
			sub.AssetSubClass = allocation.AssetSubClass(subClass)
			sub.TargetPercent = pct
			subs = append(subs, sub)
		}
		targets[i].SubClasses = subs
	}
	st.ClassTargets = targets

	exclusionSQL := `SELECT id, symbol_profile_id, exclude_from_calculation, never_sell, reason FROM exclusion_v1 WHERE strategy_id=$1`
	exRows, err := trx.Query(ctx, exclusionSQL, st.ID)
	if err != nil {
		log.Error().Err(err).Str("StrategyID", st.ID).Msg("could not load exclusions")
		trx.Rollback(ctx)
		return err
	}
	exclusions := make([]allocation.Exclusion, 0, 4)
	for exRows.Next() {
		var e allocation.Exclusion
		if err := exRows.Scan(&e.ID, &e.SymbolProfileID, &e.ExcludeFromCalculation, &e.NeverSell, &e.Reason); err != nil {
			log.Error().Err(err).Str("StrategyID", st.ID).Msg("failed scanning exclusion row")
			trx.Rollback(ctx)
			return err
		}
		exclusions = append(exclusions, e)
	}
	st.Exclusions = exclusions

	trx.Commit(ctx)
	return nil
}

func (s *StrategyStore) CreateStrategy(ctx context.Context, userID string, st allocation.Strategy) (allocation.Strategy, error) {
	if err := allocation.ValidateDriftThreshold(st.DriftThreshold); err != nil {
		return allocation.Strategy{}, err
	}
	if err := allocation.ValidateClassTargets(st.ClassTargets); err != nil {
		return allocation.Strategy{}, err
	}

	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.Strategy{}, err
	}

	st.ID = uuid.New().String()
	insertSQL := `INSERT INTO strategy_v1 (id, user_id, name, is_active, drift_threshold) VALUES ($1, $2, $3, false, $4)`
	if _, err := trx.Exec(ctx, insertSQL, st.ID, userID, st.Name, st.DriftThreshold); err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("Query", insertSQL).Msg("could not create strategy")
		trx.Rollback(ctx)
		return allocation.Strategy{}, err
	}

	if err := s.writeTargetsAndExclusions(ctx, trx, &st); err != nil {
		trx.Rollback(ctx)
		return allocation.Strategy{}, err
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Str("UserID", userID).Msg("could not commit new strategy")
		return allocation.Strategy{}, err
	}
	st.IsActive = false
	return st, nil
}

func (s *StrategyStore) UpdateStrategy(ctx context.Context, userID string, st allocation.Strategy) (allocation.Strategy, error) {
	if err := allocation.ValidateDriftThreshold(st.DriftThreshold); err != nil {
		return allocation.Strategy{}, err
	}
	if err := allocation.ValidateClassTargets(st.ClassTargets); err != nil {
		return allocation.Strategy{}, err
	}

	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.Strategy{}, err
	}

	updateSQL := `UPDATE strategy_v1 SET name=$1, drift_threshold=$2 WHERE id=$3 AND user_id=$4`
	tag, err := trx.Exec(ctx, updateSQL, st.Name, st.DriftThreshold, st.ID, userID)
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("StrategyID", st.ID).Msg("could not update strategy")
		trx.Rollback(ctx)
		return allocation.Strategy{}, err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return allocation.Strategy{}, common.NewNotFoundError("strategy %s not found", st.ID)
	}

	deleteTargetsSQL := `DELETE FROM asset_class_target_v1 WHERE strategy_id=$1`
	if _, err := trx.Exec(ctx, deleteTargetsSQL, st.ID); err != nil {
		log.Error().Err(err).Str("StrategyID", st.ID).Msg("could not clear class targets for update")
		trx.Rollback(ctx)
		return allocation.Strategy{}, err
	}

	if err := s.writeTargetsAndExclusions(ctx, trx, &st); err != nil {
		trx.Rollback(ctx)
		return allocation.Strategy{}, err
	}

	if err := trx.Commit(ctx); err != nil {
		log.Error().Err(err).Str("StrategyID", st.ID).Msg("could not commit strategy update")
		return allocation.Strategy{}, err
	}
	return st, nil
}

// writeTargetsAndExclusions inserts the full target tree and exclusion list
// for a strategy whose own row already exists in this transaction. Existing
// sub-rows must already have been cleared by the caller on update.
func (s *StrategyStore) writeTargetsAndExclusions(ctx context.Context, trx pgx.Tx, st *allocation.Strategy) error {
	for i, t := range st.ClassTargets {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		classSQL := `INSERT INTO asset_class_target_v1 (id, strategy_id, asset_class, target_percent) VALUES ($1, $2, $3, $4)`
		if _, err := trx.Exec(ctx, classSQL, t.ID, st.ID, string(t.AssetClass), t.TargetPercent); err != nil {
			log.Error().Err(err).Str("StrategyID", st.ID).Str("AssetClass", string(t.AssetClass)).Msg("could not insert class target")
			return err
		}
		for j, sub := range t.SubClasses {
			if sub.ID == "" {
				sub.ID = uuid.New().String()
			}
			subSQL := `INSERT INTO asset_sub_class_target_v1 (id, class_target_id, asset_sub_class, target_percent) VALUES ($1, $2, $3, $4)`
			if _, err := trx.Exec(ctx, subSQL, sub.ID, t.ID, string(sub.AssetSubClass), sub.TargetPercent); err != nil {
				log.Error().Err(err).Str("ClassTargetID", t.ID).Str("AssetSubClass", string(sub.AssetSubClass)).Msg("could not insert sub-class target")
				return err
			}
			t.SubClasses[j] = sub
		}
		st.ClassTargets[i] = t
	}

	for i, e := range st.Exclusions {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		exSQL := `INSERT INTO exclusion_v1 (id, strategy_id, symbol_profile_id, exclude_from_calculation, never_sell, reason)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := trx.Exec(ctx, exSQL, e.ID, st.ID, e.SymbolProfileID, e.ExcludeFromCalculation, e.NeverSell, e.Reason); err != nil {
			log.Error().Err(err).Str("StrategyID", st.ID).Str("SymbolProfileID", e.SymbolProfileID).Msg("could not insert exclusion")
			return err
		}
		st.Exclusions[i] = e
	}
	return nil
}

func (s *StrategyStore) DeleteStrategy(ctx context.Context, userID, strategyID string) error {
	trx, err := TrxForUser(userID)
	if err != nil {
		return err
	}
	deleteSQL := `DELETE FROM strategy_v1 WHERE id=$1 AND user_id=$2`
	tag, err := trx.Exec(ctx, deleteSQL, strategyID, userID)
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("StrategyID", strategyID).Msg("could not delete strategy")
		trx.Rollback(ctx)
		return err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return common.NewNotFoundError("strategy %s not found", strategyID)
	}
	return trx.Commit(ctx)
}

// ActivateStrategy atomically deactivates every other strategy for the user
// before marking strategyID active, so at most one strategy is ever active.
func (s *StrategyStore) ActivateStrategy(ctx context.Context, userID, strategyID string) error {
	trx, err := TrxForUser(userID)
	if err != nil {
		return err
	}

	deactivateSQL := `UPDATE strategy_v1 SET is_active=false WHERE user_id=$1`
	if _, err := trx.Exec(ctx, deactivateSQL, userID); err != nil {
		log.Error().Err(err).Str("UserID", userID).Msg("could not deactivate existing strategies")
		trx.Rollback(ctx)
		return err
	}

	activateSQL := `UPDATE strategy_v1 SET is_active=true WHERE id=$1 AND user_id=$2`
	tag, err := trx.Exec(ctx, activateSQL, strategyID, userID)
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Str("StrategyID", strategyID).Msg("could not activate strategy")
		trx.Rollback(ctx)
		return err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return common.NewNotFoundError("strategy %s not found", strategyID)
	}
	return trx.Commit(ctx)
}

func (s *StrategyStore) CreateClassTarget(ctx context.Context, userID, strategyID string, t allocation.AssetClassTarget) (allocation.AssetClassTarget, error) {
	st, err := s.GetStrategy(ctx, userID, strategyID)
	if err != nil {
		return allocation.AssetClassTarget{}, err
	}
	candidate := append(append([]allocation.AssetClassTarget{}, st.ClassTargets...), t)
	if err := allocation.ValidateClassTargets(candidate); err != nil {
		return allocation.AssetClassTarget{}, err
	}

	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.AssetClassTarget{}, err
	}
	t.ID = uuid.New().String()
	insertSQL := `INSERT INTO asset_class_target_v1 (id, strategy_id, asset_class, target_percent) VALUES ($1, $2, $3, $4)`
	if _, err := trx.Exec(ctx, insertSQL, t.ID, strategyID, string(t.AssetClass), t.TargetPercent); err != nil {
		log.Error().Err(err).Str("StrategyID", strategyID).Msg("could not create class target")
		trx.Rollback(ctx)
		return allocation.AssetClassTarget{}, err
	}
	return t, trx.Commit(ctx)
}

func (s *StrategyStore) UpdateClassTarget(ctx context.Context, userID, strategyID string, t allocation.AssetClassTarget) (allocation.AssetClassTarget, error) {
	st, err := s.GetStrategy(ctx, userID, strategyID)
	if err != nil {
		return allocation.AssetClassTarget{}, err
	}
	for i := range st.ClassTargets {
		if st.ClassTargets[i].ID == t.ID {
			st.ClassTargets[i].AssetClass = t.AssetClass
			st.ClassTargets[i].TargetPercent = t.TargetPercent
		}
	}
	if err := allocation.ValidateClassTargets(st.ClassTargets); err != nil {
		return allocation.AssetClassTarget{}, err
	}

	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.AssetClassTarget{}, err
	}
	updateSQL := `UPDATE asset_class_target_v1 SET asset_class=$1, target_percent=$2 WHERE id=$3 AND strategy_id=$4`
	tag, err := trx.Exec(ctx, updateSQL, string(t.AssetClass), t.TargetPercent, t.ID, strategyID)
	if err != nil {
		log.Error().Err(err).Str("StrategyID", strategyID).Str("TargetID", t.ID).Msg("could not update class target")
		trx.Rollback(ctx)
		return allocation.AssetClassTarget{}, err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return allocation.AssetClassTarget{}, common.NewNotFoundError("class target %s not found", t.ID)
	}
	return t, trx.Commit(ctx)
}

func (s *StrategyStore) DeleteClassTarget(ctx context.Context, userID, strategyID, targetID string) error {
	trx, err := TrxForUser(userID)
	if err != nil {
		return err
	}
	deleteSQL := `DELETE FROM asset_class_target_v1 WHERE id=$1 AND strategy_id=$2`
	tag, err := trx.Exec(ctx, deleteSQL, targetID, strategyID)
	if err != nil {
		log.Error().Err(err).Str("StrategyID", strategyID).Str("TargetID", targetID).Msg("could not delete class target")
		trx.Rollback(ctx)
		return err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return common.NewNotFoundError("class target %s not found", targetID)
	}
	return trx.Commit(ctx)
}

func (s *StrategyStore) CreateSubClassTarget(ctx context.Context, userID, strategyID, classTargetID string, t allocation.AssetSubClassTarget) (allocation.AssetSubClassTarget, error) {
	st, err := s.GetStrategy(ctx, userID, strategyID)
	if err != nil {
		return allocation.AssetSubClassTarget{}, err
	}
	for i := range st.ClassTargets {
		if st.ClassTargets[i].ID == classTargetID {
			st.ClassTargets[i].SubClasses = append(st.ClassTargets[i].SubClasses, t)
		}
	}
	if err := allocation.ValidateClassTargets(st.ClassTargets); err != nil {
		return allocation.AssetSubClassTarget{}, err
	}

	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.AssetSubClassTarget{}, err
	}
	t.ID = uuid.New().String()
	insertSQL := `INSERT INTO asset_sub_class_target_v1 (id, class_target_id, asset_sub_class, target_percent) VALUES ($1, $2, $3, $4)`
	if _, err := trx.Exec(ctx, insertSQL, t.ID, classTargetID, string(t.AssetSubClass), t.TargetPercent); err != nil {
		log.Error().Err(err).Str("ClassTargetID", classTargetID).Msg("could not create sub-class target")
		trx.Rollback(ctx)
		return allocation.AssetSubClassTarget{}, err
	}
	return t, trx.Commit(ctx)
}

func (s *StrategyStore) UpdateSubClassTarget(ctx context.Context, userID, strategyID, classTargetID string, t allocation.AssetSubClassTarget) (allocation.AssetSubClassTarget, error) {
	st, err := s.GetStrategy(ctx, userID, strategyID)
	if err != nil {
		return allocation.AssetSubClassTarget{}, err
	}
	for i := range st.ClassTargets {
		for j := range st.ClassTargets[i].SubClasses {
			if st.ClassTargets[i].ID == classTargetID && st.ClassTargets[i].SubClasses[j].ID == t.ID {
				st.ClassTargets[i].SubClasses[j] = t
			}
		}
	}
	if err := allocation.ValidateClassTargets(st.ClassTargets); err != nil {
		return allocation.AssetSubClassTarget{}, err
	}

	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.AssetSubClassTarget{}, err
	}
	updateSQL := `UPDATE asset_sub_class_target_v1 SET asset_sub_class=$1, target_percent=$2 WHERE id=$3 AND class_target_id=$4`
	tag, err := trx.Exec(ctx, updateSQL, string(t.AssetSubClass), t.TargetPercent, t.ID, classTargetID)
	if err != nil {
		log.Error().Err(err).Str("ClassTargetID", classTargetID).Str("SubTargetID", t.ID).Msg("could not update sub-class target")
		trx.Rollback(ctx)
		return allocation.AssetSubClassTarget{}, err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return allocation.AssetSubClassTarget{}, common.NewNotFoundError("sub-class target %s not found", t.ID)
	}
	return t, trx.Commit(ctx)
}

func (s *StrategyStore) DeleteSubClassTarget(ctx context.Context, userID, strategyID, classTargetID, subTargetID string) error {
	trx, err := TrxForUser(userID)
	if err != nil {
		return err
	}
	deleteSQL := `DELETE FROM asset_sub_class_target_v1 WHERE id=$1 AND class_target_id=$2`
	tag, err := trx.Exec(ctx, deleteSQL, subTargetID, classTargetID)
	if err != nil {
		log.Error().Err(err).Str("ClassTargetID", classTargetID).Str("SubTargetID", subTargetID).Msg("could not delete sub-class target")
		trx.Rollback(ctx)
		return err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return common.NewNotFoundError("sub-class target %s not found", subTargetID)
	}
	return trx.Commit(ctx)
}

func (s *StrategyStore) ListExclusions(ctx context.Context, userID, strategyID string) ([]allocation.Exclusion, error) {
	trx, err := TrxForUser(userID)
	if err != nil {
		return nil, err
	}
	exclusionSQL := `SELECT id, symbol_profile_id, exclude_from_calculation, never_sell, reason FROM exclusion_v1 WHERE strategy_id=$1`
	rows, err := trx.Query(ctx, exclusionSQL, strategyID)
	if err != nil {
		log.Error().Err(err).Str("StrategyID", strategyID).Msg("could not list exclusions")
		trx.Rollback(ctx)
		return nil, err
	}
	exclusions := make([]allocation.Exclusion, 0, 4)
	for rows.Next() {
		var e allocation.Exclusion
		if err := rows.Scan(&e.ID, &e.SymbolProfileID, &e.ExcludeFromCalculation, &e.NeverSell, &e.Reason); err != nil {
			log.Error().Err(err).Str("StrategyID", strategyID).Msg("failed scanning exclusion row")
			trx.Rollback(ctx)
			return nil, err
		}
		exclusions = append(exclusions, e)
	}
	trx.Commit(ctx)
	return exclusions, nil
}

func (s *StrategyStore) UpsertExclusion(ctx context.Context, userID, strategyID string, e allocation.Exclusion) (allocation.Exclusion, error) {
	trx, err := TrxForUser(userID)
	if err != nil {
		return allocation.Exclusion{}, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	upsertSQL := `INSERT INTO exclusion_v1 (id, strategy_id, symbol_profile_id, exclude_from_calculation, never_sell, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT exclusion_v1_pkey
		DO UPDATE SET exclude_from_calculation=$4, never_sell=$5, reason=$6`
	if _, err := trx.Exec(ctx, upsertSQL, e.ID, strategyID, e.SymbolProfileID, e.ExcludeFromCalculation, e.NeverSell, e.Reason); err != nil {
		log.Error().Err(err).Str("StrategyID", strategyID).Str("SymbolProfileID", e.SymbolProfileID).Msg("could not upsert exclusion")
		trx.Rollback(ctx)
		return allocation.Exclusion{}, err
	}
	return e, trx.Commit(ctx)
}

func (s *StrategyStore) DeleteExclusion(ctx context.Context, userID, strategyID, exclusionID string) error {
	trx, err := TrxForUser(userID)
	if err != nil {
		return err
	}
	deleteSQL := `DELETE FROM exclusion_v1 WHERE id=$1 AND strategy_id=$2`
	tag, err := trx.Exec(ctx, deleteSQL, exclusionID, strategyID)
	if err != nil {
		log.Error().Err(err).Str("StrategyID", strategyID).Str("ExclusionID", exclusionID).Msg("could not delete exclusion")
		trx.Rollback(ctx)
		return err
	}
	if tag.RowsAffected() == 0 {
		trx.Rollback(ctx)
		return common.NewNotFoundError("exclusion %s not found", exclusionID)
	}
	return trx.Commit(ctx)
}

// ListActiveStrategyUserIDs returns the user IDs that currently have an
// active strategy. It is not part of allocation.Store (spec.md §6's
// persistence contract is scoped to a single user); it backs the
// background drift-summary cache refresh job in cmd/serve.go, which needs
// to enumerate users rather than act on one already-known caller.
func (s *StrategyStore) ListActiveStrategyUserIDs(ctx context.Context) ([]string, error) {
	trx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	userSQL := `SELECT DISTINCT user_id FROM strategy_v1 WHERE is_active=true`
	rows, err := trx.Query(ctx, userSQL)
	if err != nil {
		log.Error().Err(err).Str("Query", userSQL).Msg("could not list active-strategy users")
		trx.Rollback(ctx)
		return nil, err
	}

	userIDs := make([]string, 0, 16)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			log.Error().Err(err).Msg("failed scanning user id row")
			trx.Rollback(ctx)
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	trx.Commit(ctx)
	return userIDs, nil
}

var _ allocation.Store = (*StrategyStore)(nil)
