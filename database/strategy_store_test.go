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

package database_test

import (
	"context"

	"github.com/jackc/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"
	"github.com/shopspring/decimal"

	"github.com/penny-vault/rebalance-engine/allocation"
	"github.com/penny-vault/rebalance-engine/common"
	"github.com/penny-vault/rebalance-engine/database"
)

var _ = Describe("StrategyStore", func() {
	var (
		dbPool pgxmock.PgxConnIface
		store  *database.StrategyStore
		ctx    context.Context
		err    error
	)

	BeforeEach(func() {
		dbPool, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		database.SetPool(dbPool)

		store = database.NewStrategyStore()
		ctx = context.Background()
	})

	Describe("CreateStrategy", func() {
		Context("with a valid target tree", func() {
			It("rejects an out-of-range drift threshold before touching the database", func() {
				_, err := store.CreateStrategy(ctx, "user-1", allocation.Strategy{
					Name:           "Core",
					DriftThreshold: decimal.NewFromInt(0),
				})
				Expect(err).NotTo(BeNil())
				Expect(common.IsKind(err, common.ErrValidation)).To(BeTrue())
			})

			It("inserts the strategy and its target tree", func() {
				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
				dbPool.ExpectExec("INSERT INTO strategy_v1").WillReturnResult(pgconn.CommandTag("INSERT 0 1"))
				dbPool.ExpectExec("INSERT INTO asset_class_target_v1").WillReturnResult(pgconn.CommandTag("INSERT 0 1"))
				dbPool.ExpectExec("INSERT INTO asset_sub_class_target_v1").WillReturnResult(pgconn.CommandTag("INSERT 0 1"))
				dbPool.ExpectCommit()

				created, err := store.CreateStrategy(ctx, "user-1", allocation.Strategy{
					Name:           "Core",
					DriftThreshold: decimal.NewFromInt(5),
					ClassTargets: []allocation.AssetClassTarget{
						{
							AssetClass:    allocation.AssetClassEquity,
							TargetPercent: decimal.NewFromInt(60),
							SubClasses: []allocation.AssetSubClassTarget{
								{AssetSubClass: allocation.AssetSubClassStock, TargetPercent: decimal.NewFromInt(60)},
							},
						},
					},
				})

				Expect(err).To(BeNil())
				Expect(created.ID).NotTo(BeEmpty())
				Expect(created.IsActive).To(BeFalse())
				Expect(created.ClassTargets).To(HaveLen(1))
				Expect(created.ClassTargets[0].ID).NotTo(BeEmpty())
				Expect(created.ClassTargets[0].SubClasses).To(HaveLen(1))
				Expect(created.ClassTargets[0].SubClasses[0].ID).NotTo(BeEmpty())

				Expect(dbPool.ExpectationsWereMet()).To(BeNil())
			})
		})
	})

	Describe("GetActiveStrategy", func() {
		Context("when the user has no active strategy", func() {
			It("returns nil without error", func() {
				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
				dbPool.ExpectQuery("SELECT").WillReturnRows(
					pgxmock.NewRows([]string{"id", "name", "is_active", "drift_threshold"}))
				dbPool.ExpectCommit()

				st, err := store.GetActiveStrategy(ctx, "user-1")
				Expect(err).To(BeNil())
				Expect(st).To(BeNil())

				Expect(dbPool.ExpectationsWereMet()).To(BeNil())
			})
		})

		Context("when the user has an active strategy", func() {
			It("hydrates the target tree", func() {
				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
				dbPool.ExpectQuery("SELECT").WillReturnRows(
					pgxmock.NewRows([]string{"id", "name", "is_active", "drift_threshold"}).
						AddRow("strategy-1", "Core", true, "5"))
				dbPool.ExpectCommit()

				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
				dbPool.ExpectQuery("SELECT").WillReturnRows(
					pgxmock.NewRows([]string{"id", "asset_class", "target_percent"}).
						AddRow("target-1", "EQUITY", "60"))
				dbPool.ExpectQuery("SELECT").WillReturnRows(
					pgxmock.NewRows([]string{"id", "asset_sub_class", "target_percent"}).
						AddRow("sub-1", "STOCK", "60"))
				dbPool.ExpectQuery("SELECT").WillReturnRows(
					pgxmock.NewRows([]string{"id", "symbol_profile_id", "exclude_from_calculation", "never_sell", "reason"}))
				dbPool.ExpectCommit()

				st, err := store.GetActiveStrategy(ctx, "user-1")
				Expect(err).To(BeNil())
				Expect(st).NotTo(BeNil())
				Expect(st.ID).To(Equal("strategy-1"))
				Expect(st.ClassTargets).To(HaveLen(1))
				Expect(st.ClassTargets[0].SubClasses).To(HaveLen(1))
				Expect(st.Exclusions).To(BeEmpty())

				Expect(dbPool.ExpectationsWereMet()).To(BeNil())
			})
		})
	})

	Describe("ActivateStrategy", func() {
		Context("when the strategy exists", func() {
			It("deactivates every other strategy before activating the target one", func() {
				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
				dbPool.ExpectExec("UPDATE strategy_v1 SET is_active=false").WillReturnResult(pgconn.CommandTag("UPDATE 2"))
				dbPool.ExpectExec("UPDATE strategy_v1 SET is_active=true").WillReturnResult(pgconn.CommandTag("UPDATE 1"))
				dbPool.ExpectCommit()

				err := store.ActivateStrategy(ctx, "user-1", "strategy-1")
				Expect(err).To(BeNil())

				Expect(dbPool.ExpectationsWereMet()).To(BeNil())
			})
		})

		Context("when the strategy does not belong to the user", func() {
			It("rolls back and returns a not-found error", func() {
				dbPool.ExpectBegin()
				dbPool.ExpectExec("SET ROLE").WillReturnResult(pgconn.CommandTag("SET ROLE"))
				dbPool.ExpectExec("UPDATE strategy_v1 SET is_active=false").WillReturnResult(pgconn.CommandTag("UPDATE 0"))
				dbPool.ExpectExec("UPDATE strategy_v1 SET is_active=true").WillReturnResult(pgconn.CommandTag("UPDATE 0"))
				dbPool.ExpectRollback()

				err := store.ActivateStrategy(ctx, "user-1", "missing-strategy")
				Expect(err).NotTo(BeNil())
				Expect(common.IsKind(err, common.ErrNotFound)).To(BeTrue())

				Expect(dbPool.ExpectationsWereMet()).To(BeNil())
			})
		})
	})
})
