// Copyright 2021 JD Fergason
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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// PgxIface is the minimal pool surface TrxForUser needs, narrowed so tests
// can inject a pgxmock connection in place of a real pgxpool.Pool.
type PgxIface interface {
	Begin(context.Context) (pgx.Tx, error)
}

// Private

var pool PgxIface

func createUser(userID string) error {
	if userID == "" {
		log.Error().Msg("userID cannot be an empty string")
		return errors.New("userID cannot be an empty string")
	}

	log.Info().Str("UserID", userID).Msg("creating new role")
	trx, err := pool.Begin(context.Background())
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Msg("could not create new transaction")
		return err
	}

	// Make sure the current role is rebalance_engine
	_, err = trx.Exec(context.Background(), "SET ROLE rebalance_engine")
	if err != nil {
		log.Error().Err(err).Str("UserID", userID).Msg("could not switch to rebalance_engine role")
		trx.Rollback(context.Background())
		return err
	}

	// Create the role
	// NOTE: We have to do our own sanitization because postgresql can only do sanitization on
	// select, insert, update, and delete queries
	ident := pgx.Identifier{userID}
	sql := fmt.Sprintf("CREATE ROLE %s WITH nologin IN ROLE rebalance_user;", ident.Sanitize())
	_, err = trx.Exec(context.Background(), sql)
	if err != nil {
		trx.Rollback(context.Background())
		log.Error().Err(err).Str("UserID", userID).Str("Query", sql).Msg("failed to create role")
		return err
	}

	// Grant privileges
	// NOTE: We have to do our own sanitization because postgresql can only do sanitization on
	// select, insert, update, and delete queries
	sql = fmt.Sprintf("GRANT %s TO rebalance_engine;", ident.Sanitize())
	_, err = trx.Exec(context.Background(), sql)
	if err != nil {
		trx.Rollback(context.Background())
		log.Error().Err(err).Str("UserID", userID).Str("Query", sql).Msg("failed to grant privileges to role")
		return err
	}

	err = trx.Commit(context.Background())
	if err != nil {
		trx.Rollback(context.Background())
		log.Error().Err(err).Str("UserID", userID).Msg("failed to commit changes")
		return err
	}

	return nil
}

// Public

// SetPool overrides the connection pool, used by tests to inject a
// pgxmock connection in place of a real database.
func SetPool(myPool PgxIface) {
	pool = myPool
}

func Connect() error {
	myPool, err := pgxpool.Connect(context.Background(), viper.GetString("database.url"))
	if err != nil {
		return err
	}
	if err = myPool.Ping(context.Background()); err != nil {
		return err
	}
	pool = myPool
	return nil
}

// Create a trx with the appropriate user set
// NOTE: the default user is rebalance_engine which only has enough privileges to create new roles and switch to them.
// Any kind of real work must be done with a user role which limits access to only that user
func TrxForUser(userID string) (pgx.Tx, error) {
	trx, err := pool.Begin(context.Background())
	if err != nil {
		return nil, err
	}

	// set user
	ident := pgx.Identifier{userID}
	sql := fmt.Sprintf("SET ROLE %s", ident.Sanitize())
	_, err = trx.Exec(context.Background(), sql)
	if err != nil {
		// user doesn't exist -- create it
		log.Warn().Err(err).Str("UserID", userID).Msg("role does not exist")
		trx.Rollback(context.Background())
		err = createUser(userID)
		if err != nil {
			return nil, err
		}
		return TrxForUser(userID)
	}

	return trx, nil
}
