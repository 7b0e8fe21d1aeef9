// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
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
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// types

type PgxIface interface {
	Begin(context.Context) (pgx.Tx, error)
}

var (
	ErrNotConnected = errors.New("database connection has not been configured")
	ErrEmptyRole    = errors.New("role cannot be an empty string")
)

// ReadRole is the read-only role every query runs under
const ReadRole = "pvuser"

// Private

var (
	pool             PgxIface
	openTransactions = make(map[string]string)
	trxLocker        sync.Mutex
)

func trackTransaction(trxID, caller string) {
	trxLocker.Lock()
	openTransactions[trxID] = caller
	trxLocker.Unlock()
}

func untrackTransaction(trxID string) {
	trxLocker.Lock()
	delete(openTransactions, trxID)
	trxLocker.Unlock()
}

// Public

func SetPool(myPool PgxIface) {
	trxLocker.Lock()
	openTransactions = make(map[string]string)
	trxLocker.Unlock()
	pool = myPool
}

// Connected returns true once a pool has been set
func Connected() bool {
	return pool != nil
}

// Connect opens a connection pool to database.url
func Connect(ctx context.Context) error {
	myPool, err := pgxpool.Connect(ctx, viper.GetString("database.url"))
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not connect to pool")
		return err
	}
	if err = myPool.Ping(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("could not ping database server")
		myPool.Close()
		return err
	}
	SetPool(myPool)
	return nil
}

// OpenTransactionCount returns the number of transactions that have not been committed
// or rolled back
func OpenTransactionCount() int {
	trxLocker.Lock()
	defer trxLocker.Unlock()
	return len(openTransactions)
}

// LogOpenTransactions writes a WARN log for each transaction that is still open and
// returns how many there were
func LogOpenTransactions() int {
	trxLocker.Lock()
	defer trxLocker.Unlock()
	for k, v := range openTransactions {
		log.Warn().Str("TrxId", k).Str("Caller", v).Msg("transaction was never committed or rolled back")
	}
	return len(openTransactions)
}

// TrxForRole creates a transaction with the given role set
func TrxForRole(ctx context.Context, role string) (pgx.Tx, error) {
	if role == "" {
		log.Error().Stack().Msg("role cannot be an empty string")
		return nil, ErrEmptyRole
	}

	if pool == nil {
		return nil, ErrNotConnected
	}

	trx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	// record transactions in openTransaction log
	_, file, lineno, ok := runtime.Caller(1)
	caller := fmt.Sprintf("[%v] %s:%d", ok, file, lineno)
	trxID := uuid.New().String()
	trackTransaction(trxID, caller)

	wrappedTrx := &PvDbTx{
		id:   trxID,
		role: role,
		tx:   trx,
	}

	// NOTE: SET ROLE cannot be parameterized so the identifier is sanitized here
	ident := pgx.Identifier{role}
	sql := fmt.Sprintf("SET ROLE %s", ident.Sanitize())
	if _, err = wrappedTrx.Exec(ctx, sql); err != nil {
		log.Error().Stack().Err(err).Str("Role", role).Msg("could not switch role")
		if err := wrappedTrx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	return wrappedTrx, nil
}

// Trx creates a transaction under the read-only role
func Trx(ctx context.Context) (pgx.Tx, error) {
	return TrxForRole(ctx, ReadRole)
}
