// MIT License
//
// Copyright (c) 2024-2026 Banksys Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/banksys/accounts/internal/domain"
)

const uniqueViolation = "23505"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	owner_identity_number BIGINT NOT NULL,
	owner_first_name VARCHAR(50) NOT NULL,
	owner_last_name VARCHAR(50) NOT NULL,
	account_type VARCHAR(3) NOT NULL,
	balance NUMERIC(15,2) NOT NULL,
	UNIQUE (owner_identity_number, account_type)
)`,
	`CREATE TABLE IF NOT EXISTS account_transactions (
	id UUID PRIMARY KEY,
	account_id UUID NOT NULL REFERENCES accounts (id),
	transaction_kind VARCHAR(10) NOT NULL,
	amount NUMERIC(15,2) NOT NULL,
	transaction_date TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS account_transactions_account_id_idx
	ON account_transactions (account_id)`,
}

var accountColumns = []string{
	"id",
	"owner_identity_number",
	"owner_first_name",
	"owner_last_name",
	"account_type",
	"balance",
}

var transactionColumns = []string{
	"id",
	"account_id",
	"transaction_kind",
	"amount",
	"transaction_date",
}

// PostgresStore is the production Store backed by a pgx connection pool.
// WithinTx maps to a database transaction; GetAccountForUpdate issues
// SELECT ... FOR UPDATE so concurrent mutations of one account serialize on
// the row lock.
type PostgresStore struct {
	config  *PostgresConfig
	pool    *pgxpool.Pool
	connStr string
	sb      sq.StatementBuilderType
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates an instance of PostgresStore.
func NewPostgresStore(config *PostgresConfig) *PostgresStore {
	postgres := new(PostgresStore)
	postgres.config = config
	postgres.connStr = createConnectionString(config.DBHost, config.DBPort, config.DBName, config.DBUser, config.DBPassword)
	postgres.sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return postgres
}

func (x *PostgresStore) Start(ctx context.Context) error {
	config, err := pgxpool.ParseConfig(x.connStr)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create the connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping the database connection: %w", err)
	}

	x.pool = pool
	for _, statement := range schemaStatements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to bootstrap the schema: %w", err)
		}
	}
	return nil
}

func (x *PostgresStore) Stop() error {
	if x.pool == nil {
		return nil
	}
	x.pool.Close()
	return nil
}

func (x *PostgresStore) InsertAccount(ctx context.Context, account *domain.Account) error {
	query, args, err := x.sb.
		Insert("accounts").
		Columns(accountColumns...).
		Values(
			account.ID,
			account.OwnerIdentityNumber,
			account.OwnerFirstName,
			account.OwnerLastName,
			string(account.Type),
			account.Balance,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := x.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrapf(domain.ErrConflict,
				"owner identity number %d with account type %s", account.OwnerIdentityNumber, account.Type)
		}
		return errors.Wrapf(err, "failed to insert account %s", account.ID)
	}
	return nil
}

func (x *PostgresStore) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query, args, err := x.sb.
		Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAccount(x.pool.QueryRow(ctx, query, args...), id.String())
}

func (x *PostgresStore) GetAccountByOwnerAndType(ctx context.Context, ownerIdentityNumber int64, accountType domain.AccountType) (*domain.Account, error) {
	query, args, err := x.sb.
		Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{
			"owner_identity_number": ownerIdentityNumber,
			"account_type":          string(accountType),
		}).
		ToSql()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("owner=%d type=%s", ownerIdentityNumber, accountType)
	return scanAccount(x.pool.QueryRow(ctx, query, args...), key)
}

func (x *PostgresStore) UpdateAccount(ctx context.Context, account *domain.Account) error {
	query, args, err := x.sb.
		Update("accounts").
		Set("owner_identity_number", account.OwnerIdentityNumber).
		Set("owner_first_name", account.OwnerFirstName).
		Set("owner_last_name", account.OwnerLastName).
		Set("account_type", string(account.Type)).
		Set("balance", account.Balance).
		Where(sq.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := x.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrapf(domain.ErrConflict,
				"owner identity number %d with account type %s", account.OwnerIdentityNumber, account.Type)
		}
		return errors.Wrapf(err, "failed to update account %s", account.ID)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrNotFound, "account %s", account.ID)
	}
	return nil
}

func (x *PostgresStore) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*domain.Transaction, error) {
	query, args, err := x.sb.
		Select(transactionColumns...).
		From("account_transactions").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("transaction_date ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := x.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list transactions for account %s", accountID)
	}
	defer rows.Close()

	var out []*domain.Transaction
	for rows.Next() {
		transaction := new(domain.Transaction)
		var kind string
		if err := rows.Scan(
			&transaction.ID,
			&transaction.AccountID,
			&kind,
			&transaction.Amount,
			&transaction.Timestamp,
		); err != nil {
			return nil, err
		}
		transaction.Kind = domain.TransactionKind(kind)
		out = append(out, transaction)
	}
	return out, rows.Err()
}

func (x *PostgresStore) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query, args, err := x.sb.
		Select(transactionColumns...).
		From("account_transactions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	transaction := new(domain.Transaction)
	var kind string
	err = x.pool.QueryRow(ctx, query, args...).Scan(
		&transaction.ID,
		&transaction.AccountID,
		&kind,
		&transaction.Amount,
		&transaction.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(domain.ErrNotFound, "transaction %s", id)
		}
		return nil, errors.Wrapf(err, "failed to get transaction %s", id)
	}
	transaction.Kind = domain.TransactionKind(kind)
	return transaction, nil
}

func (x *PostgresStore) WithinTx(ctx context.Context, fn func(tx TxStore) error) error {
	dbTx, err := x.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if err := fn(&postgresTx{tx: dbTx, sb: x.sb}); err != nil {
		_ = dbTx.Rollback(ctx)
		return err
	}
	return dbTx.Commit(ctx)
}

type postgresTx struct {
	tx pgx.Tx
	sb sq.StatementBuilderType
}

var _ TxStore = (*postgresTx)(nil)

func (x *postgresTx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query, args, err := x.sb.
		Select(accountColumns...).
		From("accounts").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAccount(x.tx.QueryRow(ctx, query, args...), id.String())
}

func (x *postgresTx) UpdateAccountBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	query, args, err := x.sb.
		Update("accounts").
		Set("balance", balance).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := x.tx.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to update balance of account %s", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrNotFound, "account %s", id)
	}
	return nil
}

func (x *postgresTx) AppendTransaction(ctx context.Context, transaction *domain.Transaction) error {
	query, args, err := x.sb.
		Insert("account_transactions").
		Columns(transactionColumns...).
		Values(
			transaction.ID,
			transaction.AccountID,
			string(transaction.Kind),
			transaction.Amount,
			transaction.Timestamp,
		).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := x.tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to append transaction %s", transaction.ID)
	}
	return nil
}

func (x *postgresTx) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	query, args, err := x.sb.
		Delete("accounts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := x.tx.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "failed to delete account %s", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrNotFound, "account %s", id)
	}
	return nil
}

func (x *postgresTx) DeleteTransactionsByAccount(ctx context.Context, accountID uuid.UUID) error {
	query, args, err := x.sb.
		Delete("account_transactions").
		Where(sq.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := x.tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to delete transactions of account %s", accountID)
	}
	return nil
}

func scanAccount(row pgx.Row, key string) (*domain.Account, error) {
	account := new(domain.Account)
	var accountType string
	err := row.Scan(
		&account.ID,
		&account.OwnerIdentityNumber,
		&account.OwnerFirstName,
		&account.OwnerLastName,
		&accountType,
		&account.Balance,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(domain.ErrNotFound, "account %s", key)
		}
		return nil, errors.Wrapf(err, "failed to get account %s", key)
	}
	account.Type = domain.AccountType(accountType)
	return account, nil
}

func createConnectionString(host string, port int, name, user string, password string) string {
	info := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", host, port, user, name)
	if password != "" {
		info += fmt.Sprintf(" password=%s", password)
	}
	return info
}
