package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paibudget/budget-service/internal/common"
	"github.com/paibudget/budget-service/internal/models"
)

const selectTransactionColumns = `SELECT id, title, amount, category, type, date FROM transactions`

// TransactionWriteRepository handles all state-mutating operations for transactions.
// Every method runs inside one database transaction that is committed before it
// returns, or rolled back on any failure.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Create inserts transaction and sets its storage-assigned ID.
func (r *TransactionWriteRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO transactions (title, amount, category, type, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err = tx.QueryRowContext(ctx, query,
		transaction.Title, transaction.Amount, transaction.Category,
		transaction.Type, transaction.Date.UTC(),
	).Scan(&id)
	if err != nil {
		return common.NewStorageError("create transaction", err)
	}

	if err := tx.Commit(); err != nil {
		return common.NewStorageError("commit transaction", err)
	}
	transaction.ID = id
	return nil
}

// Update loads the row, lets apply mutate it, and writes it back. If apply
// returns an error nothing is written and that error is returned unchanged.
func (r *TransactionWriteRepository) Update(ctx context.Context, id int64, apply func(*models.Transaction) error) (*models.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	transaction, err := scanTransaction(tx.QueryRowContext(ctx, selectTransactionColumns+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := apply(transaction); err != nil {
		return nil, err
	}
	transaction.ID = id

	// SQLite numbers $n by first appearance, so placeholders stay in argument order.
	query := `
		UPDATE transactions
		SET title = $1, amount = $2, category = $3, type = $4, date = $5
		WHERE id = $6
	`
	result, err := tx.ExecContext(ctx, query,
		transaction.Title, transaction.Amount, transaction.Category,
		transaction.Type, transaction.Date.UTC(), id,
	)
	if err != nil {
		return nil, common.NewStorageError("update transaction", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewStorageError("check rows affected", err)
	}
	if rows != 1 {
		return nil, common.NewStorageError("update transaction", fmt.Errorf("expected 1 row affected, got %d", rows))
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewStorageError("commit transaction", err)
	}
	return transaction, nil
}

// Delete removes the row permanently.
func (r *TransactionWriteRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return common.NewStorageError("delete transaction", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return common.NewStorageError("check rows affected", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return common.NewStorageError("commit transaction", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Title, &t.Amount, &t.Category, &t.Type, &t.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.NewStorageError("get transaction", err)
	}
	t.Date = t.Date.UTC()
	return &t, nil
}
