package repository

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/paibudget/budget-service/internal/common"
	"github.com/paibudget/budget-service/internal/models"
	sharedredis "github.com/paibudget/budget-service/internal/redis"
)

// TransactionViewKeyPrefix namespaces cached transaction views in Redis.
const TransactionViewKeyPrefix = "transaction:view:"

// TransactionReadRepository handles all read operations for transactions.
// When a cache is configured, single-record reads go to Redis first and fall
// back to the database on a miss.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.Transaction]
}

// NewTransactionReadRepository creates a read repository. cache may be nil.
func NewTransactionReadRepository(db *sql.DB, cache *sharedredis.ViewCache[models.Transaction]) *TransactionReadRepository {
	return &TransactionReadRepository{db: db, cache: cache}
}

// GetByID returns one transaction or common.ErrNotFound.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	key := strconv.FormatInt(id, 10)
	if r.cache != nil {
		if view, ok := r.cache.Get(ctx, key); ok {
			return view, nil
		}
	}

	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, selectTransactionColumns+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	r.CacheTransaction(ctx, transaction)
	return transaction, nil
}

// List returns every transaction in insertion order. The result is never nil.
func (r *TransactionReadRepository) List(ctx context.Context) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactionColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, common.NewStorageError("list transactions", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStorageError("list transactions", err)
	}
	return transactions, nil
}

// CacheTransaction stores the current view of a transaction. It is a no-op
// without a cache.
func (r *TransactionReadRepository) CacheTransaction(ctx context.Context, transaction *models.Transaction) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, strconv.FormatInt(transaction.ID, 10), transaction)
}

// InvalidateTransaction drops the cached view of a deleted transaction.
func (r *TransactionReadRepository) InvalidateTransaction(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, strconv.FormatInt(id, 10))
}
