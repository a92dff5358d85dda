package query

import (
	"context"

	"github.com/paibudget/budget-service/internal/cqrs"
	"github.com/paibudget/budget-service/internal/models"
	"github.com/paibudget/budget-service/internal/repository"
)

// TransactionQueryService serves transaction reads.
type TransactionQueryService struct {
	readRepo *repository.TransactionReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	return s.readRepo.GetByID(ctx, q.TransactionID)
}

// ListTransactions returns every transaction in insertion order.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, _ cqrs.ListTransactionsQuery) ([]models.Transaction, error) {
	return s.readRepo.List(ctx)
}
