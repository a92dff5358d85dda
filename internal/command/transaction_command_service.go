package command

import (
	"context"

	"github.com/paibudget/budget-service/internal/common"
	"github.com/paibudget/budget-service/internal/cqrs"
	"github.com/paibudget/budget-service/internal/events"
	"github.com/paibudget/budget-service/internal/models"
	"github.com/paibudget/budget-service/internal/repository"
)

// EventPublisher appends change events to the transaction event stream.
// *events.Publisher and events.Nop satisfy it.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// TransactionCommandService validates and applies writes, then keeps the read
// model and event stream in sync.
type TransactionCommandService struct {
	writeRepo *repository.TransactionWriteRepository
	readRepo  *repository.TransactionReadRepository
	publisher EventPublisher
}

func NewTransactionCommandService(
	writeRepo *repository.TransactionWriteRepository,
	readRepo *repository.TransactionReadRepository,
	publisher EventPublisher,
) *TransactionCommandService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &TransactionCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if cmd.Date == "" {
		return nil, common.NewValidationError(models.MsgMissingData, common.FieldError{
			Field: "date", Message: "This field is required", Type: "required",
		})
	}

	transaction := &models.Transaction{
		Title:    cmd.Title,
		Amount:   cmd.Amount,
		Category: cmd.Category,
		Type:     cmd.Type,
	}
	if err := models.ValidateStruct(transaction); err != nil {
		return nil, err
	}

	date, err := models.ParseDate(cmd.Date)
	if err != nil {
		return nil, models.InvalidDateError()
	}
	transaction.Date = date

	if err := s.writeRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.readRepo.CacheTransaction(ctx, transaction)
	s.publish(ctx, events.TransactionCreated, changedEvent(transaction))
	common.LogInfo("transaction created", common.Fields{"id": transaction.ID, "type": transaction.Type})
	return transaction, nil
}

// UpdateTransaction replaces the supplied fields. The date is parsed before
// anything else, then the merged record is validated as a whole so a stored
// record can never end up with a non-positive amount or unknown type.
func (s *TransactionCommandService) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	transaction, err := s.writeRepo.Update(ctx, cmd.TransactionID, func(t *models.Transaction) error {
		if cmd.IsEmpty() {
			return common.NewValidationError(models.MsgNoData)
		}
		if cmd.Date != nil {
			date, err := models.ParseDate(*cmd.Date)
			if err != nil {
				return models.InvalidDateError()
			}
			t.Date = date
		}
		if cmd.Title != nil {
			t.Title = *cmd.Title
		}
		if cmd.Amount != nil {
			t.Amount = *cmd.Amount
		}
		if cmd.Category != nil {
			t.Category = *cmd.Category
		}
		if cmd.Type != nil {
			t.Type = *cmd.Type
		}
		return t.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.readRepo.CacheTransaction(ctx, transaction)
	s.publish(ctx, events.TransactionUpdated, changedEvent(transaction))
	common.LogInfo("transaction updated", common.Fields{"id": transaction.ID})
	return transaction, nil
}

func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	if err := s.writeRepo.Delete(ctx, cmd.TransactionID); err != nil {
		return err
	}

	s.readRepo.InvalidateTransaction(ctx, cmd.TransactionID)
	s.publish(ctx, events.TransactionDeleted, events.TransactionDeletedEvent{TransactionID: cmd.TransactionID})
	common.LogInfo("transaction deleted", common.Fields{"id": cmd.TransactionID})
	return nil
}

// publish never fails the request; the write is already committed.
func (s *TransactionCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, eventType, data); err != nil {
		common.LogError(err, "failed to publish event", common.Fields{"event": eventType})
	}
}

func changedEvent(t *models.Transaction) events.TransactionChangedEvent {
	return events.TransactionChangedEvent{
		TransactionID: t.ID,
		Title:         t.Title,
		Amount:        t.Amount,
		Category:      t.Category,
		Type:          t.Type,
		Date:          models.FormatDate(t.Date),
	}
}
