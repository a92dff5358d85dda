package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paibudget/budget-service/internal/common"
	"github.com/paibudget/budget-service/internal/cqrs"
	"github.com/paibudget/budget-service/internal/events"
	"github.com/paibudget/budget-service/internal/models"
	sharedredis "github.com/paibudget/budget-service/internal/redis"
	"github.com/paibudget/budget-service/internal/repository"
	"github.com/paibudget/budget-service/internal/testutil"
)

type recordingPublisher struct {
	types []string
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.types = append(p.types, eventType)
	return p.err
}

func newTestService(t *testing.T) (*TransactionCommandService, *repository.TransactionReadRepository, *recordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	readRepo := repository.NewTransactionReadRepository(db, nil)
	pub := &recordingPublisher{}
	svc := NewTransactionCommandService(repository.NewTransactionWriteRepository(db), readRepo, pub)
	return svc, readRepo, pub
}

func coffeeCommand() cqrs.CreateTransactionCommand {
	return cqrs.CreateTransactionCommand{
		Title:    "Coffee",
		Amount:   4.5,
		Category: "Food",
		Type:     models.TypeExpense,
		Date:     "2023-10-26T14:30:00Z",
	}
}

func ptr[T any](v T) *T { return &v }

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Message
}

func TestCreateTransaction(t *testing.T) {
	svc, readRepo, pub := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, coffeeCommand())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "2023-10-26T14:30:00Z", models.FormatDate(created.Date))
	assert.Equal(t, []string{events.TransactionCreated}, pub.types)

	stored, err := readRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, stored.Title)
	assert.Equal(t, created.Amount, stored.Amount)
	assert.Equal(t, created.Category, stored.Category)
	assert.Equal(t, created.Type, stored.Type)
	assert.True(t, created.Date.Equal(stored.Date))
}

func TestCreateTransactionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*cqrs.CreateTransactionCommand)
		wantMsg string
	}{
		{"zero amount", func(c *cqrs.CreateTransactionCommand) { c.Amount = 0 }, models.MsgInvalidAmount},
		{"negative amount", func(c *cqrs.CreateTransactionCommand) { c.Amount = -2 }, models.MsgInvalidAmount},
		{"bad type", func(c *cqrs.CreateTransactionCommand) { c.Type = "gift" }, models.MsgInvalidType},
		{"bad date", func(c *cqrs.CreateTransactionCommand) { c.Date = "26/10/2023" }, models.MsgInvalidDate},
		{"missing date", func(c *cqrs.CreateTransactionCommand) { c.Date = "" }, models.MsgMissingData},
		{"missing title", func(c *cqrs.CreateTransactionCommand) { c.Title = "" }, models.MsgMissingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, readRepo, pub := newTestService(t)
			cmd := coffeeCommand()
			tt.mutate(&cmd)

			_, err := svc.CreateTransaction(context.Background(), cmd)
			assert.Equal(t, tt.wantMsg, validationMessage(t, err))

			all, err := readRepo.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "nothing may be persisted")
			assert.Empty(t, pub.types)
		})
	}
}

func TestUpdateTransactionPartial(t *testing.T) {
	svc, readRepo, pub := newTestService(t)
	ctx := context.Background()
	created, err := svc.CreateTransaction(ctx, coffeeCommand())
	require.NoError(t, err)

	updated, err := svc.UpdateTransaction(ctx, cqrs.UpdateTransactionCommand{
		TransactionID: created.ID,
		Category:      ptr("Drinks"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", updated.Category)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Amount, updated.Amount)
	assert.Equal(t, created.Type, updated.Type)
	assert.True(t, created.Date.Equal(updated.Date))
	assert.Equal(t, []string{events.TransactionCreated, events.TransactionUpdated}, pub.types)

	stored, err := readRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", stored.Category)
	assert.Equal(t, created.Title, stored.Title)
	assert.Equal(t, created.Amount, stored.Amount)
	assert.Equal(t, created.Type, stored.Type)
	assert.True(t, created.Date.Equal(stored.Date))
}

func TestUpdateTransactionAllFields(t *testing.T) {
	svc, readRepo, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.CreateTransaction(ctx, coffeeCommand())
	require.NoError(t, err)

	updated, err := svc.UpdateTransaction(ctx, cqrs.UpdateTransactionCommand{
		TransactionID: created.ID,
		Title:         ptr("Refund"),
		Amount:        ptr(12.0),
		Category:      ptr("Shopping"),
		Type:          ptr(models.TypeIncome),
		Date:          ptr("2023-11-02T08:00:00+01:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Refund", updated.Title)
	assert.Equal(t, 12.0, updated.Amount)
	assert.Equal(t, models.TypeIncome, updated.Type)
	assert.Equal(t, "2023-11-02T07:00:00Z", models.FormatDate(updated.Date))

	stored, err := readRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refund", stored.Title)
	assert.Equal(t, 12.0, stored.Amount)
	assert.Equal(t, "Shopping", stored.Category)
	assert.Equal(t, models.TypeIncome, stored.Type)
	assert.Equal(t, "2023-11-02T07:00:00Z", models.FormatDate(stored.Date))
}

func TestUpdateTransactionWithViewCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := sharedredis.NewViewCache[models.Transaction](client, repository.TransactionViewKeyPrefix, time.Minute)
	readRepo := repository.NewTransactionReadRepository(db, cache)
	uncachedRepo := repository.NewTransactionReadRepository(db, nil)
	svc := NewTransactionCommandService(repository.NewTransactionWriteRepository(db), readRepo, nil)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, coffeeCommand())
	require.NoError(t, err)

	_, err = svc.UpdateTransaction(ctx, cqrs.UpdateTransactionCommand{
		TransactionID: created.ID,
		Amount:        ptr(9.0),
		Category:      ptr("Drinks"),
	})
	require.NoError(t, err)

	cached, err := readRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	stored, err := uncachedRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, 9.0, stored.Amount)
	assert.Equal(t, "Drinks", stored.Category)
	assert.Equal(t, *stored, *cached)
}

func TestUpdateTransactionRejectsInvalidResult(t *testing.T) {
	tests := []struct {
		name    string
		cmd     cqrs.UpdateTransactionCommand
		wantMsg string
	}{
		{"empty", cqrs.UpdateTransactionCommand{}, models.MsgNoData},
		{"bad date", cqrs.UpdateTransactionCommand{Date: ptr("not-a-date"), Amount: ptr(-1.0)}, models.MsgInvalidDate},
		{"zero amount", cqrs.UpdateTransactionCommand{Amount: ptr(0.0)}, models.MsgInvalidAmount},
		{"bad type", cqrs.UpdateTransactionCommand{Type: ptr("transfer")}, models.MsgInvalidType},
		{"empty title", cqrs.UpdateTransactionCommand{Title: ptr("")}, models.MsgMissingData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, readRepo, _ := newTestService(t)
			ctx := context.Background()
			created, err := svc.CreateTransaction(ctx, coffeeCommand())
			require.NoError(t, err)

			cmd := tt.cmd
			cmd.TransactionID = created.ID
			_, err = svc.UpdateTransaction(ctx, cmd)
			assert.Equal(t, tt.wantMsg, validationMessage(t, err))

			stored, err := readRepo.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, *created, *stored, "record must be unchanged")
		})
	}
}

func TestNotFound(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateTransaction(ctx, cqrs.UpdateTransactionCommand{TransactionID: 9, Title: ptr("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Unknown id wins over an empty body.
	_, err = svc.UpdateTransaction(ctx, cqrs.UpdateTransactionCommand{TransactionID: 9})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteTransaction(ctx, cqrs.DeleteTransactionCommand{TransactionID: 9}), common.ErrNotFound)
	assert.Empty(t, pub.types)
}

func TestDeleteTransaction(t *testing.T) {
	svc, readRepo, pub := newTestService(t)
	ctx := context.Background()
	created, err := svc.CreateTransaction(ctx, coffeeCommand())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, cqrs.DeleteTransactionCommand{TransactionID: created.ID}))
	_, err = readRepo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, []string{events.TransactionCreated, events.TransactionDeleted}, pub.types)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	svc, readRepo, pub := newTestService(t)
	pub.err = errors.New("redis down")

	created, err := svc.CreateTransaction(context.Background(), coffeeCommand())
	require.NoError(t, err)

	_, err = readRepo.GetByID(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestNilPublisherDefaultsToNop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewTransactionCommandService(
		repository.NewTransactionWriteRepository(db),
		repository.NewTransactionReadRepository(db, nil),
		nil,
	)
	_, err := svc.CreateTransaction(context.Background(), coffeeCommand())
	assert.NoError(t, err)
}
