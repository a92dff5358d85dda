package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/paibudget/budget-service/internal/common"
	"github.com/paibudget/budget-service/internal/cqrs"
	"github.com/paibudget/budget-service/internal/middleware"
	"github.com/paibudget/budget-service/internal/models"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(context.Context, cqrs.CreateTransactionCommand) (*models.Transaction, error)
	UpdateTransaction(context.Context, cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	DeleteTransaction(context.Context, cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(context.Context, cqrs.GetTransactionQuery) (*models.Transaction, error)
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.Transaction, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

type CreateTransactionRequest struct {
	Title    string  `json:"title" validate:"required,max=100"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Category string  `json:"category" validate:"required,max=50"`
	Type     string  `json:"type" validate:"required,oneof=income expense"`
	Date     string  `json:"date" validate:"required"`
}

// UpdateTransactionRequest is a partial update; absent keys stay nil.
// Validation happens on the merged record in the command service.
type UpdateTransactionRequest struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Type     *string  `json:"type"`
	Date     *string  `json:"date"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	fields, err := bindJSON(c, &req)
	if err != nil {
		respondWithBindError(c, err)
		return
	}
	if fields == 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, models.MsgNoData)
		return
	}
	if validationErr := middleware.ValidateRequest(req); validationErr != nil {
		middleware.RespondWithValidationError(c, validationErr)
		return
	}

	transaction, err := h.commands.CreateTransaction(c.Request.Context(), cqrs.CreateTransactionCommand{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Type:     req.Type,
		Date:     req.Date,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{})
	if err != nil {
		respondWithServiceError(c, err, "Failed to list transactions")
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	transaction, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{TransactionID: id})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get transaction")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	// An empty body is an empty update; the command service reports it after the lookup.
	if _, err := bindJSON(c, &req); err != nil && !errors.Is(err, io.EOF) {
		// Unknown ids answer 404 before the body is judged.
		if _, lookupErr := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{TransactionID: id}); lookupErr != nil {
			respondWithServiceError(c, lookupErr, "Failed to update transaction")
			return
		}
		respondWithBindError(c, err)
		return
	}

	transaction, err := h.commands.UpdateTransaction(c.Request.Context(), cqrs.UpdateTransactionCommand{
		TransactionID: id,
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      req.Category,
		Type:          req.Type,
		Date:          req.Date,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	if err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{TransactionID: id}); err != nil {
		respondWithServiceError(c, err, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// transactionID parses the :id path segment. A non-integer id cannot name a
// transaction, so it is answered with 404.
func transactionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into obj and returns the number of
// top-level keys it carried. A missing or empty body is reported as io.EOF;
// a JSON null or {} decodes with zero keys.
func bindJSON(c *gin.Context, obj any) (int, error) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return 0, io.EOF
	}
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		return 0, err
	}

	body := c.MustGet(gin.BodyBytesKey).([]byte)
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return 0, err
	}
	return len(keys), nil
}

func respondWithBindError(c *gin.Context, err error) {
	if errors.Is(err, io.EOF) {
		middleware.RespondWithError(c, http.StatusBadRequest, models.MsgNoData)
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "amount" {
		middleware.RespondWithError(c, http.StatusBadRequest, models.MsgInvalidAmount)
		return
	}
	middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
}

func respondWithServiceError(c *gin.Context, err error, fallback string) {
	var validationErr *common.ValidationError
	switch {
	case errors.As(err, &validationErr):
		middleware.RespondWithValidationError(c, validationErr)
	case errors.Is(err, common.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
	default:
		_ = c.Error(err)
		common.LogError(err, fallback, common.Fields{"path": c.Request.URL.Path})
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
