package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paibudget/budget-service/internal/common"
	"github.com/paibudget/budget-service/internal/models"
)

type BadRequestErrorResponse struct {
	Message string              `json:"message"`
	Details []common.FieldError `json:"details,omitempty"`
}

// ValidateRequest runs the validate tags of a request struct.
func ValidateRequest(obj any) *common.ValidationError {
	err := models.ValidateStruct(obj)
	if err == nil {
		return nil
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &common.ValidationError{Message: err.Error()}
}

func RespondWithValidationError(c *gin.Context, validationErr *common.ValidationError) {
	c.JSON(http.StatusBadRequest, BadRequestErrorResponse{
		Message: validationErr.Message,
		Details: validationErr.Details,
	})
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}
