package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error codes returned in dto.ErrorResponse.
const (
	codeValidation        = "VALIDATION_ERROR"
	codeInvalidAmount     = "INVALID_AMOUNT"
	codeSameAccount       = "SAME_ACCOUNT"
	codeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	codeNotFound          = "NOT_FOUND"
	codeInsufficientFunds = "INSUFFICIENT_FUNDS"
	codeBusy              = "ACCOUNT_BUSY"
	codeDuplicate         = "DUPLICATE"
	codeUnauthorized      = "UNAUTHORIZED"
	codeDivergence        = "LEDGER_DIVERGENCE"
	codeInternal          = "INTERNAL_ERROR"
)

// errorStatus classifies a service error. Order matters: the specific ledger
// errors wrap the generic sentinels.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest, codeInvalidAmount
	case errors.Is(err, apperrors.ErrSameAccount):
		return http.StatusBadRequest, codeSameAccount
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return http.StatusNotFound, codeAccountNotFound
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, codeInsufficientFunds
	case errors.Is(err, apperrors.ErrBusy):
		return http.StatusServiceUnavailable, codeBusy
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, codeDuplicate
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, codeUnauthorized
	case errors.Is(err, apperrors.ErrLedgerDivergence):
		return http.StatusInternalServerError, codeDivergence
	}
	return http.StatusInternalServerError, codeInternal
}

// respondError writes the error response for a failed service call. Internal
// failures are logged at error level and their details are not exposed.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status, code := errorStatus(err)
	resp := dto.ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		Retryable: apperrors.IsRetryable(err),
	}

	if status >= http.StatusInternalServerError && code != codeBusy {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		resp.Error = "Failed to " + action
	} else {
		logger.Warn("Request rejected", slog.String("action", action), slog.String("code", code), slog.String("error", err.Error()))
	}
	if resp.Retryable {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, resp)
}

// respondBindError reports a malformed body or query string, naming each failing field.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))

	resp := dto.ErrorResponse{Error: "Invalid request format", Code: codeValidation}

	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		resp.Error = "Request validation failed"
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			resp.Fields[fe.Field()] = fieldMessage(fe)
		}
	case errors.As(err, &syntaxErr):
		resp.Error = fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		resp.Error = fmt.Sprintf("Field %s has the wrong type", typeErr.Field)
	default:
		resp.Error = "Invalid request format: " + err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a UUID"
	case "eqfield":
		return "must match " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "alphanum":
		return "must contain only letters and digits"
	}
	return "failed " + fe.Tag() + " validation"
}

// customerFromContext returns the authenticated customer or writes a 401.
func customerFromContext(c *gin.Context, logger *slog.Logger) (string, bool) {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		logger.Error("Customer ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized", Code: codeUnauthorized})
		return "", false
	}
	return customerID, true
}

// accountFromPath returns the account id path parameter. An id that is not a
// UUID cannot name an account, so it is reported as not found.
func accountFromPath(c *gin.Context, logger *slog.Logger) (string, bool) {
	var uri dto.AccountURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondError(c, logger, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, c.Param("accountID")), "find account")
		return "", false
	}
	return uri.AccountID, true
}

// transferFromPath returns the correlation id path parameter, reporting a
// malformed id as an unknown transfer.
func transferFromPath(c *gin.Context, logger *slog.Logger) (string, bool) {
	var uri dto.TransferURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondError(c, logger, apperrors.NewNotFoundError("transfer "+c.Param("correlationID")), "find transfer")
		return "", false
	}
	return uri.CorrelationID, true
}
