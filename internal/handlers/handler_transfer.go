package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/middleware"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/mapping"
	"github.com/gin-gonic/gin"
)

// transferHandler handles transfers between accounts.
type transferHandler struct {
	transferService     portssvc.TransferCoordinatorSvc
	queryService        portssvc.QuerySvc
	provisioningService portssvc.ProvisioningSvc
}

// RegisterTransferRoutes registers routes related to transfers.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferCoordinatorSvc, queryService portssvc.QuerySvc, provisioningService portssvc.ProvisioningSvc) {
	h := &transferHandler{
		transferService:     transferService,
		queryService:        queryService,
		provisioningService: provisioningService,
	}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("/:correlationID", h.getTransfer)
	}
}

// createTransfer godoc
// @Summary Transfer money
// @Description Moves money from one of the caller's accounts to another account. The receiver is given
// @Description by account id, or by email, which sends to the recipient's chequing account.
// @Tags ledger
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or same account"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Sender or receiver not found"
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 503 {object} dto.ErrorResponse "Account busy, retry"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	receiverID := req.ReceiverAccountID
	if receiverID == "" {
		recipient, err := h.provisioningService.ResolveRecipientAccount(c.Request.Context(), req.RecipientEmail)
		if err != nil {
			respondError(c, logger, err, "resolve recipient")
			return
		}
		receiverID = recipient.AccountID
	}

	logger = logger.With(
		slog.String("sender_account_id", req.SenderAccountID),
		slog.String("receiver_account_id", receiverID))

	result, err := h.transferService.Transfer(c.Request.Context(), customerID, domain.TransferIntent{
		SenderAccountID:   req.SenderAccountID,
		ReceiverAccountID: receiverID,
		Amount:            req.Amount,
	})
	if err != nil {
		respondError(c, logger, err, "transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("correlation_id", result.CorrelationID))
	c.JSON(http.StatusCreated, mapping.ToTransferResponse(*result))
}

// getTransfer godoc
// @Summary Get a transfer
// @Description Returns both legs of a transfer. Either party may look it up.
// @Tags ledger
// @Produce json
// @Param correlationID path string true "Transfer correlation ID"
// @Success 200 {object} dto.TransferLegsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transfers/{correlationID} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}
	correlationID, ok := transferFromPath(c, logger)
	if !ok {
		return
	}

	legs, err := h.queryService.TransferLegs(c.Request.Context(), customerID, correlationID)
	if err != nil {
		respondError(c, logger.With(slog.String("correlation_id", correlationID)), err, "get transfer")
		return
	}
	c.JSON(http.StatusOK, dto.TransferLegsResponse{
		CorrelationID: correlationID,
		Legs:          mapping.ToTransactionResponses(legs),
	})
}
