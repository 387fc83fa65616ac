package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler serves the customer-wide transaction history.
type transactionHandler struct {
	queryService portssvc.QuerySvc
}

// RegisterTransactionRoutes registers routes related to the caller's transactions.
func RegisterTransactionRoutes(rg *gin.RouterGroup, queryService portssvc.QuerySvc) {
	h := &transactionHandler{queryService: queryService}

	rg.GET("/transactions", h.listTransactions)
}

// listTransactions godoc
// @Summary List the caller's transactions
// @Description Lists the journal records of all the caller's accounts newest first, one page at a time.
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param nextToken query string false "Cursor returned by the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	page, err := h.queryService.CustomerHistory(c.Request.Context(), customerID, params)
	if err != nil {
		respondError(c, logger, err, "list customer transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}
