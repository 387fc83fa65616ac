package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/rivanna_bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/dto"
	"github.com/SscSPs/rivanna_bank_ledger/internal/middleware"
	"github.com/SscSPs/rivanna_bank_ledger/internal/utils/mapping"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests on the caller's accounts.
type accountHandler struct {
	provisioningService portssvc.ProvisioningSvc
	queryService        portssvc.QuerySvc
	ledgerService       portssvc.LedgerEngineSvc
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, provisioningService portssvc.ProvisioningSvc, queryService portssvc.QuerySvc, ledgerService portssvc.LedgerEngineSvc) {
	h := &accountHandler{
		provisioningService: provisioningService,
		queryService:        queryService,
		ledgerService:       ledgerService,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/transactions", h.listTransactions)
		accounts.GET("/:accountID/reconciliation", h.reconcile)
		accounts.POST("/:accountID/deposits", h.deposit)
		accounts.POST("/:accountID/withdrawals", h.withdraw)
	}
}

// listAccounts godoc
// @Summary List the caller's accounts
// @Description Lists the caller's accounts, optionally filtered by type.
// @Tags accounts
// @Produce json
// @Param type query string false "Account type" Enums(SAVINGS, CHEQUING)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	var accountType *domain.AccountType
	if params.AccountType != "" {
		t := domain.AccountType(params.AccountType)
		accountType = &t
	}

	accounts, err := h.provisioningService.ListCustomerAccounts(c.Request.Context(), customerID, accountType)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// getBalance godoc
// @Summary Get an account balance
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found or not owned by the caller"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}
	accountID, ok := accountFromPath(c, logger)
	if !ok {
		return
	}

	balance, err := h.queryService.CurrentBalance(c.Request.Context(), customerID, accountID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "get balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance.Round(domain.MoneyScale)})
}

// listTransactions godoc
// @Summary List account history
// @Description Lists the account's journal records newest first, one page at a time.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param nextToken query string false "Cursor returned by the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}
	accountID, ok := accountFromPath(c, logger)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	page, err := h.queryService.HistoryPage(c.Request.Context(), customerID, accountID, params)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// reconcile godoc
// @Summary Reconcile an account
// @Description Checks that the stored balance, the latest record and the replayed journal agree.
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} domain.ReconciliationReport
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Ledger divergence"
// @Security BearerAuth
// @Router /accounts/{accountID}/reconciliation [get]
func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}
	accountID, ok := accountFromPath(c, logger)
	if !ok {
		return
	}

	report, err := h.queryService.Reconcile(c.Request.Context(), customerID, accountID)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "reconcile account")
		return
	}
	c.JSON(http.StatusOK, report)
}

// deposit godoc
// @Summary Deposit into an account
// @Tags ledger
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param deposit body dto.AmountRequest true "Amount with at most two decimals"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Account busy, retry"
// @Security BearerAuth
// @Router /accounts/{accountID}/deposits [post]
func (h *accountHandler) deposit(c *gin.Context) {
	h.applyAmount(c, "deposit", h.ledgerService.ApplyDeposit)
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description The balance may reach exactly zero but never go below it.
// @Tags ledger
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param withdrawal body dto.AmountRequest true "Amount with at most two decimals"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Insufficient funds"
// @Failure 503 {object} dto.ErrorResponse "Account busy, retry"
// @Security BearerAuth
// @Router /accounts/{accountID}/withdrawals [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	h.applyAmount(c, "withdraw", h.ledgerService.ApplyWithdrawal)
}

type amountOperation func(ctx context.Context, customerID string, accountID string, amount decimal.Decimal) (*domain.TransactionRecord, error)

func (h *accountHandler) applyAmount(c *gin.Context, action string, apply amountOperation) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, ok := customerFromContext(c, logger)
	if !ok {
		return
	}
	accountID, ok := accountFromPath(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", accountID))

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	record, err := apply(c.Request.Context(), customerID, accountID, req.Amount)
	if err != nil {
		respondError(c, logger, err, action)
		return
	}
	c.JSON(http.StatusCreated, mapping.ToTransactionResponse(*record))
}
