package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
	"github.com/mizan-erp/mizan_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	txnService       portssvc.TransactionSvcFacade
	journalService   portssvc.JournalSvcFacade
	statementService portssvc.StatementSvcFacade
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, txnService portssvc.TransactionSvcFacade, journalService portssvc.JournalSvcFacade, statementService portssvc.StatementSvcFacade) {
	h := &accountHandler{
		accountService:   accountService,
		txnService:       txnService,
		journalService:   journalService,
		statementService: statementService,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/summary", h.getSummary)
		accounts.GET("/code/:code", h.getAccountByCode)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deactivateAccount)
		accounts.POST("/:id/recompute", h.recomputeBalance)
		accounts.GET("/:id/transactions", h.listTransactions)
		accounts.GET("/:id/entries", h.listJournalEntries)
		accounts.GET("/:id/statement", h.getStatement)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new monetary account, optionally with an opening balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts filtered by type, category and active flag
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type" Enums(CASH_BOX, BANK, WALLET, RECEIVABLE, PAYABLE)
// @Param   category query string false "Account category" Enums(ASSET, LIABILITY)
// @Param   active query bool false "Only active accounts"
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Filter())
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getSummary godoc
// @Summary Aggregate account balances
// @Description Totals cached balances across active accounts by type and category
// @Tags accounts
// @Produce  json
// @Success 200 {object} domain.AccountSummary
// @Security BearerAuth
// @Router /accounts/summary [get]
func (h *accountHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.accountService.SummarizeBalances(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "summarize balances")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/code/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account's details
// @Description Updates name and bank metadata. The balance is not writable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, logger, err, "update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive. Refused for system accounts, accounts holding a balance, or accounts with pending transactions.
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 204 "Account deactivated"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account has dependent records"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID); err != nil {
		respondError(c, logger, err, "deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// recomputeBalance godoc
// @Summary Recompute an account balance from the transaction log
// @Description Folds the non-void transaction log and reports the derived balance against the cached one
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} domain.BalanceRecomputeResult
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/recompute [post]
func (h *accountHandler) recomputeBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.accountService.RecomputeAccountBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "recompute account balance")
		return
	}
	c.JSON(http.StatusOK, result)
}

// listTransactions godoc
// @Summary List transactions touching an account
// @Description Returns a page of transactions, newest first, with cursor pagination
// @Tags transactions
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /accounts/{id}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.txnService.ListTransactionsByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// listJournalEntries godoc
// @Summary List journal entries touching an account
// @Tags journal
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   limit query int false "Maximum entries" default(50)
// @Success 200 {array} dto.JournalEntryResponse
// @Security BearerAuth
// @Router /accounts/{id}/entries [get]
func (h *accountHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.journalService.ListEntriesByAccount(c.Request.Context(), accountID, limit)
	if err != nil {
		respondError(c, logger, err, "list journal entries")
		return
	}

	res := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, res)
}

// getStatement godoc
// @Summary Generate an account statement
// @Description Replays the transaction log for the period into running balances, totals and optional analytics
// @Tags statements
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   from query string true "Period start (yyyy-MM-dd)"
// @Param   to query string true "Period end (yyyy-MM-dd)"
// @Param   analytics query bool false "Include analytics series"
// @Success 200 {object} domain.StatementData
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/statement [get]
func (h *accountHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := dto.ParseDateRange(params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "generate statement")
		return
	}

	statement, err := h.statementService.GenerateStatementData(c.Request.Context(), accountID, from, to, params.Analytics)
	if err != nil {
		respondError(c, logger, err, "generate statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}
