package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles credits, debits and the transaction history
type TransactionHandler struct {
	balances usecase.BalanceUseCase
	ledger   usecase.LedgerUseCase
	logger   coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	balances usecase.BalanceUseCase,
	ledger usecase.LedgerUseCase,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		balances: balances,
		ledger:   ledger,
		logger:   logger,
	}
}

// Credit handles POST /bank/credit
func (h *TransactionHandler) Credit(c *gin.Context) {
	h.adjust(c, entity.EntryTypeCredit)
}

// Debit handles POST /bank/debit
func (h *TransactionHandler) Debit(c *gin.Context) {
	h.adjust(c, entity.EntryTypeDebit)
}

func (h *TransactionHandler) adjust(c *gin.Context, direction entity.EntryType) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	var req dto.AdjustRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.logger, string(direction), err)
		return
	}

	result, err := h.balances.Adjust(c.Request.Context(), id, direction, string(req.Amount), usecase.EntryDetails{
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, h.logger, string(direction), err)
		return
	}

	message := "Amount credited successfully"
	if direction == entity.EntryTypeDebit {
		message = "Amount debited successfully"
	}

	c.JSON(http.StatusOK, dto.Success(message, dto.AdjustResponse{
		NewBalance:  entity.FormatAmount(result.NewBalance),
		Transaction: result.Entry.View(),
	}))
}

// Transactions handles GET /bank/transactions?limit=N
func (h *TransactionHandler) Transactions(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, h.logger, "transactions", fmt.Errorf("%w: limit must be a non-negative integer", errs.ErrValidation))
			return
		}
		limit = parsed
	}

	entries, err := h.ledger.RecentEntries(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, h.logger, "transactions", err)
		return
	}

	c.JSON(http.StatusOK, dto.Success("Transactions retrieved", dto.NewTransactionListResponse(entries)))
}
