package dto

import "github.com/amirhossein-jamali/kodbank/internal/domain/entity"

// TransactionListResponse is a newest-first window of ledger entries
type TransactionListResponse struct {
	Transactions []entity.LedgerEntryView `json:"transactions"`
	Count        int                      `json:"count"`
}

// NewTransactionListResponse never returns a nil list so clients always receive an array
func NewTransactionListResponse(entries []entity.LedgerEntryView) TransactionListResponse {
	if entries == nil {
		entries = []entity.LedgerEntryView{}
	}
	return TransactionListResponse{Transactions: entries, Count: len(entries)}
}
