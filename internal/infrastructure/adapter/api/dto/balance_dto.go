package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
)

// Amount accepts either a JSON number or a numeric string and keeps its exact text
type Amount string

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("amount must be a number")
	}
	*a = Amount(n.String())
	return nil
}

// AdjustRequest is the body of POST /bank/credit and POST /bank/debit
type AdjustRequest struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description" binding:"max=255"`
	Category    string `json:"category" binding:"max=50"`
}

// AdjustResponse carries the balance stored right after the change
type AdjustResponse struct {
	NewBalance  string                 `json:"newBalance"`
	Transaction entity.LedgerEntryView `json:"transaction"`
}

// BalanceResponse represents the API response for an account's balance
type BalanceResponse struct {
	Balance string `json:"balance"`
}
