package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the kind of balance-affecting event a ledger entry records
type EntryType string

// Entry types
const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
	// EntryTypeTransfer is reserved; no operation produces it
	EntryTypeTransfer EntryType = "transfer"
)

// IsDirection reports whether t can be used to adjust a balance
func (t EntryType) IsDirection() bool {
	return t == EntryTypeCredit || t == EntryTypeDebit
}

// Ledger display defaults
const (
	DefaultCategory    = "Banking"
	StatusCompleted    = "completed"
	creditDescription  = "Account Credit"
	debitDescription   = "Account Debit"
	genericDescription = "Transaction"
)

// DefaultDescription returns the label used when no description was supplied
func DefaultDescription(t EntryType) string {
	switch t {
	case EntryTypeCredit:
		return creditDescription
	case EntryTypeDebit:
		return debitDescription
	default:
		return genericDescription
	}
}

// LedgerEntry is an immutable record of one balance change
type LedgerEntry struct {
	ID          uint64
	AccountID   uint64
	Type        EntryType
	Amount      decimal.Decimal
	Description string
	Category    string
	Status      string
	CreatedAt   time.Time
}

// NewLedgerEntry builds the entry recorded alongside a balance change.
// Empty description and category are replaced by the defaults for the entry type.
func NewLedgerEntry(accountID uint64, entryType EntryType, amount decimal.Decimal, description, category string, createdAt time.Time) *LedgerEntry {
	entry := &LedgerEntry{
		AccountID:   accountID,
		Type:        entryType,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		Status:      StatusCompleted,
		CreatedAt:   createdAt,
	}
	entry.applyDefaults()
	return entry
}

// WithDisplayDefaults returns a copy whose optional fields are never empty
func (e LedgerEntry) WithDisplayDefaults() LedgerEntry {
	e.applyDefaults()
	return e
}

func (e *LedgerEntry) applyDefaults() {
	if e.Description == "" {
		e.Description = DefaultDescription(e.Type)
	}
	if e.Category == "" {
		e.Category = DefaultCategory
	}
	if e.Status == "" {
		e.Status = StatusCompleted
	}
}

// LedgerEntryView is the read-side projection of a ledger entry
type LedgerEntryView struct {
	ID          uint64    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// View projects the entry for display
func (e LedgerEntry) View() LedgerEntryView {
	e.applyDefaults()
	return LedgerEntryView{
		ID:          e.ID,
		Type:        string(e.Type),
		Amount:      FormatAmount(e.Amount),
		Description: e.Description,
		Category:    e.Category,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}
