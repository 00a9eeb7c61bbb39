package repository

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	creditSQL = `UPDATE accounts SET balance = balance + ?, updated_at = ? WHERE id = ? AND balance <= ? RETURNING balance`
	debitSQL  = `UPDATE accounts SET balance = balance - ?, updated_at = ? WHERE id = ? AND balance >= ? RETURNING balance`
)

type balanceRow struct {
	Balance decimal.Decimal
}

// AccountRepository implements persistence.AccountRepository using GORM
type AccountRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	queryTimeout    coreport.Duration
	errorClassifier *ErrorClassifier
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, queryTimeout coreport.Duration) *AccountRepository {
	return &AccountRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		queryTimeout:    queryTimeout,
		errorClassifier: NewErrorClassifier(),
	}
}

var _ persistence.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) modelToEntity(m *model.Account) (*entity.Account, error) {
	account := &entity.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		Phone:        m.Phone,
		Role:         m.Role,
		ProfileImage: m.ProfileImage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if err := account.SetBalance(m.Balance.Round(entity.MaxDecimalPlaces)); err != nil {
		r.logger.Error("Stored balance is invalid", map[string]any{
			"account_id": m.ID,
			"balance":    m.Balance.String(),
		})
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return r.timeProvider.WithTimeout(ctx, r.queryTimeout)
}

// handleDatabaseError standardizes database error handling
func (r *AccountRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorClassifier.Map(err, errs.ErrAccountNotFound)

	if errs.KindOf(mapped) == errs.KindStorage {
		fields["error"] = err.Error()
		r.logger.Error(fmt.Sprintf("Database error when %s", operation), fields)
	}
	return mapped
}

func (r *AccountRepository) findOne(ctx context.Context, operation string, query string, arg any) (*entity.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var m model.Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, r.handleDatabaseError(operation, err, map[string]any{"key": arg})
	}
	return r.modelToEntity(&m)
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id uint64) (*entity.Account, error) {
	return r.findOne(ctx, "getting account", "id = ?", id)
}

// GetByUsername retrieves an account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return r.findOne(ctx, "getting account by username", "username = ?", username)
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, "getting account by email", "email = ?", email)
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := model.Account{
		Username:     account.Username,
		Email:        account.Email,
		Password:     account.PasswordHash,
		Phone:        account.Phone,
		Role:         account.Role,
		Balance:      account.Balance(),
		ProfileImage: account.ProfileImage,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return r.handleDatabaseError("creating account", err, map[string]any{"username": account.Username})
	}

	account.ID = m.ID
	r.logger.Debug("Account row created", map[string]any{"account_id": m.ID})
	return nil
}

// UpdatePassword replaces the stored credential
func (r *AccountRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	return r.update(ctx, "updating password", id, map[string]any{
		"password": passwordHash,
	})
}

// UpdateProfile replaces the optional profile fields
func (r *AccountRepository) UpdateProfile(ctx context.Context, id uint64, phone, profileImage string) error {
	return r.update(ctx, "updating profile", id, map[string]any{
		"phone":         phone,
		"profile_image": profileImage,
	})
}

func (r *AccountRepository) update(ctx context.Context, operation string, id uint64, values map[string]any) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	values["updated_at"] = r.timeProvider.Now()
	result := r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return r.handleDatabaseError(operation, result.Error, map[string]any{"account_id": id})
	}
	if result.RowsAffected == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// Credit adds amount to the balance unless the result would not fit the column
func (r *AccountRepository) Credit(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ceiling := entity.MaxAmount.Sub(amount)
	balance, ok, err := r.adjust(ctx, creditSQL, id, amount, ceiling)
	if err != nil {
		return decimal.Zero, r.handleDatabaseError("crediting account", err, map[string]any{"account_id": id})
	}
	if ok {
		return balance, nil
	}

	current, err := r.currentBalance(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Zero, fmt.Errorf("%w: balance %s cannot grow by %s",
		errs.ErrAmountOverflow, entity.FormatAmount(current), entity.FormatAmount(amount))
}

// Debit subtracts amount only when the balance covers it
func (r *AccountRepository) Debit(ctx context.Context, id uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	balance, ok, err := r.adjust(ctx, debitSQL, id, amount, amount)
	if err != nil {
		return decimal.Zero, r.handleDatabaseError("debiting account", err, map[string]any{"account_id": id})
	}
	if ok {
		return balance, nil
	}

	current, err := r.currentBalance(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	r.logger.Debug("Debit condition failed", map[string]any{
		"account_id": id,
		"amount":     entity.FormatAmount(amount),
		"available":  entity.FormatAmount(current),
	})
	return decimal.Zero, errs.NewInsufficientFundsError(id, entity.FormatAmount(amount), entity.FormatAmount(current))
}

// adjust runs a conditional balance update and reports whether a row matched
func (r *AccountRepository) adjust(ctx context.Context, statement string, id uint64, amount, bound decimal.Decimal) (decimal.Decimal, bool, error) {
	var rows []balanceRow
	result := r.db.WithContext(ctx).Raw(statement, amount, r.timeProvider.Now(), id, bound).Scan(&rows)
	if result.Error != nil {
		return decimal.Zero, false, result.Error
	}
	if len(rows) == 0 {
		return decimal.Zero, false, nil
	}
	return rows[0].Balance.Round(entity.MaxDecimalPlaces), true, nil
}

// currentBalance tells a missing account apart from a failed condition
func (r *AccountRepository) currentBalance(ctx context.Context, id uint64) (decimal.Decimal, error) {
	var row balanceRow
	err := r.db.WithContext(ctx).Model(&model.Account{}).Select("balance").Where("id = ?", id).Take(&row).Error
	if err != nil {
		return decimal.Zero, r.handleDatabaseError("reading balance", err, map[string]any{"account_id": id})
	}
	return row.Balance.Round(entity.MaxDecimalPlaces), nil
}
