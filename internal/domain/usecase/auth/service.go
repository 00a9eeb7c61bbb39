package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/kodbank/internal/domain/entity"
	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	coreport "github.com/amirhossein-jamali/kodbank/internal/domain/port/core"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/security"
	"github.com/amirhossein-jamali/kodbank/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// Service implements registration, login and session checks
type Service struct {
	accounts        persistence.AccountRepository
	sessions        persistence.SessionRepository
	uow             persistence.UnitOfWork
	hasher          security.PasswordHasher
	tokens          security.TokenIssuer
	identities      security.IdentityVerifier
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	startingBalance decimal.Decimal
}

// NewService creates a new auth Service. identities may be nil when Google sign-in is disabled.
func NewService(
	accounts persistence.AccountRepository,
	sessions persistence.SessionRepository,
	uow persistence.UnitOfWork,
	hasher security.PasswordHasher,
	tokens security.TokenIssuer,
	identities security.IdentityVerifier,
	startingBalance decimal.Decimal,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		accounts:        accounts,
		sessions:        sessions,
		uow:             uow,
		hasher:          hasher,
		tokens:          tokens,
		identities:      identities,
		timeProvider:    timeProvider,
		logger:          logger,
		startingBalance: startingBalance,
	}
}

var (
	_ usecase.AuthUseCase    = (*Service)(nil)
	_ usecase.SessionSweeper = (*Service)(nil)
)

// Register creates a local account with the starting balance
func (s *Service) Register(ctx context.Context, registration usecase.Registration) (*entity.AccountProfile, error) {
	rules := registrationRules{
		Username: strings.TrimSpace(registration.Username),
		Email:    strings.ToLower(strings.TrimSpace(registration.Email)),
		Password: registration.Password,
		Phone:    strings.TrimSpace(registration.Phone),
	}
	if err := validateRegistration(rules); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, rules.Username, rules.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(rules.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("%w: hashing password", errs.ErrInternalServer)
	}

	account, err := entity.NewAccount(rules.Username, rules.Email, hash, rules.Phone, s.startingBalance, s.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account registered", map[string]any{
		"account_id": account.ID,
		"username":   account.Username,
	})

	profile := account.Profile()
	return &profile, nil
}

// Login checks a username/password pair and issues a session
func (s *Service) Login(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", errs.ErrValidation)
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, errs.ErrAccountNotFound) {
		s.logger.Warn("Login for unknown username", map[string]any{"username": username})
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !account.HasLocalPassword() {
		s.logger.Warn("Password login for externally authenticated account", map[string]any{
			"account_id": account.ID,
		})
		return nil, errs.ErrInvalidCredentials
	}

	if err := s.hasher.Verify(account.PasswordHash, password); err != nil {
		s.logger.Warn("Password mismatch", map[string]any{"account_id": account.ID})
		return nil, errs.ErrInvalidCredentials
	}

	return s.issueSession(ctx, account)
}

// GoogleLogin signs in with a Google ID token, creating the account on first use
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*usecase.LoginResult, error) {
	if s.identities == nil {
		return nil, fmt.Errorf("%w: not configured", errs.ErrGoogleAuthUnavailable)
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: idToken is required", errs.ErrValidation)
	}

	identity, err := s.identities.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn("Google ID token rejected", map[string]any{"error": err.Error()})
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", errs.ErrGoogleAuthUnavailable)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrAccountNotFound) {
		account, err = s.createExternalAccount(ctx, email, identity)
	}
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, account)
}

func (s *Service) createExternalAccount(ctx context.Context, email string, identity *security.ExternalIdentity) (*entity.Account, error) {
	username, err := s.availableUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	account, err := entity.NewAccount(username, email, entity.ExternalAuthPassword, "", s.startingBalance, s.timeProvider)
	if err != nil {
		return nil, err
	}
	account.ProfileImage = identity.Picture

	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent first login for the same email won the insert
		if errors.Is(err, errs.ErrDuplicateEmail) {
			return s.accounts.GetByEmail(ctx, email)
		}
		return nil, err
	}

	s.logger.Info("Account created from Google sign-in", map[string]any{
		"account_id": account.ID,
		"username":   account.Username,
		"subject":    identity.Subject,
	})

	return account, nil
}

// Logout revokes the session of the presented token
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return errs.ErrUnauthorized
	}

	if err := s.sessions.DeleteByTokenHash(ctx, entity.HashToken(token)); err != nil {
		return err
	}

	s.logger.Debug("Session revoked", nil)
	return nil
}

// ChangePassword verifies the current password, then stores the new one and revokes all
// sessions in one transaction so a failed revoke leaves the old password in place
func (s *Service) ChangePassword(ctx context.Context, accountID uint64, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return fmt.Errorf("%w: current password is required", errs.ErrValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if !account.HasLocalPassword() {
		return errs.ErrNoLocalPassword
	}

	if err := s.hasher.Verify(account.PasswordHash, currentPassword); err != nil {
		s.logger.Warn("Current password mismatch on change", map[string]any{"account_id": accountID})
		return errs.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: hashing password", errs.ErrInternalServer)
	}

	revoked, err := s.replacePassword(ctx, accountID, hash)
	if err != nil {
		s.logger.Error("Password change rolled back", map[string]any{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("Password changed", map[string]any{
		"account_id":       accountID,
		"revoked_sessions": revoked,
	})
	return nil
}

func (s *Service) replacePassword(ctx context.Context, accountID uint64, hash string) (int64, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Failed to roll back password change", map[string]any{
				"account_id": accountID,
				"error":      rbErr.Error(),
			})
		}
	}()

	if err := s.uow.GetAccountRepository(txCtx).UpdatePassword(txCtx, accountID, hash); err != nil {
		return 0, err
	}

	revoked, err := s.uow.GetSessionRepository(txCtx).DeleteByAccount(txCtx, accountID)
	if err != nil {
		return 0, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return 0, err
	}
	committed = true

	return revoked, nil
}

// ResolveAccount returns the account of a live, correctly signed token
func (s *Service) ResolveAccount(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, errs.ErrUnauthorized
	}

	session, err := s.sessions.GetByTokenHash(ctx, entity.HashToken(token))
	if errors.Is(err, errs.ErrSessionNotFound) {
		return 0, fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
	}
	if err != nil {
		return 0, err
	}

	if session.IsExpired(s.timeProvider.Now()) {
		return 0, errs.ErrSessionExpired
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return 0, err
	}

	if claims.AccountID != session.AccountID {
		s.logger.Warn("Token subject does not match session", map[string]any{
			"session_account": session.AccountID,
			"token_account":   claims.AccountID,
		})
		return 0, errs.ErrInvalidToken
	}

	return session.AccountID, nil
}

// SweepExpired deletes sessions that are past their expiry
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Info("Expired sessions removed", map[string]any{"count": removed})
	}
	return removed, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return errs.ErrDuplicateUsername
	} else if !errors.Is(err, errs.ErrAccountNotFound) {
		return err
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return errs.ErrDuplicateEmail
	} else if !errors.Is(err, errs.ErrAccountNotFound) {
		return err
	}

	return nil
}

func (s *Service) issueSession(ctx context.Context, account *entity.Account) (*usecase.LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(account.ID, account.Username, account.Role)
	if err != nil {
		s.logger.Error("Failed to sign session token", map[string]any{
			"account_id": account.ID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: signing token", errs.ErrInternalServer)
	}

	session := entity.NewSession(token, account.ID, s.timeProvider.Now(), expiresAt)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Session issued", map[string]any{
		"account_id": account.ID,
		"expires_at": expiresAt,
	})

	return &usecase.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   account.Profile(),
	}, nil
}
