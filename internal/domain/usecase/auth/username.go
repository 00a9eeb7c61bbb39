package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
)

const (
	maxUsernameAttempts = 20
	maxDerivedLength    = 40
)

// usernameBase derives a username stem from the local part of an email
func usernameBase(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	base := b.String()
	if len(base) > maxDerivedLength {
		base = base[:maxDerivedLength]
	}
	if len(base) < 3 {
		base = "user" + base
	}
	return base
}

// availableUsername returns the first free candidate among base, base2, base3...
func (s *Service) availableUsername(ctx context.Context, email string) (string, error) {
	base := usernameBase(email)

	for i := 1; i <= maxUsernameAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s%d", base, i)
		}

		_, err := s.accounts.GetByUsername(ctx, candidate)
		if errors.Is(err, errs.ErrAccountNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: no free username for %s", errs.ErrDuplicateUsername, base)
}
