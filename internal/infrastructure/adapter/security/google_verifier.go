package security

import (
	"context"
	"fmt"

	errs "github.com/amirhossein-jamali/kodbank/internal/domain/error"
	secport "github.com/amirhossein-jamali/kodbank/internal/domain/port/security"
	"google.golang.org/api/idtoken"
)

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens issued for one OAuth client
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

// NewGoogleVerifier creates a verifier for clientID. It returns nil when clientID is empty,
// which disables Google sign-in.
func NewGoogleVerifier(clientID string) secport.IdentityVerifier {
	if clientID == "" {
		return nil
	}
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

var _ secport.IdentityVerifier = (*GoogleVerifier)(nil)

// Verify validates the token signature and audience and extracts the identity
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*secport.ExternalIdentity, error) {
	payload, err := v.validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrGoogleAuthUnavailable, err.Error())
	}
	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (*secport.ExternalIdentity, error) {
	identity := &secport.ExternalIdentity{Subject: payload.Subject}

	identity.Email, _ = payload.Claims["email"].(string)
	identity.Name, _ = payload.Claims["name"].(string)
	identity.Picture, _ = payload.Claims["picture"].(string)

	if identity.Email == "" {
		return nil, fmt.Errorf("%w: token carries no email", errs.ErrGoogleAuthUnavailable)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email is not verified", errs.ErrGoogleAuthUnavailable)
	}

	return identity, nil
}
