package authenticator

import (
	"context"
	"time"
)

type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

// OAuth2User is the principal returned by the identity provider. Only the ID is
// guaranteed to be non-empty.
type OAuth2User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Picture   string
}

type IOAuth2Service interface {
	Service() string
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
}
