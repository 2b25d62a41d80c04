package authenticator

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/questx-lab/giveaway/config"
	"golang.org/x/oauth2"
)

type oauth2Service struct {
	oauth2.Config
	provider *oidc.Provider

	name    string
	idField string
}

// NewOAuth2Service discovers the provider configuration from its issuer.
func NewOAuth2Service(ctx context.Context, cfg config.OAuth2Config) (*oauth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	idField := cfg.IDField
	if idField == "" {
		idField = "sub"
	}

	return &oauth2Service{
		Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		provider: provider,
		name:     cfg.Name,
		idField:  idField,
	}, nil
}

func (s *oauth2Service) Service() string {
	return s.name
}

func (s *oauth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := s.provider.Verifier(&oidc.Config{ClientID: s.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := idToken.Claims(&profile); err != nil {
		return OAuth2User{}, errors.New("invalid id token")
	}

	return profileToUser(profile, s.idField)
}

func profileToUser(profile map[string]any, idField string) (OAuth2User, error) {
	id, ok := profile[idField].(string)
	if !ok || id == "" {
		return OAuth2User{}, errors.New("invalid id field " + idField)
	}

	str := func(key string) string {
		s, _ := profile[key].(string)
		return s
	}

	return OAuth2User{
		ID:        id,
		Email:     str("email"),
		FirstName: str("given_name"),
		LastName:  str("family_name"),
		Picture:   str("picture"),
	}, nil
}
