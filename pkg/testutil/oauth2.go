package testutil

import (
	"context"

	"github.com/questx-lab/giveaway/pkg/authenticator"
	"github.com/questx-lab/giveaway/pkg/errorx"
)

type mockOAuth2 struct {
	Name              string
	VerifyIDTokenFunc func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error)
}

func NewMockOAuth2(name string) *mockOAuth2 {
	return &mockOAuth2{Name: name}
}

func (m *mockOAuth2) Service() string {
	return m.Name
}

func (m *mockOAuth2) VerifyIDToken(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}

	return authenticator.OAuth2User{}, errorx.New(errorx.NotImplemented, "Not implemented")
}
