package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/giveaway/internal/model"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/router"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
	useSession     bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

func (a *AuthVerifier) WithSession() *AuthVerifier {
	a.useSession = true
	return a
}

// Middleware stores the authenticated user id into the context, it rejects the
// request if no credential is valid.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)

		if a.useAccessToken {
			if token := getAccessToken(ctx, req); token != "" {
				var info model.AccessToken
				if err := xcontext.TokenEngine(ctx).Verify(token, &info); err == nil && info.ID != "" {
					return xcontext.WithRequestUserID(ctx, info.ID), nil
				}
			}
		}

		if a.useSession {
			if userID := getSessionUserID(ctx, req); userID != "" {
				return xcontext.WithRequestUserID(ctx, userID), nil
			}
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func getAccessToken(ctx context.Context, req *http.Request) string {
	authorization := req.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}

		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func getSessionUserID(ctx context.Context, req *http.Request) string {
	store := xcontext.SessionStore(ctx)
	if store == nil {
		return ""
	}

	session, err := store.Get(req, xcontext.Configs(ctx).Session.Name)
	if err != nil {
		return ""
	}

	userID, _ := session.Values["user_id"].(string)
	return userID
}
