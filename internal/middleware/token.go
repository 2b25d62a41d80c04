package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/giveaway/pkg/router"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

type AccessTokenResponse interface {
	AccessTokenInfo() string
}

// HandleSetAccessToken writes the access token of the response as a cookie. An
// empty token clears the cookie.
func HandleSetAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.Response(ctx).(AccessTokenResponse)
		if !ok {
			return nil, nil
		}

		cfg := xcontext.Configs(ctx).Auth.AccessToken
		cookie := &http.Cookie{
			Name:     cfg.Name,
			Value:    tokenResp.AccessTokenInfo(),
			Path:     "/",
			Expires:  time.Now().Add(cfg.Expiration),
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}

		if cookie.Value == "" {
			cookie.Expires = time.Unix(0, 0)
			cookie.MaxAge = -1
		}

		http.SetCookie(xcontext.HTTPWriter(ctx), cookie)
		return nil, nil
	}
}
