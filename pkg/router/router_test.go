package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

type echoResponse struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	UserID string `json:"user_id"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	}

	return &echoResponse{Name: req.Name, Offset: req.Offset, UserID: xcontext.RequestUserID(ctx)}, nil
}

func do(t *testing.T, handler http.Handler, req *http.Request) (int, envelope) {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestRouter(t *testing.T) {
	r := New(context.Background())

	closed := 0
	r.AddCloser(func(ctx context.Context) { closed++ })

	GET(r, "/echo", echo)

	authenticated := r.Branch()
	authenticated.Before(func(ctx context.Context) (context.Context, error) {
		userID := xcontext.HTTPRequest(ctx).Header.Get("X-User")
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	})
	POST(authenticated, "/echoPost", echo)

	handler := r.Handler([]string{"*"})

	code, resp := do(t, handler, httptest.NewRequest(http.MethodGet, "/echo?name=alice&offset=3", nil))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "alice", Offset: 3}, resp.Data)

	code, resp = do(t, handler, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
	require.Equal(t, "Name is required", resp.Error)

	req := httptest.NewRequest(http.MethodPost, "/echoPost", strings.NewReader(`{"name":"bob"}`))
	code, resp = do(t, handler, req)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, int64(errorx.Unauthenticated), resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/echoPost", strings.NewReader(`{"name":"bob"}`))
	req.Header.Set("X-User", "u1")
	code, resp = do(t, handler, req)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, echoResponse{Name: "bob", UserID: "u1"}, resp.Data)

	code, _ = do(t, handler, httptest.NewRequest(http.MethodPost, "/echo", nil))
	require.Equal(t, http.StatusNotFound, code)

	require.Equal(t, 5, closed)
}
