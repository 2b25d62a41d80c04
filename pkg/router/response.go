package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newErrorResponse(err error) (int, response) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return errx.HTTPStatus(), response{Code: int64(errx.Code), Error: errx.Message}
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	if err := xcontext.Error(ctx); err != nil {
		status, resp := newErrorResponse(err)
		if err := WriteJson(w, status, resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}

		return
	}

	if err := WriteJson(w, http.StatusOK, response{Data: xcontext.Response(ctx)}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
