package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc may return a nil context to keep the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, whatever the result.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx     context.Context
	mux     *http.ServeMux
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers see every value stored in ctx.
func New(ctx context.Context) *Router {
	return &Router{ctx: ctx, mux: http.NewServeMux()}
}

// Branch returns a router sharing the same mux. Middlewares added to the
// branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		mux:     r.mux,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// Handler returns the http.Handler of this router wrapped by the CORS policy.
func (r *Router) Handler(allowedOrigins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores, afters, closers := r.befores, r.afters, r.closers

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		var ctx context.Context = &requestContext{Context: req.Context(), values: r.ctx}
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		ctx = serve(ctx, method, befores, afters, handler)
		writeResponse(ctx, w)
	})
}

func serve[Request, Response any](
	ctx context.Context,
	method string,
	befores, afters []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) context.Context {
	req := xcontext.HTTPRequest(ctx)
	if req.Method != method {
		return xcontext.WithError(ctx, errorx.New(errorx.NotFound, "Method %s is not supported", req.Method))
	}

	var err error
	ctx, err = runMiddlewares(ctx, befores)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	var request Request
	if err := bindRequest(req, &request); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
	}

	resp, err := handler(ctx, &request)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	ctx = xcontext.WithResponse(ctx, resp)
	ctx, err = runMiddlewares(ctx, afters)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	return ctx
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, middleware := range middlewares {
		newCtx, err := middleware(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}

func bindRequest(req *http.Request, v any) error {
	if req.Method == http.MethodGet {
		return parseQuery(req.URL.Query(), v)
	}

	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		// The handler reads the form itself.
		return nil
	}

	err := json.NewDecoder(req.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func parseQuery(query url.Values, v any) error {
	input := map[string]any{}
	for key, values := range query {
		if len(values) == 1 {
			input[key] = values[0]
		} else {
			input[key] = values
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("cannot decode query: %w", err)
	}

	return nil
}

// requestContext carries the cancellation of the request and falls back to the
// values of the router context.
type requestContext struct {
	context.Context
	values context.Context
}

func (c *requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.values.Value(key)
}
