package httpkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "launchdeck/internal/platform/errors"
	lnet "launchdeck/internal/platform/net"
	phttp "launchdeck/internal/platform/net/http"
	"launchdeck/internal/platform/net/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var port = middleware.AuthFunc(func(_ context.Context, key string) (lnet.Principal, error) {
	switch key {
	case "writer":
		return lnet.Principal{Subject: "w", Capabilities: []string{"thing:create"}}, nil
	case "reader":
		return lnet.Principal{Subject: "r"}, nil
	}
	return lnet.Principal{}, perr.Unauthorizedf("nope")
})

type thing struct {
	Name string `json:"name" validate:"required"`
}

func router() http.Handler {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	MountVersion(r, "/v4/", CommonStack(StackOptions{}), func(api Router) {
		MountUnder(api, "/things", nil, func(tr Router) {
			Get(tr, "/{id}", func(r *http.Request) (any, error) {
				return map[string]string{"id": Param(r, "id")}, nil
			})
			Protected(tr, port, "thing:create", func(pr Router) {
				Create(pr, "/", func(r *http.Request, in thing) (any, error) {
					p, err := Principal(r)
					if err != nil {
						return nil, err
					}
					return map[string]string{"name": in.Name, "by": p.Subject}, nil
				})
			})
			Delete(tr, "/{id}", func(*http.Request) (any, error) { return nil, perr.NotFoundf("gone") })
		})
	})
	return mux
}

func do(h http.Handler, method, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set(middleware.KeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestVersionedPublicRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v4/things/abc", nil)
	req.Header.Set("Origin", "https://example.test")
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"abc"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedOrdering(t *testing.T) {
	h := router()

	rec := do(h, http.MethodPost, "/v4/things", "", `{"name":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(h, http.MethodPost, "/v4/things", "reader", `{"name":"x"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(h, http.MethodPost, "/v4/things", "writer", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/v4/things", "writer", `{"name":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"name":"x","by":"w"}`, rec.Body.String())
}

func TestPublicRouteBesideProtected(t *testing.T) {
	rec := do(router(), http.MethodDelete, "/v4/things/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPrincipalMissing(t *testing.T) {
	_, err := Principal(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, perr.ErrorCodeUnauthorized, perr.CodeOf(err))
}

func TestStackOptionsDefaults(t *testing.T) {
	assert.Len(t, CommonStack(StackOptions{RequestTimeout: time.Second}), 7)
	resp := Created(1)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, http.StatusNoContent, NoContent().Status)
	assert.Error(t, Error(perr.NotFoundf("x")).Err)
	assert.Equal(t, 1, OK(1).Body)
	assert.NotNil(t, Handle(func(*http.Request) Response { return OK(nil) }))
}
