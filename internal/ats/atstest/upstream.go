// Package atstest provides a fake ATS upstream for tests.
package atstest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/resource"
)

const (
	Identity = "ats-app"
	Secret   = "s3cret"
)

type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// Reply is what the upstream answers for one request.
type Reply struct {
	Status int
	Body   string
}

type Upstream struct {
	*httptest.Server

	mu      sync.Mutex
	seen    []Request
	respond func(Request) Reply
}

// NewUpstream answers 200 {} until Respond or Reply installs something else.
func NewUpstream(t testing.TB) *Upstream {
	t.Helper()
	u := &Upstream{respond: func(Request) Reply { return Reply{Status: http.StatusOK, Body: `{}`} }}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		req := Request{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(b),
		}
		u.mu.Lock()
		u.seen = append(u.seen, req)
		respond := u.respond
		u.mu.Unlock()

		rep := respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.Status)
		_, _ = io.WriteString(w, rep.Body)
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) Respond(f func(Request) Reply) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.respond = f
}

// Reply answers every request with status and body.
func (u *Upstream) Reply(status int, body string) {
	u.Respond(func(Request) Reply { return Reply{Status: status, Body: body} })
}

func (u *Upstream) Requests() []Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Request(nil), u.seen...)
}

// Catalog builds the full resource catalog against u.
func (u *Upstream) Catalog(t testing.TB) *ats.Catalog {
	t.Helper()
	cred, err := resource.NewBasicCredential(Identity, Secret)
	require.NoError(t, err)
	tr, err := resource.NewTransport(resource.TransportConfig{BaseURL: u.URL, Credential: cred}, logger.Test(t))
	require.NoError(t, err)
	c, err := ats.NewCatalog(tr, ats.Definitions())
	require.NoError(t, err)
	return c
}
