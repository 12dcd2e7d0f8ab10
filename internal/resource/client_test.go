package resource

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-gateway/internal/pkg/logger"
)

type record = map[string]any

type capturedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	Query       string
	Header      http.Header
	Body        string
}

type upstream struct {
	*httptest.Server

	mu       sync.Mutex
	requests []capturedRequest

	status int
	body   string
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{status: status, body: body}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			EscapedPath: r.URL.EscapedPath(),
			Query:       r.URL.RawQuery,
			Header:      r.Header.Clone(),
			Body:        string(b),
		})
		st, bd := u.status, u.body
		u.mu.Unlock()

		if bd != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(st)
		_, _ = w.Write([]byte(bd))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) Requests() []capturedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]capturedRequest, len(u.requests))
	copy(out, u.requests)
	return out
}

type failingPayload struct{}

func (failingPayload) MarshalJSON() ([]byte, error) {
	return nil, errors.New("boom")
}

func newTestTransport(t *testing.T, baseURL string) *Transport {
	t.Helper()
	cred, err := NewBasicCredential("ats-app", "s3cret")
	require.NoError(t, err)
	tr, err := NewTransport(TransportConfig{BaseURL: baseURL, Credential: cred}, logger.Test(t))
	require.NoError(t, err)
	return tr
}

func newTestClient(t *testing.T, baseURL string, cfg Config) *Client[string, record] {
	t.Helper()
	c, err := New[string, record](newTestTransport(t, baseURL), cfg)
	require.NoError(t, err)
	return c
}

func assertBasicAuth(t *testing.T, h http.Header) {
	t.Helper()
	raw := h.Get("Authorization")
	require.True(t, strings.HasPrefix(raw, "Basic "), "authorization header %q", raw)
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, "Basic "))
	require.NoError(t, err)
	assert.Equal(t, "ats-app:s3cret", string(decoded))
}

func TestClient_OperationsIssueOneRequestEach(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		run        func(c *Client[string, record]) error
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name:       "fetch one",
			run:        func(c *Client[string, record]) error { return c.FetchOne(context.Background(), "7").Err() },
			wantMethod: http.MethodGet,
			wantPath:   "/api/universities/7",
		},
		{
			name:       "fetch all",
			run:        func(c *Client[string, record]) error { return c.FetchAll(context.Background()).Err() },
			wantMethod: http.MethodGet,
			wantPath:   "/api/universities",
		},
		{
			name: "fetch by parent",
			run: func(c *Client[string, record]) error {
				return c.FetchByParent(context.Background(), "contact", "12").Err()
			},
			wantMethod: http.MethodGet,
			wantPath:   "/api/universities/contact/12",
		},
		{
			name: "create",
			run: func(c *Client[string, record]) error {
				return c.Create(context.Background(), record{"name": "MIT"}).Err()
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/universities",
			wantBody:   `{"name":"MIT"}`,
		},
		{
			name: "update",
			run: func(c *Client[string, record]) error {
				return c.Update(context.Background(), "7", record{"name": "ETH"}).Err()
			},
			wantMethod: http.MethodPut,
			wantPath:   "/api/universities/7",
			wantBody:   `{"name":"ETH"}`,
		},
		{
			name:       "delete",
			run:        func(c *Client[string, record]) error { return c.Delete(context.Background(), "7").Err() },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/universities/7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			body := `{"id":7}`
			if tt.name == "fetch all" || tt.name == "fetch by parent" {
				body = `[{"id":7}]`
			}
			up := newUpstream(t, http.StatusOK, body)
			c := newTestClient(t, up.URL+"/", Config{
				Name:    "universities",
				Path:    "api/universities",
				Parents: map[string]string{"contact": "contact/{id}"},
			})

			require.NoError(t, tt.run(c))

			reqs := up.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.wantMethod, reqs[0].Method)
			assert.Equal(t, tt.wantPath, reqs[0].Path)
			assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
			assert.Equal(t, "XMLHttpRequest", reqs[0].Header.Get("X-Requested-With"))
			assertBasicAuth(t, reqs[0].Header)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, reqs[0].Body)
			}
		})
	}
}

func TestClient_DeleteContactTechnology_NotFoundResolvesWithBody(t *testing.T) {
	t.Parallel()

	const errBody = `{"error":"not_found","message":"contact-technology 42 does not exist"}`
	up := newUpstream(t, http.StatusNotFound, errBody)
	c := newTestClient(t, up.URL, Config{Name: "contact-technology", Path: "api/contact-technology"})

	res := c.Delete(context.Background(), "42")

	require.False(t, res.OK())
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureServer, res.Failure.Kind)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, errBody, string(res.Failure.Body))
	assert.True(t, res.Failure.Structured())

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/api/contact-technology/42", reqs[0].Path)
	assertBasicAuth(t, reqs[0].Header)
}

func TestClient_CreateClientLocation_ResolvesWithDecodedBodyAndStatus(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusCreated, `{"id":9,"name":"X"}`)
	c := newTestClient(t, up.URL, Config{Name: "client-locations", Path: "api/client-locations"})

	res := c.Create(context.Background(), record{"name": "X"})

	require.True(t, res.OK(), "unexpected failure: %v", res.Err())
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "X", res.Value["name"])
	assert.Equal(t, json.Number("9"), res.Value["id"])
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/api/client-locations", reqs[0].Path)
	assert.JSONEq(t, `{"name":"X"}`, reqs[0].Body)
}

func TestClient_LargeIntegersSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	const body = `{"contactId":1234567890123456789,"id":9007199254740993}`
	up := newUpstream(t, http.StatusOK, body)
	c := newTestClient(t, up.URL, Config{Name: "contacts", Path: "api/contacts"})

	got := c.FetchOne(context.Background(), "9007199254740993")
	require.True(t, got.OK(), "unexpected failure: %v", got.Err())

	out, err := json.Marshal(got.Value)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
	assert.Contains(t, string(out), "9007199254740993")

	res := c.Update(context.Background(), "9007199254740993", record{"contactId": got.Value["contactId"]})
	require.True(t, res.OK(), "unexpected failure: %v", res.Err())

	reqs := up.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, `{"contactId":1234567890123456789}`, reqs[1].Body)
}

func TestClient_ServerErrorBodyIsKeptVerbatim(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		body := `{"code":"E` + http.StatusText(status) + `", "fields" : ["a"] }`
		up := newUpstream(t, status, body)
		c := newTestClient(t, up.URL, Config{Name: "courses", Path: "api/courses"})

		res := c.Update(context.Background(), "1", record{"a": 1})

		require.NotNil(t, res.Failure)
		assert.Equal(t, FailureServer, res.Failure.Kind)
		assert.Equal(t, status, res.Failure.Status)
		assert.Equal(t, body, string(res.Failure.Body))
	}
}

func TestClient_ServerErrorWithoutBodyCarriesStatusText(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusBadGateway, "")
	c := newTestClient(t, up.URL, Config{Name: "domains", Path: "api/domains"})

	res := c.FetchAll(context.Background())

	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureServer, res.Failure.Kind)
	assert.Empty(t, res.Failure.Body)
	assert.False(t, res.Failure.Structured())
	assert.Equal(t, "Bad Gateway", res.Failure.Payload())
}

func TestClient_TransportFailureResolvesWithMessage(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `{}`)
	baseURL := up.URL
	up.Close()

	c := newTestClient(t, baseURL, Config{Name: "technologies", Path: "api/technologies"})

	var res Result[record]
	require.NotPanics(t, func() {
		res = c.FetchOne(context.Background(), "1")
	})

	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureTransport, res.Failure.Kind)
	assert.NotEmpty(t, res.Failure.Message)
	assert.IsType(t, "", res.Failure.Payload())
	assert.Zero(t, res.Status)
}

func TestClient_CanceledContextIsTransportFailure(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := newTestClient(t, srv.URL, Config{Name: "certifications", Path: "api/certifications"})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := c.FetchAll(ctx)

	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureTransport, res.Failure.Kind)
}

func TestClient_AnonymousOperationsOmitAuthorization(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `{"id":1}`)
	c := newTestClient(t, up.URL, Config{
		Name:      "job-tech",
		Path:      "api/job-tech",
		Anonymous: []Op{OpFetchOne},
	})

	require.True(t, c.FetchOne(context.Background(), "1").OK())
	require.True(t, c.Delete(context.Background(), "1").OK())

	reqs := up.Requests()
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Header.Get("Authorization"))
	assertBasicAuth(t, reqs[1].Header)
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
}

func TestClient_AuthNoneNeverSendsCredential(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `[]`)
	c := newTestClient(t, up.URL, Config{Name: "public", Path: "api/public", Auth: AuthNone})

	require.True(t, c.FetchAll(context.Background()).OK())
	assert.Empty(t, up.Requests()[0].Header.Get("Authorization"))
}

func TestClient_CustomRoutesAndLookup(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `{"id":"u1"}`)
	c := newTestClient(t, up.URL, Config{
		Name: "users",
		Path: "users",
		Routes: &Routes{
			One:    "{id}",
			All:    "all",
			Create: "create",
			Update: "update/{id}",
			Delete: "delete/{id}",
		},
		Lookups: map[string]string{"email": "email/{value}"},
	})

	ctx := context.Background()
	c.Create(ctx, record{"email": "a@b.c"})
	c.Update(ctx, "u1", record{"email": "a@b.c"})
	c.Delete(ctx, "u1")
	c.Lookup(ctx, "email", "jane.doe@example.com")

	reqs := up.Requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, "/users/create", reqs[0].Path)
	assert.Equal(t, "/users/update/u1", reqs[1].Path)
	assert.Equal(t, "/users/delete/u1", reqs[2].Path)
	assert.Equal(t, "/users/email/jane.doe@example.com", reqs[3].Path)
}

func TestClient_LocalFailuresSendNothing(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `{}`)
	c := newTestClient(t, up.URL, Config{Name: "educations", Path: "api/educations"})
	ctx := context.Background()

	results := []*Failure{
		c.FetchByParent(ctx, "job", "1").Failure,
		c.Lookup(ctx, "email", "x").Failure,
		c.FetchOne(ctx, "").Failure,
		c.Update(ctx, " ", record{}).Failure,
		c.Delete(ctx, "").Failure,
		c.Create(ctx, failingPayload{}).Failure,
	}
	for i, f := range results {
		require.NotNil(t, f, "case %d", i)
		assert.Equal(t, FailureLocal, f.Kind, "case %d", i)
		assert.NotEmpty(t, f.Message, "case %d", i)
	}
	assert.Empty(t, up.Requests())
}

func TestClient_UndecodableSuccessBodyIsLocalFailure(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `<html>maintenance</html>`)
	c := newTestClient(t, up.URL, Config{Name: "courses", Path: "api/courses"})

	res := c.FetchOne(context.Background(), "1")

	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureLocal, res.Failure.Kind)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Contains(t, res.Failure.Message, "decode response body")
}

func TestClient_EmptySuccessBodyLeavesZeroValue(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusNoContent, "")
	c := newTestClient(t, up.URL, Config{Name: "courses", Path: "api/courses"})

	res := c.Delete(context.Background(), "3")

	require.True(t, res.OK())
	assert.Equal(t, http.StatusNoContent, res.Status)
	assert.Nil(t, res.Value)
}

func TestClient_IdentifiersAreEscaped(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `{}`)
	c := newTestClient(t, up.URL, Config{Name: "domains", Path: "/api/domains/"})

	c.FetchOne(context.Background(), "a/b c")

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/domains/a%2Fb%20c", reqs[0].EscapedPath)
}

func TestClient_IntegerIdentifiers(t *testing.T) {
	t.Parallel()

	up := newUpstream(t, http.StatusOK, `{"id":42}`)
	c, err := New[int64, record](newTestTransport(t, up.URL), Config{Name: "jobs", Path: "api/jobs"})
	require.NoError(t, err)

	res := c.FetchOne(context.Background(), 42)
	require.True(t, res.OK())
	assert.Equal(t, "/api/jobs/42", up.Requests()[0].Path)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tr := newTestTransport(t, "http://upstream.local/")
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "empty name", cfg: Config{Path: "api/x"}},
		{name: "empty path", cfg: Config{Name: "x", Path: " / "}},
		{name: "update route without id", cfg: Config{Name: "x", Path: "api/x", Routes: &Routes{One: "{id}", Update: "update", Delete: "{id}"}}},
		{name: "parent route without id", cfg: Config{Name: "x", Path: "api/x", Parents: map[string]string{"job": "job"}}},
		{name: "lookup route without value", cfg: Config{Name: "x", Path: "api/x", Lookups: map[string]string{"email": "email/{id}"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New[string, record](tr, tt.cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := New[string, record](nil, Config{Name: "x", Path: "api/x"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
