package ats

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/resource"
)

type seenRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

type fakeUpstream struct {
	srv *httptest.Server

	mu   sync.Mutex
	seen []seenRequest

	status int
	body   string
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{status: http.StatusOK}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.seen = append(f.seen, seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   string(b),
		})
		status, body := f.status, f.body
		f.mu.Unlock()

		if body == "" {
			if r.Method == http.MethodGet && (strings.HasSuffix(r.URL.Path, "/all") || !strings.ContainsAny(lastSegment(r.URL.Path), "0123456789@")) {
				body = `[]`
			} else {
				body = `{}`
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) reset(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = nil
	f.status = status
	f.body = body
}

func (f *fakeUpstream) requests() []seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]seenRequest(nil), f.seen...)
}

func lastSegment(p string) string {
	i := strings.LastIndex(p, "/")
	return p[i+1:]
}

func newTestCatalog(t *testing.T, baseURL string) *Catalog {
	t.Helper()
	cred, err := resource.NewBasicCredential("ats-app", "s3cret")
	require.NoError(t, err)
	tr, err := resource.NewTransport(resource.TransportConfig{BaseURL: baseURL + "/", Credential: cred}, logger.Test(t))
	require.NoError(t, err)
	cat, err := NewCatalog(tr, Definitions())
	require.NoError(t, err)
	return cat
}

func wantBasic() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("ats-app:s3cret"))
}

func TestCatalog_EveryResourceFollowsTheCRUDContract(t *testing.T) {
	up := newFakeUpstream(t)
	cat := newTestCatalog(t, up.srv.URL)
	ctx := context.Background()

	for _, def := range Definitions() {
		if def.Name == Users {
			continue
		}
		t.Run(def.Name, func(t *testing.T) {
			up.reset(http.StatusOK, "")
			cl, err := cat.Resource(def.Name)
			require.NoError(t, err)

			require.True(t, cl.FetchOne(ctx, "42").OK())
			require.True(t, cl.FetchAll(ctx).OK())
			require.True(t, cl.Create(ctx, Record{"name": "X"}).OK())
			require.True(t, cl.Update(ctx, "42", Record{"name": "Y"}).OK())
			require.True(t, cl.Delete(ctx, "42").OK())

			base := "/api/" + def.Name
			want := []struct{ method, path string }{
				{http.MethodGet, base + "/42"},
				{http.MethodGet, base},
				{http.MethodPost, base},
				{http.MethodPut, base + "/42"},
				{http.MethodDelete, base + "/42"},
			}
			got := up.requests()
			require.Len(t, got, len(want))
			for i, w := range want {
				assert.Equal(t, w.method, got[i].method)
				assert.Equal(t, w.path, got[i].path)
				assert.Equal(t, wantBasic(), got[i].auth, "%s %s", w.method, w.path)
			}
			assert.JSONEq(t, `{"name":"X"}`, got[2].body)
			assert.JSONEq(t, `{"name":"Y"}`, got[3].body)
		})
	}
}

func TestCatalog_ParentRoutes(t *testing.T) {
	up := newFakeUpstream(t)
	cat := newTestCatalog(t, up.srv.URL)
	ctx := context.Background()

	tests := []struct {
		resource string
		parent   string
		want     string
	}{
		{Educations, "contact", "/api/educations/contact/5"},
		{ClientJobDomain, "job", "/api/client-job-domain/job/5"},
		{JobTech, "job", "/api/job-tech/job/5"},
		{ClientLocations, "client", "/api/client-locations/client/5"},
		{InterviewTech, "interview", "/api/interview-tech/interview/5"},
		{Interviews, "job", "/api/interviews/job/5"},
	}
	for _, tt := range tests {
		up.reset(http.StatusOK, `[{"id":1}]`)
		cl, err := cat.Resource(tt.resource)
		require.NoError(t, err)

		res := cl.FetchByParent(ctx, tt.parent, "5")
		require.True(t, res.OK(), "%s: %v", tt.resource, res.Err())
		require.Len(t, res.Value, 1)

		got := up.requests()
		require.Len(t, got, 1)
		assert.Equal(t, tt.want, got[0].path)
	}
}

func TestCatalog_UsersFamily(t *testing.T) {
	up := newFakeUpstream(t)
	cat := newTestCatalog(t, up.srv.URL)
	ctx := context.Background()
	users := cat.Users()
	require.NotNil(t, users)

	users.FetchOne(ctx, "u1")
	users.FetchAll(ctx)
	users.Create(ctx, Record{"email": "a@b.c"})
	users.Update(ctx, "u1", Record{"email": "a@b.c"})
	users.Delete(ctx, "u1")
	cat.FetchUserByEmail(ctx, " jane@example.com ")

	var paths []string
	for _, r := range up.requests() {
		paths = append(paths, r.method+" "+r.path)
		assert.Equal(t, wantBasic(), r.auth)
	}
	assert.Equal(t, []string{
		"GET /users/u1",
		"GET /users/all",
		"POST /users/create",
		"PUT /users/update/u1",
		"DELETE /users/delete/u1",
		"GET /users/email/jane@example.com",
	}, paths)
}

func TestCatalog_FetchUserByEmailReportsFailures(t *testing.T) {
	up := newFakeUpstream(t)
	cat := newTestCatalog(t, up.srv.URL)

	up.reset(http.StatusNotFound, `{"message":"user not found"}`)
	res := cat.FetchUserByEmail(context.Background(), "ghost@example.com")
	require.NotNil(t, res.Failure)
	assert.Equal(t, resource.FailureServer, res.Failure.Kind)
	assert.JSONEq(t, `{"message":"user not found"}`, string(res.Failure.Body))

	res = cat.FetchUserByEmail(context.Background(), "  ")
	require.NotNil(t, res.Failure)
	assert.Equal(t, resource.FailureLocal, res.Failure.Kind)
}

func TestAuthActions(t *testing.T) {
	up := newFakeUpstream(t)
	cat := newTestCatalog(t, up.srv.URL)
	ctx := context.Background()

	up.reset(http.StatusOK, `{"ok":true}`)
	require.True(t, cat.Auth().ResetPassword(ctx, Record{"token": "t", "password": "p"}).OK())
	require.True(t, cat.Auth().ForgotPassword(ctx, "jane@example.com").OK())

	got := up.requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPost, got[0].method)
	assert.Equal(t, "/auth/reset-password", got[0].path)
	assert.JSONEq(t, `{"token":"t","password":"p"}`, got[0].body)
	assert.Equal(t, http.MethodPost, got[1].method)
	assert.Equal(t, "/auth/forgot-password", got[1].path)
	assert.Equal(t, "emailOrUserName=jane%40example.com", got[1].query)

	res := cat.Auth().ForgotPassword(ctx, "")
	require.NotNil(t, res.Failure)
	assert.Equal(t, resource.FailureLocal, res.Failure.Kind)
	assert.Len(t, up.requests(), 2)
}

func TestCatalog_UnknownAndNames(t *testing.T) {
	up := newFakeUpstream(t)
	cat := newTestCatalog(t, up.srv.URL)

	_, err := cat.Resource("payroll")
	require.ErrorIs(t, err, ErrUnknownResource)

	names := cat.Names()
	assert.Len(t, names, len(Definitions()))
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, ContactTechnology)
	assert.Contains(t, names, Users)
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	tr, err := resource.NewTransport(resource.TransportConfig{BaseURL: "http://upstream.local"}, nil)
	require.NoError(t, err)

	_, err = NewCatalog(tr, []resource.Config{
		{Name: Domains, Path: "api/domains"},
		{Name: Domains, Path: "api/domains-v2"},
	})
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = NewCatalog(nil, Definitions())
	require.ErrorIs(t, err, ErrMissingTransport)
}
