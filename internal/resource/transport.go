package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"ats-gateway/internal/pkg/jsonx"
	"ats-gateway/internal/pkg/logger"
)

const (
	HeaderRequestedWith = "X-Requested-With"
	RequestedWithXHR    = "XMLHttpRequest"
	ContentTypeJSON     = "application/json"
)

var ErrInvalidBaseURL = errors.New("resource: invalid base URL")

type TransportConfig struct {
	// BaseURL is the upstream root (API_URL). A trailing slash is added when missing.
	BaseURL    string
	Credential Credential
	// Timeout bounds each call; zero leaves calls bounded only by their context.
	Timeout time.Duration
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
	Debug      bool
}

// Transport issues single upstream calls on behalf of every Client sharing it.
type Transport struct {
	base string
	cred Credential
	rc   *resty.Client
	lggr logger.Logger
}

func NewTransport(cfg TransportConfig, lggr logger.Logger) (*Transport, error) {
	base, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if lggr == nil {
		lggr = logger.Nop()
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetHeaders(map[string]string{
		"Content-Type":      ContentTypeJSON,
		"Accept":            ContentTypeJSON,
		HeaderRequestedWith: RequestedWithXHR,
	})
	rc.SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	rc.SetDebug(cfg.Debug)

	return &Transport{
		base: base,
		cred: cfg.Credential,
		rc:   rc,
		lggr: lggr.Named("upstream"),
	}, nil
}

func (t *Transport) BaseURL() string {
	if t == nil {
		return ""
	}
	return t.base
}

// Call is one upstream request. Path is relative to the base URL.
type Call struct {
	Op     Op
	Method string
	Path   string
	Query  url.Values
	Body   any
	Auth   bool
}

// Response is a received 2xx response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Do sends exactly one request for call, unless the request cannot be built.
// It never returns a Go error: every problem is described by the *Failure.
func (t *Transport) Do(ctx context.Context, call Call) (Response, *Failure) {
	target := t.URL(call.Path)
	if t == nil || t.rc == nil {
		return Response{}, &Failure{Kind: FailureLocal, Op: call.Op, Method: call.Method, URL: target, Message: "nil transport"}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req := t.rc.R().SetContext(ctx)
	if call.Auth && !t.cred.IsZero() {
		req.SetHeader("Authorization", t.cred.Header())
	}
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return Response{}, &Failure{
				Kind:    FailureLocal,
				Op:      call.Op,
				Method:  call.Method,
				URL:     target,
				Message: fmt.Sprintf("encode request body: %v", err),
			}
		}
		req.SetBody(b)
	}
	if len(call.Query) > 0 {
		req.SetQueryParamsFromValues(call.Query)
	}

	start := time.Now()
	resp, err := req.Execute(call.Method, target)
	latency := time.Since(start)

	if err != nil {
		t.lggr.Warnw("upstream transport failure",
			"op", call.Op, "method", call.Method, "url", target, "latency", latency, "err", err)
		return Response{}, &Failure{
			Kind:    FailureTransport,
			Op:      call.Op,
			Method:  call.Method,
			URL:     target,
			Message: err.Error(),
		}
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status >= 300 {
		t.lggr.Infow("upstream error response",
			"op", call.Op, "method", call.Method, "url", target, "status", status, "latency", latency, "body_bytes", len(body))
		return Response{}, &Failure{
			Kind:    FailureServer,
			Op:      call.Op,
			Method:  call.Method,
			URL:     target,
			Status:  status,
			Body:    body,
			Message: http.StatusText(status),
		}
	}

	t.lggr.Debugw("upstream call",
		"op", call.Op, "method", call.Method, "url", target, "status", status, "latency", latency)
	return Response{Status: status, Header: resp.Header(), Body: body}, nil
}

// URL resolves a path against the base URL.
func (t *Transport) URL(path string) string {
	if t == nil {
		return path
	}
	return t.base + strings.TrimLeft(path, "/")
}

// Invoke runs call and decodes a 2xx body into R.
func Invoke[R any](ctx context.Context, t *Transport, call Call) Result[R] {
	resp, f := t.Do(ctx, call)
	if f != nil {
		return failed[R](f)
	}
	return decode[R](call, t.URL(call.Path), resp)
}

func decode[R any](call Call, target string, resp Response) Result[R] {
	out := Result[R]{Status: resp.Status, Header: resp.Header}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return out
	}
	if err := jsonx.Unmarshal(body, &out.Value); err != nil {
		return Result[R]{
			Status: resp.Status,
			Header: resp.Header,
			Failure: &Failure{
				Kind:    FailureLocal,
				Op:      call.Op,
				Method:  call.Method,
				URL:     target,
				Status:  resp.Status,
				Body:    resp.Body,
				Message: fmt.Sprintf("decode response body: %v", err),
			},
		}
	}
	return out
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw, nil
}
