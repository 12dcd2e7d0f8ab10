package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Identifier is any type usable as a record or parent identifier in a URL.
type Identifier interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~string
}

// Client is the generic CRUD client for one upstream resource.
//
// Every operation issues at most one request and reports its outcome as a
// Result; none of them return a Go error.
type Client[ID Identifier, R any] struct {
	cfg    Config
	routes Routes
	path   string
	t      *Transport
}

func New[ID Identifier, R any](t *Transport, cfg Config) (*Client[ID, R], error) {
	if t == nil {
		return nil, fmt.Errorf("%w: %s: nil transport", ErrInvalidConfig, cfg.Name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client[ID, R]{
		cfg:    cfg,
		routes: cfg.routes(),
		path:   strings.Trim(strings.TrimSpace(cfg.Path), "/"),
		t:      t,
	}, nil
}

func (c *Client[ID, R]) Name() string {
	return c.cfg.Name
}

func (c *Client[ID, R]) Config() Config {
	return c.cfg
}

// Parents returns the sorted parent names this resource can be listed by.
func (c *Client[ID, R]) Parents() []string {
	return sortedKeys(c.cfg.Parents)
}

// Lookups returns the sorted lookup keys this resource supports.
func (c *Client[ID, R]) Lookups() []string {
	return sortedKeys(c.cfg.Lookups)
}

func (c *Client[ID, R]) FetchOne(ctx context.Context, id ID) Result[R] {
	if f := c.checkID(OpFetchOne, http.MethodGet, id); f != nil {
		return failed[R](f)
	}
	return Invoke[R](ctx, c.t, c.call(OpFetchOne, http.MethodGet, withID(c.routes.One, id), nil))
}

func (c *Client[ID, R]) FetchAll(ctx context.Context) Result[[]R] {
	return Invoke[[]R](ctx, c.t, c.call(OpFetchAll, http.MethodGet, c.routes.All, nil))
}

func (c *Client[ID, R]) FetchByParent(ctx context.Context, parent string, parentID ID) Result[[]R] {
	tpl, ok := c.cfg.Parents[parent]
	if !ok {
		return failed[[]R](c.localFailure(OpFetchByParent, http.MethodGet,
			fmt.Sprintf("%s has no parent route %q", c.cfg.Name, parent)))
	}
	if f := c.checkID(OpFetchByParent, http.MethodGet, parentID); f != nil {
		return failed[[]R](f)
	}
	return Invoke[[]R](ctx, c.t, c.call(OpFetchByParent, http.MethodGet, withID(tpl, parentID), nil))
}

func (c *Client[ID, R]) Lookup(ctx context.Context, key string, value string) Result[R] {
	tpl, ok := c.cfg.Lookups[key]
	if !ok {
		return failed[R](c.localFailure(OpLookup, http.MethodGet,
			fmt.Sprintf("%s has no lookup %q", c.cfg.Name, key)))
	}
	if strings.TrimSpace(value) == "" {
		return failed[R](c.localFailure(OpLookup, http.MethodGet,
			fmt.Sprintf("%s lookup %q: empty value", c.cfg.Name, key)))
	}
	sub := strings.ReplaceAll(tpl, valuePlaceholder, url.PathEscape(value))
	return Invoke[R](ctx, c.t, c.call(OpLookup, http.MethodGet, sub, nil))
}

func (c *Client[ID, R]) Create(ctx context.Context, payload any) Result[R] {
	return Invoke[R](ctx, c.t, c.call(OpCreate, http.MethodPost, c.routes.Create, payload))
}

func (c *Client[ID, R]) Update(ctx context.Context, id ID, payload any) Result[R] {
	if f := c.checkID(OpUpdate, http.MethodPut, id); f != nil {
		return failed[R](f)
	}
	return Invoke[R](ctx, c.t, c.call(OpUpdate, http.MethodPut, withID(c.routes.Update, id), payload))
}

func (c *Client[ID, R]) Delete(ctx context.Context, id ID) Result[R] {
	if f := c.checkID(OpDelete, http.MethodDelete, id); f != nil {
		return failed[R](f)
	}
	return Invoke[R](ctx, c.t, c.call(OpDelete, http.MethodDelete, withID(c.routes.Delete, id), nil))
}

func (c *Client[ID, R]) call(op Op, method, sub string, body any) Call {
	p := c.path
	if sub != "" {
		p += "/" + strings.TrimLeft(sub, "/")
	}
	return Call{
		Op:     op,
		Method: method,
		Path:   p,
		Body:   body,
		Auth:   c.cfg.authenticated(op),
	}
}

func (c *Client[ID, R]) localFailure(op Op, method, msg string) *Failure {
	return &Failure{
		Kind:    FailureLocal,
		Op:      op,
		Method:  method,
		URL:     c.t.URL(c.path),
		Message: msg,
	}
}

func (c *Client[ID, R]) checkID(op Op, method string, id ID) *Failure {
	if strings.TrimSpace(fmt.Sprint(id)) == "" {
		return c.localFailure(op, method, fmt.Sprintf("%s %s: empty identifier", c.cfg.Name, op))
	}
	return nil
}

func withID[ID Identifier](tpl string, id ID) string {
	return strings.ReplaceAll(tpl, idPlaceholder, url.PathEscape(fmt.Sprint(id)))
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
