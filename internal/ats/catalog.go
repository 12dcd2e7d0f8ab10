package ats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"ats-gateway/internal/resource"
)

// Record is an upstream record. The gateway never types upstream entities.
type Record = map[string]any

type Client = resource.Client[string, Record]

type Result = resource.Result[Record]

type ListResult = resource.Result[[]Record]

var (
	ErrUnknownResource  = errors.New("unknown resource")
	ErrDuplicateName    = errors.New("duplicate resource name")
	ErrMissingTransport = errors.New("nil transport")
)

// Catalog holds one Client per declared resource plus the auth actions.
type Catalog struct {
	clients map[string]*Client
	names   []string
	auth    *AuthActions
}

func NewCatalog(t *resource.Transport, defs []resource.Config) (*Catalog, error) {
	if t == nil {
		return nil, ErrMissingTransport
	}
	c := &Catalog{
		clients: make(map[string]*Client, len(defs)),
		auth:    &AuthActions{t: t},
	}
	for _, def := range defs {
		if _, dup := c.clients[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, def.Name)
		}
		cl, err := resource.New[string, Record](t, def)
		if err != nil {
			return nil, err
		}
		c.clients[def.Name] = cl
		c.names = append(c.names, def.Name)
	}
	sort.Strings(c.names)
	return c, nil
}

func (c *Catalog) Resource(name string) (*Client, error) {
	if c == nil {
		return nil, ErrUnknownResource
	}
	cl, ok := c.clients[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return cl, nil
}

// Names returns the sorted resource names.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Users() *Client {
	cl, _ := c.Resource(Users)
	return cl
}

func (c *Catalog) Auth() *AuthActions {
	if c == nil {
		return nil
	}
	return c.auth
}

// FetchUserByEmail resolves like every other operation: a failure is returned, never dropped.
func (c *Catalog) FetchUserByEmail(ctx context.Context, email string) Result {
	users := c.Users()
	if users == nil {
		return Result{Failure: &resource.Failure{
			Kind:    resource.FailureLocal,
			Op:      resource.OpLookup,
			Method:  http.MethodGet,
			Message: "users resource is not configured",
		}}
	}
	return users.Lookup(ctx, "email", strings.TrimSpace(email))
}

// AuthActions are the upstream account endpoints outside the CRUD pattern.
type AuthActions struct {
	t *resource.Transport
}

func (a *AuthActions) transport() *resource.Transport {
	if a == nil {
		return nil
	}
	return a.t
}

func (a *AuthActions) ResetPassword(ctx context.Context, payload Record) Result {
	return resource.Invoke[Record](ctx, a.transport(), resource.Call{
		Op:     resource.OpAction,
		Method: http.MethodPost,
		Path:   "auth/reset-password",
		Body:   payload,
		Auth:   true,
	})
}

func (a *AuthActions) ForgotPassword(ctx context.Context, emailOrUserName string) Result {
	v := strings.TrimSpace(emailOrUserName)
	if v == "" {
		return Result{Failure: &resource.Failure{
			Kind:    resource.FailureLocal,
			Op:      resource.OpAction,
			Method:  http.MethodPost,
			URL:     a.transport().URL("auth/forgot-password"),
			Message: "emailOrUserName is required",
		}}
	}
	return resource.Invoke[Record](ctx, a.transport(), resource.Call{
		Op:     resource.OpAction,
		Method: http.MethodPost,
		Path:   "auth/forgot-password",
		Query:  url.Values{"emailOrUserName": []string{v}},
		Auth:   true,
	})
}
