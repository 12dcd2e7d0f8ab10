package resource

import (
	"errors"
	"fmt"
	"strings"
)

type Op string

const (
	OpFetchOne      Op = "fetch_one"
	OpFetchAll      Op = "fetch_all"
	OpFetchByParent Op = "fetch_by_parent"
	OpLookup        Op = "lookup"
	OpCreate        Op = "create"
	OpUpdate        Op = "update"
	OpDelete        Op = "delete"
	OpAction        Op = "action"
)

func (o Op) Mutates() bool {
	return o == OpCreate || o == OpUpdate || o == OpDelete
}

type AuthMode int

const (
	// AuthBasic attaches the transport credential. It is the zero value.
	AuthBasic AuthMode = iota
	AuthNone
)

const (
	idPlaceholder    = "{id}"
	valuePlaceholder = "{value}"
)

// Routes holds sub-route templates appended to Config.Path. "{id}" is replaced
// with the escaped identifier; an empty template targets Path itself.
type Routes struct {
	One    string
	All    string
	Create string
	Update string
	Delete string
}

func DefaultRoutes() Routes {
	return Routes{
		One:    idPlaceholder,
		All:    "",
		Create: "",
		Update: idPlaceholder,
		Delete: idPlaceholder,
	}
}

// Config declares one upstream resource.
type Config struct {
	Name string
	// Path is relative to the transport base URL, e.g. "api/universities".
	Path   string
	Routes *Routes
	Auth   AuthMode
	// Anonymous lists operations sent without the credential even when Auth is AuthBasic.
	Anonymous []Op
	// Parents maps a parent name to a "{id}" template, e.g. "contact": "contact/{id}".
	Parents map[string]string
	// Lookups maps a lookup key to a "{value}" template, e.g. "email": "email/{value}".
	Lookups map[string]string
}

var ErrInvalidConfig = errors.New("resource: invalid config")

func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	}
	if strings.Trim(strings.TrimSpace(c.Path), "/") == "" {
		return fmt.Errorf("%w: %s: empty path", ErrInvalidConfig, c.Name)
	}
	r := c.routes()
	for op, tpl := range map[Op]string{OpFetchOne: r.One, OpUpdate: r.Update, OpDelete: r.Delete} {
		if !strings.Contains(tpl, idPlaceholder) {
			return fmt.Errorf("%w: %s: %s route %q lacks %s", ErrInvalidConfig, c.Name, op, tpl, idPlaceholder)
		}
	}
	for parent, tpl := range c.Parents {
		if !strings.Contains(tpl, idPlaceholder) {
			return fmt.Errorf("%w: %s: parent %q route %q lacks %s", ErrInvalidConfig, c.Name, parent, tpl, idPlaceholder)
		}
	}
	for key, tpl := range c.Lookups {
		if !strings.Contains(tpl, valuePlaceholder) {
			return fmt.Errorf("%w: %s: lookup %q route %q lacks %s", ErrInvalidConfig, c.Name, key, tpl, valuePlaceholder)
		}
	}
	return nil
}

func (c Config) routes() Routes {
	if c.Routes == nil {
		return DefaultRoutes()
	}
	return *c.Routes
}

func (c Config) authenticated(op Op) bool {
	if c.Auth == AuthNone {
		return false
	}
	for _, a := range c.Anonymous {
		if a == op {
			return false
		}
	}
	return true
}
