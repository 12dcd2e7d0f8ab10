package resource

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrEmptyCredential = errors.New("resource: credential identity and secret are required")

// Credential is the static Basic credential attached to authenticated upstream calls.
// The header value is computed once at construction.
type Credential struct {
	identity string
	header   string
}

func NewBasicCredential(identity, secret string) (Credential, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" || secret == "" {
		return Credential{}, ErrEmptyCredential
	}
	token := base64.StdEncoding.EncodeToString([]byte(identity + ":" + secret))
	return Credential{identity: identity, header: "Basic " + token}, nil
}

func (c Credential) Identity() string {
	return c.identity
}

// Header returns the Authorization header value, empty for the zero Credential.
func (c Credential) Header() string {
	return c.header
}

func (c Credential) IsZero() bool {
	return c.header == ""
}

// String never prints the secret.
func (c Credential) String() string {
	if c.IsZero() {
		return "Basic <none>"
	}
	return "Basic " + c.identity + ":***"
}
