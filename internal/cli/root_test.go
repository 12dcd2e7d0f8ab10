package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-gateway/internal/ats"
	"ats-gateway/internal/ats/atstest"
	"ats-gateway/internal/config"
	"ats-gateway/internal/database"
	"ats-gateway/internal/pkg/logger"
	"ats-gateway/internal/resource"
)

func newTestCommand(t *testing.T, u *atstest.Upstream) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd, err := NewCommand(Config{
		Logger: logger.Test(t),
		Out:    out,
		Deps: Deps{
			LoadConfig: func() (config.Config, error) { return config.Config{}, nil },
			Catalog: func(config.UpstreamConfig, logger.Logger) (*ats.Catalog, error) {
				return u.Catalog(t), nil
			},
		},
	})
	require.NoError(t, err)
	return cmd, out
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func decode(t *testing.T, b *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &m))
	return m
}

func TestNewCommand_Structure(t *testing.T) {
	t.Parallel()

	_, err := NewCommand(Config{})
	require.Error(t, err)

	cmd, _ := newTestCommand(t, atstest.NewUpstream(t))
	uses := make([]string, 0, len(cmd.Commands()))
	for _, sc := range cmd.Commands() {
		uses = append(uses, strings.Fields(sc.Use)[0])
	}
	assert.ElementsMatch(t, []string{
		"resources", "get", "list", "children", "lookup", "create", "update", "delete",
		"forgot-password", "reset-password", "migrate", "seed",
	}, uses)
}

func TestGet_PrintsValue(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	u.Reply(http.StatusOK, `{"id":7,"name":"Go"}`)
	cmd, out := newTestCommand(t, u)

	require.NoError(t, execute(t, cmd, "get", ats.Technologies, "7"))

	got := decode(t, out)
	assert.InDelta(t, 200, got["status"], 0)
	assert.Equal(t, map[string]any{"id": float64(7), "name": "Go"}, got["value"])
	assert.NotContains(t, got, "error")

	reqs := u.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.True(t, strings.HasSuffix(reqs[0].Path, "/7"), reqs[0].Path)
}

func TestList_ServerFailureExitsNonZero(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	u.Reply(http.StatusNotFound, `{"error":"missing"}`)
	cmd, out := newTestCommand(t, u)

	err := execute(t, cmd, "list", ats.Technologies)
	var f *resource.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, resource.FailureServer, f.Kind)

	got := decode(t, out)
	assert.InDelta(t, 404, got["status"], 0)
	e, ok := got["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "server", e["kind"])
	assert.Equal(t, map[string]any{"error": "missing"}, e["body"])
}

func TestCreate_SendsPayload(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	u.Reply(http.StatusCreated, `{"id":1}`)
	cmd, _ := newTestCommand(t, u)

	require.NoError(t, execute(t, cmd, "create", ats.Technologies, "--data", `{"name":"Rust"}`))

	reqs := u.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{"name":"Rust"}`, reqs[0].Body)
}

func TestLargeIntegersRoundTrip(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	u.Reply(http.StatusOK, `{"contactId":1234567890123456789,"id":9007199254740993}`)
	cmd, out := newTestCommand(t, u)

	require.NoError(t, execute(t, cmd, "get", ats.Contacts, "9007199254740993"))
	assert.Contains(t, out.String(), "9007199254740993")
	assert.Contains(t, out.String(), "1234567890123456789")

	require.NoError(t, execute(t, cmd, "update", ats.Contacts, "9007199254740993", "-d", `{"contactId":1234567890123456789}`))

	reqs := u.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, `{"contactId":1234567890123456789}`, reqs[1].Body)
}

func TestUpdate_ReadsStdin(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	cmd, _ := newTestCommand(t, u)
	cmd.SetIn(strings.NewReader(`{"name":"Zig"}`))

	require.NoError(t, execute(t, cmd, "update", ats.Technologies, "3", "-d", "-"))

	reqs := u.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.JSONEq(t, `{"name":"Zig"}`, reqs[0].Body)
}

func TestCreate_EmptyPayloadNeverCallsUpstream(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	cmd, _ := newTestCommand(t, u)

	err := execute(t, cmd, "create", ats.Technologies, "--data", `{}`)
	require.ErrorIs(t, err, ErrEmptyPayload)
	assert.Empty(t, u.Requests())
}

func TestUnknownResource(t *testing.T) {
	t.Parallel()

	cmd, _ := newTestCommand(t, atstest.NewUpstream(t))
	err := execute(t, cmd, "get", "nope", "1")
	require.ErrorIs(t, err, ats.ErrUnknownResource)
}

func TestForgotPassword_LocalFailure(t *testing.T) {
	t.Parallel()

	u := atstest.NewUpstream(t)
	cmd, out := newTestCommand(t, u)

	err := execute(t, cmd, "forgot-password", " ")
	var f *resource.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, resource.FailureLocal, f.Kind)
	assert.Empty(t, u.Requests())

	got := decode(t, out)
	assert.InDelta(t, 0, got["status"], 0)
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	t.Parallel()

	connected := false
	cmd, err := NewCommand(Config{
		Logger: logger.Test(t),
		Out:    &bytes.Buffer{},
		Deps: Deps{
			LoadConfig: func() (config.Config, error) { return config.Config{}, nil },
			ConnectDB: func(context.Context, config.DatabaseConfig, logger.Logger) (database.DB, error) {
				connected = true
				return nil, errors.New("unreachable")
			},
		},
	})
	require.NoError(t, err)

	require.Error(t, execute(t, cmd, "migrate"))
	assert.False(t, connected)
}
