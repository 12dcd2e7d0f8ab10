// Package cli implements atsctl, an operator console over the same resource
// catalog the gateway serves.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ats-gateway/internal/app"
	"ats-gateway/internal/ats"
	"ats-gateway/internal/config"
	"ats-gateway/internal/database"
	dbpostgres "ats-gateway/internal/database/postgres"
	"ats-gateway/internal/pkg/logger"
)

const rootLong = `atsctl talks to the upstream ATS with the gateway's credentials.

Every resource command prints one JSON document holding the upstream status
and either the value or the failure. A failed call exits non-zero.`

// Config holds the configuration for the root command.
type Config struct {
	// Logger is the logger to use for diagnostics. Required.
	Logger logger.Logger

	// Out receives command output; stdout when nil.
	Out io.Writer

	// Deps holds optional dependencies that can be overridden.
	// If fields are nil, production defaults are used.
	Deps Deps
}

// Deps are the injectable constructors behind each command.
type Deps struct {
	LoadConfig func() (config.Config, error)
	Catalog    func(cfg config.UpstreamConfig, lggr logger.Logger) (*ats.Catalog, error)
	ConnectDB  func(ctx context.Context, cfg config.DatabaseConfig, lggr logger.Logger) (database.DB, error)
}

func (d *Deps) applyDefaults() {
	if d.LoadConfig == nil {
		d.LoadConfig = config.Load
	}
	if d.Catalog == nil {
		d.Catalog = app.NewCatalog
	}
	if d.ConnectDB == nil {
		d.ConnectDB = dbpostgres.Connect
	}
}

func (c Config) Validate() error {
	if c.Logger == nil {
		return errors.New("cli.Config: missing required fields: Logger")
	}
	return nil
}

// NewCommand creates the atsctl root command with all subcommands.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Deps.applyDefaults()
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	cmd := &cobra.Command{
		Use:           "atsctl",
		Short:         "ATS resource console",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cfg.Out)

	r := &runner{cfg: cfg}
	cmd.AddCommand(
		newResourcesCmd(r),
		newGetCmd(r),
		newListCmd(r),
		newChildrenCmd(r),
		newLookupCmd(r),
		newCreateCmd(r),
		newUpdateCmd(r),
		newDeleteCmd(r),
		newForgotPasswordCmd(r),
		newResetPasswordCmd(r),
		newMigrateCmd(r),
		newSeedCmd(r),
	)
	return cmd, nil
}

// runner resolves configuration and the catalog once per invocation.
type runner struct {
	cfg Config

	settings *config.Config
	catalog  *ats.Catalog
}

func (r *runner) settingsOrLoad() (config.Config, error) {
	if r.settings != nil {
		return *r.settings, nil
	}
	s, err := r.cfg.Deps.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	r.settings = &s
	return s, nil
}

func (r *runner) resolveCatalog() (*ats.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	s, err := r.settingsOrLoad()
	if err != nil {
		return nil, err
	}
	c, err := r.cfg.Deps.Catalog(s.Upstream, r.cfg.Logger.Named("resource"))
	if err != nil {
		return nil, err
	}
	r.catalog = c
	return c, nil
}

func (r *runner) resource(name string) (*ats.Client, error) {
	c, err := r.resolveCatalog()
	if err != nil {
		return nil, err
	}
	return c.Resource(strings.TrimSpace(name))
}
