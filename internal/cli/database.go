package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"ats-gateway/internal/database"
	"ats-gateway/internal/database/migration"
	"ats-gateway/internal/database/seeder"
	"ats-gateway/migrations"
)

func newMigrateCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withDB(cmd.Context(), func(db database.DB) error {
				n, err := migration.Runner{Source: migrations.FS, Logger: r.cfg.Logger}.Run(cmd.Context(), db.SQLDB())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]int{"applied": n})
			})
		},
	}
}

func newSeedCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the bootstrap operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := r.settingsOrLoad()
			if err != nil {
				return err
			}
			return r.withDB(cmd.Context(), func(db database.DB) error {
				seeds := seeder.Runner{Seeders: seeder.Defaults(s.Bootstrap), Logger: r.cfg.Logger}
				return seeds.Run(cmd.Context(), db)
			})
		},
	}
}

func (r *runner) withDB(ctx context.Context, fn func(database.DB) error) error {
	s, err := r.settingsOrLoad()
	if err != nil {
		return err
	}
	if !s.Database.Enabled() {
		return errors.New("database is not configured: set DB_HOST and DB_NAME")
	}
	db, err := r.cfg.Deps.ConnectDB(ctx, s.Database, r.cfg.Logger.Named("postgres"))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}
