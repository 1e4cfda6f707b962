package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"storepos/pkg/database"

	"github.com/go-extras/cobraflags"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const migrateDatabaseURLFlag = "database-url"

var migrateFlags = map[string]cobraflags.Flag{
	migrateDatabaseURLFlag: &cobraflags.StringFlag{
		Name:  migrateDatabaseURLFlag,
		Value: "",
		Usage: "PostgreSQL connection string, overrides DATABASE_URL",
	},
}

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|status]",
		Short:     "Apply or list schema migrations",
		Long:      "migrate up applies every pending migration (the default); migrate status lists them with the time they were applied.",
		ValidArgs: []string{"up", "status"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE:      runMigrate,
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	cfg, log, err := loadConfig(map[string]string{
		"DATABASE_URL": migrateFlags[migrateDatabaseURLFlag].GetString(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	pool, err := database.NewPool(ctx, cfg.Database.URL, 1, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if action == "status" {
		return printStatus(ctx, cmd, pool)
	}

	applied, err := migrateUp(ctx, pool, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
	return nil
}

// migrateUp applies pending migrations on one dedicated connection so the
// advisory lock is held by the session that runs them.
func migrateUp(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) (int, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	applied, err := database.Migrate(ctx, conn, log)
	if err != nil {
		return applied, fmt.Errorf("migrate: %w", err)
	}
	return applied, nil
}

func printStatus(ctx context.Context, cmd *cobra.Command, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	status, err := database.Status(ctx, conn)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
	for _, s := range status {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%04d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	return w.Flush()
}
