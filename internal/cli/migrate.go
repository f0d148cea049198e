package cli

import (
	"context"
	"os"
	"time"

	"volunteer-hub/internal/database"
	"volunteer-hub/internal/database/migration"
	dbpostgres "volunteer-hub/internal/database/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return runWithDB(cmd.Context(), 2*time.Minute, func(ctx context.Context, db database.DB, logger *zap.Logger) error {
			r := migration.Runner{Logger: logger}
			if dir != "" {
				r.FS = os.DirFS(dir)
			}
			return r.Run(ctx, db)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("dir", "", "read migrations from this directory instead of the built-in set")
}

// runWithDB connects to the configured database and runs fn under timeout.
func runWithDB(parent context.Context, timeout time.Duration, fn func(ctx context.Context, db database.DB, logger *zap.Logger) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(ctx, db, logger)
}
