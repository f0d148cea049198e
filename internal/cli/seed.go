package cli

import (
	"context"
	"time"

	"volunteer-hub/internal/database"
	"volunteer-hub/internal/database/migration"
	"volunteer-hub/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert fixture users and opportunities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		migrate, _ := cmd.Flags().GetBool("migrate")

		fixtures, err := seeder.LoadFixtures(file)
		if err != nil {
			return err
		}

		return runWithDB(cmd.Context(), 2*time.Minute, func(ctx context.Context, db database.DB, logger *zap.Logger) error {
			if migrate {
				if err := (migration.Runner{Logger: logger}).Run(ctx, db); err != nil {
					return err
				}
			}
			logger.Info("seeding",
				zap.Int("users", len(fixtures.Users)),
				zap.Int("opportunities", len(fixtures.Opportunities)),
			)
			return seeder.Runner{Seeders: seeder.Defaults(fixtures), Logger: logger}.Run(ctx, db)
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringP("file", "f", "", "YAML fixtures file (default is the built-in set)")
	seedCmd.Flags().Bool("migrate", false, "apply pending migrations first")
}
