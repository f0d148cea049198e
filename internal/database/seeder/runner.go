package seeder

import (
	"context"
	"fmt"

	"volunteer-hub/internal/database"

	"go.uber.org/zap"
)

// Runner applies seeders in order after checking the schema holds every
// column they write.
type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	seeders := make([]Seeder, 0, len(r.Seeders))
	var reqs []Requirement
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		seeders = append(seeders, s)
		reqs = append(reqs, s.Requires()...)
	}
	if err := CheckSchema(ctx, db, reqs...); err != nil {
		return err
	}

	for _, s := range seeders {
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Info("seeder applied", zap.String("seeder", s.Name()))
	}
	return nil
}

// Defaults returns the seeders for f in dependency order.
func Defaults(f Fixtures) []Seeder {
	return []Seeder{
		UsersSeeder{Users: f.Users},
		OpportunitiesSeeder{Opportunities: f.Opportunities},
	}
}
