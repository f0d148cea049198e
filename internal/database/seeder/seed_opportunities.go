package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"volunteer-hub/internal/database"

	"github.com/google/uuid"
)

type OpportunitiesSeeder struct {
	Opportunities []OpportunityFixture
	// Now defaults to time.Now.
	Now func() time.Time
}

func (OpportunitiesSeeder) Name() string { return "opportunities" }

func (OpportunitiesSeeder) Requires() []Requirement {
	return []Requirement{
		{Table: "users", Columns: []string{"id", "email"}},
		{Table: "opportunities", Columns: []string{
			"id",
			"host_id",
			"title",
			"description",
			"district",
			"state",
			"images",
			"skills",
			"min_weeks",
			"max_weeks",
			"rating",
			"review_count",
			"created_at",
			"updated_at",
		}},
	}
}

func (s OpportunitiesSeeder) Run(ctx context.Context, db database.DB) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	base := now().UTC()

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, o := range s.Opportunities {
			hostID, err := findUserID(ctx, tx, o.Host)
			if err != nil {
				return err
			}

			createdAt := base.Add(-time.Duration(o.AgeDays) * 24 * time.Hour)
			if _, err := tx.Exec(ctx,
				`INSERT INTO opportunities (id, host_id, title, description, district, state, images, skills,
				                            min_weeks, max_weeks, rating, review_count, created_at, updated_at)
				 SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::text, $7::text[], $8::text[],
				        $9::int, $10::int, $11::float8, $12::int, $13::timestamptz, $13::timestamptz
				 WHERE NOT EXISTS (SELECT 1 FROM opportunities WHERE host_id = $2::uuid AND title = $3::text)`,
				uuid.New(), hostID, o.Title, o.Description, o.District, o.State,
				orEmpty(o.Images), orEmpty(o.Skills), o.MinWeeks, o.MaxWeeks, o.Rating, o.ReviewCount, createdAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func findUserID(ctx context.Context, tx database.Tx, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find host %s: %w", email, err)
	}
	return id, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
