package repository

import (
	"context"

	"volunteer-hub/internal/database"
	"volunteer-hub/internal/database/postgres"
	"volunteer-hub/internal/domain/opportunity"

	"github.com/google/uuid"
)

const opportunityColumns = `id, host_id, title, description, district, state, images, skills,
	min_weeks, max_weeks, rating, review_count, created_at, updated_at`

type PostgresOpportunityRepository struct {
	db database.DB
}

func NewPostgresOpportunityRepository(db database.DB) *PostgresOpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

var _ opportunity.Repository = (*PostgresOpportunityRepository)(nil)

func (r *PostgresOpportunityRepository) ListAll(ctx context.Context) ([]opportunity.Opportunity, error) {
	return r.list(ctx, `SELECT `+opportunityColumns+` FROM opportunities ORDER BY created_at DESC, id ASC`)
}

func (r *PostgresOpportunityRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]opportunity.Opportunity, error) {
	return r.list(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE host_id = $1 ORDER BY created_at DESC, id ASC`,
		hostID,
	)
}

func (r *PostgresOpportunityRepository) GetByID(ctx context.Context, id uuid.UUID) (opportunity.Opportunity, error) {
	row := r.db.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if postgres.IsNoRows(err) {
			return opportunity.Opportunity{}, opportunity.ErrNotFound
		}
		return opportunity.Opportunity{}, err
	}
	return o, nil
}

func (r *PostgresOpportunityRepository) Create(ctx context.Context, o opportunity.Opportunity) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO opportunities (id, host_id, title, description, district, state, images, skills, min_weeks, max_weeks, rating, review_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.HostID, o.Title, o.Description, o.District, o.State, nonNil(o.Images), nonNil(o.Skills),
		o.MinWeeks, o.MaxWeeks, o.Rating, o.ReviewCount,
	)
	return err
}

func (r *PostgresOpportunityRepository) Update(ctx context.Context, o opportunity.Opportunity) error {
	n, err := r.db.Exec(ctx,
		`UPDATE opportunities
		 SET title = $2, description = $3, district = $4, state = $5, images = $6, skills = $7,
		     min_weeks = $8, max_weeks = $9, rating = $10, review_count = $11, updated_at = now()
		 WHERE id = $1`,
		o.ID, o.Title, o.Description, o.District, o.State, nonNil(o.Images), nonNil(o.Skills),
		o.MinWeeks, o.MaxWeeks, o.Rating, o.ReviewCount,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return opportunity.ErrNotFound
	}
	return nil
}

func (r *PostgresOpportunityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return opportunity.ErrNotFound
	}
	return nil
}

func (r *PostgresOpportunityRepository) ListFilterOptions(ctx context.Context) (opportunity.FilterOptions, error) {
	out := opportunity.FilterOptions{States: []string{}, Skills: []string{}}

	states, err := r.distinct(ctx, `SELECT DISTINCT state FROM opportunities WHERE state <> '' ORDER BY state ASC`)
	if err != nil {
		return out, err
	}
	skills, err := r.distinct(ctx, `SELECT DISTINCT s FROM opportunities, unnest(skills) AS s WHERE s <> '' ORDER BY s ASC`)
	if err != nil {
		return out, err
	}
	out.States = states
	out.Skills = skills
	return out, nil
}

func (r *PostgresOpportunityRepository) list(ctx context.Context, query string, args ...any) ([]opportunity.Opportunity, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]opportunity.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOpportunityRepository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOpportunity(row database.Row) (opportunity.Opportunity, error) {
	var o opportunity.Opportunity
	err := row.Scan(
		&o.ID, &o.HostID, &o.Title, &o.Description, &o.District, &o.State, &o.Images, &o.Skills,
		&o.MinWeeks, &o.MaxWeeks, &o.Rating, &o.ReviewCount, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}
