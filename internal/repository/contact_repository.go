package repository

import (
	"context"

	"volunteer-hub/internal/database"
	"volunteer-hub/internal/domain/contact"
)

type PostgresContactRepository struct {
	db database.DB
}

func NewPostgresContactRepository(db database.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

var _ contact.Repository = (*PostgresContactRepository)(nil)

func (r *PostgresContactRepository) Create(ctx context.Context, m contact.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.Email, m.Subject, m.Body,
	)
	return err
}

func (r *PostgresContactRepository) List(ctx context.Context, limit, offset int) ([]contact.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, subject, message, created_at
		 FROM contact_messages
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]contact.Message, 0)
	for rows.Next() {
		var m contact.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
