package seeder

import (
	"context"
	"fmt"
	"strings"

	"volunteer-hub/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsersSeeder struct {
	Users []UserFixture
}

func (UsersSeeder) Name() string { return "users" }

func (UsersSeeder) Requires() []Requirement {
	return []Requirement{{
		Table:   "users",
		Columns: []string{"id", "email", "password_hash", "role", "full_name", "country", "skills", "is_verified"},
	}}
}

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, u := range s.Users {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", u.Email, err)
			}
			skills := u.Skills
			if skills == nil {
				skills = []string{}
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, email, password_hash, role, full_name, country, skills, is_verified)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				 ON CONFLICT (email) DO NOTHING`,
				uuid.New(), strings.ToLower(strings.TrimSpace(u.Email)), string(hash), u.Role,
				u.FullName, u.Country, skills, u.Verified,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
