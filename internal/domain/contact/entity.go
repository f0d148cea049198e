package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, m Message) error
	List(ctx context.Context, limit, offset int) ([]Message, error)
}
