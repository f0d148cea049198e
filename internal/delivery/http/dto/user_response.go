package dto

import (
	"time"

	"volunteer-hub/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Bio        string    `json:"bio"`
	Country    string    `json:"country"`
	AvatarURL  string    `json:"avatar_url"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewUserResponse(u user.User) UserResponse {
	skills := u.Profile.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		FullName:   u.Profile.FullName,
		Phone:      u.Profile.Phone,
		Bio:        u.Profile.Bio,
		Country:    u.Profile.Country,
		AvatarURL:  u.Profile.AvatarURL,
		Skills:     skills,
		CreatedAt:  u.CreatedAt,
	}
}
