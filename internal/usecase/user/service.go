package user

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/listing"
	"volunteer-hub/internal/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInternal = errors.New("internal error")
)

const (
	maxNameLen = 120
	maxBioLen  = 2000
)

type UpdateProfileInput struct {
	FullName  *string
	Phone     *string
	Bio       *string
	Country   *string
	AvatarURL *string
	Skills    []string
}

// SessionUpdater refreshes the cached snapshot of a signed-in user.
type SessionUpdater interface {
	Update(ctx context.Context, u user.User) error
}

type Service struct {
	users    user.Repository
	sessions SessionUpdater
	logger   *zap.Logger
}

func NewService(users user.Repository, sessions SessionUpdater, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, sessions: sessions, logger: logger}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID.String()), zap.Error(err))
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

// UpdateMe applies the non-nil fields of in. A nil Skills leaves skills as
// they are; an empty slice clears them.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID.String()), zap.Error(err))
		return user.User{}, ErrInternal
	}

	p, err := applyProfile(usr.Profile, in)
	if err != nil {
		return user.User{}, err
	}

	if err := s.users.UpdateProfile(ctx, userID, p); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		s.logger.Error("update profile failed", zap.String("user_id", userID.String()), zap.Error(err))
		return user.User{}, ErrInternal
	}
	usr.Profile = p

	if s.sessions != nil {
		if err := s.sessions.Update(ctx, usr); err != nil {
			s.logger.Warn("session snapshot update failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return sanitizeUser(usr), nil
}

func applyProfile(p user.Profile, in UpdateProfileInput) (user.Profile, error) {
	verrs := validation.Errors{}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		switch {
		case name == "":
			verrs.Add("full_name", "is required")
		case len(name) > maxNameLen:
			verrs.Add("full_name", "is too long")
		}
		p.FullName = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" {
			normalized, ok := validation.NormalizePhone(phone)
			if !ok {
				verrs.Add("phone", "must be 7 to 15 digits, optionally starting with +")
			}
			phone = normalized
		}
		p.Phone = phone
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if len(bio) > maxBioLen {
			verrs.Add("bio", "is too long")
		}
		p.Bio = bio
	}
	if in.Country != nil {
		p.Country = strings.TrimSpace(*in.Country)
	}
	if in.AvatarURL != nil {
		avatar := strings.TrimSpace(*in.AvatarURL)
		if avatar != "" && !isHTTPURL(avatar) {
			verrs.Add("avatar_url", "must be an http(s) URL")
		}
		p.AvatarURL = avatar
	}
	if in.Skills != nil {
		p.Skills = listing.SplitList(strings.Join(in.Skills, ","))
		if p.Skills == nil {
			p.Skills = []string{}
		}
	}

	if err := verrs.Err(); err != nil {
		return user.Profile{}, err
	}
	return p, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
