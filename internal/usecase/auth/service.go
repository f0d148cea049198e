package auth

import (
	"context"
	"errors"
	"strings"

	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/pkg/jwt"
	"volunteer-hub/internal/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrRefreshTokenExpired    = errors.New("refresh token expired")
	ErrInvalidResetToken      = errors.New("invalid or expired reset token")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLen = 8

type Sessions interface {
	Start(ctx context.Context, u user.User) (string, error)
	Validate(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type ResetTokens interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Consume(ctx context.Context, token string) (uuid.UUID, bool, error)
}

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	Role            string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// Result is a signed-in user with a fresh token pair.
type Result struct {
	User         user.User
	AccessToken  string
	RefreshToken string
}

type Service struct {
	users    user.Repository
	jwt      jwt.Service
	sessions Sessions
	resets   ResetTokens
	mailer   Mailer
	logger   *zap.Logger
}

func NewService(users user.Repository, jwtSvc jwt.Service, sessions Sessions, resets ResetTokens, mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, jwt: jwtSvc, sessions: sessions, resets: resets, mailer: mailer, logger: logger}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (Result, error) {
	email := normalizeEmail(in.Email)
	role := user.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = user.RoleVolunteer
	}

	verrs := validation.Errors{}
	if !validation.IsEmail(email) {
		verrs.Add("email", "must be a valid email address")
	}
	if strings.TrimSpace(in.FullName) == "" {
		verrs.Add("full_name", "is required")
	}
	checkNewPassword(verrs, "password", in.Password, in.ConfirmPassword)
	if role != user.RoleVolunteer && role != user.RoleHost {
		verrs.Add("role", "must be volunteer or host")
	}
	if err := verrs.Err(); err != nil {
		return Result{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Result{}, s.internal("exists by email", err)
	}
	if exists {
		return Result{}, ErrEmailAlreadyRegistered
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return Result{}, s.internal("hash password", err)
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Profile:      user.Profile{FullName: strings.TrimSpace(in.FullName)},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Result{}, ErrEmailAlreadyRegistered
		}
		return Result{}, s.internal("create user", err)
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return Result{}, s.internal("load created user", err)
	}
	return s.startSession(ctx, created)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Result, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Result{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, s.internal("get user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Result{}, ErrInvalidCredentials
	}
	return s.startSession(ctx, u)
}

// Refresh rotates the token pair of a live session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Result, error) {
	if refreshToken == "" {
		return Result{}, ErrUnauthorized
	}

	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Result{}, ErrRefreshTokenExpired
		}
		return Result{}, ErrInvalidRefreshToken
	}
	if !s.jwt.IsRefreshToken(claims) {
		return Result{}, ErrInvalidRefreshToken
	}

	ok, err := s.sessions.Validate(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return Result{}, s.internal("validate session", err)
	}
	if !ok {
		return Result{}, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Result{}, ErrInvalidRefreshToken
		}
		return Result{}, s.internal("get user", err)
	}
	return s.issue(u, claims.SessionID)
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return s.internal("clear session", err)
	}
	return nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validation.IsEmail(email) {
		return validation.Errors{"email": "must be a valid email address"}
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Error("forgot password lookup failed", zap.Error(err))
		}
		return nil
	}

	token, err := s.resets.Issue(ctx, u.ID)
	if err != nil {
		s.logger.Error("issue reset token failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return nil
	}
	if err := s.mailer.SendPasswordReset(ctx, u.Email, token); err != nil {
		s.logger.Error("send reset mail failed", zap.String("user_id", u.ID.String()), zap.Error(err))
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	verrs := validation.Errors{}
	if strings.TrimSpace(in.Token) == "" {
		verrs.Add("token", "is required")
	}
	checkNewPassword(verrs, "password", in.Password, in.ConfirmPassword)
	if err := verrs.Err(); err != nil {
		return err
	}

	userID, ok, err := s.resets.Consume(ctx, strings.TrimSpace(in.Token))
	if err != nil {
		return s.internal("consume reset token", err)
	}
	if !ok {
		return ErrInvalidResetToken
	}
	return s.setPassword(ctx, userID, in.Password)
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	verrs := validation.Errors{}
	if in.CurrentPassword == "" {
		verrs.Add("current_password", "is required")
	}
	checkNewPassword(verrs, "new_password", in.NewPassword, in.ConfirmPassword)
	if err := verrs.Err(); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUnauthorized
		}
		return s.internal("get user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(in.NewPassword)
	if err != nil {
		return s.internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return s.internal("update password", err)
	}
	return nil
}

func (s *Service) setPassword(ctx context.Context, userID uuid.UUID, pw string) error {
	hash, err := hashPassword(pw)
	if err != nil {
		return s.internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return s.internal("update password", err)
	}
	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.logger.Warn("clear session after reset failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return nil
}

func (s *Service) startSession(ctx context.Context, u user.User) (Result, error) {
	sid, err := s.sessions.Start(ctx, u)
	if err != nil {
		return Result{}, s.internal("start session", err)
	}
	return s.issue(u, sid)
}

func (s *Service) issue(u user.User, sid string) (Result, error) {
	id := jwt.Identity{UserID: u.ID, Email: u.Email, Role: string(u.Role), SessionID: sid}

	access, err := s.jwt.GenerateAccessToken(id)
	if err != nil {
		return Result{}, s.internal("generate access token", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(id)
	if err != nil {
		return Result{}, s.internal("generate refresh token", err)
	}
	return Result{User: sanitizeUser(u), AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) internal(op string, err error) error {
	s.logger.Error("auth: "+op, zap.Error(err))
	return ErrInternal
}

func checkNewPassword(verrs validation.Errors, field, pw, confirm string) {
	if len(strings.TrimSpace(pw)) < minPasswordLen {
		verrs.Add(field, "must be at least 8 characters")
		return
	}
	if pw != confirm {
		verrs.Add("confirm_password", "does not match")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
