package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a CITIZEN account. Staff accounts are created through UserService.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return 0, domain.Invalid("name", "is required")
	}
	if email == "" {
		return 0, domain.Invalid("email", "is required")
	}
	if len(in.Password) < 6 {
		return 0, domain.Invalid("password", "must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, domain.User{
		Name:         name,
		Email:        email,
		Mobile:       trimmedOrNil(in.Mobile),
		PasswordHash: hash,
		Role:         domain.RoleCitizen,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return 0, domain.ErrEmailTaken
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("citizen registered", zap.Int64("user_id", id))
	return id, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Identity{
		UserID:       user.ID,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &ports.LoginResult{Token: token, User: *user}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, actor domain.Identity) (*domain.User, error) {
	return s.users.FindUserByID(ctx, actor.UserID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
