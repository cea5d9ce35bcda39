package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/loja/internal/apperror"
	"github.com/Skotchmaster/loja/internal/models"
	"github.com/Skotchmaster/loja/internal/transport"
	"github.com/Skotchmaster/loja/pkg/hash"
	"github.com/Skotchmaster/loja/pkg/tokens"
)

const DefaultTokenTTL = 2 * time.Hour

type UserService struct {
	Users     UserRepo
	Events    EventPublisher
	JWTSecret []byte
	TokenTTL  time.Duration
	// AllowRoleOnRegister lets anonymous callers register as admin.
	AllowRoleOnRegister bool
	Now                 func() time.Time
}

// Register creates a user. callerIsAdmin reports whether the request carried
// a valid admin token; it only matters when AllowRoleOnRegister is off.
func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest, callerIsAdmin bool) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role := req.EffectiveRole()
	if role == models.RoleAdmin && !s.AllowRoleOnRegister && !callerIsAdmin {
		return nil, fmt.Errorf("only an admin may create admin accounts: %w", apperror.ErrForbidden)
	}

	if _, err := s.Users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Age:          *req.Age,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    nowUTC(s.Now),
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, UserEvent{
		Type: "user_registered", UserID: user.ID, Email: user.Email, Role: user.Role, At: user.CreatedAt,
	})
	return user, nil
}

// Login answers unknown email and wrong password with the same error.
func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := nowUTC(s.Now)
	token, _, err := tokens.IssueAccessToken(s.JWTSecret, user.ID, user.Role, ttl, now)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicUserEvents, user.ID, UserEvent{Type: "user_logged_in", UserID: user.ID, At: now})
	return &transport.LoginResponse{Token: token, Role: user.Role, Name: user.Name}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.ListUsers(ctx)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.Events, TopicUserEvents, id, UserEvent{Type: "user_deleted", UserID: id, At: nowUTC(s.Now)})
	return nil
}
