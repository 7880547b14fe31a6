package services

import (
	"context"
	"errors"
	"strings"

	"github.com/chronohq/chrono-interviews/internal/models"
	mongorepo "github.com/chronohq/chrono-interviews/internal/repositories/mongo"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string, role models.UserRole) (*models.SafeUser, string, error)
	Login(ctx context.Context, email, password string) (*models.SafeUser, string, error)
}

type authService struct {
	users mongorepo.UserRepository
}

func NewAuthService(users mongorepo.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Signup(ctx context.Context, name, email, password string, role models.UserRole) (*models.SafeUser, string, error) {
	const op = "AuthService.Signup"

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "name, email, and password are required", nil)
	}
	if !role.Valid() {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "role must be interviewer or interviewee", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", utils.E(utils.CodeConflict, op, "email already registered", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	token, err := utils.IssueToken(user.ID.Hex(), user.Name, user.Email, string(user.Role))
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}

	safe := user.Safe()
	return &safe, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.SafeUser, string, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
		}
		return nil, "", utils.E(utils.CodeInternal, op, "failed to get user", err)
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, "", utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	token, err := utils.IssueToken(user.ID.Hex(), user.Name, user.Email, string(user.Role))
	if err != nil {
		return nil, "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}

	safe := user.Safe()
	return &safe, token, nil
}
