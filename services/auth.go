// Package services holds the request-independent logic behind the HTTP
// handlers: the auth service and the event directory.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventmanagement/models"
	"eventmanagement/utils"
)

type AuthService struct {
	users  models.UserRepository
	tokens *utils.TokenManager
}

func NewAuthService(users models.UserRepository, tokens *utils.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber models.PhoneNumber
	Role        models.Role
}

type RegisterResult struct {
	User  models.User
	Token string
}

// Register creates the user and issues a session token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	u := models.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    in.Password,
		PhoneNumber: in.PhoneNumber,
		Role:        in.Role,
	}
	u.Normalize()
	if err := models.ValidateUser(&u).Err(); err != nil {
		return RegisterResult{}, err
	}

	if _, err := s.users.GetByEmail(ctx, u.Email); err == nil {
		return RegisterResult{}, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return RegisterResult{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := u.SetPassword(in.Password); err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}
	u.ID = primitive.NewObjectID()

	token, err := s.tokens.GenerateToken(u.ID.Hex(), u.Email)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("sign token: %w", err)
	}

	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return RegisterResult{}, err
		}
		return RegisterResult{}, fmt.Errorf("save user: %w", err)
	}
	u.Password = ""
	return RegisterResult{User: u, Token: token}, nil
}

// Login verifies the credentials and the requested role. A role that does
// not match the stored one fails even when the password is right.
func (s *AuthService) Login(ctx context.Context, email, password string, role models.Role) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !u.CheckPassword(password) {
		return "", models.ErrInvalidCredentials
	}
	if u.Role != role {
		return "", models.ErrRoleMismatch
	}

	token, err := s.tokens.GenerateToken(u.ID.Hex(), u.Email)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Profile returns the user behind a verified session, without the password.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.User, error) {
	id, err := models.ParseID(userID)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	u.Password = ""
	return u, nil
}
