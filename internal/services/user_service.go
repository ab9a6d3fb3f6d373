package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ecommerce-api/internal/apperrors"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

type UserService struct {
	users  store.UserStore
	logger zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users store.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, apperrors.Upstream("failed to register user", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			s.logger.Error().Err(err).Msg("Error creating user")
		}
		return nil, storeError(err, "User not found")
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered successfully")
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller, including in response time.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.Validation(invalidCredentials)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		s.logger.Warn().Str("email", email).Msg("Failed authentication attempt")
		return nil, apperrors.Unauthenticated(invalidCredentials)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, storeError(err, invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", email).Msg("Failed authentication attempt")
		return nil, apperrors.Unauthenticated(invalidCredentials)
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User authenticated successfully")
	return user, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	})
	return s.dummyHash
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing users")
		return nil, storeError(err, "No users found")
	}
	return users, nil
}

// UpdateProfile changes the caller's own name and, optionally, password.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	if req.Password != "" {
		if user.PasswordHash, err = hashPassword(req.Password); err != nil {
			return nil, apperrors.Upstream("User update failed", err)
		}
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error updating user")
		return nil, storeError(err, "User not found")
	}

	s.logger.Info().Str("user_id", userID).Msg("User profile updated")
	return user, nil
}

// AdminUpdate lets an administrator change another user's name, email or
// administrator flag. Absent fields are left unchanged.
func (s *UserService) AdminUpdate(ctx context.Context, userID string, req *models.AdminUpdateUserRequest, adminID string) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Error updating user")
		}
		return nil, storeError(err, "User not found")
	}

	s.logger.Info().Str("user_id", userID).Bool("is_admin", user.IsAdmin).Str("admin_id", adminID).Msg("User updated by admin")
	return user, nil
}
