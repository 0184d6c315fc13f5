package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"social-service/internal/apperror"
	"social-service/internal/auth"
	"social-service/internal/models"
	"social-service/internal/repositories/postgres"
	"social-service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo   *postgres.UserRepository
	tokens *auth.TokenManager
	media  *MediaService
}

func NewUserService(repo *postgres.UserRepository, tokens *auth.TokenManager, media *MediaService) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		media:  media,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserProfile, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperror.InvalidRequest("name, email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err, "failed to hash password")
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, postgres.ErrEmailExists) {
			return nil, apperror.Conflict("Email is already registered")
		}
		return nil, apperror.Internal(err, "failed to create user")
	}

	slog.Info("User registered", "userID", user.ID)
	profile := models.NewUserProfile(&user)
	return &profile, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, apperror.Internal(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal(err, "failed to generate token")
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.NewUserProfile(user),
	}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err, "failed to load user")
	}
	profile := models.NewUserProfile(user)
	return &profile, nil
}

// UpdateProfile replaces the text fields and, when picture is set, uploads
// it through the media store first.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateProfileRequest, picture *storage.File) (*models.UserProfile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidRequest("name is required")
	}

	fields := map[string]interface{}{
		"name":        name,
		"description": strings.TrimSpace(req.Description),
		"location":    strings.TrimSpace(req.Location),
	}

	if picture != nil {
		if !storage.IsAllowedProfilePicture(picture.Name) {
			return nil, apperror.InvalidRequest("Profile picture must be a png, jpg, jpeg or gif file")
		}
		picture.OwnerID = userID
		uploaded, err := s.media.Upload(ctx, *picture)
		if err != nil {
			return nil, err
		}
		fields["picture"] = uploaded.URL
	}

	if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
		if isNotFound(err) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err, fmt.Sprintf("failed to update user %d", userID))
	}

	return s.GetProfile(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
