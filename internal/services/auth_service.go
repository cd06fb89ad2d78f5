package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"schoolzy/internal/models"
	"schoolzy/internal/utils"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type AuthReviewStore interface {
	FindByUserID(ctx context.Context, userID string) ([]models.Review, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type AuthService struct {
	users   UserStore
	reviews AuthReviewStore
	rating  Rater
	jwtUtil *utils.JWTUtil
	google  *GoogleAuthService
	redis   *utils.RedisClient
}

func NewAuthService(users UserStore, reviews AuthReviewStore, rating Rater, jwtUtil *utils.JWTUtil, google *GoogleAuthService, redis *utils.RedisClient) *AuthService {
	return &AuthService{
		users:   users,
		reviews: reviews,
		rating:  rating,
		jwtUtil: jwtUtil,
		google:  google,
		redis:   redis,
	}
}

func (s *AuthService) Register(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = "user"
	}
	if err := validateUser(user); err != nil {
		return err
	}

	existing, _ := s.users.FindByEmail(ctx, user.Email)
	if existing != nil {
		return fmt.Errorf("user %w", models.ErrDuplicate)
	}

	if err := user.HashPassword(); err != nil {
		return err
	}
	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, errors.New("invalid credentials")
	}
	if err := user.ComparePassword(password); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Name, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GoogleLogin verifies a Google id token and signs the matching account in,
// creating it on first sight.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (string, *models.User, error) {
	payload, err := s.google.VerifyGoogleToken(ctx, idToken)
	if err != nil {
		return "", nil, err
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		user = &models.User{
			Name:           name,
			Email:          email,
			Password:       utils.GenerateCode(16),
			Role:           "user",
			ProfilePicture: picture,
		}
		if err := user.HashPassword(); err != nil {
			return "", nil, err
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", nil, err
		}
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Name, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, email, pictureURL string) error {
	if name == "" || email == "" {
		return fmt.Errorf("%w: name and email are required", models.ErrValidation)
	}

	fields := map[string]interface{}{
		"name":  name,
		"email": email,
	}
	if pictureURL != "" {
		fields["profile_picture"] = pictureURL
	}
	return s.users.UpdateFields(ctx, userID, fields)
}

// DeleteAccount removes the user together with their reviews and brings the
// affected schools' aggregates back in line.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	reviews, err := s.reviews.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.reviews.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	for _, schoolID := range distinctSchoolIDs(reviews) {
		s.rating.Recalculate(ctx, schoolID)
	}
	return nil
}

// Logout blacklists the token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	token, err := s.jwtUtil.ValidateToken(tokenStr)
	if err != nil || !token.Valid {
		return models.ErrUnauthorized
	}

	ttl := 7 * 24 * time.Hour
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if exp, ok := claims["exp"].(float64); ok {
			until := time.Until(time.Unix(int64(exp), 0))
			if until > 0 {
				ttl = until
			}
		}
	}
	return s.redis.BlacklistToken(ctx, tokenStr, ttl)
}

func validateUser(user *models.User) error {
	validate := utils.GetValidator()
	if err := validate.Struct(user); err != nil {
		errs := utils.ParseErrors(err)
		return fmt.Errorf("%w: %v", models.ErrValidation, errs)
	}
	return nil
}

func distinctSchoolIDs(reviews []models.Review) []string {
	seen := map[string]bool{}
	ids := make([]string, 0, len(reviews))
	for _, review := range reviews {
		if !seen[review.SchoolID] {
			seen[review.SchoolID] = true
			ids = append(ids, review.SchoolID)
		}
	}
	return ids
}
