package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chefshare/backend/internal/apperror"
	"github.com/chefshare/backend/internal/middleware"
	"github.com/chefshare/backend/internal/models"
)

const (
	bcryptCost    = 12
	tokenLifetime = 24 * time.Hour
)

var (
	passwordLower  = regexp.MustCompile(`[a-z]`)
	passwordUpper  = regexp.MustCompile(`[A-Z]`)
	passwordDigit  = regexp.MustCompile(`[0-9]`)
	passwordSymbol = regexp.MustCompile(`[@$!%*?&]`)
)

// AuthService handles chef registration, login and token validation.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// NormalizeEmail lowercases and trims an email address so lookups and
// uniqueness checks are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new chef account. Validation runs before any write:
// all fields present, no existing account for the email, name between 3
// and 20 characters, well-formed email, and a password with at least 8
// characters covering lowercase, uppercase, digit and special character.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.Chef, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, apperror.Validation("", "All fields are required")
	}

	var existing models.Chef
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict("Chef already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Storage("look up chef", err)
	}

	if err := validation.Validate(name, validation.Length(3, 20)); err != nil {
		return nil, apperror.Validation("name", "Invalid name format. Name must be between 3 and 20 characters")
	}
	if err := validation.Validate(email, is.Email); err != nil {
		return nil, apperror.Validation("email", "Invalid email format")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	chef := models.Chef{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&chef).Error; err != nil {
		return nil, apperror.Storage("create chef", err)
	}
	return &chef, nil
}

// validatePassword enforces the account password policy.
func validatePassword(password string) error {
	if len(password) < 8 ||
		!passwordLower.MatchString(password) ||
		!passwordUpper.MatchString(password) ||
		!passwordDigit.MatchString(password) ||
		!passwordSymbol.MatchString(password) {
		return apperror.Validation("password",
			"Password must be at least 8 characters and include uppercase, lowercase, number and special character")
	}
	return nil
}

// Login verifies the chef's credentials and returns a signed token.
// An unknown email yields a not-found error; a wrong password for a
// known email yields an invalid-credentials error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Chef, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, apperror.Validation("", "All fields are required")
	}

	var chef models.Chef
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, apperror.NotFound("Chef not found")
	}
	if err != nil {
		return "", nil, apperror.Storage("look up chef", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(chef.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.InvalidCredentials()
	}

	token, err := s.generateToken(chef.ID)
	if err != nil {
		return "", nil, apperror.Internal(fmt.Errorf("sign token: %w", err))
	}
	return token, &chef, nil
}

func (s *AuthService) generateToken(chefID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"chef_id": chefID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a signed token and extracts the
// chef identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	raw, ok := claims["chef_id"].(string)
	if !ok {
		return nil, errors.New("token missing chef_id claim")
	}
	chefID, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New("malformed chef_id claim")
	}
	return &middleware.TokenClaims{ChefID: chefID}, nil
}

// GetChefByID loads a chef by primary key.
func (s *AuthService) GetChefByID(ctx context.Context, id uuid.UUID) (*models.Chef, error) {
	var chef models.Chef
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Chef not found")
	}
	if err != nil {
		return nil, apperror.Storage("look up chef", err)
	}
	return &chef, nil
}

// SetProfilePicture records the uploaded picture on the chef and returns
// the storage key of the picture it replaced, if any, so the caller can
// clean up the old blob.
func (s *AuthService) SetProfilePicture(ctx context.Context, chefID uuid.UUID, url, key string) (oldKey string, err error) {
	var chef models.Chef
	dbErr := s.db.WithContext(ctx).Where("id = ?", chefID).First(&chef).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return "", apperror.NotFound("Chef not found")
	}
	if dbErr != nil {
		return "", apperror.Storage("look up chef", dbErr)
	}

	oldKey = chef.ProfilePictureKey
	updates := map[string]interface{}{
		"profile_picture":     url,
		"profile_picture_key": key,
	}
	if err := s.db.WithContext(ctx).Model(&chef).Updates(updates).Error; err != nil {
		return "", apperror.Storage("update profile picture", err)
	}
	return oldKey, nil
}

// UpdateBio replaces the chef's bio text.
func (s *AuthService) UpdateBio(ctx context.Context, chefID uuid.UUID, bio string) (*models.Chef, error) {
	bio = strings.TrimSpace(bio)
	if err := validation.Validate(bio, validation.Length(0, 500)); err != nil {
		return nil, apperror.Validation("bio", "Bio must be at most 500 characters")
	}

	var chef models.Chef
	err := s.db.WithContext(ctx).Where("id = ?", chefID).First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Chef not found")
	}
	if err != nil {
		return nil, apperror.Storage("look up chef", err)
	}

	if err := s.db.WithContext(ctx).Model(&chef).Update("bio", bio).Error; err != nil {
		return nil, apperror.Storage("update bio", err)
	}
	chef.Bio = bio
	return &chef, nil
}
