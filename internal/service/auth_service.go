package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sitepress/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService verifies and creates admin accounts.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService creates an AuthService.
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// SignIn returns the user whose credentials match.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// SignUp creates a new account with a bcrypt-hashed password.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*db.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, invalid("Please enter a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, invalid("Password should be at least 6 characters")
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&total).Error; err != nil {
		return nil, err
	}
	if total > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &db.User{Email: email, Password: string(hashed)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Get fetches a user by id; sessions that outlive their user resolve to ErrUserNotFound.
func (s *AuthService) Get(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserExists satisfies auth.Resolver so the guard can drop sessions of
// deleted accounts.
func (s *AuthService) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
