package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

const defaultMinPasswordLen = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService implements registration, login, and token verification.
// Tokens are stateless HS256 JWTs; a role change only takes effect once
// outstanding tokens expire.
type AuthService struct {
	repo           ports.AuthRepository
	jwtSecret      string
	tokenTTL       time.Duration
	minPasswordLen int
	logger         zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration, minPasswordLen int, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if minPasswordLen <= 0 {
		minPasswordLen = defaultMinPasswordLen
	}
	return &AuthService{
		repo:           repo,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		minPasswordLen: minPasswordLen,
		logger:         logger,
	}
}

// Register creates a CUSTOMER account and issues its first session token.
// Uniqueness of username and email is enforced by the repository, so two
// concurrent registrations with the same identity cannot both succeed.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return "", nil, fmt.Errorf("%w: username must not be empty", domain.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return "", nil, fmt.Errorf("%w: email is not valid", domain.ErrValidation)
	}
	if len(password) < s.minPasswordLen {
		return "", nil, fmt.Errorf("%w: minimum length is %d", domain.ErrWeakPassword, s.minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return token, created, nil
}

// Login verifies credentials and issues a token carrying the user's current
// role. Unknown email and wrong password both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Verify checks the token signature and expiry and returns the claims.
// Pure computation; never touches the store.
func (s *AuthService) Verify(token string) (ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.TokenClaims{}, domain.ErrTokenExpired
		}
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}

	return ports.TokenClaims{Subject: sub, Username: username, Role: role}, nil
}

// EnsureAdmin creates the bootstrap ADMIN account if no user with the given
// email exists yet. Losing the insert race to a concurrent boot is fine.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err == nil {
		s.logger.Info().Str("username", username).Msg("bootstrap admin created")
	}
	return err
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
