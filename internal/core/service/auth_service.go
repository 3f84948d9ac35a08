package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login and session checks. Sessions are
// HS256 tokens carrying a session id that must also be present in the
// registry, so logout revokes them immediately.
type AuthService struct {
	repo      ports.UserRepository
	sessions  ports.SessionRegistry
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sessions ports.SessionRegistry, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a customer account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || len(in.Password) < minPasswordLength {
		return "", nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// Logout revokes a session. Unknown sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate verifies a session token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sid, _ := claims["sid"].(string)
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sid == "" || sub == "" {
		return nil, domain.ErrUnauthenticated
	}

	ok, err := s.sessions.Exists(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	sess := &domain.Session{ID: sid, UserID: sub, Role: role}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	return sess, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (string, error) {
	sess := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.tokenTTL),
	}
	if err := s.sessions.Save(ctx, sess, s.tokenTTL); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sid":  sess.ID,
		"sub":  user.ID,
		"role": user.Role,
		"exp":  sess.ExpiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
