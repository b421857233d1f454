package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/repository"
)

type RegisterInput struct {
	Name     string      `json:"name" binding:"required,min=2,max=200"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8,max=72"`
	Role     domain.Role `json:"role" binding:"required,oneof=coach client"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UnmarshalJSON normalizes the email so binding validates the stored form.
func (in *RegisterInput) UnmarshalJSON(data []byte) error {
	type plain RegisterInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	in.Email = domain.NormalizeEmail(in.Email)
	return nil
}

func (in *LoginInput) UnmarshalJSON(data []byte) error {
	type plain LoginInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	in.Email = domain.NormalizeEmail(in.Email)
	return nil
}

// Session is what the client app needs to render the signed-in user.
type Session struct {
	UserID uuid.UUID   `json:"userId"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (token string, user *domain.User, err error)
	// ParseToken verifies a bearer token and returns the caller it names.
	ParseToken(token string) (domain.Actor, error)
	GetSession(ctx context.Context, actor domain.Actor) (*Session, error)
}

type authService struct {
	users     repository.UserRepository
	tx        repository.Transactor
	jwtSecret []byte
	issuer    string
	ttl       time.Duration
	logg      *logger.Logger
	now       func() time.Time
}

// dummyHash is compared against when the email is unknown so both login
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("supacoach-timing-equalizer"), bcrypt.DefaultCost)

func NewAuthService(users repository.UserRepository, tx repository.Transactor, cfg config.JWTConfig, logg *logger.Logger) AuthService {
	if cfg.Secret == "" {
		panic("JWT secret cannot be empty")
	}
	ttl := cfg.Expiration
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &authService{
		users:     users,
		tx:        tx,
		jwtSecret: []byte(cfg.Secret),
		issuer:    cfg.Issuer,
		ttl:       ttl,
		logg:      logg,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	// 1. Normalize and validate
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}
	email := in.Email

	// 2. Reject taken emails before paying for bcrypt
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.CodeConflict, "user with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr(err, "user")
	}

	// 3. Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}

	// 4. Persist. Clients get an empty profile in the same transaction.
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if user.IsClient() {
			return repos.Profiles.Create(ctx, &domain.Profile{UserID: user.ID})
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, "user")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String(), "role": user.Role}), "auth.registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (string, *domain.User, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return "", nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, storeErr(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return token, user, nil
}

func (s *authService) GetSession(ctx context.Context, actor domain.Actor) (*Session, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.CodeUnauthorized, "session user no longer exists")
		}
		return nil, storeErr(err, "user")
	}
	return &Session{UserID: user.ID, Role: user.Role, Name: user.Name, Email: user.Email}, nil
}

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := &jwtClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) ParseToken(raw string) (domain.Actor, error) {
	invalid := apperr.New(apperr.CodeUnauthorized, "invalid or expired token")

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, invalid
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return domain.Actor{}, invalid
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil || !claims.Role.Valid() {
		return domain.Actor{}, invalid
	}
	return domain.Actor{UserID: id, Role: claims.Role}, nil
}
