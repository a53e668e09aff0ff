// Package auth manages accounts, JWT sessions and password resets.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

const (
	MinPasswordLength = 6
	resetTokenTTL     = time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("role must be visitor or merchant")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
)

// Claims carried by the session token
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service authenticates users against the account store.
type Service struct {
	users  repository.UserRepository
	secret []byte
	expire time.Duration
	mailer Mailer
	now    func() time.Time
}

func NewService(users repository.UserRepository, secret string, expire time.Duration, mailer Mailer) *Service {
	if expire <= 0 {
		expire = 72 * time.Hour
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Service{users: users, secret: []byte(secret), expire: expire, mailer: mailer, now: time.Now}
}

func (s *Service) Secret() []byte {
	return s.secret
}

// SignUp creates an account. Role defaults to visitor.
func (s *Service) SignUp(ctx context.Context, email, password, fullName, role string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !common.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	switch role {
	case "":
		role = domain.RoleVisitor
	case domain.RoleVisitor, domain.RoleMerchant:
	default:
		return nil, ErrInvalidRole
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &domain.User{
		Email:    email,
		Password: string(hash),
		FullName: strings.TrimSpace(fullName),
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return u, nil
}

// Login verifies the password and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	now := s.now()
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		zap.L().Warn("update last login failed", zap.String("user", u.ID), zap.Error(err),
			zap.String("namespace", "auth"))
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) IssueToken(u *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
			Issuer:    "vyapaar",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token, errors.Wrap(err, "sign token")
}

// ParseToken validates a session token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequestReset mails a reset token. Unknown addresses succeed silently.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token, err := randomToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(resetTokenTTL)
	u.ResetToken = token
	u.ResetExpires = &expires
	if err := s.users.Update(ctx, u); err != nil {
		return errors.Wrap(err, "store reset token")
	}
	body := "Namaste " + u.FullName + ",\n\nUse this code to reset your Nashik Connect password: " + token +
		"\n\nThe code expires in one hour."
	return s.mailer.Send(u.Email, "Reset your Nashik Connect password", body)
}

// ConfirmReset sets a new password for the holder of a valid reset token.
func (s *Service) ConfirmReset(ctx context.Context, token, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	u, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if u.ResetExpires == nil || s.now().After(*u.ResetExpires) {
		return ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	u.Password = string(hash)
	u.ResetToken = ""
	u.ResetExpires = nil
	return s.users.Update(ctx, u)
}

func randomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "read random")
	}
	return hex.EncodeToString(b), nil
}
