package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nashikconnect/vyapaar/config"
	"github.com/nashikconnect/vyapaar/internal/dbtest"
	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.GormUserRepository, *MemoryMailer) {
	t.Helper()
	users := repository.NewGormUserRepository(dbtest.Open(t))
	mailer := &MemoryMailer{}
	return NewService(users, "test-secret", time.Hour, mailer), users, mailer
}

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "Vendor@Example.com", "secret1", "Sita Devi", domain.RoleMerchant)
	require.NoError(t, err)
	assert.Equal(t, "vendor@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = svc.SignUp(ctx, "vendor@example.com", "another", "Dup", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	token, logged, err := svc.Login(ctx, "vendor@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	require.NotNil(t, logged.LastLogin)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, domain.RoleMerchant, claims.Role)

	_, _, err = svc.Login(ctx, "vendor@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "secret1", "", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = svc.SignUp(ctx, "a@b.in", "123", "", "")
	assert.ErrorIs(t, err, ErrWeakPassword)
	_, err = svc.SignUp(ctx, "a@b.in", "secret1", "", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidRole)

	u, err := svc.SignUp(ctx, "a@b.in", "secret1", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVisitor, u.Role)
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	svc, _, _ := newTestService(t)
	u := &domain.User{ID: "u1", Email: "a@b.in", Role: domain.RoleVisitor}

	token, err := svc.IssueToken(u)
	require.NoError(t, err)

	other := NewService(nil, "other-secret", time.Hour, nil)
	_, err = other.ParseToken(token)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := svc.IssueToken(u)
	require.NoError(t, err)
	_, err = svc.ParseToken(stale)
	assert.Error(t, err)
}

func TestPasswordReset(t *testing.T) {
	svc, users, mailer := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "guide@example.com", "secret1", "Asha", "")
	require.NoError(t, err)

	require.NoError(t, svc.RequestReset(ctx, "unknown@example.com"))
	_, sent := mailer.Last()
	assert.False(t, sent)

	require.NoError(t, svc.RequestReset(ctx, "guide@example.com"))
	msg, sent := mailer.Last()
	require.True(t, sent)
	assert.Equal(t, "guide@example.com", msg.To)

	stored, err := users.GetByEmail(ctx, "guide@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetToken)
	assert.True(t, strings.Contains(msg.Body, stored.ResetToken))

	assert.ErrorIs(t, svc.ConfirmReset(ctx, "bogus", "newsecret"), ErrInvalidResetToken)
	assert.ErrorIs(t, svc.ConfirmReset(ctx, stored.ResetToken, "x"), ErrWeakPassword)
	require.NoError(t, svc.ConfirmReset(ctx, stored.ResetToken, "newsecret"))

	_, _, err = svc.Login(ctx, "guide@example.com", "newsecret")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ConfirmReset(ctx, stored.ResetToken, "again123"), ErrInvalidResetToken)
}

func TestExpiredResetToken(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "late@example.com", "secret1", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.RequestReset(ctx, "late@example.com"))
	stored, err := users.GetByEmail(ctx, "late@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, svc.ConfirmReset(ctx, stored.ResetToken, "newsecret"), ErrInvalidResetToken)
}

func TestNewMailer(t *testing.T) {
	assert.IsType(t, LogMailer{}, NewMailer(configWithHost("")))
	assert.IsType(t, &SMTPMailer{}, NewMailer(configWithHost("smtp.example.com")))
}

func configWithHost(host string) config.MailConfig {
	return config.MailConfig{Host: host, Port: 587, From: "no-reply@example.com"}
}
