// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/booking-backend/internal/config"
	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/otp"
	"github.com/carterperez-dev/templates/booking-backend/internal/session"
	"github.com/carterperez-dev/templates/booking-backend/internal/user"
)

type fakeCredentials struct {
	RegisterFunc     func(ctx context.Context, in user.RegisterInput) (*user.User, error)
	AuthenticateFunc func(ctx context.Context, identifier, password string) (*user.User, error)
	GetProfileFunc   func(ctx context.Context, userID string) (*user.User, error)
}

func (f *fakeCredentials) Register(ctx context.Context, in user.RegisterInput) (*user.User, error) {
	return f.RegisterFunc(ctx, in)
}

func (f *fakeCredentials) Authenticate(
	ctx context.Context,
	identifier, password string,
) (*user.User, error) {
	return f.AuthenticateFunc(ctx, identifier, password)
}

func (f *fakeCredentials) GetProfile(ctx context.Context, userID string) (*user.User, error) {
	return f.GetProfileFunc(ctx, userID)
}

type fakeSessions struct {
	mu      sync.Mutex
	created []string
	revoked []string
}

func (f *fakeSessions) Create(
	_ context.Context,
	userID string,
	meta session.ClientMeta,
) (*session.Issued, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, userID)
	return &session.Issued{
		Token: "token-" + userID,
		Session: &session.Session{
			ID:        uuid.New().String(),
			UserID:    userID,
			ExpiresAt: time.Now().Add(time.Hour),
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		},
	}, nil
}

func (f *fakeSessions) DestroyAll(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.revoked = append(f.revoked, userID)
	return 1, nil
}

func (f *fakeSessions) ListActive(_ context.Context, _ string) ([]session.Session, error) {
	return []session.Session{}, nil
}

type actionLog struct {
	mu      sync.Mutex
	actions []string
}

func (a *actionLog) Log(_ context.Context, _, action, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

// codeStore keeps codes in memory and consumes only the newest live one.
type codeStore struct {
	mu       sync.Mutex
	codes    []*otp.Code
	verified map[string]bool
}

func newCodeStore() *codeStore {
	return &codeStore{verified: map[string]bool{}}
}

func (c *codeStore) Insert(_ context.Context, code *otp.Code) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *code
	c.codes = append(c.codes, &cp)
	return nil
}

func (c *codeStore) Consume(_ context.Context, userID, purpose, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.codes) - 1; i >= 0; i-- {
		code := c.codes[i]
		if code.UserID != userID || code.Purpose != purpose || code.Used || code.IsExpired() {
			continue
		}
		if code.Code != value {
			return false, nil
		}
		code.Used = true
		return true, nil
	}
	return false, nil
}

func (c *codeStore) MarkVerified(_ context.Context, userID, channel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.verified[userID+":"+channel] = true
	return nil
}

type inlineTx struct{}

func (inlineTx) WithinTx(_ context.Context, fn func(tx core.DBTX) error) error {
	return fn(nil)
}

type fixture struct {
	svc      *Service
	creds    *fakeCredentials
	codes    *codeStore
	sessions *fakeSessions
	activity *actionLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codes := newCodeStore()
	verifier := otp.NewService(
		codes,
		inlineTx{},
		func(core.DBTX) (otp.Repository, otp.VerificationMarker) { return codes, codes },
		nil,
		config.OTPConfig{TTL: 10 * time.Minute, Length: 6, MaxAttempts: 5},
	)

	f := &fixture{
		creds:    &fakeCredentials{},
		codes:    codes,
		sessions: &fakeSessions{},
		activity: &actionLog{},
	}
	f.svc = NewService(f.creds, verifier, f.sessions, f.activity)
	return f
}

func registeredUser() *user.User {
	return &user.User{
		ID:       uuid.New().String(),
		Username: "asha",
		Email:    "asha@example.com",
		FullName: "Asha Rao",
	}
}

func TestSignupCodeVerifiesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := registeredUser()

	f.creds.RegisterFunc = func(context.Context, user.RegisterInput) (*user.User, error) {
		return u, nil
	}

	result, err := f.svc.Signup(ctx, user.RegisterInput{Username: "asha"})
	require.NoError(t, err)
	require.NotNil(t, result.Code)

	assert.Equal(t, u.ID, result.User.ID)
	assert.Len(t, result.Code.Code, 6)
	assert.Equal(t, otp.PurposeEmail, result.Code.Purpose)

	require.NoError(t, f.svc.VerifyEmail(ctx, u.ID, result.Code.Code))
	assert.True(t, f.codes.verified[u.ID+":email"])

	err = f.svc.VerifyEmail(ctx, u.ID, result.Code.Code)
	assert.ErrorIs(t, err, otp.ErrInvalidCode)

	assert.Equal(t, []string{"signup", "email_verified"}, f.activity.actions)
}

func TestSignupPropagatesRegistrationErrors(t *testing.T) {
	f := newFixture(t)

	f.creds.RegisterFunc = func(context.Context, user.RegisterInput) (*user.User, error) {
		return nil, user.ErrIdentityTaken
	}

	_, err := f.svc.Signup(context.Background(), user.RegisterInput{})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	assert.Empty(t, f.codes.codes)
	assert.Empty(t, f.activity.actions)
}

func TestVerifyEmailRejectsMalformedInput(t *testing.T) {
	f := newFixture(t)

	tests := map[string][2]string{
		"blank code":    {uuid.New().String(), " "},
		"non uuid user": {"42", "123456"},
		"blank user":    {"", "123456"},
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			err := f.svc.VerifyEmail(context.Background(), in[0], in[1])
			msg, ok := core.ValidationMessage(err)
			require.True(t, ok)
			assert.Equal(t, "Invalid data", msg)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	u := registeredUser()

	f.creds.AuthenticateFunc = func(_ context.Context, identifier, password string) (*user.User, error) {
		if identifier == "asha" && password == "correct horse" {
			return u, nil
		}
		return nil, user.ErrInvalidCredentials
	}

	result, err := f.svc.Login(context.Background(), "asha", "correct horse", session.ClientMeta{
		IPAddress: "10.0.0.7",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-"+u.ID, result.Issued.Token)
	assert.Equal(t, "10.0.0.7", result.Issued.Session.IPAddress)

	_, err = f.svc.Login(context.Background(), "asha", "wrong", session.ClientMeta{})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	assert.Equal(t, []string{u.ID}, f.sessions.created)
	assert.Equal(t, []string{"login"}, f.activity.actions)
}

func TestResendEmailCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := registeredUser()
	verified := registeredUser()
	verified.EmailVerified = true

	f.creds.GetProfileFunc = func(_ context.Context, id string) (*user.User, error) {
		switch id {
		case pending.ID:
			return pending, nil
		case verified.ID:
			return verified, nil
		}
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}

	code, err := f.svc.ResendEmailCode(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, code.UserID)

	for _, id := range []string{verified.ID, uuid.New().String()} {
		_, err := f.svc.ResendEmailCode(ctx, id)
		assert.ErrorIs(t, err, ErrResendUnavailable)
	}
}

func TestResendEmailCodeStoreFailure(t *testing.T) {
	f := newFixture(t)

	f.creds.GetProfileFunc = func(context.Context, string) (*user.User, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.svc.ResendEmailCode(context.Background(), uuid.New().String())
	require.Error(t, err)
	_, isValidation := core.ValidationMessage(err)
	assert.False(t, isValidation)
}

func TestLogoutRevokesAllSessions(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Logout(context.Background(), "user-1"))
	assert.Equal(t, []string{"user-1"}, f.sessions.revoked)
	assert.Equal(t, []string{"logout"}, f.activity.actions)
}
