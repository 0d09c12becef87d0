// AngelaMos | 2026
// service_test.go

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

type memRepo struct {
	mu       sync.Mutex
	sessions map[string]*Session
	findErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: map[string]*Session{}}
}

func (m *memRepo) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.IssuedAt = time.Now()
	cp := *s
	m.sessions[s.TokenHash] = &cp
	return nil
}

func (m *memRepo) FindLiveUserID(_ context.Context, hash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findErr != nil {
		return "", m.findErr
	}

	s, ok := m.sessions[hash]
	if !ok || !s.IsValid() {
		return "", fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	return s.UserID, nil
}

func (m *memRepo) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	now := time.Now()
	for _, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *memRepo) ListActiveForUser(_ context.Context, userID string) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Session{}
	for _, s := range m.sessions {
		if s.UserID == userID && s.IsValid() {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memRepo) expire(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[core.HashToken(token)].ExpiresAt = time.Now().Add(-time.Second)
}

func TestCreateIssuesOpaqueToken(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, 168*time.Hour)

	issued, err := svc.Create(context.Background(), "user-1", ClientMeta{
		IPAddress: "10.0.0.1",
		UserAgent: "curl/8",
	})
	require.NoError(t, err)

	assert.Len(t, issued.Token, 64)
	assert.NotEqual(t, issued.Token, issued.Session.TokenHash)
	assert.Equal(t, core.HashToken(issued.Token), issued.Session.TokenHash)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), issued.Session.ExpiresAt, 5*time.Second)

	other, err := svc.Create(context.Background(), "user-1", ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, issued.Token, other.Token)
}

func TestResolve(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.Hour)
	ctx := context.Background()

	live, err := svc.Create(ctx, "user-1", ClientMeta{})
	require.NoError(t, err)
	expired, err := svc.Create(ctx, "user-1", ClientMeta{})
	require.NoError(t, err)
	repo.expire(expired.Token)

	userID, err := svc.Resolve(ctx, live.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	for name, token := range map[string]string{
		"empty":   "",
		"unknown": "deadbeef",
		"expired": expired.Token,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Resolve(ctx, token)
			assert.ErrorIs(t, err, core.ErrUnauthorized)
		})
	}
}

func TestResolveStoreFailureIsNotUnauthorized(t *testing.T) {
	repo := newMemRepo()
	repo.findErr = errors.New("connection reset")
	svc := NewService(repo, time.Hour)

	_, err := svc.Resolve(context.Background(), "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrUnauthorized)
}

func TestDestroyAllRevokesEveryClient(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.Hour)
	ctx := context.Background()

	phone, err := svc.Create(ctx, "user-1", ClientMeta{UserAgent: "phone"})
	require.NoError(t, err)
	laptop, err := svc.Create(ctx, "user-1", ClientMeta{UserAgent: "laptop"})
	require.NoError(t, err)
	bystander, err := svc.Create(ctx, "user-2", ClientMeta{})
	require.NoError(t, err)

	n, err := svc.DestroyAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, token := range []string{phone.Token, laptop.Token} {
		_, err := svc.Resolve(ctx, token)
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	}

	userID, err := svc.Resolve(ctx, bystander.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", userID)

	n, err = svc.DestroyAll(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	active, err := svc.ListActive(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, active)
}
