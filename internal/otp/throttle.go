// AngelaMos | 2026
// throttle.go

package otp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

// Throttle keeps per (user, purpose) attempt counters and resend windows
// in Redis. Every Redis failure fails open: the store-level single-use
// rule still holds without it.
type Throttle struct {
	client       *redis.Client
	maxAttempts  int
	attemptTTL   time.Duration
	resendWindow time.Duration
}

func NewThrottle(
	client *redis.Client,
	maxAttempts int,
	attemptTTL, resendWindow time.Duration,
) *Throttle {
	return &Throttle{
		client:       client,
		maxAttempts:  maxAttempts,
		attemptTTL:   attemptTTL,
		resendWindow: resendWindow,
	}
}

func attemptsKey(userID, purpose string) string {
	return fmt.Sprintf("otp:attempts:%s:%s", userID, purpose)
}

func resendKey(userID, purpose string) string {
	return fmt.Sprintf("otp:resend:%s:%s", userID, purpose)
}

// Attempt records one validation attempt and reports whether it is still
// within budget.
func (t *Throttle) Attempt(ctx context.Context, userID, purpose string) bool {
	if t == nil || t.client == nil {
		return true
	}

	n, err := core.CountWithin(ctx, t.client, attemptsKey(userID, purpose), t.attemptTTL)
	if err != nil {
		slog.WarnContext(ctx, "otp attempt counter unavailable", "error", err)
		return true
	}

	return n <= int64(t.maxAttempts)
}

func (t *Throttle) Reset(ctx context.Context, userID, purpose string) {
	if t == nil || t.client == nil {
		return
	}

	if err := t.client.Del(ctx, attemptsKey(userID, purpose)).Err(); err != nil {
		slog.WarnContext(ctx, "otp attempt counter reset", "error", err)
	}
}

// ReserveResend opens a resend window. When one is already open it
// returns the time left instead.
func (t *Throttle) ReserveResend(
	ctx context.Context,
	userID, purpose string,
) (time.Duration, bool) {
	if t == nil || t.client == nil || t.resendWindow <= 0 {
		return 0, true
	}

	key := resendKey(userID, purpose)

	ok, err := t.client.SetNX(ctx, key, 1, t.resendWindow).Result()
	if err != nil {
		slog.WarnContext(ctx, "otp resend window unavailable", "error", err)
		return 0, true
	}
	if ok {
		return 0, true
	}

	ttl, err := t.client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return t.resendWindow, false
	}
	return ttl, false
}
