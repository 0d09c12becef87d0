// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/middleware"
	"github.com/carterperez-dev/templates/booking-backend/internal/user"
)

type tokenResolver map[string]string

func (t tokenResolver) Resolve(_ context.Context, token string) (string, error) {
	if id, ok := t[token]; ok {
		return id, nil
	}
	return "", core.ErrUnauthorized
}

func newTestRouter(f *fixture, cfg HandlerConfig) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(f.svc, cfg).RegisterRoutes(r, middleware.Authenticator(tokenResolver{
		"live": "user-1",
	}))
	return r
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, core.Envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env core.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestSignupHandlerExposesCodeOnlyWhenConfigured(t *testing.T) {
	for _, expose := range []bool{true, false} {
		f := newFixture(t)
		u := registeredUser()
		f.creds.RegisterFunc = func(context.Context, user.RegisterInput) (*user.User, error) {
			return u, nil
		}

		rec, env := post(t, newTestRouter(f, HandlerConfig{ExposeOTP: expose}),
			"/auth/signup", `{"username":"asha"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Account created successfully! Please verify your email.", env.Message)

		data := env.Data.(map[string]any)
		assert.Equal(t, u.ID, data["user_id"])
		_, hasOTP := data["otp"]
		assert.Equal(t, expose, hasOTP)
	}
}

func TestSignupHandlerConflict(t *testing.T) {
	f := newFixture(t)
	f.creds.RegisterFunc = func(context.Context, user.RegisterInput) (*user.User, error) {
		return nil, user.ErrIdentityTaken
	}

	rec, env := post(t, newTestRouter(f, HandlerConfig{}), "/auth/signup", `{}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username, email, or phone already exists", env.Message)
}

func TestLoginHandler(t *testing.T) {
	f := newFixture(t)
	u := registeredUser()
	f.creds.AuthenticateFunc = func(_ context.Context, _, password string) (*user.User, error) {
		if password == "secret123" {
			return u, nil
		}
		return nil, user.ErrInvalidCredentials
	}
	r := newTestRouter(f, HandlerConfig{})

	rec, env := post(t, r, "/auth/login", `{"identifier":"asha","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful!", env.Message)
	assert.Equal(t, "token-"+u.ID, env.Data.(map[string]any)["session_token"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec, env = post(t, r, "/auth/login", `{"identifier":"asha","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", env.Message)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
}

func TestVerifyOTPHandler(t *testing.T) {
	f := newFixture(t)
	u := registeredUser()
	f.creds.RegisterFunc = func(context.Context, user.RegisterInput) (*user.User, error) {
		return u, nil
	}
	result, err := f.svc.Signup(context.Background(), user.RegisterInput{})
	require.NoError(t, err)

	r := newTestRouter(f, HandlerConfig{})
	wrong := "000000"
	if result.Code.Code == wrong {
		wrong = "111111"
	}

	rec, env := post(t, r, "/auth/verify-otp", `{"user_id":"`+u.ID+`","otp_code":"`+wrong+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired OTP", env.Message)

	rec, env = post(t, r, "/auth/verify-otp",
		`{"user_id":"`+u.ID+`","otp_code":"`+result.Code.Code+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email verified successfully!", env.Message)

	rec, env = post(t, r, "/auth/verify-otp", `{"user_id":"abc","otp_code":"123456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data", env.Message)
}

func TestLogoutHandlerRequiresSession(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, HandlerConfig{})

	rec, _ := post(t, r, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.sessions.revoked)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(middleware.SessionHeader, "live")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []string{"user-1"}, f.sessions.revoked)
}
