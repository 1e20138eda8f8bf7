package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/waratahblog/waratah/internal/userservice"
)

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, res.Code, http.StatusInternalServerError)
}

func TestAuthenticate(t *testing.T) {
	app, _ := newTestApplication(t)
	token := createTestAdmin(t, app)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUser   bool
	}{
		{
			name:       "no header resolves anonymous",
			authHeader: "",
			wantStatus: http.StatusOK,
			wantUser:   false,
		},
		{
			name:       "valid token resolves user",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
			wantUser:   true,
		},
		{
			name:       "malformed header",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown token",
			authHeader: "Bearer WWWWWWWWWWWWWWWWWWWWWWWWWW",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *userservice.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = app.getUserContext(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			res := httptest.NewRecorder()

			app.authenticate(next).ServeHTTP(res, req)

			assert.Equal(t, tt.wantStatus, res.Code)
			if tt.wantStatus == http.StatusOK {
				assert.NotNil(t, captured)
				assert.Equal(t, tt.wantUser, !captured.IsAnonymous())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app, _ := newTestApplication(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		user       *userservice.User
		wantStatus int
	}{
		{
			name:       "anonymous",
			user:       &userservice.AnonymousUser,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "active non-admin",
			user:       &userservice.User{ID: 1, Role: userservice.RoleUser, Active: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "deactivated admin",
			user:       &userservice.User{ID: 2, Role: userservice.RoleAdmin, Active: false},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "active admin",
			user:       &userservice.User{ID: 3, Role: userservice.RoleAdmin, Active: true},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = app.createUserContext(req, tt.user)
			res := httptest.NewRecorder()

			app.requireAdmin(next).ServeHTTP(res, req)

			assert.Equal(t, tt.wantStatus, res.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app, _ := newTestApplication(t)
	app.config.LimiterEnabled = true
	app.config.LimiterRPS = 1
	app.config.LimiterBurst = 2

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(next)

	var lastCode int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)
		lastCode = res.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestGetUserContextMissing(t *testing.T) {
	app, _ := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.Background())

	assert.Nil(t, app.getUserContext(req))
}
