package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/store"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("successful registration returns token", func(t *testing.T) {
		var createdUser *domain.User
		userStore := &mockUserStore{
			CreateFunc: func(ctx context.Context, user *domain.User) error {
				createdUser = user
				return nil
			},
		}
		handler := NewAuthHandler(userStore, &mockJWTService{}, &mockPasswordVerifier{})

		req := newJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
			Email:    "new@example.com",
			Password: "securepassword",
		})
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, createdUser)
		assert.Equal(t, "new@example.com", createdUser.Email)

		var resp AuthResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, createdUser.ID, resp.UserID)
		assert.Equal(t, "test-token", resp.Token)
	})

	t.Run("duplicate email responds conflict", func(t *testing.T) {
		userStore := &mockUserStore{
			CreateFunc: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		handler := NewAuthHandler(userStore, &mockJWTService{}, &mockPasswordVerifier{})

		req := newJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
			Email:    "taken@example.com",
			Password: "securepassword",
		})
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserStore{}, &mockJWTService{}, &mockPasswordVerifier{})

		req := newJSONRequest(t, http.MethodPost, "/api/auth/register", RegisterRequest{
			Email:    "new@example.com",
			Password: "short",
		})
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserStore{}, &mockJWTService{}, &mockPasswordVerifier{})

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
		rec := httptest.NewRecorder()

		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	existing := &domain.User{
		ID:             userID,
		Email:          "user@example.com",
		HashedPassword: "$2a$10$hashedhashedhashed",
	}

	t.Run("valid credentials return token", func(t *testing.T) {
		userStore := &mockUserStore{
			GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				assert.Equal(t, "user@example.com", email)
				return existing, nil
			},
		}
		handler := NewAuthHandler(userStore, &mockJWTService{}, &mockPasswordVerifier{})

		req := newJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "securepassword",
		})
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, userID, resp.UserID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("unknown email responds unauthorized", func(t *testing.T) {
		userStore := &mockUserStore{
			GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, store.ErrUserNotFound
			},
		}
		handler := NewAuthHandler(userStore, &mockJWTService{}, &mockPasswordVerifier{})

		req := newJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "securepassword",
		})
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password responds unauthorized", func(t *testing.T) {
		userStore := &mockUserStore{
			GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				return existing, nil
			},
		}
		verifier := &mockPasswordVerifier{
			CompareFunc: func(hashedPassword, password string) error {
				return errors.New("mismatch")
			},
		}
		handler := NewAuthHandler(userStore, &mockJWTService{}, verifier)

		req := newJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "wrongpassword",
		})
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("store failure responds internal error", func(t *testing.T) {
		userStore := &mockUserStore{
			GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		handler := NewAuthHandler(userStore, &mockJWTService{}, &mockPasswordVerifier{})

		req := newJSONRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "user@example.com",
			Password: "securepassword",
		})
		rec := httptest.NewRecorder()

		handler.Login(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
