package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rcollings/duetick-api/internal/api/shared"
	"github.com/rcollings/duetick-api/internal/domain"
	"github.com/rcollings/duetick-api/internal/service/auth"
	"github.com/rcollings/duetick-api/internal/store"
)

// mockUserStore implements store.UserStore with overridable function fields.
type mockUserStore struct {
	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

// mockJWTService implements auth.JWTService.
type mockJWTService struct {
	GenerateTokenFunc func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID)
	}
	return "test-token", nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return m.ValidateTokenFunc(ctx, tokenString)
}

// mockPasswordVerifier implements auth.PasswordVerifier.
type mockPasswordVerifier struct {
	CompareFunc func(hashedPassword, password string) error
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFunc != nil {
		return m.CompareFunc(hashedPassword, password)
	}
	return nil
}

// mockSubscriptionStore implements store.PushSubscriptionStore.
type mockSubscriptionStore struct {
	UpsertFunc      func(ctx context.Context, sub *domain.PushSubscription) error
	ListByUserFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)
	ListByUsersFunc func(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]*domain.PushSubscription, error)
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSubscriptionStore) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	return m.UpsertFunc(ctx, sub)
}

func (m *mockSubscriptionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PushSubscription, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *mockSubscriptionStore) ListByUsers(
	ctx context.Context,
	userIDs []uuid.UUID,
) (map[uuid.UUID][]*domain.PushSubscription, error) {
	return m.ListByUsersFunc(ctx, userIDs)
}

func (m *mockSubscriptionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

var _ store.PushSubscriptionStore = (*mockSubscriptionStore)(nil)

// newJSONRequest builds a request carrying the given body as JSON.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser stamps the request context with an authenticated user ID, the way
// the auth middleware does for protected routes.
func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withURLParam adds a chi route parameter to the request context so
// handlers can be exercised without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals the recorded response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
