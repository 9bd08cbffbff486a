package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func newUserRouter(userStore store.UserStore, actorID int64) http.Handler {
	handler := NewUserHandler(userStore, auth.NewBcryptHasher(bcrypt.MinCost), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, actorID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/users", handler.List)
	r.Get("/api/users/{id}", handler.Get)
	r.Put("/api/users/{id}", handler.Update)
	r.Delete("/api/users/{id}", handler.Delete)
	return r
}

func TestUserHandlerUpdate(t *testing.T) {
	t.Parallel()

	body := `{
		"email": "jane@example.com",
		"first_name": "Jane",
		"last_name": "Smith"
	}`

	t.Run("user updates own account", func(t *testing.T) {
		t.Parallel()
		userStore := new(mockUserStore)
		userStore.On("GetByID", mock.Anything, int64(2)).
			Return(&domain.User{
				ID:             2,
				Email:          "jane@example.com",
				FirstName:      "Jane",
				LastName:       "Doe",
				HashedPassword: "hash",
			}, nil)
		userStore.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.LastName == "Smith" && u.HashedPassword == "hash"
		})).Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/api/users/2", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newUserRouter(userStore, 2).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		userStore.AssertExpectations(t)
	})

	t.Run("updating another user responds 403", func(t *testing.T) {
		t.Parallel()
		userStore := new(mockUserStore)

		req := httptest.NewRequest(http.MethodPut, "/api/users/2", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newUserRouter(userStore, 3).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("user deletes own account", func(t *testing.T) {
		t.Parallel()
		userStore := new(mockUserStore)
		userStore.On("Delete", mock.Anything, int64(2)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/users/2", nil)
		rec := httptest.NewRecorder()
		newUserRouter(userStore, 2).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("deleting another user responds 403", func(t *testing.T) {
		t.Parallel()
		userStore := new(mockUserStore)

		req := httptest.NewRequest(http.MethodDelete, "/api/users/2", nil)
		rec := httptest.NewRecorder()
		newUserRouter(userStore, 3).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		userStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("user referenced by tasks responds 409", func(t *testing.T) {
		t.Parallel()
		userStore := new(mockUserStore)
		userStore.On("Delete", mock.Anything, int64(2)).Return(store.ErrInUse)

		req := httptest.NewRequest(http.MethodDelete, "/api/users/2", nil)
		rec := httptest.NewRecorder()
		newUserRouter(userStore, 2).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestUserHandlerList(t *testing.T) {
	t.Parallel()

	userStore := new(mockUserStore)
	userStore.On("List", mock.Anything).Return([]*domain.User{
		{ID: 1, Email: "a@example.com", FirstName: "A", LastName: "One"},
		{ID: 2, Email: "b@example.com", FirstName: "B", LastName: "Two"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	newUserRouter(userStore, 2).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}
