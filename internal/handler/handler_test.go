package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bookmarkapi/bookmark-api/internal/crypto"
	"github.com/bookmarkapi/bookmark-api/internal/middleware"
	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/repository"
	"github.com/bookmarkapi/bookmark-api/internal/service"
)

type fixture struct {
	users     *repository.MemoryUserRepository
	bookmarks *repository.MemoryBookmarkRepository
	auth      *AuthHandler
	user      *UserHandler
	bookmark  *BookmarkHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	bookmarks := repository.NewMemoryBookmarkRepository()

	hasher := crypto.NewPasswordHasher(crypto.HashParams{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens, err := crypto.NewTokenManager([]byte("handler-test-secret"), time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	return &fixture{
		users:     users,
		bookmarks: bookmarks,
		auth:      NewAuthHandler(service.NewAuthService(users, hasher, tokens, service.AuthOptions{MinPasswordLength: 1}), logger),
		user:      NewUserHandler(service.NewUserService(users), logger),
		bookmark:  NewBookmarkHandler(service.NewBookmarkService(bookmarks), logger),
	}
}

func (f *fixture) seedUser(t *testing.T, email string) model.Principal {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "unused"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return model.Principal{UserID: u.ID, Email: u.Email}
}

func (f *fixture) seedBookmark(t *testing.T, owner int64, title string) int64 {
	t.Helper()
	b := &model.Bookmark{UserID: owner, Title: title, Link: "https://example.com/" + title}
	require.NoError(t, f.bookmarks.Create(context.Background(), b))
	return b.ID
}

func newRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("Content-Type", "application/json")
	return r
}

func asUser(r *http.Request, p model.Principal) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), p))
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandleSignup(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.auth.HandleSignup(rec, newRequest(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"12345"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["access_token"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "hash")
}

func TestHandleSignup_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantFields []string
	}{
		{"empty body", "", http.StatusBadRequest, "invalid request body", nil},
		{"malformed json", `{"email":`, http.StatusBadRequest, "invalid request body", nil},
		{"missing fields", `{}`, http.StatusBadRequest, "validation failed", []string{"email", "password"}},
		{"invalid email", `{"email":"not-an-email","password":"12345"}`, http.StatusBadRequest, "validation failed", []string{"email"}},
		{"empty password", `{"email":"a@x.com","password":""}`, http.StatusBadRequest, "validation failed", []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := httptest.NewRecorder()
			f.auth.HandleSignup(rec, newRequest(http.MethodPost, "/auth/signup", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantFields != nil {
				fields, ok := body["fields"].(map[string]any)
				require.True(t, ok)
				for _, name := range tt.wantFields {
					assert.Contains(t, fields, name)
				}
			}
		})
	}
}

func TestHandleSignup_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "a@x.com")

	rec := httptest.NewRecorder()
	f.auth.HandleSignup(rec, newRequest(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"12345"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "account already exists", decodeBody(t, rec)["error"])
}

func TestHandleSignup_BodyTooLarge(t *testing.T) {
	f := newFixture(t)

	body := `{"email":"` + strings.Repeat("a", maxBodyBytes+1) + `","password":"12345"}`
	rec := httptest.NewRecorder()
	f.auth.HandleSignup(rec, httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader([]byte(body))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleSignin(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.auth.HandleSignup(rec, newRequest(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"12345"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("correct password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.auth.HandleSignin(rec, newRequest(http.MethodPost, "/auth/signin", `{"email":"a@x.com","password":"12345"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, decodeBody(t, rec)["access_token"])
	})

	for _, body := range []string{
		`{"email":"a@x.com","password":"wrong"}`,
		`{"email":"nobody@x.com","password":"12345"}`,
	} {
		t.Run("rejects "+body, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.auth.HandleSignin(rec, newRequest(http.MethodPost, "/auth/signin", body))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, map[string]any{"error": "invalid credentials"}, decodeBody(t, rec))
		})
	}
}

func TestHandleMe(t *testing.T) {
	f := newFixture(t)
	p := f.seedUser(t, "me@x.com")

	t.Run("without principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.user.HandleMe(rec, newRequest(http.MethodGet, "/users/me", ""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with principal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.user.HandleMe(rec, asUser(newRequest(http.MethodGet, "/users/me", ""), p))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "me@x.com", body["email"])
		assert.EqualValues(t, p.UserID, body["id"])
	})

	t.Run("user gone", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.user.HandleMe(rec, asUser(newRequest(http.MethodGet, "/users/me", ""), model.Principal{UserID: 999}))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleEditUser(t *testing.T) {
	f := newFixture(t)
	p := f.seedUser(t, "me@x.com")
	f.seedUser(t, "taken@x.com")

	t.Run("updates names", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.user.HandleEdit(rec, asUser(newRequest(http.MethodPatch, "/users", `{"first_name":"Ada","last_name":"Lovelace"}`), p))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Ada", body["first_name"])
		assert.Equal(t, "Lovelace", body["last_name"])
		assert.Equal(t, "me@x.com", body["email"])
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.user.HandleEdit(rec, asUser(newRequest(http.MethodPatch, "/users", `{"email":"nope"}`), p))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("email owned by another account", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.user.HandleEdit(rec, asUser(newRequest(http.MethodPatch, "/users", `{"email":"taken@x.com"}`), p))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestBookmarkHandlers(t *testing.T) {
	f := newFixture(t)
	owner := f.seedUser(t, "owner@x.com")
	other := f.seedUser(t, "other@x.com")

	rec := httptest.NewRecorder()
	f.bookmark.HandleCreate(rec, asUser(newRequest(http.MethodPost, "/bookmarks",
		`{"title":"Go","link":"https://go.dev","description":"docs"}`), owner))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "Go", created["title"])
	assert.Equal(t, "docs", created["description"])
	id := strconvID(created["id"])

	t.Run("create requires title and link", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleCreate(rec, asUser(newRequest(http.MethodPost, "/bookmarks", `{"description":"x"}`), owner))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decodeBody(t, rec)["fields"].(map[string]any)
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "link")
	})

	t.Run("list only own", func(t *testing.T) {
		f.seedBookmark(t, other.UserID, "theirs")

		rec := httptest.NewRecorder()
		f.bookmark.HandleList(rec, asUser(newRequest(http.MethodGet, "/bookmarks", ""), owner))

		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
		require.Len(t, list, 1)
		assert.Equal(t, "Go", list[0]["title"])
	})

	t.Run("list empty is array", func(t *testing.T) {
		nobody := f.seedUser(t, "empty@x.com")

		rec := httptest.NewRecorder()
		f.bookmark.HandleList(rec, asUser(newRequest(http.MethodGet, "/bookmarks", ""), nobody))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("get own", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleGet(rec, withID(asUser(newRequest(http.MethodGet, "/bookmarks/"+id, ""), owner), id))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("get foreign is not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleGet(rec, withID(asUser(newRequest(http.MethodGet, "/bookmarks/"+id, ""), other), id))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		for _, bad := range []string{"abc", "0", "-1", ""} {
			rec := httptest.NewRecorder()
			f.bookmark.HandleGet(rec, withID(asUser(newRequest(http.MethodGet, "/bookmarks/x", ""), owner), bad))
			assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		}
	})

	t.Run("edit foreign is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleEdit(rec, withID(asUser(newRequest(http.MethodPatch, "/bookmarks/"+id, `{"title":"mine now"}`), other), id))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "access to resource denied", decodeBody(t, rec)["error"])
	})

	t.Run("edit own", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleEdit(rec, withID(asUser(newRequest(http.MethodPatch, "/bookmarks/"+id, `{"title":"Golang"}`), owner), id))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Golang", body["title"])
		assert.Equal(t, "https://go.dev", body["link"])
	})

	t.Run("delete foreign is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleDelete(rec, withID(asUser(newRequest(http.MethodDelete, "/bookmarks/"+id, ""), other), id))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete own", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.bookmark.HandleDelete(rec, withID(asUser(newRequest(http.MethodDelete, "/bookmarks/"+id, ""), owner), id))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = httptest.NewRecorder()
		f.bookmark.HandleDelete(rec, withID(asUser(newRequest(http.MethodDelete, "/bookmarks/"+id, ""), owner), id))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, "resource not found"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "access to resource denied"},
		{"conflict", service.ErrConflict, http.StatusConflict, "account already exists"},
		{"authentication", service.ErrAuthentication, http.StatusUnauthorized, "invalid credentials"},
		{"validation", service.ErrValidation, http.StatusBadRequest, "validation failed"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			rec := httptest.NewRecorder()

			writeServiceError(rec, newRequest(http.MethodGet, "/x", ""), zap.New(core), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.wantStatus == http.StatusInternalServerError {
				require.Equal(t, 1, logs.Len())
				assert.NotContains(t, rec.Body.String(), "connection refused")
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func strconvID(v any) string {
	n, _ := v.(float64)
	return strconv.FormatInt(int64(n), 10)
}
