package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

const testSecret = "test-secret"

type fakeUsers struct {
	mu    sync.Mutex
	users []*model.User
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = int64(len(f.users) + 1)
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeSettings struct {
	mu   sync.Mutex
	rows map[int64]model.UserSettings
}

func (f *fakeSettings) Get(_ context.Context, userID int64) (*model.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[userID]
	if !ok {
		return nil, repository.ErrSettingsNotFound
	}
	return &row, nil
}

func (f *fakeSettings) Upsert(_ context.Context, s *model.UserSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[s.UserID]; ok && s.Version <= row.Version {
		return nil
	}
	f.rows[s.UserID] = *s
	return nil
}

func (f *fakeSettings) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[userID]; !ok {
		return repository.ErrSettingsNotFound
	}
	delete(f.rows, userID)
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gen := service.NewGeneratorService(crypto.NewSeededSource(3), []string{"apple", "river", "stone", "cloud"})
	auth := service.NewAuthService(&fakeUsers{}, testSecret, time.Hour)
	settings := service.NewSettingsService(&fakeSettings{rows: map[int64]model.UserSettings{}})

	return NewRouter(t.Context(), RouterConfig{
		Generator: NewGeneratorHandler(gen),
		Auth:      NewAuthHandler(auth),
		Settings:  NewSettingsHandler(settings, gen),
		JWTSecret: testSecret,
		RateRPS:   100,
		RateBurst: 100,
	})
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGenerateChars(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantLen  int
	}{
		{"empty body uses defaults", "/api/v1/generate/chars", "", http.StatusOK, 16},
		{"legacy path", "/api/v1/generate", `{"length":20}`, http.StatusOK, 20},
		{"digits only", "/api/v1/generate/chars", `{"length":10,"lowercase":false,"uppercase":false,"symbols":false}`, http.StatusOK, 10},
		{"too short", "/api/v1/generate/chars", `{"length":2}`, http.StatusBadRequest, 0},
		{"too long", "/api/v1/generate/chars", `{"length":5000,"batch":50}`, http.StatusBadRequest, 0},
		{"no categories", "/api/v1/generate/chars", `{"lowercase":false,"uppercase":false,"numbers":false,"symbols":false}`, http.StatusBadRequest, 0},
		{"malformed", "/api/v1/generate/chars", `{"length":`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body, "")
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			if tt.wantCode != http.StatusOK {
				assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
				return
			}
			resp := decode[model.GenerateResponse](t, rec)
			assert.Equal(t, service.ModeChars, resp.Mode)
			assert.Len(t, resp.Password, tt.wantLen)
		})
	}
}

func TestGenerateCharsBatch(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/generate/chars", `{"length":12,"batch":5}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[model.GenerateResponse](t, rec)
	assert.Len(t, resp.Passwords, 5)
}

func TestGenerateWords(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/generate/words", `{"count":3,"separator":"+"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[model.GenerateResponse](t, rec)
	assert.Equal(t, service.ModeWords, resp.Mode)
	assert.Len(t, strings.Split(resp.Password, "+"), 3)

	rec = do(t, h, http.MethodPost, "/api/v1/generate/words", `{"count":7}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/generate/words", `{"count":5}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "four default words cannot fill five")

	rec = do(t, h, http.MethodPost, "/api/v1/generate/words",
		`{"count":3,"words":["abcdefghijklmnop","qrstuvwxyzabcdef","ghijklmnopqrstuv"]}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSettingsFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/settings", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/register", `{"email":"a@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := decode[model.AuthResponse](t, rec).Token

	rec = do(t, h, http.MethodGet, "/api/v1/settings", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DefaultSettings(), decode[model.SettingsResponse](t, rec).Settings)

	rec = do(t, h, http.MethodPut, "/api/v1/settings",
		`{"settings":{"active_tab":"Word","word_count":4,"separator_char":"_"}}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[model.SettingsResponse](t, rec)
	assert.Equal(t, 1, saved.Version)
	assert.Equal(t, model.TabWord, saved.Settings.ActiveTab)
	assert.Equal(t, 16, saved.Settings.CharLength, "omitted fields keep their defaults")

	rec = do(t, h, http.MethodPut, "/api/v1/settings", `{"settings":{"word_count":9}}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/settings", `{"settings":{},"version":1}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/settings/generate", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[model.GenerateResponse](t, rec)
	assert.Equal(t, service.ModeWords, resp.Mode)
	assert.Len(t, strings.Split(resp.Password, "_"), 4)

	rec = do(t, h, http.MethodDelete, "/api/v1/settings", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@example.com", decode[model.UserResponse](t, rec).Email)
}

func TestAuthErrors(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/auth/register", `{"email":"","password":"password123"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/register", `{"email":"b@example.com","password":"password123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/auth/register", `{"email":"b@example.com","password":"password123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", `{"email":"b@example.com","password":"nope-nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/auth/login", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterWithoutDatabase(t *testing.T) {
	gen := service.NewGeneratorService(nil, nil)
	h := NewRouter(t.Context(), RouterConfig{Generator: NewGeneratorHandler(gen), RateRPS: 10, RateBurst: 10})

	rec := do(t, h, http.MethodGet, "/api/v1/settings", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/generate/chars", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
