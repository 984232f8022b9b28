package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/financial-organizer/backend/internal/middleware"
	"github.com/financial-organizer/backend/internal/storage"
)

type fakeUserStore struct {
	users map[string]*storage.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*storage.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *storage.User) error {
	if _, exists := f.users[user.Email]; exists {
		return storage.ErrDuplicate
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*storage.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

type fakeSeeder struct {
	seeded []string
}

func (f *fakeSeeder) SeedDefaults(_ context.Context, userID string) error {
	f.seeded = append(f.seeded, userID)
	return nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSignup(t *testing.T) {
	store := newFakeUserStore()
	seeder := &fakeSeeder{}
	h := NewAuthHandler(store, seeder, middleware.NewAuthMiddleware("secret"))

	rec := postJSON(t, h.Signup, "/api/signup", map[string]string{
		"name": "Ana", "email": "Ana@Example.com", "password": "hunter22",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	user, ok := store.users["ana@example.com"]
	if !ok {
		t.Fatal("user not stored under lowercased email")
	}
	if user.Password == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if len(seeder.seeded) != 1 || seeder.seeded[0] != user.ID {
		t.Errorf("default tags not seeded for new user: %v", seeder.seeded)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(store, &fakeSeeder{}, middleware.NewAuthMiddleware("secret"))

	body := map[string]string{"name": "Ana", "email": "ana@example.com", "password": "x1234567"}
	if rec := postJSON(t, h.Signup, "/api/signup", body); rec.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d", rec.Code)
	}

	rec := postJSON(t, h.Signup, "/api/signup", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "Email already registered" {
		t.Errorf("message = %v", got)
	}
}

func TestSignupMissingFields(t *testing.T) {
	h := NewAuthHandler(newFakeUserStore(), &fakeSeeder{}, middleware.NewAuthMiddleware("secret"))
	rec := postJSON(t, h.Signup, "/api/signup", map[string]string{"email": "a@b.c"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	tokens := middleware.NewAuthMiddleware("secret")
	h := NewAuthHandler(store, &fakeSeeder{}, tokens)

	postJSON(t, h.Signup, "/api/signup", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "hunter22",
	})

	t.Run("success returns token", func(t *testing.T) {
		rec := postJSON(t, h.Login, "/api/login", map[string]string{
			"email": "ana@example.com", "password": "hunter22",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		token, _ := decodeBody(t, rec)["token"].(string)
		if token == "" {
			t.Fatal("empty token")
		}

		// The issued token must pass the auth middleware.
		req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		authRec := httptest.NewRecorder()
		tokens.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(authRec, req)
		if authRec.Code != http.StatusOK {
			t.Fatalf("issued token rejected: %d", authRec.Code)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postJSON(t, h.Login, "/api/login", map[string]string{
			"email": "nobody@example.com", "password": "hunter22",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if got := decodeBody(t, rec)["message"]; got != "Wrong email" {
			t.Errorf("message = %v", got)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postJSON(t, h.Login, "/api/login", map[string]string{
			"email": "ana@example.com", "password": "wrong",
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if got := decodeBody(t, rec)["message"]; got != "Wrong password" {
			t.Errorf("message = %v", got)
		}
	})
}
