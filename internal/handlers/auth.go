package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/financial-organizer/backend/internal/middleware"
	"github.com/financial-organizer/backend/internal/storage"
)

// UserStore is the persistence surface for account management.
type UserStore interface {
	CreateUser(ctx context.Context, user *storage.User) error
	GetUserByEmail(ctx context.Context, email string) (*storage.User, error)
}

// TagSeeder creates the starter tags for a new account.
type TagSeeder interface {
	SeedDefaults(ctx context.Context, userID string) error
}

// AuthHandler handles signup and login.
type AuthHandler struct {
	store  UserStore
	seeder TagSeeder
	tokens *middleware.AuthMiddleware
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store UserStore, seeder TagSeeder, tokens *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{store: store, seeder: seeder, tokens: tokens}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: Failed to hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	user := &storage.User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":   "Conflict",
				"message": "Email already registered",
			})
			return
		}
		log.Printf("ERROR: Failed to create user: %v", err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	// Seeding failure leaves a usable account, so the signup still
	// succeeds.
	if err := h.seeder.SeedDefaults(r.Context(), user.ID); err != nil {
		log.Printf("ERROR: Failed to seed default tags for user %s: %v", user.ID, err)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"message": "Wrong email",
				"status":  http.StatusNotFound,
			})
			return
		}
		log.Printf("ERROR: Failed to fetch user by email: %v", err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"message": "Wrong password",
			"status":  http.StatusNotFound,
		})
		return
	}

	token, err := h.tokens.Sign(user.ID, user.Name, user.Email)
	if err != nil {
		log.Printf("ERROR: Failed to sign token for user %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
