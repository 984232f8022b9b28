package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/financial-organizer/backend/internal/middleware"
	"github.com/financial-organizer/backend/internal/storage"
)

// TagStore is the persistence surface for tag management.
type TagStore interface {
	ListTags(ctx context.Context, userID string) ([]storage.Tag, error)
	CreateTag(ctx context.Context, tag *storage.Tag) error
}

// TagsHandler handles tag listing and creation.
type TagsHandler struct {
	store TagStore
}

// NewTagsHandler creates a new tags handler.
func NewTagsHandler(store TagStore) *TagsHandler {
	return &TagsHandler{store: store}
}

// List handles GET /api/tags
func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tags, err := h.store.ListTags(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR: Failed to list tags for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if tags == nil {
		tags = []storage.Tag{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Create handles POST /api/tags
func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Color == "" {
		writeError(w, http.StatusBadRequest, "Name and color are required")
		return
	}

	tag := &storage.Tag{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Color:  req.Color,
		UserID: userID,
	}
	if err := h.store.CreateTag(r.Context(), tag); err != nil {
		log.Printf("ERROR: Failed to create tag for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tag": tag})
}
