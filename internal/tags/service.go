// Package tags manages transaction categories: the default set seeded
// at signup and lookup-or-create for manual entries.
package tags

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/financial-organizer/backend/internal/storage"
)

// DefaultColor is assigned to tags created implicitly through
// transaction entry rather than through the tags endpoint.
const DefaultColor = "#ef23ab"

//go:embed seeds.yaml
var seedData []byte

type seedFile struct {
	Tags []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"tags"`
}

// Store is the persistence surface the service needs.
type Store interface {
	ListTags(ctx context.Context, userID string) ([]storage.Tag, error)
	CreateTag(ctx context.Context, tag *storage.Tag) error
}

// Service looks tags up by name and creates them when missing.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// SeedDefaults creates the starter tags for a new user.
func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	var seeds seedFile
	if err := yaml.Unmarshal(seedData, &seeds); err != nil {
		return fmt.Errorf("decoding tag seeds: %w", err)
	}
	for _, seed := range seeds.Tags {
		tag := &storage.Tag{
			ID:     uuid.NewString(),
			Name:   seed.Name,
			Color:  seed.Color,
			UserID: userID,
		}
		if err := s.store.CreateTag(ctx, tag); err != nil {
			return fmt.Errorf("seeding tag %q: %w", seed.Name, err)
		}
	}
	return nil
}

// GetOrCreate returns the user's tag matching the name, creating it
// with the default color when no existing tag matches. Matching is
// case- and accent-insensitive, so "alimentacao" finds "Alimentação"
// instead of spawning a near-duplicate.
func (s *Service) GetOrCreate(ctx context.Context, userID, name string) (*storage.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty tag name")
	}

	existing, err := s.store.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	want := normalizeName(name)
	for i := range existing {
		if normalizeName(existing[i].Name) == want {
			return &existing[i], nil
		}
	}

	tag := &storage.Tag{
		ID:     uuid.NewString(),
		Name:   name,
		Color:  DefaultColor,
		UserID: userID,
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// normalizeName lowercases and strips combining marks, e.g.
// "Alimentação" and "ALIMENTACAO" normalize identically.
func normalizeName(name string) string {
	stripped := norm.NFC.String(
		runes.Remove(runes.In(unicode.Mn)).String(norm.NFD.String(name)),
	)
	return strings.ToLower(strings.TrimSpace(stripped))
}
