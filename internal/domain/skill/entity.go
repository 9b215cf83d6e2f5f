package skill

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is reference data offered as filter choices. Exchanges name
// skills as free text and are never checked against the catalog.
type CatalogEntry struct {
	ID             uuid.UUID
	Name           string
	Description    string
	Category       string
	EstimatedHours int
	CreatedAt      time.Time
}

type Query struct {
	Category string
	Keyword  string
}

type Repository interface {
	// List returns the catalog newest first.
	List(ctx context.Context) ([]CatalogEntry, error)
	ListByCategory(ctx context.Context, category string) ([]CatalogEntry, error)
	// Search matches keyword against name and description, ignoring case.
	Search(ctx context.Context, keyword string) ([]CatalogEntry, error)
}
