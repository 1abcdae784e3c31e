package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mealmind/internal/recipes/recipes_db"

	"github.com/google/uuid"
)

// LibraryEntry is a recipe kept in the household's long-term library,
// typically imported from the web.
type LibraryEntry struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url,omitempty"`
	Candidate Candidate `json:"candidate"`
}

// Library is a database-backed repository for imported recipes.
type Library struct {
	queries *recipes_db.Queries
	db      *sql.DB
}

// NewLibrary creates a new Library.
func NewLibrary(d *sql.DB) *Library {
	return &Library{
		queries: recipes_db.New(d),
		db:      d,
	}
}

// Save inserts or updates a library entry. A missing ID is assigned.
func (l *Library) Save(ctx context.Context, entry LibraryEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal library entry to JSON: %w", err)
	}

	err = l.queries.InsertRecipe(ctx, recipes_db.InsertRecipeParams{
		ID:        entry.ID,
		Name:      entry.Candidate.Name,
		SourceUrl: sql.NullString{String: entry.SourceURL, Valid: entry.SourceURL != ""},
		Data:      string(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to save library entry: %w", err)
	}
	return entry.ID, nil
}

// Get retrieves a library entry by ID. Returns (nil, nil) when not found.
func (l *Library) Get(ctx context.Context, id string) (*LibraryEntry, error) {
	row, err := l.queries.GetRecipeByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get library entry: %w", err)
	}

	var entry LibraryEntry
	if err := json.Unmarshal([]byte(row.Data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal library entry JSON: %w", err)
	}
	return &entry, nil
}

// List retrieves all library entries.
func (l *Library) List(ctx context.Context) ([]LibraryEntry, error) {
	rows, err := l.queries.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list library entries: %w", err)
	}

	var entries []LibraryEntry
	for _, row := range rows {
		var entry LibraryEntry
		if err := json.Unmarshal([]byte(row.Data), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal library entry JSON for ID %s: %w", row.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Count returns the number of library entries.
func (l *Library) Count(ctx context.Context) (int, error) {
	count, err := l.queries.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count library entries: %w", err)
	}
	return int(count), nil
}
