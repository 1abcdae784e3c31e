package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mealmind/internal/profile/profile_db"
)

// Store is a database-backed repository for household profiles.
//
// Records are written whole: every mutation loads the household, applies the
// change and writes the full record back. Concurrent writers to the same
// household resolve last-writer-wins, never a partially written record.
type Store struct {
	queries *profile_db.Queries
	db      *sql.DB
}

// NewStore creates a new Store.
func NewStore(d *sql.DB) *Store {
	return &Store{
		queries: profile_db.New(d),
		db:      d,
	}
}

// Save inserts or updates a household record.
func (s *Store) Save(ctx context.Context, h *Household) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal household to JSON: %w", err)
	}

	err = s.queries.UpsertHousehold(ctx, profile_db.UpsertHouseholdParams{
		ID:        h.ID,
		Name:      h.Name,
		Data:      string(data),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save household: %w", err)
	}
	return nil
}

// Get retrieves a household by its ID. Returns (nil, nil) when not found.
func (s *Store) Get(ctx context.Context, id string) (*Household, error) {
	row, err := s.queries.GetHouseholdByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get household by ID: %w", err)
	}

	var h Household
	if err := json.Unmarshal([]byte(row.Data), &h); err != nil {
		return nil, fmt.Errorf("failed to unmarshal household JSON: %w", err)
	}
	return &h, nil
}

// List retrieves all households.
func (s *Store) List(ctx context.Context) ([]Household, error) {
	rows, err := s.queries.ListHouseholds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	var households []Household
	for _, row := range rows {
		var h Household
		if err := json.Unmarshal([]byte(row.Data), &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal household JSON for ID %s: %w", row.ID, err)
		}
		households = append(households, h)
	}
	return households, nil
}

// AddMember appends a member to a household. The member name must not
// already exist in the household.
func (s *Store) AddMember(ctx context.Context, householdID string, m Member) error {
	h, err := s.Get(ctx, householdID)
	if err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("household %s does not exist", householdID)
	}
	if h.Member(m.Name) != nil {
		return fmt.Errorf("member %s already exists in household %s", m.Name, householdID)
	}

	h.Members = append(h.Members, m)
	return s.Save(ctx, h)
}

// UpdateMember replaces the named member's record.
func (s *Store) UpdateMember(ctx context.Context, householdID string, m Member) error {
	h, err := s.Get(ctx, householdID)
	if err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("household %s does not exist", householdID)
	}

	for i := range h.Members {
		if h.Members[i].Name == m.Name {
			h.Members[i] = m
			return s.Save(ctx, h)
		}
	}
	return fmt.Errorf("member %s not found in household %s", m.Name, householdID)
}
