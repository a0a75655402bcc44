package domain

import (
	"context"
	"time"
)

// Catalog is the seed document imported by the operator CLI.
type Catalog struct {
	Clubs  []CatalogClub  `json:"clubs"`
	Events []CatalogEvent `json:"events"`
}

// CatalogClub is a club entry in a Catalog.
type CatalogClub struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	LogoURL      string `json:"logoUrl"`
	ContactEmail string `json:"contactEmail"`
}

// CatalogEvent is an event entry in a Catalog; ClubSlug references a CatalogClub or an existing club.
type CatalogEvent struct {
	ClubSlug       string    `json:"clubSlug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Capacity       int       `json:"capacity"`
	VolunteerSlots int       `json:"volunteerSlots"`
}

// CatalogFetcher loads a Catalog from a file path or URL.
type CatalogFetcher interface {
	Fetch(ctx context.Context, source string) (*Catalog, error)
}

// ImportResult reports what a catalog import created and skipped.
type ImportResult struct {
	ClubsCreated  int
	ClubsSkipped  int
	EventsCreated int
	EventsSkipped int
}

// CatalogService imports seed catalogs.
type CatalogService interface {
	Import(ctx context.Context, catalog *Catalog, ownerEmail string) (*ImportResult, error)
}
