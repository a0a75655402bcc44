package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Club member roles.
const (
	ClubRoleMember  = "member"
	ClubRoleOfficer = "officer"
)

// Club represents a student organization with a profile page and events.
// swagger:model Club
type Club struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	LogoURL      string    `json:"logo_url"`
	ContactEmail string    `json:"contact_email"`
	OwnerID      string    `json:"owner_id"`
	MemberCount  int       `json:"member_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClubMember is a user's membership in a club, joined with the user's public profile.
// swagger:model ClubMember
type ClubMember struct {
	ClubID   string    `json:"club_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	Name     string    `json:"name"`
	LastName string    `json:"last_name"`
	JoinedAt time.Time `json:"joined_at"`
}

// ClubFilter narrows ListClubs. Empty fields do not filter.
type ClubFilter struct {
	Search   string
	Category string
}

// ClubUpdate carries optional fields for a partial club update.
type ClubUpdate struct {
	Description  *string
	Category     *string
	LogoURL      *string
	ContactEmail *string
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins alphanumeric runs with single dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ClubRepository defines storage for clubs.
type ClubRepository interface {
	// Create stores the club and enrolls its owner as an officer atomically.
	Create(ctx context.Context, club *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
	GetBySlug(ctx context.Context, slug string) (*Club, error)
	List(ctx context.Context, filter ClubFilter, params PaginationParams) ([]*Club, int, error)
	ListByMember(ctx context.Context, userID string) ([]*Club, error)
	Update(ctx context.Context, id string, upd ClubUpdate) (*Club, error)
	Delete(ctx context.Context, id string) error
}

// ClubMemberRepository defines storage for club memberships.
type ClubMemberRepository interface {
	Add(ctx context.Context, clubID, userID, role string) error
	Get(ctx context.Context, clubID, userID string) (*ClubMember, error)
	ListByClubID(ctx context.Context, clubID string) ([]*ClubMember, error)
	SetRole(ctx context.Context, clubID, userID, role string) error
	Remove(ctx context.Context, clubID, userID string) error
}

// ClubService defines the club directory operations.
type ClubService interface {
	CreateClub(ctx context.Context, club *Club) error
	ListClubs(ctx context.Context, filter ClubFilter, params PaginationParams) ([]*Club, int, error)
	GetClub(ctx context.Context, idOrSlug string) (*Club, error)
	UpdateClub(ctx context.Context, clubID string, caller Principal, upd ClubUpdate) (*Club, error)
	DeleteClub(ctx context.Context, clubID string, caller Principal) error
	// JoinClub returns (member, created, err): created is false when the user was already a member.
	JoinClub(ctx context.Context, clubID, userID string) (*ClubMember, bool, error)
	LeaveClub(ctx context.Context, clubID, userID string) error
	ListMembers(ctx context.Context, clubID string) ([]*ClubMember, error)
	ListMyClubs(ctx context.Context, userID string) ([]*Club, error)
	PromoteMember(ctx context.Context, clubID, userID string, caller Principal) (*ClubMember, error)
	// CanManage reports whether the caller may manage the club's events, forms and packages.
	CanManage(ctx context.Context, clubID string, caller Principal) (bool, error)
}
