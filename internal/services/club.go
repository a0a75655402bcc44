package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clubconn/internal/domain"
)

// clubManager reports whether a caller may manage a club's events, forms and packages.
type clubManager interface {
	CanManage(ctx context.Context, clubID string, caller domain.Principal) (bool, error)
}

// requireManager returns ErrForbidden unless the caller manages the club.
func requireManager(ctx context.Context, m clubManager, clubID string, caller domain.Principal) error {
	ok, err := m.CanManage(ctx, clubID, caller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

type clubService struct {
	clubRepo       domain.ClubRepository
	memberRepo     domain.ClubMemberRepository
	contextTimeout time.Duration
}

// NewClubService creates a ClubService with the given repositories.
func NewClubService(clubRepo domain.ClubRepository, memberRepo domain.ClubMemberRepository, timeout time.Duration) domain.ClubService {
	return &clubService{
		clubRepo:       clubRepo,
		memberRepo:     memberRepo,
		contextTimeout: timeout,
	}
}

func (s *clubService) CreateClub(ctx context.Context, club *domain.Club) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	club.Name = strings.TrimSpace(club.Name)
	if club.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if club.OwnerID == "" {
		return fmt.Errorf("club owner is required")
	}
	if club.Slug == "" {
		club.Slug = club.Name
	}
	club.Slug = domain.Slugify(club.Slug)
	if club.Slug == "" {
		return fmt.Errorf("%w: name must contain letters or digits", domain.ErrInvalidInput)
	}

	now := time.Now()
	club.CreatedAt = now
	club.UpdatedAt = now
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: a club with slug %q already exists", domain.ErrConflict, club.Slug)
		}
		return fmt.Errorf("create club: %w", err)
	}
	club.MemberCount = 1
	return nil
}

func (s *clubService) ListClubs(ctx context.Context, filter domain.ClubFilter, params domain.PaginationParams) ([]*domain.Club, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	clubs, total, err := s.clubRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list clubs: %w", err)
	}
	return clubs, total, nil
}

// GetClub resolves a club by UUID or, failing that, by slug.
func (s *clubService) GetClub(ctx context.Context, idOrSlug string) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		club *domain.Club
		err  error
	)
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		club, err = s.clubRepo.GetByID(ctx, idOrSlug)
	} else {
		club, err = s.clubRepo.GetBySlug(ctx, strings.ToLower(idOrSlug))
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	return club, nil
}

func (s *clubService) getOwned(ctx context.Context, clubID string, caller domain.Principal) (*domain.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get club: %w", err)
	}
	if club.OwnerID != caller.UserID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return club, nil
}

func (s *clubService) UpdateClub(ctx context.Context, clubID string, caller domain.Principal, upd domain.ClubUpdate) (*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, clubID, caller); err != nil {
		return nil, err
	}
	club, err := s.clubRepo.Update(ctx, clubID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update club: %w", err)
	}
	return club, nil
}

func (s *clubService) DeleteClub(ctx context.Context, clubID string, caller domain.Principal) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, clubID, caller); err != nil {
		return err
	}
	return s.clubRepo.Delete(ctx, clubID)
}

func (s *clubService) JoinClub(ctx context.Context, clubID, userID string) (*domain.ClubMember, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get club: %w", err)
	}

	if existing, err := s.memberRepo.Get(ctx, clubID, userID); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get membership: %w", err)
	}

	created := true
	if err := s.memberRepo.Add(ctx, clubID, userID, domain.ClubRoleMember); err != nil {
		if !errors.Is(err, domain.ErrAlreadyMember) {
			return nil, false, fmt.Errorf("add member: %w", err)
		}
		// Lost a race with a concurrent join.
		created = false
	}
	member, err := s.memberRepo.Get(ctx, clubID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get membership: %w", err)
	}
	return member, created, nil
}

func (s *clubService) LeaveClub(ctx context.Context, clubID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get club: %w", err)
	}
	if club.OwnerID == userID {
		return fmt.Errorf("%w: the club owner cannot leave the club", domain.ErrInvalidInput)
	}
	return s.memberRepo.Remove(ctx, clubID, userID)
}

func (s *clubService) ListMembers(ctx context.Context, clubID string) ([]*domain.ClubMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *clubService) ListMyClubs(ctx context.Context, userID string) ([]*domain.Club, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	clubs, err := s.clubRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list clubs by member: %w", err)
	}
	return clubs, nil
}

// PromoteMember makes an existing member an officer. Only the club owner may promote.
func (s *clubService) PromoteMember(ctx context.Context, clubID, userID string, caller domain.Principal) (*domain.ClubMember, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club.OwnerID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	if err := s.memberRepo.SetRole(ctx, clubID, userID, domain.ClubRoleOfficer); err != nil {
		return nil, err
	}
	return s.memberRepo.Get(ctx, clubID, userID)
}

func (s *clubService) CanManage(ctx context.Context, clubID string, caller domain.Principal) (bool, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("get club: %w", err)
	}
	if caller.IsAdmin() || club.OwnerID == caller.UserID {
		return true, nil
	}
	member, err := s.memberRepo.Get(ctx, clubID, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get membership: %w", err)
	}
	return member.Role == domain.ClubRoleOfficer, nil
}
