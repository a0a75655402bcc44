package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"time"

	"clubconn/internal/domain"
)

const (
	minPasswordLen      = 8
	loginCodeDigits     = 6
	loginCodeExpiryMins = 15
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

// UserServiceDeps groups the collaborators of the user service.
type UserServiceDeps struct {
	Users       domain.UserRepository
	Roles       domain.RoleRepository
	LoginCodes  domain.LoginCodeRepository
	Hasher      domain.PasswordHasher
	Tokens      domain.TokenIssuer
	TokenExpiry time.Duration
	Email       domain.EmailService
	AppBaseURL  string
	Logger      *slog.Logger
}

type userService struct {
	userRepo      domain.UserRepository
	roleRepo      domain.RoleRepository
	loginCodeRepo domain.LoginCodeRepository
	hasher        domain.PasswordHasher
	tokenIssuer   domain.TokenIssuer
	tokenExpiry   time.Duration
	emailService  domain.EmailService
	appBaseURL    string
	logger        *slog.Logger
}

// NewUserService creates a UserService with the given repositories and auth ports.
func NewUserService(deps UserServiceDeps) domain.UserService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &userService{
		userRepo:      deps.Users,
		roleRepo:      deps.Roles,
		loginCodeRepo: deps.LoginCodes,
		hasher:        deps.Hasher,
		tokenIssuer:   deps.Tokens,
		tokenExpiry:   deps.TokenExpiry,
		emailService:  deps.Email,
		appBaseURL:    deps.AppBaseURL,
		logger:        deps.Logger,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	return email, nil
}

func (s *userService) SignUp(ctx context.Context, email, password, name, lastName string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := domain.NewUser(email, strings.TrimSpace(name), strings.TrimSpace(lastName), hash, salt, now, now)
	if err := s.createWithRole(ctx, user, domain.RoleMember); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		data := &domain.WelcomeEmailData{Email: user.Email, FirstName: user.Name, AppURL: s.appBaseURL}
		if err := s.emailService.SendWelcome(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

func (s *userService) createWithRole(ctx context.Context, user *domain.User, roleCode string) error {
	role, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		return fmt.Errorf("failed to get role %q: %w", roleCode, err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	// Accounts created through a login code have no password until one is set.
	if user.PasswordHash == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) RequestLoginCode(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	expiresAt := time.Now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodeRepo.Create(ctx, email, hashLoginCode(code), expiresAt); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.LoginCodeEmailData{
			Email:            email,
			Code:             code,
			ExpiresInMinutes: loginCodeExpiryMins,
		}
		if err := s.emailService.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("failed to send login code email: %w", err)
		}
	}
	return nil
}

func (s *userService) VerifyLoginCode(ctx context.Context, email, code string) (string, *domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", nil, err
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return "", nil, domain.ErrInvalidLoginCode
	}
	consumed, err := s.loginCodeRepo.Consume(ctx, email, hashLoginCode(code))
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return "", nil, domain.ErrInvalidLoginCode
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("failed to get user: %w", err)
		}
		now := time.Now()
		user = domain.NewUser(email, "", "", "", "", now, now)
		if err := s.createWithRole(ctx, user, domain.RoleMember); err != nil {
			return "", nil, err
		}
	}
	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *userService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}
	roleCodes := make([]string, len(roles))
	for i, r := range roles {
		roleCodes[i] = r.Code
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, roleCodes, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// generateLoginCode returns a uniformly distributed, zero-padded decimal code.
func generateLoginCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

func hashLoginCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	user.Name = strings.TrimSpace(user.Name)
	user.LastName = strings.TrimSpace(user.LastName)
	email, err := normalizeEmail(user.Email)
	if err != nil {
		return err
	}
	user.Email = email
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GrantRole assigns roleCode to the user with email, creating a password-less account when none exists.
func (s *userService) GrantRole(ctx context.Context, email, roleCode string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, roleCode)
		}
		return nil, fmt.Errorf("failed to get role %q: %w", roleCode, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		now := time.Now()
		user = domain.NewUser(email, "", "", "", "", now, now)
		if err := s.createWithRole(ctx, user, domain.RoleMember); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}
	return user, nil
}
