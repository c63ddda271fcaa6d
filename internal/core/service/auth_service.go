package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// AuthOptions configures token issuance and account presentation.
type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	// SharedDisplayName is the collective name every shared account is shown under.
	SharedDisplayName string
}

// AuthService implements registration, login, and account lookups.
type AuthService struct {
	users      ports.UserRepository
	activities ports.ActivityRepository
	resolver   *IdentityResolver
	notifier   ports.Notifier
	opts       AuthOptions
	log        zerolog.Logger

	now func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	activities ports.ActivityRepository,
	resolver *IdentityResolver,
	notifier ports.Notifier,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.SharedDisplayName == "" {
		opts.SharedDisplayName = "Shared"
	}
	return &AuthService{
		users:      users,
		activities: activities,
		resolver:   resolver,
		notifier:   notifier,
		opts:       opts,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleShared
	}
	// Admin accounts come from seeding only.
	if !role.Valid() || role == domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}
	// Early rejection only; the store's unique constraint settles races.
	if role == domain.RoleCorrespondent {
		taken, err := s.correspondentExists(ctx)
		if err != nil {
			return nil, fmt.Errorf("register: %w: %w", domain.ErrPersistence, err)
		}
		if taken {
			return nil, domain.ErrRoleTaken
		}
	}

	user, err := s.create(ctx, email, in.Password, s.displayName(role, in.Name, email), role)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(user.Email, domain.TemplateWelcome, domain.NotificationContext{
		RecipientName: user.DisplayName(),
		SubjectName:   user.DisplayName(),
		SubjectEmail:  user.Email,
		SubjectRole:   user.Role,
		Timestamp:     user.CreatedAt,
	})
	for _, c := range s.resolver.Correspondents(ctx) {
		if c.ID == user.ID {
			continue
		}
		s.notifier.Notify(c.Email, domain.TemplateCounterpartyNewRegistration, domain.NotificationContext{
			RecipientName: c.DisplayName(),
			SubjectName:   user.DisplayName(),
			SubjectEmail:  user.Email,
			SubjectRole:   user.Role,
			Timestamp:     user.CreatedAt,
		})
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("actor_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w: %w", domain.ErrPersistence, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	activity := &domain.Activity{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Type:      domain.ActivityLogin,
		Details:   "User logged in at " + now.Format(time.RFC3339),
		CreatedAt: now,
	}
	if err := s.activities.Insert(ctx, activity); err != nil {
		s.log.Warn().Err(err).Str("actor_id", user.ID).Msg("failed to record login activity")
	}
	s.resolver.Touch(ctx, user)

	s.notifier.Notify(user.Email, domain.TemplateLoginAlert, domain.NotificationContext{
		RecipientName: user.DisplayName(),
		SubjectName:   user.DisplayName(),
		SubjectEmail:  user.Email,
		Timestamp:     now,
	})
	if user.Role != domain.RoleCorrespondent {
		for _, c := range s.resolver.Correspondents(ctx) {
			s.notifier.Notify(c.Email, domain.TemplateCounterpartyLoginAlert, domain.NotificationContext{
				RecipientName: c.DisplayName(),
				SubjectName:   user.DisplayName(),
				SubjectEmail:  user.Email,
				SubjectRole:   user.Role,
				Timestamp:     now,
			})
		}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %w", domain.ErrPersistence, err)
	}
	return users, nil
}

// EnsureSeedUsers creates each seed account whose email is not yet taken.
// Seeding bypasses the self-registration role rules and sends no notifications.
func (s *AuthService) EnsureSeedUsers(ctx context.Context, seeds []ports.SeedUser) error {
	for _, seed := range seeds {
		email := strings.ToLower(strings.TrimSpace(seed.Email))
		if email == "" || seed.Password == "" {
			continue
		}
		_, err := s.users.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("seed %s: %w", email, err)
		}
		if seed.Role == domain.RoleCorrespondent {
			taken, err := s.correspondentExists(ctx)
			if err != nil {
				return fmt.Errorf("seed %s: %w", email, err)
			}
			if taken {
				s.log.Info().Str("email", email).Msg("correspondent already exists, skipping seed")
				continue
			}
		}
		if _, err := s.create(ctx, email, seed.Password, s.displayName(seed.Role, seed.Name, email), seed.Role); err != nil {
			if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrRoleTaken) {
				continue
			}
			return fmt.Errorf("seed %s: %w", email, err)
		}
		s.log.Info().Str("email", email).Str("role", string(seed.Role)).Msg("seeded default user")
	}
	return nil
}

func (s *AuthService) create(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrRoleTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w: %w", domain.ErrPersistence, err)
	}
	return created, nil
}

func (s *AuthService) correspondentExists(ctx context.Context) (bool, error) {
	holders, err := s.users.FindByRole(ctx, domain.RoleCorrespondent)
	if err != nil {
		return false, err
	}
	return len(holders) > 0, nil
}

// displayName collapses every shared account onto the collective name.
func (s *AuthService) displayName(role domain.Role, name, email string) string {
	if role == domain.RoleShared {
		return s.opts.SharedDisplayName
	}
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   s.now().Add(s.opts.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.opts.JWTSecret))
}
