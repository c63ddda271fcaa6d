package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

type stubActivityRepo struct {
	insertErr error
	inserted  []*domain.Activity
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.Activity) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *a
	r.inserted = append(r.inserted, &clone)
	return nil
}

type authFixture struct {
	users      *stubUserRepo
	activities *stubActivityRepo
	notifier   *recordingNotifier
	svc        *AuthService
}

func newAuthFixture(users ...*domain.User) *authFixture {
	f := &authFixture{
		users:      newStubUserRepo(users...),
		activities: &stubActivityRepo{},
		notifier:   &recordingNotifier{},
	}
	resolver := NewIdentityResolver(f.users, nil, zerolog.Nop())
	f.svc = NewAuthService(f.users, f.activities, resolver, f.notifier, AuthOptions{
		JWTSecret:         "secret",
		TokenTTL:          time.Hour,
		SharedDisplayName: "Tharun",
	}, zerolog.Nop())
	return f
}

func hashed(t *testing.T, u *domain.User, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	clone := *u
	clone.PasswordHash = string(hash)
	return &clone
}

func TestAuthService_Register_SharedDefaults(t *testing.T) {
	f := newAuthFixture(corrUser)

	res, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "New@Example.com", Password: "pass123", Name: "Bob"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatal("expected token")
	}
	u := res.User
	if u.Role != domain.RoleShared {
		t.Errorf("expected shared role, got %s", u.Role)
	}
	if u.Name != "Tharun" {
		t.Errorf("expected collective display name, got %q", u.Name)
	}
	if u.Email != "new@example.com" {
		t.Errorf("expected normalised email, got %q", u.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	kinds := f.notifier.kinds()
	if got := kinds[domain.TemplateWelcome]; len(got) != 1 || got[0] != "new@example.com" {
		t.Errorf("expected welcome to registrant, got %v", got)
	}
	if got := kinds[domain.TemplateCounterpartyNewRegistration]; len(got) != 1 || got[0] != corrUser.Email {
		t.Errorf("expected registration alert to correspondent, got %v", got)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "", Password: "pass"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "x@example.com", Password: "pass", Role: "wrong"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for bad role, got %v", err)
	}
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "x@example.com", Password: "pass", Role: "admin"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for admin self-registration, got %v", err)
	}
}

func TestAuthService_Register_CorrespondentIsSingleton(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "s@example.com", Password: "pass", Role: "correspondent"})
	if err != nil {
		t.Fatalf("first correspondent: %v", err)
	}
	if res.User.Name != "s" {
		t.Errorf("expected email local part as name, got %q", res.User.Name)
	}
	if got := f.notifier.kinds()[domain.TemplateCounterpartyNewRegistration]; len(got) != 0 {
		t.Errorf("correspondent must not be alerted about its own registration, got %v", got)
	}

	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "t@example.com", Password: "pass", Role: "correspondent"}); err != domain.ErrRoleTaken {
		t.Fatalf("expected ErrRoleTaken, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newAuthFixture()

	_, _ = f.svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass"})
	if _, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "pass2"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(corrUser, hashed(t, sharedU1, "s3cret"))

	res, err := f.svc.Login(context.Background(), "u1@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.ID != "U1" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "U1" || claims["role"] != string(domain.RoleShared) {
		t.Fatalf("unexpected claims: %v", claims)
	}

	if len(f.activities.inserted) != 1 || f.activities.inserted[0].Type != domain.ActivityLogin {
		t.Errorf("expected login activity, got %+v", f.activities.inserted)
	}
	kinds := f.notifier.kinds()
	if got := kinds[domain.TemplateLoginAlert]; len(got) != 1 || got[0] != "u1@example.com" {
		t.Errorf("expected login alert to user, got %v", got)
	}
	if got := kinds[domain.TemplateCounterpartyLoginAlert]; len(got) != 1 || got[0] != corrUser.Email {
		t.Errorf("expected login alert to correspondent, got %v", got)
	}
}

func TestAuthService_Login_CorrespondentNotAlertedAboutSelf(t *testing.T) {
	f := newAuthFixture(hashed(t, corrUser, "pw"))

	if _, err := f.svc.Login(context.Background(), corrUser.Email, "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got := f.notifier.kinds()[domain.TemplateCounterpartyLoginAlert]; len(got) != 0 {
		t.Errorf("expected no counterparty alert, got %v", got)
	}
}

func TestAuthService_Login_ActivityFailureIsNonFatal(t *testing.T) {
	f := newAuthFixture(hashed(t, sharedU1, "pw"))
	f.activities.insertErr = errors.New("mongo unavailable")

	if _, err := f.svc.Login(context.Background(), sharedU1.Email, "pw"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := newAuthFixture(hashed(t, sharedU1, "goodpass"))

	if _, err := f.svc.Login(context.Background(), sharedU1.Email, "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(f.notifier.calls) != 0 {
		t.Error("expected no notifications on failed login")
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_EnsureSeedUsers(t *testing.T) {
	f := newAuthFixture()
	seeds := []ports.SeedUser{
		{Email: "admin@example.com", Password: "admin123", Name: "Admin", Role: domain.RoleAdmin},
		{Email: "shrreya@example.com", Password: "shrreya123", Name: "Shrreya", Role: domain.RoleCorrespondent},
		{Email: "", Password: "skipped", Role: domain.RoleShared},
	}

	if err := f.svc.EnsureSeedUsers(context.Background(), seeds); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := f.svc.EnsureSeedUsers(context.Background(), seeds); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	users, _ := f.users.List(context.Background())
	if len(users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(users))
	}
	if users[0].Role != domain.RoleAdmin || users[1].Name != "Shrreya" {
		t.Errorf("unexpected seeded users: %+v %+v", users[0], users[1])
	}
	if len(f.notifier.calls) != 0 {
		t.Error("seeding must not notify")
	}
}

func TestAuthService_Register_StoreRejectsSecondCorrespondent(t *testing.T) {
	f := newAuthFixture()
	// A concurrent registration won between the early check and the insert.
	f.users.afterFind = func() {
		_, _ = f.users.Create(context.Background(), &domain.User{ID: "race", Email: "race@example.com", Role: domain.RoleCorrespondent})
	}

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Email: "late@example.com", Password: "pass", Role: "correspondent"})
	if !errors.Is(err, domain.ErrRoleTaken) {
		t.Fatalf("expected ErrRoleTaken, got %v", err)
	}
	if got := f.notifier.kinds()[domain.TemplateWelcome]; len(got) != 0 {
		t.Errorf("rejected registration must not be welcomed, got %v", got)
	}
}

func TestAuthService_EnsureSeedUsers_SkipsSecondCorrespondent(t *testing.T) {
	f := newAuthFixture(corrUser)

	err := f.svc.EnsureSeedUsers(context.Background(), []ports.SeedUser{
		{Email: "another@example.com", Password: "seed123", Name: "Other", Role: domain.RoleCorrespondent},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	holders, _ := f.users.FindByRole(context.Background(), domain.RoleCorrespondent)
	if len(holders) != 1 {
		t.Fatalf("expected 1 correspondent, got %d", len(holders))
	}
}
