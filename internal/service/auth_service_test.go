package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pollution-service/internal/config"
	"github.com/spec-kit/pollution-service/internal/domain"
)

type fakeUserRepo struct {
	nextID int64
	users  map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	var result []domain.User
	for _, user := range f.users {
		result = append(result, user)
	}
	return result, nil
}

func testAuthConfig() config.Config {
	var cfg config.Config
	cfg.Auth.JWTSecret = "auth-service-test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 120
	// keep the hashing cheap in tests
	cfg.Auth.BcryptCost = 4
	return cfg
}

func TestRegisterAssignsUserRole(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserRepo(), nil)

	user, err := svc.Register(context.Background(), "Marie", "Curie", "marie@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %q", user.Role)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password stored in clear")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Marie", "Curie", "marie@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := svc.Register(ctx, "Imposter", "Curie", "marie@example.com", "other-pass")
	if err == nil || httpStatus(t, err) != 409 {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testAuthConfig(), repo, nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Marie", "Curie", "marie@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, token, exp, err := svc.Login(ctx, "marie@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("wrong user: %d", user.ID)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("token already expired at %v", exp)
	}

	identity, err := svc.TokenManager().Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if identity.SubjectID != registered.ID || identity.Role != domain.RoleUser {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestLoginRejectionsCollapse(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), newFakeUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Marie", "Curie", "marie@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, token, _, wrongPass := svc.Login(ctx, "marie@example.com", "wrong")
	if wrongPass == nil || httpStatus(t, wrongPass) != 401 {
		t.Fatalf("expected 401 for wrong password, got %v", wrongPass)
	}
	if token != "" {
		t.Fatal("token issued despite rejection")
	}

	_, _, _, unknown := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	if unknown == nil || httpStatus(t, unknown) != 401 {
		t.Fatalf("expected 401 for unknown email, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("rejection messages differ: %q vs %q", wrongPass.Error(), unknown.Error())
	}
}
