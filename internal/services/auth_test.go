package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"hireos/internal/models"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return fmt.Errorf("duplicate email")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[key] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	if user, ok := r.users[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func TestAuthRegisterLoginRoundtrip(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	user, err := auth.Register("Jane", "jane@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Fatalf("password must be stored hashed")
	}

	token, loggedIn, err := auth.Login("jane@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected the registered user back")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Fatalf("expected user id %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.Role != "recruiter" {
		t.Fatalf("expected default recruiter role, got %q", claims.Role)
	}
}

func TestAuthLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo, "test-secret", time.Hour)

	if _, err := auth.Register("Jane", "jane@example.com", "correct horse battery"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := auth.Login("jane@example.com", "wrong"); err == nil {
		t.Fatalf("expected wrong password to be rejected")
	}
	if _, _, err := auth.Login("nobody@example.com", "correct horse battery"); err == nil {
		t.Fatalf("expected unknown email to be rejected")
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newFakeUserRepo()
	issuer := NewAuthService(repo, "secret-a", time.Hour)
	verifier := NewAuthService(repo, "secret-b", time.Hour)

	if _, err := issuer.Register("Jane", "jane@example.com", "correct horse battery"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := issuer.Login("jane@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatalf("expected a token signed with another secret to fail")
	}
}
