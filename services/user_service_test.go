package services_test

import (
	"testing"

	"contesthub/models"
	"contesthub/services"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	service := services.NewUserService(db)

	user, err := service.CreateUser(&services.CreateUserRequest{
		Username: "alice",
		FullName: "Alice Doe",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("expected default USER role, got %q", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Fatalf("stored password must be a bcrypt hash of the input: %v", err)
	}

	_, err = service.CreateUser(&services.CreateUserRequest{
		Username: "alice",
		FullName: "Another Alice",
		Password: "secret123",
	})
	if err != services.ErrUsernameTaken {
		t.Fatalf("expected duplicate username rejection, got %v", err)
	}
}

func TestCreateUsersBulk(t *testing.T) {
	db := newTestDB(t)
	service := services.NewUserService(db)
	createTestUser(t, db, "taken", models.RoleUser)

	_, err := service.CreateUsers([]services.CreateDefaultUserRequest{
		{Username: "fresh", FullName: "Fresh One"},
		{Username: "taken", FullName: "Already There"},
	})
	if err != services.ErrUsernameTaken {
		t.Fatalf("expected duplicate rejection before any insert, got %v", err)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("rejected bulk create must not insert anyone, found %d users", count)
	}

	users, err := service.CreateUsers([]services.CreateDefaultUserRequest{
		{Username: "bob", FullName: "Bob"},
		{Username: "carol", FullName: "Carol"},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("bob@1234")); err != nil {
		t.Fatalf("expected the derived default password: %v", err)
	}
}

func TestGetAndUpdateUsers(t *testing.T) {
	db := newTestDB(t)
	service := services.NewUserService(db)
	user := createTestUser(t, db, "alice", models.RoleUser)
	createTestUser(t, db, "bob", models.RoleUser)

	if _, err := service.GetUserByID(999); err != services.ErrUserNotFound {
		t.Fatalf("expected user-not-found, got %v", err)
	}
	if _, err := service.GetUserByUsername("nobody"); err != services.ErrUserNotFound {
		t.Fatalf("expected user-not-found, got %v", err)
	}

	byName, err := service.GetUsers(&services.UserFilter{FullName: "alice"})
	if err != nil || len(byName) != 1 {
		t.Fatalf("expected 1 user matching filter, got %d (%v)", len(byName), err)
	}

	updated, err := service.UpdateUser(user.ID, &services.UpdateUserRequest{FullName: "Alice Renamed"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FullName != "Alice Renamed" {
		t.Fatalf("expected renamed user, got %q", updated.FullName)
	}

	if err := service.DeleteUser(user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := service.GetUserByID(user.ID); err != services.ErrUserNotFound {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}
}
