package store

import (
	"testing"

	"github.com/google/uuid"

	"lislab/internal/models"
)

func TestUserStoreCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	suffix := uuid.NewString()[:8]
	email := "test-" + suffix + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := s.Create("testuser-"+suffix, email, "secret-password", models.UserTypeStudent, "Test Univ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Role != models.RoleUser {
		t.Errorf("role = %q, want USER", u.Role)
	}
	if u.SocialProvider != models.SocialNone {
		t.Errorf("social_provider = %q, want NONE", u.SocialProvider)
	}

	if !s.CheckPassword(u, "secret-password") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserStoreSocialAccount(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	suffix := uuid.NewString()[:8]
	email := "test-kakao-" + suffix + "@example.com"
	socialID := "kakao-" + suffix
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := s.CreateSocial("kakaouser-"+suffix, email, models.SocialKakao, socialID, nil)
	if err != nil {
		t.Fatalf("CreateSocial: %v", err)
	}
	if !u.IsSocial() {
		t.Error("social account should report IsSocial")
	}
	if s.CheckPassword(u, "") {
		t.Error("social account must not authenticate by password")
	}

	found, err := s.FindBySocialID(models.SocialKakao, socialID)
	if err != nil {
		t.Fatalf("FindBySocialID: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Errorf("FindBySocialID = %v, want user %d", found, u.ID)
	}

	// Same provider-side ID under a different provider is a different
	// identity.
	other, err := s.FindBySocialID(models.SocialNaver, socialID)
	if err != nil {
		t.Fatalf("FindBySocialID (naver): %v", err)
	}
	if other != nil {
		t.Error("provider must scope the social ID lookup")
	}
}

func TestUserStoreChangePassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	suffix := uuid.NewString()[:8]
	email := "test-pw-" + suffix + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := s.Create("pwuser-"+suffix, email, "old-password", models.UserTypeOther, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.ChangePassword(u, "bad-guess", "new-password"); err == nil {
		t.Error("ChangePassword accepted a wrong current password")
	}
	if err := s.ChangePassword(u, "old-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	fresh, err := s.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !s.CheckPassword(fresh, "new-password") {
		t.Error("new password rejected after change")
	}
}

func TestUserStoreFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u, err := s.FindByUsername("no-such-user-" + uuid.NewString())
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for missing user, got %v", u)
	}
}
