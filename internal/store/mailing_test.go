package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestMailingSubscribeAndUnsubscribe(t *testing.T) {
	db := testDB(t)
	s := NewMailingStore(db)

	email := "test-sub-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanSubscriptions(t, db, email) })

	sub, err := s.Subscribe(email, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !sub.IsActive {
		t.Error("new subscription should be active")
	}

	ok, err := s.Unsubscribe(sub.UnsubscribeToken)
	if err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if !ok {
		t.Error("unsubscribe with valid token should succeed")
	}

	// The token is single-use.
	ok, err = s.Unsubscribe(sub.UnsubscribeToken)
	if err != nil {
		t.Fatalf("Unsubscribe (again): %v", err)
	}
	if ok {
		t.Error("token should not work on an inactive subscription")
	}
}

func TestMailingResubscribeRotatesToken(t *testing.T) {
	db := testDB(t)
	s := NewMailingStore(db)

	email := "test-resub-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanSubscriptions(t, db, email) })

	first, err := s.Subscribe(email, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := s.Unsubscribe(first.UnsubscribeToken); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}

	second, err := s.Subscribe(email, nil)
	if err != nil {
		t.Fatalf("Resubscribe: %v", err)
	}
	if !second.IsActive {
		t.Error("resubscription should be active")
	}
	if second.UnsubscribeToken == first.UnsubscribeToken {
		t.Error("resubscribing should rotate the unsubscribe token")
	}

	// The old token must be dead.
	ok, err := s.Unsubscribe(first.UnsubscribeToken)
	if err != nil {
		t.Fatalf("Unsubscribe (stale): %v", err)
	}
	if ok {
		t.Error("stale token still unsubscribes")
	}
}

func TestCampaignSendClaim(t *testing.T) {
	db := testDB(t)
	s := NewMailingStore(db)
	adminID := testAuthorID(t, db)

	c, err := s.CreateCampaign("August digest", "News from LIS Lab", "<p>hi</p>", "hi", adminID)
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM email_campaigns WHERE id = $1", c.ID) })

	claimed, err := s.MarkCampaignSending(c.ID)
	if err != nil {
		t.Fatalf("MarkCampaignSending: %v", err)
	}
	if !claimed {
		t.Error("first claim should succeed")
	}

	// A second dispatcher must not claim the same campaign.
	claimed, err = s.MarkCampaignSending(c.ID)
	if err != nil {
		t.Fatalf("MarkCampaignSending (second): %v", err)
	}
	if claimed {
		t.Error("campaign claimed twice")
	}

	if err := s.FinishCampaign(c.ID, 3, 1); err != nil {
		t.Fatalf("FinishCampaign: %v", err)
	}
	done, err := s.FindCampaign(c.ID)
	if err != nil {
		t.Fatalf("FindCampaign: %v", err)
	}
	if done.Status != "SENT" || done.SentCount != 3 || done.FailedCount != 1 {
		t.Errorf("campaign after finish = %+v", done)
	}
}
