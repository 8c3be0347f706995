package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lislab/internal/models"
)

// MailingStore handles newsletter subscription and campaign operations.
type MailingStore struct {
	db *sql.DB
}

// NewMailingStore creates a new MailingStore.
func NewMailingStore(db *sql.DB) *MailingStore {
	return &MailingStore{db: db}
}

// Subscribe adds or reactivates a subscription for the given email.
// Resubscribing rotates the unsubscribe token so stale opt-out links in
// old mails stop working.
func (s *MailingStore) Subscribe(email string, userID *int64) (*models.MailingSubscription, error) {
	var sub models.MailingSubscription
	err := s.db.QueryRow(`
		INSERT INTO mailing_subscriptions (email, user_id, unsubscribe_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			is_active = TRUE,
			user_id = COALESCE(EXCLUDED.user_id, mailing_subscriptions.user_id),
			unsubscribe_token = EXCLUDED.unsubscribe_token,
			unsubscribed_at = NULL
		RETURNING id, email, user_id, is_active, unsubscribe_token, subscribed_at, unsubscribed_at
	`, email, userID, uuid.New()).Scan(
		&sub.ID, &sub.Email, &sub.UserID, &sub.IsActive,
		&sub.UnsubscribeToken, &sub.SubscribedAt, &sub.UnsubscribedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return &sub, nil
}

// Unsubscribe deactivates the subscription matching the token. Returns
// false if no active subscription carries the token.
func (s *MailingStore) Unsubscribe(token uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE mailing_subscriptions
		SET is_active = FALSE, unsubscribed_at = NOW()
		WHERE unsubscribe_token = $1 AND is_active
	`, token)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	return n > 0, nil
}

// FindSubscriptionByEmail retrieves a subscription. Returns nil if not found.
func (s *MailingStore) FindSubscriptionByEmail(email string) (*models.MailingSubscription, error) {
	var sub models.MailingSubscription
	err := s.db.QueryRow(`
		SELECT id, email, user_id, is_active, unsubscribe_token, subscribed_at, unsubscribed_at
		FROM mailing_subscriptions WHERE email = $1
	`, email).Scan(
		&sub.ID, &sub.Email, &sub.UserID, &sub.IsActive,
		&sub.UnsubscribeToken, &sub.SubscribedAt, &sub.UnsubscribedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &sub, nil
}

// ActiveSubscriptions lists every active subscriber, for campaign sends.
func (s *MailingStore) ActiveSubscriptions() ([]models.MailingSubscription, error) {
	rows, err := s.db.Query(`
		SELECT id, email, user_id, is_active, unsubscribe_token, subscribed_at, unsubscribed_at
		FROM mailing_subscriptions
		WHERE is_active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.MailingSubscription
	for rows.Next() {
		var sub models.MailingSubscription
		if err := rows.Scan(
			&sub.ID, &sub.Email, &sub.UserID, &sub.IsActive,
			&sub.UnsubscribeToken, &sub.SubscribedAt, &sub.UnsubscribedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ListSubscriptions returns every subscription, active or not, newest
// first. Admin listing.
func (s *MailingStore) ListSubscriptions() ([]models.MailingSubscription, error) {
	rows, err := s.db.Query(`
		SELECT id, email, user_id, is_active, unsubscribe_token, subscribed_at, unsubscribed_at
		FROM mailing_subscriptions
		ORDER BY subscribed_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.MailingSubscription
	for rows.Next() {
		var sub models.MailingSubscription
		if err := rows.Scan(
			&sub.ID, &sub.Email, &sub.UserID, &sub.IsActive,
			&sub.UnsubscribeToken, &sub.SubscribedAt, &sub.UnsubscribedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UnsubscribeEmail deactivates the subscription for an email address.
// Used by the account mailing preference, which acts on the member's
// own address rather than a token.
func (s *MailingStore) UnsubscribeEmail(email string) error {
	_, err := s.db.Exec(`
		UPDATE mailing_subscriptions
		SET is_active = FALSE, unsubscribed_at = NOW()
		WHERE email = $1 AND is_active
	`, email)
	if err != nil {
		return fmt.Errorf("unsubscribe email: %w", err)
	}
	return nil
}

const campaignColumns = `id, title, subject, content_html, content_text, status,
	sent_count, failed_count, created_by, created_at, sent_at`

func scanCampaign(scanner interface{ Scan(...any) error }) (*models.EmailCampaign, error) {
	var c models.EmailCampaign
	err := scanner.Scan(
		&c.ID, &c.Title, &c.Subject, &c.ContentHTML, &c.ContentText,
		&c.Status, &c.SentCount, &c.FailedCount, &c.CreatedBy,
		&c.CreatedAt, &c.SentAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCampaign inserts a draft campaign.
func (s *MailingStore) CreateCampaign(title, subject, contentHTML, contentText string, createdBy int64) (*models.EmailCampaign, error) {
	row := s.db.QueryRow(`
		INSERT INTO email_campaigns (title, subject, content_html, content_text, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+campaignColumns,
		title, subject, contentHTML, contentText, createdBy,
	)
	c, err := scanCampaign(row)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

// FindCampaign retrieves a campaign. Returns nil if not found.
func (s *MailingStore) FindCampaign(id int64) (*models.EmailCampaign, error) {
	row := s.db.QueryRow(`SELECT `+campaignColumns+` FROM email_campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return c, nil
}

// ListCampaigns returns all campaigns, newest first.
func (s *MailingStore) ListCampaigns() ([]models.EmailCampaign, error) {
	rows, err := s.db.Query(`SELECT ` + campaignColumns + ` FROM email_campaigns ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.EmailCampaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// MarkCampaignSending claims a campaign for delivery. Returns false if
// the campaign is not in a sendable state, which prevents two admins
// from dispatching the same campaign twice.
func (s *MailingStore) MarkCampaignSending(id int64) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE email_campaigns SET status = 'SENDING'
		WHERE id = $1 AND status IN ('DRAFT', 'SCHEDULED', 'FAILED')
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark campaign sending: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark campaign sending: %w", err)
	}
	return n > 0, nil
}

// FinishCampaign records the delivery outcome.
func (s *MailingStore) FinishCampaign(id int64, sent, failed int) error {
	status := models.CampaignSent
	if sent == 0 && failed > 0 {
		status = models.CampaignFailed
	}
	_, err := s.db.Exec(`
		UPDATE email_campaigns
		SET status = $1, sent_count = $2, failed_count = $3, sent_at = NOW()
		WHERE id = $4
	`, status, sent, failed, id)
	if err != nil {
		return fmt.Errorf("finish campaign: %w", err)
	}
	return nil
}

// LogDelivery records one delivery attempt.
func (s *MailingStore) LogDelivery(campaignID int64, email string, success bool, sendErr string) error {
	_, err := s.db.Exec(`
		INSERT INTO campaign_logs (campaign_id, email, success, error)
		VALUES ($1, $2, $3, $4)
	`, campaignID, email, success, sendErr)
	if err != nil {
		return fmt.Errorf("log delivery: %w", err)
	}
	return nil
}

// CampaignLogs lists the delivery attempts of one campaign.
func (s *MailingStore) CampaignLogs(campaignID int64) ([]models.CampaignLog, error) {
	rows, err := s.db.Query(`
		SELECT id, campaign_id, email, success, error, sent_at
		FROM campaign_logs
		WHERE campaign_id = $1
		ORDER BY id
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list campaign logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CampaignLog
	for rows.Next() {
		var l models.CampaignLog
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.Email, &l.Success, &l.Error, &l.SentAt); err != nil {
			return nil, fmt.Errorf("scan campaign log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
