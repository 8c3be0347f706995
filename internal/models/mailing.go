// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MailingSubscription is a newsletter subscriber. A subscription may be
// linked to a member account but works standalone for guests. The
// unsubscribe token goes into every outgoing mail so recipients can opt
// out without logging in.
type MailingSubscription struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	UserID           *int64     `json:"user"`
	IsActive         bool       `json:"is_active"`
	UnsubscribeToken uuid.UUID  `json:"-"`
	SubscribedAt     time.Time  `json:"subscribed_at"`
	UnsubscribedAt   *time.Time `json:"unsubscribed_at"`
}

// CampaignStatus tracks the delivery state of an email campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignScheduled CampaignStatus = "SCHEDULED"
	CampaignSending   CampaignStatus = "SENDING"
	CampaignSent      CampaignStatus = "SENT"
	CampaignFailed    CampaignStatus = "FAILED"
)

// EmailCampaign is a bulk mail sent to active subscribers.
type EmailCampaign struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Subject     string         `json:"subject"`
	ContentHTML string         `json:"content_html"`
	ContentText string         `json:"content_text"`
	Status      CampaignStatus `json:"status"`
	SentCount   int            `json:"sent_count"`
	FailedCount int            `json:"failed_count"`
	CreatedBy   int64          `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	SentAt      *time.Time     `json:"sent_at"`
}

// CampaignLog records one delivery attempt within a campaign.
type CampaignLog struct {
	ID         int64     `json:"id"`
	CampaignID int64     `json:"campaign"`
	Email      string    `json:"email"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}
