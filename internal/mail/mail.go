// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail delivers newsletter campaigns over SMTP. Sending is
// sequential per campaign; delivery outcomes are logged per recipient
// and summarized on the campaign row.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"lislab/internal/config"
	"lislab/internal/models"
	"lislab/internal/store"
)

// Sender delivers one message. Implemented by smtpSender in production
// and by fakes in tests.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// smtpSender sends through the configured SMTP relay.
type smtpSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender builds a Sender from the SMTP configuration.
func NewSMTPSender(cfg *config.Config) Sender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &smtpSender{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// Dispatcher runs campaign sends.
type Dispatcher struct {
	sender  Sender
	mailing *store.MailingStore
	baseURL string
}

// NewDispatcher creates a campaign dispatcher.
func NewDispatcher(sender Sender, mailing *store.MailingStore, baseURL string) *Dispatcher {
	return &Dispatcher{sender: sender, mailing: mailing, baseURL: baseURL}
}

// Dispatch claims the campaign and sends it to every active subscriber.
// Returns the sent and failed counts. A false claim means another
// dispatcher already took the campaign.
func (d *Dispatcher) Dispatch(ctx context.Context, campaign *models.EmailCampaign) (sent, failed int, err error) {
	claimed, err := d.mailing.MarkCampaignSending(campaign.ID)
	if err != nil {
		return 0, 0, err
	}
	if !claimed {
		return 0, 0, fmt.Errorf("campaign %d is not in a sendable state", campaign.ID)
	}

	subs, err := d.mailing.ActiveSubscriptions()
	if err != nil {
		return 0, 0, err
	}

	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}

		body := d.withUnsubscribeFooter(campaign.ContentHTML, sub)
		sendErr := d.sender.Send(sub.Email, campaign.Subject, body)
		if sendErr != nil {
			failed++
			slog.Warn("campaign delivery failed",
				"campaign", campaign.ID, "email", sub.Email, "error", sendErr)
		} else {
			sent++
		}

		errMsg := ""
		if sendErr != nil {
			errMsg = sendErr.Error()
		}
		if logErr := d.mailing.LogDelivery(campaign.ID, sub.Email, sendErr == nil, errMsg); logErr != nil {
			slog.Error("campaign log write failed", "campaign", campaign.ID, "error", logErr)
		}
	}

	if err := d.mailing.FinishCampaign(campaign.ID, sent, failed); err != nil {
		return sent, failed, err
	}
	return sent, failed, nil
}

// withUnsubscribeFooter appends the per-recipient opt-out link.
func (d *Dispatcher) withUnsubscribeFooter(html string, sub models.MailingSubscription) string {
	link := fmt.Sprintf("%s/api/mailing/unsubscribe/%s/", d.baseURL, sub.UnsubscribeToken)
	return html + fmt.Sprintf(
		`<hr><p style="font-size:12px;color:#888">수신을 원하지 않으시면 <a href="%s">수신 거부</a>를 눌러주세요.</p>`,
		link)
}
