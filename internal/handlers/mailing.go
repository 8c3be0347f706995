package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"lislab/internal/mail"
	"lislab/internal/middleware"
	"lislab/internal/models"
	"lislab/internal/store"
)

// Mailing groups the subscription and campaign handlers.
type Mailing struct {
	mailing    *store.MailingStore
	dispatcher *mail.Dispatcher
}

// NewMailing creates the mailing handler group.
func NewMailing(mailing *store.MailingStore, dispatcher *mail.Dispatcher) *Mailing {
	return &Mailing{mailing: mailing, dispatcher: dispatcher}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe signs an email address up for the newsletter. Works for
// guests; a logged-in member's subscription is linked to the account.
func (h *Mailing) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var userID *int64
	if v := middleware.Viewer(r.Context()); v != nil {
		userID = &v.UserID
	}

	if _, err := h.mailing.Subscribe(req.Email, userID); err != nil {
		writeServerError(w, "subscribe failed", err)
		return
	}
	writeDetail(w, http.StatusCreated, "메일링 구독이 완료되었습니다.")
}

// Unsubscribe deactivates the subscription matching the token from the
// mail footer link. No authentication: the token is the credential.
func (h *Mailing) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	tok, err := uuid.Parse(chi.URLParam(r, "token"))
	if err != nil {
		writeNotFound(w)
		return
	}

	ok, err := h.mailing.Unsubscribe(tok)
	if err != nil {
		writeServerError(w, "unsubscribe failed", err)
		return
	}
	if !ok {
		writeNotFound(w)
		return
	}
	writeDetail(w, http.StatusOK, "수신 거부가 완료되었습니다.")
}

// Status reports whether the viewer's email is subscribed.
func (h *Mailing) Status(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	sub, err := h.mailing.FindSubscriptionByEmail(viewer.Email)
	if err != nil {
		writeServerError(w, "subscription lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"subscribed": sub != nil && sub.IsActive,
	})
}

type preferenceRequest struct {
	Subscribed bool `json:"subscribed"`
}

// SetPreference subscribes or unsubscribes the viewer's own email,
// the account-settings counterpart of the public subscribe form.
func (h *Mailing) SetPreference(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req preferenceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Subscribed {
		if _, err := h.mailing.Subscribe(viewer.Email, &viewer.UserID); err != nil {
			writeServerError(w, "subscribe failed", err)
			return
		}
	} else {
		if err := h.mailing.UnsubscribeEmail(viewer.Email); err != nil {
			writeServerError(w, "unsubscribe failed", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"subscribed": req.Subscribed})
}

// ListSubscriptions serves every subscription for the admin screen.
func (h *Mailing) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.mailing.ListSubscriptions()
	if err != nil {
		writeServerError(w, "list subscriptions failed", err)
		return
	}
	if subs == nil {
		subs = []models.MailingSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

type campaignRequest struct {
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	ContentHTML string `json:"content_html"`
	ContentText string `json:"content_text"`
}

// CreateCampaign drafts a campaign. Admin only.
func (h *Mailing) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req campaignRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.ContentHTML, validation.Required),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	viewer := middleware.Viewer(r.Context())
	campaign, err := h.mailing.CreateCampaign(req.Title, req.Subject, req.ContentHTML, req.ContentText, viewer.UserID)
	if err != nil {
		writeServerError(w, "create campaign failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

// ListCampaigns serves all campaigns. Admin only.
func (h *Mailing) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.mailing.ListCampaigns()
	if err != nil {
		writeServerError(w, "list campaigns failed", err)
		return
	}
	if campaigns == nil {
		campaigns = []models.EmailCampaign{}
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// SendCampaign dispatches a campaign to all active subscribers. Admin
// only. The send runs synchronously; campaigns here are small.
func (h *Mailing) SendCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w)
		return
	}

	campaign, err := h.mailing.FindCampaign(campaignID)
	if err != nil {
		writeServerError(w, "campaign lookup failed", err)
		return
	}
	if campaign == nil {
		writeNotFound(w)
		return
	}

	sent, failed, err := h.dispatcher.Dispatch(r.Context(), campaign)
	if err != nil {
		writeServerError(w, "campaign dispatch failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"sent":   sent,
		"failed": failed,
	})
}

// CampaignLogs serves the per-recipient delivery log of one campaign.
// Admin only.
func (h *Mailing) CampaignLogs(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w)
		return
	}

	logs, err := h.mailing.CampaignLogs(campaignID)
	if err != nil {
		writeServerError(w, "list campaign logs failed", err)
		return
	}
	if logs == nil {
		logs = []models.CampaignLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
