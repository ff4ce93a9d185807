package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/portal-live/internal/domain/portal"
	"github.com/cmlabs-hris/portal-live/internal/handler/http/response"
	"github.com/cmlabs-hris/portal-live/internal/pkg/jwt"
	"github.com/cmlabs-hris/portal-live/internal/pkg/sse"
	"github.com/cmlabs-hris/portal-live/internal/service/liveupdate"
	"github.com/cmlabs-hris/portal-live/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

const streamKeepalive = 30 * time.Second

// PageHandler exposes the live page to remote viewers
type PageHandler interface {
	Snapshot(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	SetVisibility(w http.ResponseWriter, r *http.Request)
	RefreshCard(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	DismissAlert(w http.ResponseWriter, r *http.Request)

	// SSE
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

// LiveUpdater is the part of the live update client the handler drives
type LiveUpdater interface {
	Status() liveupdate.Status
	UpdateProfile(ctx context.Context, payload portal.ProfilePayload) bool
	DismissAlert(id string) bool
}

// Page is the document the live update client keeps in sync
type Page interface {
	Snapshot() view.PageSnapshot
	SetHidden(hidden bool)
	Click(id, name string) bool
}

type pageHandlerImpl struct {
	live       LiveUpdater
	page       Page
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

// NewPageHandler creates a new page handler
func NewPageHandler(live LiveUpdater, page Page, hub *sse.Hub, jwtService jwt.Service) PageHandler {
	return &pageHandlerImpl{
		live:       live,
		page:       page,
		hub:        hub,
		jwtService: jwtService,
		keepalive:  streamKeepalive,
	}
}

// VisibilityRequest flips page visibility
type VisibilityRequest struct {
	Hidden *bool `json:"hidden"`
}

// StreamTokenResponse is returned by GetStreamToken
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// CardRefreshResult names the card whose refresh control was clicked
type CardRefreshResult struct {
	Card      string `json:"card"`
	ElementID string `json:"element_id"`
}

// AlertDismissResult carries the alerts left on the page after a dismissal
type AlertDismissResult struct {
	AlertID string             `json:"alert_id"`
	Alerts  []view.PlacedAlert `json:"alerts"`
}

// ProfileUpdateResult is returned after a confirmed profile update
type ProfileUpdateResult struct {
	Alerts []view.Alert `json:"alerts"`
}

// StatusResponse combines the client status with stream subscribers
type StatusResponse struct {
	liveupdate.Status
	StreamSubscribers int `json:"stream_subscribers"`
}

// getViewerIDFromContext extracts viewer_id from JWT context
func getViewerIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if viewerID, ok := claims[jwt.ClaimViewerID].(string); ok {
		return viewerID
	}
	return ""
}

func (h *pageHandlerImpl) Snapshot(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.page.Snapshot())
}

func (h *pageHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, StatusResponse{
		Status:            h.live.Status(),
		StreamSubscribers: h.hub.TotalSubscribers(),
	})
}

func (h *pageHandlerImpl) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Hidden == nil {
		response.BadRequest(w, "Invalid request body", map[string]string{"hidden": "hidden is required"})
		return
	}

	h.page.SetHidden(*req.Hidden)
	response.SuccessWithMessage(w, "Visibility updated", h.live.Status().Scheduler)
}

func (h *pageHandlerImpl) RefreshCard(w http.ResponseWriter, r *http.Request) {
	card := chi.URLParam(r, "id")
	elementID := view.CardID(card)
	if !h.page.Click(elementID, liveupdate.RefreshControlName) {
		response.HandleError(w, portal.ErrCardNotFound)
		return
	}
	response.SuccessWithMessage(w, "Refresh requested", CardRefreshResult{
		Card:      card,
		ElementID: elementID,
	})
}

func (h *pageHandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var form portal.ProfileForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := form.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	payload, err := portal.NewMultipartProfilePayload(form.Fields())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !h.live.UpdateProfile(r.Context(), payload) {
		response.HandleError(w, portal.ErrProfileNotUpdated)
		return
	}

	alerts := []view.Alert{}
	for _, a := range h.page.Snapshot().Alerts {
		alerts = append(alerts, a.Alert)
	}
	response.SuccessWithMessage(w, "Profile updated", ProfileUpdateResult{Alerts: alerts})
}

func (h *pageHandlerImpl) DismissAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.live.DismissAlert(id) {
		response.HandleError(w, portal.ErrAlertNotFound)
		return
	}
	response.SuccessWithMessage(w, "Alert dismissed", AlertDismissResult{
		AlertID: id,
		Alerts:  h.page.Snapshot().Alerts,
	})
}

// GetStreamToken generates a short-lived token for the page stream
func (h *pageHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	viewerID := getViewerIDFromContext(r)
	if viewerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(viewerID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream sends page mutations as server-sent events
func (h *pageHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Token comes in the query string, EventSource cannot set headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	viewerID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.HandleError(w, portal.ErrInvalidToken)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.HandleError(w, portal.ErrStreamNotSupported)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(viewerID)
	defer cleanup()

	h.hub.Publish(viewerID, sse.Event{
		Event: "connected",
		Data: map[string]interface{}{
			"status":      "connected",
			"viewer_id":   viewerID,
			"subscribers": h.hub.SubscriberCount(viewerID),
		},
	})
	writeEvent(w, "snapshot", h.page.Snapshot())
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

// MutationSource is a page that reports its changes
type MutationSource interface {
	Subscribe(fn func(view.Mutation)) func()
}

// StreamMutations forwards every page mutation to all stream subscribers.
// It returns the function that stops forwarding.
func StreamMutations(page MutationSource, hub *sse.Hub) func() {
	return page.Subscribe(func(m view.Mutation) {
		hub.Broadcast(sse.Event{Event: string(m.Kind), Data: m})
	})
}
