// Package handler exposes announcement endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"houscan/internal/analysis"
	"houscan/internal/announcement"
	"houscan/internal/platform/middleware"
	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
	"houscan/pkg/platform/httputil"
)

// Handler handles announcement endpoints. Application status is derived at
// response time from the stored period text.
type Handler struct {
	logger *slog.Logger
	store  announcement.Store
	now    func() time.Time
}

// New creates a new announcement Handler.
func New(store announcement.Store, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, store: store, now: time.Now}
}

// Register registers the announcement routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/announcements/{announcementID}", h.handleUpsert)
	r.Get("/announcements/{announcementID}", h.handleGet)
	r.Get("/announcements", h.handleList)
}

type announcementRequest struct {
	Title             string                  `json:"title"`
	Criteria          string                  `json:"criteria"`
	ApplicationPeriod string                  `json:"application_period"`
	ReferenceDate     string                  `json:"reference_date"`
	Tiers             []analysis.PriorityTier `json:"tiers"`
}

type announcementResponse struct {
	announcement.Announcement
	Status announcement.Status `json:"status"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	announcementID, err := id.ParseAnnouncementID(chi.URLParam(r, "announcementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid announcement request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Title == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "title is required"))
		return
	}

	a := announcement.Announcement{
		ID:                announcementID,
		Title:             req.Title,
		Criteria:          req.Criteria,
		ApplicationPeriod: req.ApplicationPeriod,
		ReferenceDate:     req.ReferenceDate,
		Tiers:             req.Tiers,
		UpdatedAt:         h.now(),
	}
	if err := h.store.Save(ctx, a); err != nil {
		h.logger.ErrorContext(ctx, "failed to save announcement",
			"request_id", requestID,
			"announcement_id", announcementID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.withStatus(a))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	announcementID, err := id.ParseAnnouncementID(chi.URLParam(r, "announcementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.store.FindByID(r.Context(), announcementID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.withStatus(a))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]announcementResponse, 0, len(all))
	for _, a := range all {
		out = append(out, h.withStatus(a))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) withStatus(a announcement.Announcement) announcementResponse {
	return announcementResponse{Announcement: a, Status: a.StatusAt(h.now())}
}
