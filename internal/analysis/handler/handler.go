// Package handler exposes analysis endpoints: triggering runs and reading
// verdicts, summaries, and progress.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"houscan/internal/analysis"
	"houscan/internal/platform/middleware"
	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
	"houscan/pkg/platform/httputil"
)

// Service defines the analysis operations the HTTP layer needs.
type Service interface {
	Trigger(ctx context.Context, subjectID id.SubjectID) error
	Verdicts(ctx context.Context, subjectID id.SubjectID) ([]analysis.Verdict, error)
	Verdict(ctx context.Context, subjectID id.SubjectID, announcementID id.AnnouncementID) (analysis.Verdict, error)
	Summary(ctx context.Context, subjectID id.SubjectID) (analysis.Summary, error)
	Progress(ctx context.Context, subjectID id.SubjectID) (done, total int, err error)
}

// Handler handles analysis endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new analysis Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the analysis routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subjects/{subjectID}/analysis", h.handleTrigger)
	r.Get("/subjects/{subjectID}/verdicts", h.handleListVerdicts)
	r.Get("/subjects/{subjectID}/verdicts/{announcementID}", h.handleGetVerdict)
	r.Get("/subjects/{subjectID}/summary", h.handleGetSummary)
}

// handleTrigger accepts an analysis run. The work happens on the background
// worker; 202 means accepted, 409 means a run is already in flight.
func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Trigger(ctx, subjectID); err != nil {
		if errors.Is(err, analysis.ErrAlreadyRunning) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to accept analysis run",
			"request_id", requestID,
			"subject_id", subjectID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
	})
}

func (h *Handler) handleListVerdicts(w http.ResponseWriter, r *http.Request) {
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verdicts, err := h.service.Verdicts(r.Context(), subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if verdicts == nil {
		verdicts = []analysis.Verdict{}
	}
	httputil.WriteJSON(w, http.StatusOK, verdicts)
}

func (h *Handler) handleGetVerdict(w http.ResponseWriter, r *http.Request) {
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	announcementID, err := id.ParseAnnouncementID(chi.URLParam(r, "announcementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verdict, err := h.service.Verdict(r.Context(), subjectID, announcementID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verdict)
}

type summaryResponse struct {
	analysis.Summary
	Running bool `json:"running"`
	Done    int  `json:"done,omitempty"`
	Total   int  `json:"total,omitempty"`
	HasRun  bool `json:"has_run"`
}

// handleGetSummary returns the latest run summary together with live
// progress. A subject with a run in flight but no finished summary yet gets
// running=true and an empty summary body.
func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := summaryResponse{}

	summary, err := h.service.Summary(ctx, subjectID)
	switch {
	case err == nil:
		resp.Summary = summary
		resp.HasRun = true
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		// No summary yet; the progress check below decides the story.
	default:
		httputil.WriteError(w, err)
		return
	}

	done, total, err := h.service.Progress(ctx, subjectID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read progress",
			"subject_id", subjectID.String(),
			"error", err.Error(),
		)
	} else if total > 0 {
		resp.Running = true
		resp.Done = done
		resp.Total = total
	}

	if !resp.HasRun && !resp.Running {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no analysis recorded for subject"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
