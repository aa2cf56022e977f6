// Package handler exposes profile endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"houscan/internal/platform/middleware"
	"houscan/internal/subject"
	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
	"houscan/pkg/platform/httputil"
)

// Service defines the profile operations the HTTP layer needs.
type Service interface {
	Upsert(ctx context.Context, profile subject.Profile) (subject.Profile, error)
	Get(ctx context.Context, subjectID id.SubjectID) (subject.Profile, error)
}

// Handler handles profile endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new profile Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the profile routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/subjects/{subjectID}", h.handleUpsert)
	r.Get("/subjects/{subjectID}", h.handleGet)
}

type profileRequest struct {
	BirthCode            string `json:"birth_code"`
	Married              bool   `json:"married"`
	Residence            string `json:"residence"`
	IncomeTier           string `json:"income_tier"`
	TotalAssets          int64  `json:"total_assets"`
	VehicleValue         int64  `json:"vehicle_value"`
	Student              bool   `json:"student"`
	RecentGraduate       bool   `json:"recent_graduate"`
	Employed             bool   `json:"employed"`
	JobSeeker            bool   `json:"job_seeker"`
	WelfareRecipient     bool   `json:"welfare_recipient"`
	ParentsOwnHome       bool   `json:"parents_own_home"`
	DisabilityInFamily   bool   `json:"disability_in_family"`
	SubscriptionPayments int    `json:"subscription_payments"`
}

// handleUpsert saves the profile and lets the service decide whether the
// change warrants a fresh analysis run.
func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid profile request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	profile := subject.Profile{
		ID:                   subjectID,
		BirthCode:            req.BirthCode,
		Married:              req.Married,
		Residence:            req.Residence,
		IncomeTier:           req.IncomeTier,
		TotalAssets:          req.TotalAssets,
		VehicleValue:         req.VehicleValue,
		Student:              req.Student,
		RecentGraduate:       req.RecentGraduate,
		Employed:             req.Employed,
		JobSeeker:            req.JobSeeker,
		WelfareRecipient:     req.WelfareRecipient,
		ParentsOwnHome:       req.ParentsOwnHome,
		DisabilityInFamily:   req.DisabilityInFamily,
		SubscriptionPayments: req.SubscriptionPayments,
	}

	saved, err := h.service.Upsert(ctx, profile)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save profile",
			"request_id", requestID,
			"subject_id", subjectID.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "subjectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.service.Get(r.Context(), subjectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
