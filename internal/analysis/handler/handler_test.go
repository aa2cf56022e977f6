package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houscan/internal/analysis"
	id "houscan/pkg/domain"
	dErrors "houscan/pkg/domain-errors"
)

type stubService struct {
	triggerErr error
	verdicts   []analysis.Verdict
	verdictErr error
	summary    analysis.Summary
	summaryErr error
	done       int
	total      int
}

func (s *stubService) Trigger(context.Context, id.SubjectID) error { return s.triggerErr }

func (s *stubService) Verdicts(context.Context, id.SubjectID) ([]analysis.Verdict, error) {
	return s.verdicts, s.verdictErr
}

func (s *stubService) Verdict(context.Context, id.SubjectID, id.AnnouncementID) (analysis.Verdict, error) {
	if len(s.verdicts) == 0 {
		return analysis.Verdict{}, dErrors.New(dErrors.CodeNotFound, "verdict not found")
	}
	return s.verdicts[0], s.verdictErr
}

func (s *stubService) Summary(context.Context, id.SubjectID) (analysis.Summary, error) {
	return s.summary, s.summaryErr
}

func (s *stubService) Progress(context.Context, id.SubjectID) (int, int, error) {
	return s.done, s.total, nil
}

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)
	return r
}

func TestHandleTrigger_Accepted(t *testing.T) {
	router := newTestRouter(&stubService{})
	subjectID := uuid.NewString()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subjects/"+subjectID+"/analysis", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "accepted", body["status"])
}

func TestHandleTrigger_AlreadyRunningIs409(t *testing.T) {
	router := newTestRouter(&stubService{triggerErr: analysis.ErrAlreadyRunning})
	subjectID := uuid.NewString()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subjects/"+subjectID+"/analysis", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflict")
}

func TestHandleTrigger_BadSubjectIDIs400(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subjects/not-a-uuid/analysis", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListVerdicts_EmptyIsJSONArray(t *testing.T) {
	router := newTestRouter(&stubService{})
	subjectID := uuid.NewString()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects/"+subjectID+"/verdicts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleGetVerdict_NotFoundIs404(t *testing.T) {
	router := newTestRouter(&stubService{})

	rec := httptest.NewRecorder()
	target := "/subjects/" + uuid.NewString() + "/verdicts/" + uuid.NewString()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetSummary_IncludesProgressWhileRunning(t *testing.T) {
	subjectID := id.SubjectID(uuid.New())
	svc := &stubService{
		summaryErr: dErrors.New(dErrors.CodeNotFound, "summary not found"),
		done:       3,
		total:      10,
	}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects/"+subjectID.String()+"/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Running bool `json:"running"`
		Done    int  `json:"done"`
		Total   int  `json:"total"`
		HasRun  bool `json:"has_run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Running)
	assert.Equal(t, 3, body.Done)
	assert.Equal(t, 10, body.Total)
	assert.False(t, body.HasRun)
}

func TestHandleGetSummary_NoRunEverIs404(t *testing.T) {
	svc := &stubService{summaryErr: dErrors.New(dErrors.CodeNotFound, "summary not found")}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects/"+uuid.NewString()+"/summary", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetSummary_FinishedRun(t *testing.T) {
	subjectID := id.SubjectID(uuid.New())
	svc := &stubService{
		summary: analysis.Summary{
			SubjectID:   subjectID,
			AnyEligible: true,
			Report:      analysis.RunReport{Total: 4, Analyzed: 4, Eligible: 2},
			UpdatedAt:   time.Now(),
		},
	}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects/"+subjectID.String()+"/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AnyEligible bool `json:"any_eligible"`
		Running     bool `json:"running"`
		HasRun      bool `json:"has_run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.HasRun)
	assert.True(t, body.AnyEligible)
	assert.False(t, body.Running)
}
