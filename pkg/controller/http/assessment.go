package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

// cacheHeader reports whether the response was served from a prior result
const cacheHeader = "X-Themis-Cache"

type errorResponse struct {
	Error string `json:"error"`
}

type proposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// toProposal builds the domain proposal. The authenticated subject fills
// requested_by when the body leaves it empty.
func (req *proposalRequest) toProposal(subject string) model.Proposal {
	requestedBy := req.RequestedBy
	if requestedBy == "" {
		requestedBy = subject
	}

	return model.Proposal{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  types.CategoryID(req.CategoryID),
		TeamID:      types.TeamID(req.TeamID),
		RequestedBy: requestedBy,
		Source:      model.Source{Kind: model.SourceKindAPI},
	}
}

type proposalResponse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
	SourceKind  string `json:"source_kind"`
	SourceRef   string `json:"source_ref,omitempty"`
}

type factorsResponse struct {
	Scope           types.Scope           `json:"scope"`
	Severity        types.Severity        `json:"severity"`
	HumanImpact     types.HumanImpact     `json:"human_impact"`
	TimeSensitivity types.TimeSensitivity `json:"time_sensitivity"`
}

type assessmentResponse struct {
	ID              string           `json:"id"`
	Fingerprint     string           `json:"fingerprint"`
	Proposal        proposalResponse `json:"proposal"`
	Factors         factorsResponse  `json:"factors"`
	Level           types.RiskLevel  `json:"level"`
	OrgCapTriggered bool             `json:"org_cap_triggered"`
	Trace           []string         `json:"trace"`
	Summary         string           `json:"summary,omitempty"`
	ModelName       string           `json:"model_name,omitempty"`
	CachedFrom      string           `json:"cached_from,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func newAssessmentResponse(a *model.Assessment) assessmentResponse {
	return assessmentResponse{
		ID:          string(a.ID),
		Fingerprint: a.Fingerprint,
		Proposal: proposalResponse{
			Title:       a.Proposal.Title,
			Description: a.Proposal.Description,
			CategoryID:  string(a.Proposal.CategoryID),
			TeamID:      string(a.Proposal.TeamID),
			RequestedBy: a.Proposal.RequestedBy,
			SourceKind:  string(a.Proposal.Source.Kind),
			SourceRef:   a.Proposal.Source.Ref,
		},
		Factors: factorsResponse{
			Scope:           a.Factors.Scope,
			Severity:        a.Factors.Severity,
			HumanImpact:     a.Factors.HumanImpact,
			TimeSensitivity: a.Factors.TimeSensitivity,
		},
		Level:           a.Classification.Level,
		OrgCapTriggered: a.Classification.OrgCapTriggered,
		Trace:           a.Trace,
		Summary:         a.Summary,
		ModelName:       a.ModelName,
		CachedFrom:      string(a.CachedFrom),
		CreatedAt:       a.CreatedAt,
	}
}

// submitAssessmentHandler runs the assessment pipeline for a posted proposal
func submitAssessmentHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req proposalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		proposal := req.toProposal(subjectFromContext(r.Context()))

		result, err := uc.Assess(r.Context(), proposal)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidProposal) {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		if result.CacheHit {
			w.Header().Set(cacheHeader, "hit")
		} else {
			w.Header().Set(cacheHeader, "miss")
		}

		writeJSON(r.Context(), w, http.StatusOK, newAssessmentResponse(result.Assessment))
	}
}

// getAssessmentHandler returns a stored assessment by ID
func getAssessmentHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		assessment, err := uc.Get(r.Context(), model.AssessmentID(id))
		if err != nil {
			if errors.Is(err, usecase.ErrAssessmentNotFound) {
				writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: "assessment not found"})
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, newAssessmentResponse(assessment))
	}
}

// listAssessmentsHandler returns stored assessments, newest first
func listAssessmentsHandler(uc *usecase.AssessmentUseCase) http.HandlerFunc {
	type listResponse struct {
		Assessments []assessmentResponse `json:"assessments"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var opts []interfaces.ListAssessmentOption

		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
				return
			}
			opts = append(opts, interfaces.WithLimit(limit))
		}

		if raw := r.URL.Query().Get("level"); raw != "" {
			level, err := types.ParseRiskLevel(raw)
			if err != nil {
				writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "invalid level parameter"})
				return
			}
			opts = append(opts, interfaces.WithLevel(level))
		}

		assessments, err := uc.List(r.Context(), opts...)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		resp := listResponse{Assessments: make([]assessmentResponse, len(assessments))}
		for i, a := range assessments {
			resp.Assessments[i] = newAssessmentResponse(a)
		}

		writeJSON(r.Context(), w, http.StatusOK, resp)
	}
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}
