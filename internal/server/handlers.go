package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sells-group/profilegen/internal/analyze"
	"github.com/sells-group/profilegen/internal/apperr"
	"github.com/sells-group/profilegen/internal/health"
	"github.com/sells-group/profilegen/internal/model"
	"github.com/sells-group/profilegen/internal/templates"
)

type generateResponse struct {
	Success  bool                     `json:"success"`
	Profile  model.CompanyProfile     `json:"profile_data"`
	Metadata model.GenerationMetadata `json:"metadata"`
	Message  string                   `json:"message"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request body", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.orch.Submit(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Profile generated successfully"
	switch {
	case result.Metadata.CacheHit:
		message = "Profile served from cache"
	case result.Metadata.ProcessingMethod == model.ProcessingDegraded:
		message = "Profile generated with reduced fidelity"
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:  true,
		Profile:  result.Profile,
		Metadata: result.Metadata,
		Message:  message,
	})
}

type asyncResponse struct {
	Success      bool   `json:"success"`
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

func (s *Server) handleGenerateAsync(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request body", nil))
		return
	}

	j, err := s.orch.SubmitAsync(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, asyncResponse{
		Success:      true,
		GenerationID: j.ID,
		Status:       string(j.State()),
		Message:      "Profile generation started. Poll the status endpoint for progress.",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generationID")

	j, ok := s.orch.Lookup(id)
	if !ok {
		writeError(w, apperr.New(apperr.KindNotFound, "generation not found"))
		return
	}

	writeJSON(w, http.StatusOK, j.Snapshot())
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generationID")

	j, ok := s.orch.Lookup(id)
	if !ok {
		writeError(w, apperr.New(apperr.KindNotFound, "generation not found"))
		return
	}

	result, jobErr, ready := j.Outcome()
	if !ready {
		writeJSON(w, http.StatusAccepted, asyncResponse{
			Success:      false,
			GenerationID: j.ID,
			Status:       string(j.State()),
			Message:      "Generation not yet completed",
		})
		return
	}
	if jobErr != nil {
		writeError(w, jobErr)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:  true,
		Profile:  result.Profile,
		Metadata: result.Metadata,
		Message:  "Profile generated successfully",
	})
}

type batchRequest struct {
	Requests []model.GenerationRequest `json:"requests"`
}

type batchResponse struct {
	Success       bool     `json:"success"`
	BatchID       string   `json:"batch_id"`
	GenerationIDs []string `json:"generation_ids"`
	TotalRequests int      `json:"total_requests"`
	Status        string   `json:"status"`
}

func (s *Server) handleBatchGenerate(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid request body", nil))
		return
	}
	if len(req.Requests) == 0 {
		writeError(w, apperr.Validation("at least one request is required", nil))
		return
	}

	ids := make([]string, 0, len(req.Requests))
	for i, item := range req.Requests {
		j, err := s.orch.SubmitAsync(r.Context(), item)
		if err != nil {
			writeError(w, apperr.Wrap(apperr.KindOf(err), fmt.Sprintf("batch item %d rejected", i), err).
				WithDetails(apperr.DetailsOf(err)))
			return
		}
		ids = append(ids, j.ID)
	}

	writeJSON(w, http.StatusAccepted, batchResponse{
		Success:       true,
		BatchID:       "batch_" + uuid.NewString()[:8],
		GenerationIDs: ids,
		TotalRequests: len(ids),
		Status:        "started",
	})
}

// sourceDetail is the per-URL entry of the analysis response.
type sourceDetail struct {
	URL            string          `json:"url"`
	Status         string          `json:"status"`
	ContentLength  int             `json:"content_length"`
	ResponseTimeMS int64           `json:"response_time_ms"`
	Strategy       string          `json:"strategy"`
	HasCompanyInfo bool            `json:"has_company_info"`
	Sections       []model.Section `json:"sections,omitempty"`
	Error          string          `json:"error,omitempty"`
}

type sourceAnalysis struct {
	TotalSources         int                `json:"total_sources"`
	ValidSources         int                `json:"valid_sources"`
	SuccessfulScrapes    int                `json:"successful_scrapes"`
	FailedScrapes        int                `json:"failed_scrapes"`
	TotalContentLength   int                `json:"total_content_length"`
	AverageContentLength float64            `json:"average_content_length"`
	SourceQuality        string             `json:"source_quality"`
	DomainsAnalyzed      []string           `json:"domains_analyzed"`
	DetailedResults      []sourceDetail     `json:"detailed_results"`
	SkippedURLs          []model.InvalidURL `json:"skipped_urls,omitempty"`
	AnalysisTimestamp    string             `json:"analysis_timestamp"`
}

type analyzeResponse struct {
	Success         bool           `json:"success"`
	Analysis        sourceAnalysis `json:"analysis"`
	Recommendations []string       `json:"recommendations"`
	Message         string         `json:"message"`
}

func (s *Server) handleAnalyzeSources(w http.ResponseWriter, r *http.Request) {
	urls := r.URL.Query()["urls"]
	if len(urls) == 0 {
		writeError(w, apperr.Validation("at least one urls query parameter is required", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	bundle, skipped, err := s.gen.AnalyzeSources(ctx, urls)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:         true,
		Analysis:        toSourceAnalysis(bundle, len(urls), skipped),
		Recommendations: bundle.Recommendations,
		Message:         "Source analysis complete",
	})
}

func toSourceAnalysis(b analyze.EvidenceBundle, requested int, skipped []model.InvalidURL) sourceAnalysis {
	details := make([]sourceDetail, 0, len(b.Sources))
	for _, src := range b.Sources {
		details = append(details, sourceDetail{
			URL:            src.Result.URL.Normalized,
			Status:         string(src.Result.Status),
			ContentLength:  src.Result.ContentLength,
			ResponseTimeMS: src.Result.Latency.Milliseconds(),
			Strategy:       string(src.Result.Strategy),
			HasCompanyInfo: src.Report.HasCompanyInfo,
			Sections:       src.Report.Sections,
			Error:          src.Result.FailureReason,
		})
	}
	return sourceAnalysis{
		TotalSources:         requested,
		ValidSources:         b.TotalSources,
		SuccessfulScrapes:    b.SuccessfulScrapes,
		FailedScrapes:        b.FailedScrapes,
		TotalContentLength:   b.TotalContentLength,
		AverageContentLength: b.AverageContentLength,
		SourceQuality:        string(b.Quality),
		DomainsAnalyzed:      b.Domains,
		DetailedResults:      details,
		SkippedURLs:          skipped,
		AnalysisTimestamp:    b.AnalyzedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type templatesResponse struct {
	Success   bool                          `json:"success"`
	Templates map[string]templates.Template `json:"templates"`
	Message   string                        `json:"message"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	byName := make(map[string]templates.Template)
	for _, t := range templates.All() {
		byName[t.Name] = t
	}
	writeJSON(w, http.StatusOK, templatesResponse{
		Success:   true,
		Templates: byName,
		Message:   "Available profile templates",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.checker.Run(r.Context())

	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
