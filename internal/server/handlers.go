package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resumetailor/internal/scrapelog"
)

// maxBodyBytes bounds POST bodies; resumes are plain text.
const maxBodyBytes = 1 << 20

// tailorRequest is the body of POST /tailor.
type tailorRequest struct {
	JobURL     string `json:"jobUrl" validate:"required"`
	ResumeText string `json:"resumeText" validate:"required"`
}

type homeResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

type extractResponse struct {
	Description string `json:"description"`
}

type tailorResponse struct {
	TailoredResume string `json:"tailoredResume"`
}

type scrapeLogResponse struct {
	Entries []scrapelog.Entry `json:"entries"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, homeResponse{
		Message: "ResumeTailorAI is running!",
		Endpoints: []string{
			"GET /health",
			"GET /extract?url=",
			"POST /tailor",
			"GET /scrape-log",
		},
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		s.errorFromErr(w, &ErrValidation{Field: "url", Message: "query parameter is required"})
		return
	}

	description, err := s.extractDescription(r.Context(), url)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if description == "" {
		s.errorFromErr(w, &ErrNotFound{Message: "job description not found"})
		return
	}
	s.jsonResponse(w, http.StatusOK, extractResponse{Description: description})
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeTailorRequest(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	description, err := s.extractDescription(r.Context(), req.JobURL)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if description == "" {
		s.errorFromErr(w, &ErrValidation{Field: "jobUrl", Message: "could not extract a job description"})
		return
	}

	tailored, err := s.tailor.Tailor(r.Context(), description, req.ResumeText)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tailorResponse{TailoredResume: tailored})
}

func (s *Server) handleScrapeLog(w http.ResponseWriter, r *http.Request) {
	if s.scrapeLog == nil {
		s.errorFromErr(w, &ErrNotFound{Message: "scrape log is disabled"})
		return
	}

	entries, err := s.scrapeLog.List(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, scrapeLogResponse{Entries: entries})
}

// extractDescription returns "" for a not-found result. Successful
// extractions are appended to the scrape log; a log failure is only logged.
func (s *Server) extractDescription(ctx context.Context, url string) (string, error) {
	result, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return "", err
	}
	if !result.Found {
		log.Printf("[EXTRACT] no description for %s (reason=%s attempts=%d) id=%s",
			url, result.Reason, result.Attempts, RequestID(ctx))
		return "", nil
	}

	if s.scrapeLog != nil {
		entry := scrapelog.Entry{
			Source:      string(result.Platform),
			URL:         result.URL,
			Description: result.Description,
		}
		if err := s.scrapeLog.Append(ctx, entry); err != nil {
			log.Printf("[SCRAPELOG] append failed for %s: %v id=%s", url, err, RequestID(ctx))
		}
	}
	return result.Description, nil
}

// decodeTailorRequest accepts a JSON body, or form and query parameters.
func (s *Server) decodeTailorRequest(r *http.Request) (*tailorRequest, error) {
	var req tailorRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
		}
	} else {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, &ErrValidation{Field: "body", Message: "invalid form: " + err.Error()}
		}
		req.JobURL = r.FormValue("jobUrl")
		req.ResumeText = r.FormValue("resumeText")
	}

	req.JobURL = strings.TrimSpace(req.JobURL)
	if strings.TrimSpace(req.ResumeText) == "" {
		req.ResumeText = ""
	}

	if err := s.validate.Struct(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, &ErrValidation{Field: fieldErrs[0].Field(), Message: "is required"}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return &req, nil
}
