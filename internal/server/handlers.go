package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/documind/ai-service/internal/extractor"
	"github.com/documind/ai-service/internal/history"
	"github.com/documind/ai-service/internal/rag"
	"github.com/documind/ai-service/internal/storage"
)

// ProcessDocumentRequest is the indexing request body.
type ProcessDocumentRequest struct {
	DocumentID string `json:"documentId"`
	FilePath   string `json:"filePath"`
}

// QueryRequest is the question request body. TopK is optional; the
// configured default applies when it is zero.
type QueryRequest struct {
	DocumentID string `json:"documentId"`
	Query      string `json:"query"`
	TopK       int    `json:"topK,omitempty"`
}

// errorResponse is the JSON error body, shaped for the upstream backend.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Detail: msg})
}

// statusFor maps pipeline failures to HTTP statuses: missing files and
// unindexed documents are 404, unsupported formats 400, everything else
// an internal failure with the underlying message preserved.
func statusFor(err error) int {
	switch {
	case errors.Is(err, extractor.ErrFileNotFound),
		errors.Is(err, rag.ErrDocumentNotIndexed),
		errors.Is(err, storage.ErrCollectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" || req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "documentId and filePath are required")
		return
	}

	s.logger.Info("Processing document", "document_id", req.DocumentID, "path", req.FilePath)
	result, err := s.pipeline.ProcessDocument(r.Context(), req.DocumentID, req.FilePath)
	if err != nil {
		s.logger.Error("Processing failed", "document_id", req.DocumentID, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, "documentId and query are required")
		return
	}

	s.logger.Info("Querying document", "document_id", req.DocumentID)
	result, err := s.pipeline.Query(r.Context(), req.DocumentID, req.Query, req.TopK)
	if err != nil {
		s.logger.Error("Query failed", "document_id", req.DocumentID, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	// History is best effort: a write failure never fails the query.
	if s.historyDB != nil {
		entry := history.Entry{
			DocumentID:     req.DocumentID,
			Query:          req.Query,
			Answer:         result.Answer,
			Confidence:     result.Confidence,
			ProcessingTime: result.ProcessingTime,
		}
		if err := s.historyDB.Record(r.Context(), entry); err != nil {
			s.logger.Warn("Failed to record query history", "document_id", req.DocumentID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	if s.historyDB == nil {
		writeError(w, http.StatusNotFound, "query history is not enabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := s.historyDB.List(r.Context(), documentID, limit)
	if err != nil {
		s.logger.Error("Failed to list query history", "document_id", documentID, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documentId": documentID,
		"history":    entries,
	})
}

// healthResponse is the health check body.
type healthResponse struct {
	Status    string `json:"status"`
	Qdrant    string `json:"qdrant"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.health.Health(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Qdrant = "disconnected"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = "healthy"
	resp.Qdrant = "connected"
	writeJSON(w, http.StatusOK, resp)
}
