package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/snapledger/snapledger/internal/extraction"
)

// maxUploadSize caps receipt uploads at 50MB to accommodate
// high-resolution phone photos. A variable so tests can lower it.
var maxUploadSize = int64(50 << 20)

// corsError writes an error response with CORS headers set.
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// jsonError writes a JSON error body with CORS headers set.
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleIndex serves the embedded HTML interface.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleExtract runs extraction on an uploaded receipt image and
// returns the unsaved record. The upload_token form value is echoed
// back so the client can discard results for images it is no longer
// showing.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	rec, err := s.service.Analyze(r.Context(), header.Filename, data, contentType)
	if err != nil {
		if errors.Is(err, extraction.ErrUnparseable) {
			jsonError(w, "Could not read transaction details from this receipt. Please try another photo or enter the transaction manually.", http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, "The receipt analysis service is unavailable. Please try again.", http.StatusBadGateway)
		return
	}

	response := struct {
		Record
		UploadToken string `json:"upload_token,omitempty"`
	}{
		Record:      *rec,
		UploadToken: r.FormValue("upload_token"),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// contentTypeFromExtension maps common receipt file extensions to MIME
// types when the browser did not set one.
func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleMeta serves the category and period vocabulary, so the client
// renders from the same fixed sets the server validates against
// instead of carrying its own copies.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	type categoryMeta struct {
		Name  string `json:"name"`
		Style string `json:"style"`
	}
	type periodMeta struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	categories := make([]categoryMeta, 0, len(Categories))
	for _, c := range Categories {
		categories = append(categories, categoryMeta{Name: string(c), Style: c.Style()})
	}
	periods := make([]periodMeta, 0, len(Periods))
	for _, p := range Periods {
		periods = append(periods, periodMeta{Value: string(p), Label: p.Label()})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"categories": categories,
		"periods":    periods,
	}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleSaveTransaction validates and saves a reviewed record.
func (s *Server) handleSaveTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Record
		Source Source `json:"source"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = SourceScan
	}

	saved, err := s.service.Save(r.Context(), req.Record, req.Source)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			jsonError(w, verr.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Error("Error saving transaction", "error", err)
		jsonError(w, "Could not save the transaction. Your data has not been changed.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(saved); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListTransactions returns the flat view for the requested
// period.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		corsError(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := s.service.History(r.Context(), period)
	if err != nil {
		// An unreadable store reads as empty; the user still gets
		// a page.
		slog.Error("Error listing transactions", "error", err)
	}
	if records == nil {
		records = []SavedRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleSummary returns the category breakdown for the requested
// period.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		corsError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if period == PeriodAll {
		corsError(w, "the All period has no summary view", http.StatusBadRequest)
		return
	}

	summaries, err := s.service.Summary(r.Context(), period)
	if err != nil {
		slog.Error("Error summarizing transactions", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []CategorySummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleDeleteTransaction deletes a transaction by ID. Deleting an
// unknown ID still succeeds.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Transaction ID required", http.StatusBadRequest)
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		slog.Error("Error deleting transaction", "id", id, "error", err)
		jsonError(w, "Could not delete the transaction. Your data has not been changed.", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleExport serves the CSV download matching the on-screen view.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		corsError(w, err.Error(), http.StatusBadRequest)
		return
	}
	summary := r.URL.Query().Get("view") == "summary"

	filename, payload, err := s.service.ExportCSV(r.Context(), period, summary)
	if err != nil {
		slog.Error("Error exporting transactions", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(payload))
}

// handleEvents streams collection changes as Server-Sent Events, one
// full collection snapshot per event.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		corsError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, err := s.service.Watch(r.Context())
	if err != nil {
		slog.Error("Error subscribing to transaction changes", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		case records, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(records)
			if err != nil {
				slog.Error("Error encoding event", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleStaticCSS serves the stylesheet.
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the client script.
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
