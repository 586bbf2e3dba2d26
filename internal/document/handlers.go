package document

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// maxUploadSize caps uploads at 50MB to handle high-resolution phone photos
const maxUploadSize = int64(50 << 20)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-api-key")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSONError writes an {"error": ...} body with the given status
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// corsError writes a JSON error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	writeJSONError(w, message, code)
}

// handlePing is the open liveness probe
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "API is running",
	})
}

// parseResponse is the payload returned for a parsed upload
type parseResponse struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	SizeBytes     int64  `json:"size_bytes"`
	Vendor        string `json:"vendor,omitempty"`
	Date          string `json:"date,omitempty"`
	Total         string `json:"total,omitempty"`
	ExtractedText string `json:"extracted_text,omitempty"`
}

// handleParse accepts a multipart upload and runs the parsing pipeline
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		corsError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		corsError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		corsError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		corsError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	doc, err := s.service.ParseDocument(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error parsing document", "filename", header.Filename, "error", err)
		corsError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := parseResponse{
		ID:            doc.ID,
		Filename:      header.Filename,
		SizeBytes:     doc.SizeBytes,
		Vendor:        doc.Vendor,
		Date:          doc.Date,
		Total:         doc.Total,
		ExtractedText: doc.ExtractedText,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// contentTypeFromExtension guesses a MIME type for untagged uploads
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

// handleListDocuments returns summaries of all stored documents
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.service.ListDocuments()
	if err != nil {
		slog.Error("Error listing documents", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	summaries := make([]Summary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, doc.Summary())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetDocument returns a single document including its extracted text
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Document ID required", http.StatusBadRequest)
		return
	}
	doc, err := s.service.GetDocument(id)
	if err != nil {
		corsError(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetDocumentFile returns the original upload for a document
func (s *Server) handleGetDocumentFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Document ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetDocumentFile(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteDocument deletes a document and its stored file
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Document ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteDocument(id); err != nil {
		corsError(w, "Error deleting document", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
