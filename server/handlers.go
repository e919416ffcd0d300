package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/paidpdf/pdf-x402/pdf"
)

// errorResponse is the uniform 400-class body.
type errorResponse struct {
	Error string `json:"error"`
}

// infoResponse wraps engine metadata with upload facts.
type infoResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	pdf.Metadata
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}

func (s *Server) respondPDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Error("failed to write PDF response")
	}
}

// handleIndex serves the unpriced service descriptor.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": ServiceName,
		"version": ServiceVersion,
		"endpoints": map[string]string{
			"info":     "POST /pdf/info",
			"extract":  "POST /pdf/extract",
			"merge":    "POST /pdf/merge",
			"compress": "POST /pdf/compress",
		},
		"max_file_size": "25MB",
		"payment":       s.payment,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	data, header, ok := s.readUpload(w, r, "pdf")
	if !ok {
		return
	}

	metadata, err := s.engine.Info(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, infoResponse{
		Filename: header.Filename,
		Size:     header.Size,
		Metadata: *metadata,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, header, ok := s.readUpload(w, r, "pdf")
	if !ok {
		return
	}

	ranges, err := pdf.ParsePageRanges(r.FormValue("pages"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	extracted, err := s.engine.Extract(data, ranges)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondPDF(w, "extracted-"+header.Filename, extracted)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if !s.parseMultipart(w, r, MaxMergeFiles) {
		return
	}

	headers := r.MultipartForm.File["pdfs"]
	if len(headers) < 2 {
		s.respondError(w, http.StatusBadRequest, "At least 2 PDF files required")
		return
	}
	if len(headers) > MaxMergeFiles {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Too many files (max %d)", MaxMergeFiles))
		return
	}

	inputs := make([][]byte, 0, len(headers))
	for _, header := range headers {
		data, ok := s.readFileHeader(w, header)
		if !ok {
			return
		}
		inputs = append(inputs, data)
	}

	merged, err := s.engine.Merge(inputs)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondPDF(w, "merged.pdf", merged)
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	data, header, ok := s.readUpload(w, r, "pdf")
	if !ok {
		return
	}

	compressed, err := s.engine.Compress(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondPDF(w, "compressed-"+header.Filename, compressed)
}

// parseMultipart parses the request form, bounding the whole request body
// by the per-file ceiling times the allowed file count plus form overhead.
// Replies false after writing the error response.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request, maxFiles int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFiles*s.maxFileBytes+(1<<20))

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return false
	}

	return true
}

// readUpload fetches the single required file field. Replies false after
// writing the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, *multipart.FileHeader, bool) {
	if !s.parseMultipart(w, r, 1) {
		return nil, nil, false
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "No PDF file uploaded")
		return nil, nil, false
	}

	data, ok := s.readFileHeader(w, headers[0])
	if !ok {
		return nil, nil, false
	}

	return data, headers[0], true
}

// readFileHeader enforces the per-file size ceiling before any processing.
func (s *Server) readFileHeader(w http.ResponseWriter, header *multipart.FileHeader) ([]byte, bool) {
	if header.Size > s.maxFileBytes {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("File too large (max %dMB)", s.maxFileBytes>>20))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return nil, false
	}

	return data, true
}
