package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonathan/cv-fit-analyzer/internal/server/middleware"
	"github.com/jonathan/cv-fit-analyzer/internal/types"
	"go.uber.org/zap"
)

// Multipart field names accepted by the upload endpoint.
const (
	FieldCV      = "cv"
	FieldJobURL  = "jobDescriptionUrl"
	FieldJobText = "jobDescriptionText"

	// Older clients send these names.
	legacyFieldJobURL  = "linkedinJobUrl"
	legacyFieldJobText = "jobDescription"
)

const (
	pdfContentType = "application/pdf"

	// multipartMemory is how much of the form is held in memory before
	// spooling to disk.
	multipartMemory = 1 << 20

	// formOverhead bounds the non-file parts of the upload body.
	formOverhead = 1 << 20
)

// handleUploadCV validates the upload, stores the document in UploadDir and
// runs the analysis. The analyzer removes the stored file.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)

	header, input, err := s.parseUpload(r)
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	path, err := s.storeUpload(header)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.logger.Debug("analysis started",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("file", header.Filename),
		zap.Int64("size", header.Size),
		zap.Bool("job_url", input.URL != ""),
		zap.Bool("job_text", input.Text != ""),
	)

	assessment, err := s.analyzer.Analyze(r.Context(), path, input)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, assessment)
}

// parseUpload reads the multipart form and checks the document part.
// Nothing is written under UploadDir until this succeeds.
func (s *Server) parseUpload(r *http.Request) (*multipart.FileHeader, types.JobInput, error) {
	var input types.JobInput

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, input, s.tooLarge()
		}
		return nil, input, &UploadError{Field: FieldCV, Message: "Request must be multipart/form-data", Cause: err}
	}

	file, header, err := r.FormFile(FieldCV)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, input, &UploadError{Field: FieldCV, Message: `No file uploaded. Use field name "cv"`}
		}
		return nil, input, &UploadError{Field: FieldCV, Message: "Could not read uploaded file", Cause: err}
	}
	_ = file.Close()

	if header.Size > s.cfg.MaxUploadBytes {
		return nil, input, s.tooLarge()
	}
	if !isPDF(header) {
		return nil, input, &UploadError{Field: FieldCV, Message: "Only PDF files are allowed"}
	}

	input.URL = formValue(r, FieldJobURL, legacyFieldJobURL)
	input.Text = formValue(r, FieldJobText, legacyFieldJobText)
	return header, input, nil
}

func (s *Server) tooLarge() *UploadError {
	return &UploadError{
		Field:   FieldCV,
		Message: fmt.Sprintf("File too large: limit is %d bytes", s.cfg.MaxUploadBytes),
	}
}

// storeUpload copies the uploaded part to a uniquely named file in UploadDir.
func (s *Server) storeUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", &UploadError{Field: FieldCV, Message: "Could not read uploaded file", Cause: err}
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(s.cfg.UploadDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.cfg.UploadDir, uuid.NewString()+".pdf")
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return path, nil
}

func isPDF(header *multipart.FileHeader) bool {
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	return err == nil && mediaType == pdfContentType
}

// formValue returns the first non-empty value among the named fields.
func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.FormValue(name); v != "" {
			return v
		}
	}
	return ""
}
