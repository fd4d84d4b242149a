// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"doc-qa-service/internal/domain"
	apperrors "doc-qa-service/pkg/errors"
)

const (
	questionsFileField = "questions_file"
	documentFileField  = "document_file"

	// multipartOverhead covers boundaries and part headers on top of the file bytes.
	multipartOverhead = 1 << 20
	maxMemory         = 32 << 20
)

// AnswerHandler handles question-answering requests
type AnswerHandler struct {
	answerService domain.AnswerService
	limits        domain.Limits
	logger        domain.Logger
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerService domain.AnswerService, limits domain.Limits, logger domain.Logger) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
		limits:        limits,
		logger:        logger,
	}
}

// Answer accepts a multipart upload with a questions file and a document file
// and responds with one question/answer/source entry per question.
func (h *AnswerHandler) Answer(w http.ResponseWriter, r *http.Request) {
	if h.limits.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 2*h.limits.MaxFileSize+multipartOverhead)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds the maximum of %d bytes", maxBytesErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Request must be multipart/form-data with questions_file and document_file")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	questionsRaw, _, err := readFormFile(r, questionsFileField)
	if err != nil {
		h.writeUploadError(w, questionsFileField, err)
		return
	}

	documentRaw, documentName, err := readFormFile(r, documentFileField)
	if err != nil {
		h.writeUploadError(w, documentFileField, err)
		return
	}

	docType := domain.DetectDocumentType(documentName.filename, documentName.contentType)
	h.logger.Debug("Answer request received",
		"questions_bytes", len(questionsRaw),
		"document_bytes", len(documentRaw),
		"document_name", documentName.filename,
		"doc_type", string(docType),
	)

	pairs, err := h.answerService.Answer(r.Context(), questionsRaw, documentRaw, docType)
	if err != nil {
		status := apperrors.GetStatusCode(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Answer request failed", err, "status", status)
		} else {
			h.logger.Info("Answer request rejected", "status", status, "error", err.Error())
		}
		writeError(w, status, apperrors.PublicMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, domain.AnswerResponse{QAPairs: pairs})
}

type uploadInfo struct {
	filename    string
	contentType string
}

func readFormFile(r *http.Request, field string) ([]byte, uploadInfo, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, uploadInfo{}, err
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, uploadInfo{}, err
	}

	// Sanitize filename (strip any path components)
	return raw, uploadInfo{
		filename:    strings.TrimSpace(filepath.Base(header.Filename)),
		contentType: header.Header.Get("Content-Type"),
	}, nil
}

func (h *AnswerHandler) writeUploadError(w http.ResponseWriter, field string, err error) {
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusUnprocessableEntity, field+" is required")
		return
	}
	h.logger.Warn("Failed to read uploaded file", "field", field, "error", err)
	writeError(w, http.StatusBadRequest, "Unable to read "+field)
}
