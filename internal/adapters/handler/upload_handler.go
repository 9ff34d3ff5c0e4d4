package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 64 << 10

type UploadHandler struct {
	storage  ports.FileStorage
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadHandler(storage ports.FileStorage, maxBytes int64, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{storage: storage, maxBytes: maxBytes, logger: logger}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload stores the multipart field "image" and returns its public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, h.logger, domain.Invalid("image", "file is too large"))
			return
		}
		writeError(w, r, h.logger, domain.Invalid("image", "no file uploaded"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, h.logger, domain.Invalid("image", "no file uploaded"))
		return
	}
	defer file.Close()

	url, err := h.storage.Save(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{URL: url})
}
