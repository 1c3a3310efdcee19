// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
)

// maxUploadBody leaves room for multipart framing around the largest video.
const maxUploadBody = model.MaxVideoUploadSize + 1<<20

// Upload handles POST /api/v1/admin/uploads.
// Stores the multipart field "file" and returns its URLs.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "uploads_disabled", "Uploads are not configured", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "File is too large", nil)
			return
		}
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, fh, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "A file is required"})
		return
	}
	defer func() { _ = f.Close() }()

	result, err := h.uploads.Upload(r.Context(), f, fh.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedUpload):
			WriteValidationError(w, map[string]string{"file": "Only JPEG, PNG, GIF, WebP images and MP4, WebM videos are allowed"})
		case errors.Is(err, service.ErrUploadTooLarge):
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "File is too large", nil)
		default:
			h.logger.Error("failed to store upload", "error", err, "filename", fh.Filename)
			WriteInternalError(w, "Failed to upload file")
		}
		return
	}

	_ = h.events.Info(r.Context(), model.EventCategoryMedia, "File uploaded",
		map[string]any{"url": result.URL, "kind": result.Kind, "size": result.Size})
	WriteCreated(w, result)
}
