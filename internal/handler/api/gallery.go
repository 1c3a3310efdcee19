// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/orealty/internal/handler"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/service"
	"github.com/olegiv/orealty/internal/store"
)

// Gallery upload limits.
const (
	maxGalleryFiles = 20
	maxGalleryBody  = maxGalleryFiles * model.MaxImageUploadSize
	multipartMemory = 32 << 20
)

// ListPropertyImages handles GET /api/v1/admin/properties/{id}/images.
func (h *Handler) ListPropertyImages(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}

	images, err := h.queries.ListPropertyImages(r.Context(), p.ID)
	if err != nil {
		h.logger.Error("failed to list property images", "error", err, "property_id", p.ID)
		WriteInternalError(w, "Failed to list images")
		return
	}
	WriteSuccess(w, storeImagesToResponse(images), nil)
}

// AddPropertyImages handles POST /api/v1/admin/properties/{id}/images.
// Accepts one or more image files in the multipart field "files" (or "file")
// and appends them to the gallery in upload order.
func (h *Handler) AddPropertyImages(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "uploads_disabled", "Uploads are not configured", nil)
		return
	}
	p, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxGalleryBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	files = append(files, r.MultipartForm.File["file"]...)
	if len(files) == 0 {
		WriteValidationError(w, map[string]string{"files": "At least one image is required"})
		return
	}
	if len(files) > maxGalleryFiles {
		WriteValidationError(w, map[string]string{"files": "Too many files"})
		return
	}
	alt := r.FormValue("alt")
	ctx := r.Context()

	created := make([]store.PropertyImage, 0, len(files))
	for i, fh := range files {
		result, err := h.storeGalleryFile(r, fh)
		if err != nil {
			field := "files[" + strconv.Itoa(i) + "]"
			switch {
			case errors.Is(err, service.ErrUnsupportedUpload):
				WriteValidationError(w, map[string]string{field: "Only JPEG, PNG, GIF and WebP images are allowed"})
			case errors.Is(err, service.ErrUploadTooLarge):
				WriteValidationError(w, map[string]string{field: "Image is too large"})
			default:
				h.logger.Error("failed to store gallery image", "error", err, "property_id", p.ID)
				WriteInternalError(w, "Failed to upload image")
			}
			return
		}

		img, err := h.queries.CreatePropertyImage(ctx, store.CreatePropertyImageParams{
			PropertyID: p.ID,
			Url:        result.URL,
			Alt:        alt,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			h.logger.Error("failed to save gallery image", "error", err, "property_id", p.ID)
			WriteInternalError(w, "Failed to save image")
			return
		}
		created = append(created, img)
	}

	_ = h.events.Info(ctx, model.EventCategoryMedia, "Gallery images added",
		map[string]any{"property_id": p.ID, "count": len(created)})
	h.invalidate(ctx, propertyResources...)

	WriteCreated(w, storeImagesToResponse(created))
}

// storeGalleryFile uploads one multipart file, rejecting videos.
func (h *Handler) storeGalleryFile(r *http.Request, fh *multipart.FileHeader) (*service.UploadResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	result, err := h.uploads.Upload(r.Context(), f, fh.Filename)
	if err != nil {
		return nil, err
	}
	if result.Kind != model.UploadKindImage {
		if rmErr := h.uploads.Remove(result.URL); rmErr != nil {
			h.logger.Warn("failed to remove rejected upload", "url", result.URL, "error", rmErr)
		}
		return nil, service.ErrUnsupportedUpload
	}
	return result, nil
}

// DeletePropertyImage handles DELETE /api/v1/admin/properties/{id}/images/{imageId}.
// The file itself stays on disk.
func (h *Handler) DeletePropertyImage(w http.ResponseWriter, r *http.Request) {
	propertyID, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid property ID", nil)
		return
	}
	imageID, err := handler.ParseURLParamInt64(r, "imageId")
	if err != nil {
		WriteBadRequest(w, "Invalid image ID", nil)
		return
	}

	err = h.queries.DeletePropertyImage(r.Context(), store.DeletePropertyImageParams{ID: imageID, PropertyID: propertyID})
	if writeDeleteResult(w, err, "image") {
		h.invalidate(r.Context(), propertyResources...)
	}
}

// ReorderPropertyImages handles PUT /api/v1/admin/properties/{id}/images/reorder.
// The list must name every image of the gallery exactly once.
func (h *Handler) ReorderPropertyImages(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntityByID(w, r, "property", func(id int64) (store.Property, error) {
		return h.queries.GetPropertyByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req ReorderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	images, err := h.queries.ListPropertyImages(ctx, p.ID)
	if err != nil {
		h.logger.Error("failed to list property images", "error", err, "property_id", p.ID)
		WriteInternalError(w, "Failed to reorder images")
		return
	}
	if !sameIDSet(images, req.IDs) {
		WriteValidationError(w, map[string]string{"ids": "IDs must list every image of the property once"})
		return
	}

	if err := store.Reorder(ctx, h.db, "property_images", req.IDs); err != nil {
		h.logger.Error("failed to reorder images", "error", err, "property_id", p.ID)
		WriteInternalError(w, "Failed to reorder images")
		return
	}
	h.invalidate(ctx, propertyResources...)
	WriteNoContent(w)
}

func sameIDSet(images []store.PropertyImage, ids []int64) bool {
	if len(images) != len(ids) {
		return false
	}
	want := make(map[int64]bool, len(images))
	for _, img := range images {
		want[img.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return true
}
