// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/orealty/internal/imaging"
	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/util"
)

// Upload errors reported to clients.
var (
	ErrUnsupportedUpload = errors.New("unsupported file type")
	ErrUploadTooLarge    = errors.New("file too large")
)

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 512

// UploadResult describes a stored upload. URLs are rooted at the public
// uploads prefix.
type UploadResult struct {
	Kind     string            `json:"kind"`
	URL      string            `json:"url"`
	Variants map[string]string `json:"variants,omitempty"`
	MimeType string            `json:"mime_type"`
	Size     int64             `json:"size"`
	Width    int               `json:"width,omitempty"`
	Height   int               `json:"height,omitempty"`
	Filename string            `json:"filename"`
}

// UploadService stores images and videos on local disk.
type UploadService struct {
	processor *imaging.Processor
	urlPrefix string
	logger    *slog.Logger
}

// NewUploadService creates an UploadService writing below uploadDir and
// returning URLs under urlPrefix (usually "/uploads").
func NewUploadService(uploadDir, urlPrefix string, logger *slog.Logger) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		processor: imaging.NewProcessor(uploadDir),
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}
}

// Upload stores r under a fresh directory. Images are normalized and get
// resized variants, videos are stored as they are.
func (s *UploadService) Upload(ctx context.Context, r io.Reader, filename string) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedUpload, err)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]
	mimeType := imaging.DetectMimeType(head)
	body := io.MultiReader(bytes.NewReader(head), r)

	id := uuid.NewString()

	switch {
	case model.IsImageMime(mimeType):
		return s.storeImage(id, name, &limitedReader{r: body, remaining: model.MaxImageUploadSize})
	case model.IsVideoMime(mimeType):
		return s.storeVideo(id, name, mimeType, &limitedReader{r: body, remaining: model.MaxVideoUploadSize})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedUpload, mimeType)
	}
}

func (s *UploadService) storeImage(id, name string, r io.Reader) (*UploadResult, error) {
	res, err := s.processor.Process(r, id, name)
	if err != nil {
		if errors.Is(err, ErrUploadTooLarge) {
			return nil, ErrUploadTooLarge
		}
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedUpload, err)
		}
		return nil, fmt.Errorf("processing image: %w", err)
	}

	out := &UploadResult{
		Kind:     model.UploadKindImage,
		URL:      s.url(res.Path),
		Variants: make(map[string]string, len(res.Variants)),
		MimeType: res.MimeType,
		Size:     res.Size,
		Width:    res.Width,
		Height:   res.Height,
		Filename: filepath.Base(res.Path),
	}
	for _, v := range res.Variants {
		out.Variants[v.Type] = s.url(v.Path)
	}
	return out, nil
}

func (s *UploadService) storeVideo(id, name, mimeType string, r io.Reader) (*UploadResult, error) {
	ext := model.ExtensionFor(mimeType)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ext

	path, size, err := s.processor.SaveFile(model.UploadKindVideo, id, name, r)
	if err != nil {
		if errors.Is(err, ErrUploadTooLarge) {
			return nil, ErrUploadTooLarge
		}
		return nil, fmt.Errorf("saving video: %w", err)
	}

	return &UploadResult{
		Kind:     model.UploadKindVideo,
		URL:      s.url(path),
		MimeType: mimeType,
		Size:     size,
		Filename: name,
	}, nil
}

// Remove deletes a stored upload given the URL returned by Upload. URLs
// outside the uploads prefix are ignored.
func (s *UploadService) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok {
		return nil
	}
	parts := strings.Split(rel, "/")
	if len(parts) < 3 {
		return nil
	}
	kind, id := parts[0], parts[1]
	if kind != model.UploadKindImage && kind != model.UploadKindVideo {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if err := s.processor.Delete(kind, id); err != nil {
		return err
	}
	s.logger.Debug("upload removed", "kind", kind, "id", id)
	return nil
}

func (s *UploadService) url(rel string) string {
	return s.urlPrefix + "/" + rel
}

// limitedReader fails with ErrUploadTooLarge once more than remaining
// bytes have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrUploadTooLarge
	}
	return n, err
}
