// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded photos and writes their resized
// variants to disk.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/util"
)

// ErrUnsupportedFormat is returned for data that is not jpeg, png, gif or webp.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ProcessResult describes a stored original and its variants. Paths are
// relative to the upload directory and use forward slashes.
type ProcessResult struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
	Path     string
	Variants []VariantResult
}

// VariantResult describes one stored resized copy.
type VariantResult struct {
	Type   string
	Width  int
	Height int
	Size   int64
	Path   string
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a new image processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Process decodes an uploaded image, applies its EXIF orientation,
// re-encodes it without metadata and stores it with every variant under
// images/<id>/. WebP input is stored as JPEG since there is no pure Go
// WebP encoder.
func (p *Processor) Process(r io.Reader, id, filename string) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if format == "webp" {
		format = "jpeg"
	}
	filename = withExtension(filename, format)

	encoded, err := encodeImage(img, format, 92)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	dir := filepath.Join(model.UploadKindImage, id)
	path, err := p.save(dir, filename, encoded)
	if err != nil {
		return nil, fmt.Errorf("saving original: %w", err)
	}

	bounds := img.Bounds()
	result := &ProcessResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(encoded)),
		Path:     path,
	}

	for _, name := range variantNames() {
		v, err := p.createVariant(img, format, dir, filename, name, model.ImageVariants[name])
		if err != nil {
			_ = p.Delete(model.UploadKindImage, id)
			return nil, fmt.Errorf("creating %s variant: %w", name, err)
		}
		if v != nil {
			result.Variants = append(result.Variants, *v)
		}
	}

	return result, nil
}

// createVariant resizes img into dir/<variant>/filename. It returns nil when
// the source already fits and no crop is requested.
func (p *Processor) createVariant(img image.Image, format, dir, filename, variant string, cfg model.ImageVariantConfig) (*VariantResult, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= cfg.Width && bounds.Dy() <= cfg.Height && !cfg.Crop {
		return nil, nil
	}

	var resized image.Image
	if cfg.Crop {
		resized = imaging.Fill(img, cfg.Width, cfg.Height, imaging.Center, imaging.Lanczos)
	} else {
		resized = imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	encoded, err := encodeImage(resized, format, cfg.Quality)
	if err != nil {
		return nil, err
	}

	path, err := p.save(filepath.Join(dir, variant), filename, encoded)
	if err != nil {
		return nil, err
	}

	rb := resized.Bounds()
	return &VariantResult{
		Type:   variant,
		Width:  rb.Dx(),
		Height: rb.Dy(),
		Size:   int64(len(encoded)),
		Path:   path,
	}, nil
}

// SaveFile stores data unchanged under <kind>/<id>/filename.
func (p *Processor) SaveFile(kind, id, filename string, r io.Reader) (string, int64, error) {
	target, err := util.SafeJoinPath(p.uploadDir, kind, id)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", 0, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(target, filepath.Base(filename)), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.RemoveAll(target)
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(kind, id, filepath.Base(filename))), n, nil
}

// Delete removes every file stored under <kind>/<id>.
func (p *Processor) Delete(kind, id string) error {
	target, err := util.SafeJoinPath(p.uploadDir, kind, id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", target, err)
	}
	return nil
}

// DetectMimeType sniffs the MIME type of data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// save writes data to dir/filename below the upload directory and returns
// the relative slash path.
func (p *Processor) save(dir, filename string, data []byte) (string, error) {
	safe := filepath.Base(filename)
	if safe == "." || safe == ".." || safe == "" {
		return "", fmt.Errorf("invalid filename")
	}

	target, err := util.SafeJoinPath(p.uploadDir, dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, safe), data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filepath.ToSlash(filepath.Join(dir, safe)), nil
}

func variantNames() []string {
	names := make([]string, 0, len(model.ImageVariants))
	for name := range model.ImageVariants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readExifOrientation returns 1 (normal) when no orientation tag is present.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies an EXIF orientation transformation.
// 2 flip H, 3 rotate 180, 4 flip V, 5 transpose, 6 rotate 90 CW,
// 7 transverse, 8 rotate 90 CCW.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat sniffs the image format. TIFF is rejected
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}

// withExtension replaces the extension of filename with the canonical one
// for format.
func withExtension(filename, format string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + model.ExtensionFor(formatToMimeType(format))
}
