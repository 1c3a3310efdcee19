// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olegiv/orealty/internal/model"
	"github.com/olegiv/orealty/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// mp4Header is the smallest ftyp box recognized as video/mp4.
var mp4Header = []byte{
	0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
	0, 0, 2, 0, 'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}

func TestUploadService_Image(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "/uploads/", testutil.TestLogger())

	res, err := svc.Upload(context.Background(), bytes.NewReader(pngBytes(t, 1000, 800)), "Sea View.PNG")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.Kind != model.UploadKindImage {
		t.Errorf("Kind = %q", res.Kind)
	}
	if res.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q", res.MimeType)
	}
	if res.Width != 1000 || res.Height != 800 {
		t.Errorf("dimensions = %dx%d", res.Width, res.Height)
	}
	if !strings.HasPrefix(res.URL, "/uploads/images/") || !strings.HasSuffix(res.URL, "/sea-view.png") {
		t.Errorf("URL = %q", res.URL)
	}
	thumb, ok := res.Variants[model.VariantThumbnail]
	if !ok {
		t.Fatalf("missing thumbnail variant: %v", res.Variants)
	}

	rel := strings.TrimPrefix(thumb, "/uploads/")
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
		t.Errorf("thumbnail not on disk: %v", err)
	}

	if err := svc.Remove(res.URL); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(res.URL, "/uploads/")))); !os.IsNotExist(err) {
		t.Errorf("original still present after Remove: %v", err)
	}
}

func TestUploadService_Video(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "/uploads", nil)

	data := append(append([]byte{}, mp4Header...), bytes.Repeat([]byte{1}, 2048)...)
	res, err := svc.Upload(context.Background(), bytes.NewReader(data), "tour.mov")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.Kind != model.UploadKindVideo {
		t.Errorf("Kind = %q", res.Kind)
	}
	if res.MimeType != model.MimeTypeMP4 {
		t.Errorf("MimeType = %q", res.MimeType)
	}
	if res.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", res.Size, len(data))
	}
	if res.Filename != "tour.mp4" || !strings.HasSuffix(res.URL, "/tour.mp4") {
		t.Errorf("Filename = %q URL = %q", res.Filename, res.URL)
	}
	if len(res.Variants) != 0 {
		t.Errorf("videos have no variants, got %v", res.Variants)
	}
}

func TestUploadService_Unsupported(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/uploads", nil)

	_, err := svc.Upload(context.Background(), strings.NewReader("just some text"), "notes.txt")
	if !errors.Is(err, ErrUnsupportedUpload) {
		t.Errorf("err = %v, want ErrUnsupportedUpload", err)
	}

	_, err = svc.Upload(context.Background(), strings.NewReader("x"), "..")
	if !errors.Is(err, ErrUnsupportedUpload) {
		t.Errorf("invalid name err = %v", err)
	}
}

func TestUploadService_Cancelled(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/uploads", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Upload(ctx, bytes.NewReader(mp4Header), "a.mp4"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestUploadService_RemoveIgnoresForeignURLs(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/uploads", nil)
	for _, u := range []string{
		"https://cdn.example.com/a.jpg",
		"/uploads/images/not-a-uuid/a.jpg",
		"/uploads/other/2f1c6b1e-6f0a-4a57-9f0b-3b8d0f1f2a10/a.jpg",
		"/uploads/images",
	} {
		if err := svc.Remove(u); err != nil {
			t.Errorf("Remove(%q) = %v", u, err)
		}
	}
}

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{r: bytes.NewReader(make([]byte, 100)), remaining: 10}
	_, err := io.ReadAll(lr)
	if !errors.Is(err, ErrUploadTooLarge) {
		t.Errorf("err = %v, want ErrUploadTooLarge", err)
	}

	lr = &limitedReader{r: bytes.NewReader(make([]byte, 10)), remaining: 10}
	b, err := io.ReadAll(lr)
	if err != nil || len(b) != 10 {
		t.Errorf("exact size: n=%d err=%v", len(b), err)
	}
}
