// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/olegiv/orealty/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_LargePNG(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	res, err := p.Process(bytes.NewReader(encodePNG(t, createTestImage(2000, 1000))), "abc", "villa.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if res.Width != 2000 || res.Height != 1000 {
		t.Errorf("dimensions = %dx%d", res.Width, res.Height)
	}
	if res.MimeType != model.MimeTypePNG {
		t.Errorf("MimeType = %q", res.MimeType)
	}
	if res.Path != "images/abc/villa.png" {
		t.Errorf("Path = %q", res.Path)
	}
	if _, err := os.Stat(filepath.Join(dir, "images", "abc", "villa.png")); err != nil {
		t.Errorf("original not written: %v", err)
	}

	want := map[string][2]int{
		model.VariantLarge:     {1920, 960},
		model.VariantMedium:    {800, 400},
		model.VariantThumbnail: {150, 150},
	}
	if len(res.Variants) != len(want) {
		t.Fatalf("got %d variants, want %d", len(res.Variants), len(want))
	}
	for _, v := range res.Variants {
		dims, ok := want[v.Type]
		if !ok {
			t.Errorf("unexpected variant %q", v.Type)
			continue
		}
		if v.Width != dims[0] || v.Height != dims[1] {
			t.Errorf("%s = %dx%d, want %dx%d", v.Type, v.Width, v.Height, dims[0], dims[1])
		}
		if v.Path != "images/abc/"+v.Type+"/villa.png" {
			t.Errorf("%s path = %q", v.Type, v.Path)
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(v.Path))); err != nil {
			t.Errorf("%s not written: %v", v.Type, err)
		}
	}
}

func TestProcess_SmallJPEGOnlyThumbnail(t *testing.T) {
	p := NewProcessor(t.TempDir())

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(100, 80), nil); err != nil {
		t.Fatal(err)
	}

	res, err := p.Process(&buf, "small", "photo.JPEG")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Path != "images/small/photo.jpg" {
		t.Errorf("Path = %q", res.Path)
	}
	if len(res.Variants) != 1 || res.Variants[0].Type != model.VariantThumbnail {
		t.Errorf("expected only the cropped thumbnail, got %+v", res.Variants)
	}
}

func TestProcess_Unsupported(t *testing.T) {
	p := NewProcessor(t.TempDir())

	_, err := p.Process(strings.NewReader("plain text, not an image"), "x", "a.txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSaveFileAndDelete(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	rel, n, err := p.SaveFile(model.UploadKindVideo, "vid1", "tour.mp4", strings.NewReader("0123456789"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if rel != "videos/vid1/tour.mp4" || n != 10 {
		t.Errorf("SaveFile = %q, %d", rel, n)
	}

	if err := p.Delete(model.UploadKindVideo, "vid1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "videos", "vid1")); !os.IsNotExist(err) {
		t.Errorf("directory still present: %v", err)
	}

	if _, _, err := p.SaveFile(model.UploadKindVideo, "../../etc", "x.mp4", strings.NewReader("")); err == nil {
		t.Error("expected traversal to be rejected")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"tiff rejected", []byte{0x49, 0x49, 0x2A, 0x00}, ""},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		filename string
		format   string
		want     string
	}{
		{"a.webp", "jpeg", "a.jpg"},
		{"a.jpeg", "jpeg", "a.jpg"},
		{"a.PNG", "png", "a.png"},
		{"noext", "gif", "noext.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := withExtension(tt.filename, tt.format); got != tt.want {
				t.Errorf("withExtension(%q, %q) = %q, want %q", tt.filename, tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	for orientation := 0; orientation <= 9; orientation++ {
		t.Run("orientation_"+strconv.Itoa(orientation), func(t *testing.T) {
			result := applyOrientation(createTestImage(20, 10), orientation)
			b := result.Bounds()
			swapped := orientation >= 5 && orientation <= 8
			if swapped && (b.Dx() != 10 || b.Dy() != 20) {
				t.Errorf("expected rotated bounds, got %dx%d", b.Dx(), b.Dy())
			}
			if !swapped && (b.Dx() != 20 || b.Dy() != 10) {
				t.Errorf("expected original bounds, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}
