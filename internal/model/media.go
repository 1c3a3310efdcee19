// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported image variant types
const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
	VariantLarge     = "large"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
)

// Upload limits
const (
	MaxImageUploadSize = 20 << 20
	MaxVideoUploadSize = 100 << 20
)

// Upload kinds, also the first directory level under the uploads dir.
const (
	UploadKindImage = "images"
	UploadKindVideo = "videos"
)

// ImageVariantConfig defines settings for generating image variants.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // crop to exact size instead of fitting within bounds
}

// ImageVariants defines the generated variants of every uploaded image.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 150, Height: 150, Quality: 80, Crop: true},
	VariantMedium:    {Width: 800, Height: 600, Quality: 85, Crop: false},
	VariantLarge:     {Width: 1920, Height: 1080, Quality: 90, Crop: false},
}

var imageTypes = map[string]string{
	MimeTypeJPEG: ".jpg",
	MimeTypePNG:  ".png",
	MimeTypeGIF:  ".gif",
	MimeTypeWebP: ".webp",
}

var videoTypes = map[string]string{
	MimeTypeMP4:  ".mp4",
	MimeTypeWebM: ".webm",
}

func IsImageMime(m string) bool {
	_, ok := imageTypes[m]
	return ok
}

func IsVideoMime(m string) bool {
	_, ok := videoTypes[m]
	return ok
}

// ExtensionFor returns the canonical file extension of a supported MIME type.
func ExtensionFor(m string) string {
	if ext, ok := imageTypes[m]; ok {
		return ext
	}
	return videoTypes[m]
}
