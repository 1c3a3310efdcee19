// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SocialLinks maps a network name (facebook, instagram, ...) to a profile URL.
type SocialLinks map[string]string

// ParseSocialLinks decodes agents.socials.
func ParseSocialLinks(raw string) (SocialLinks, error) {
	links := SocialLinks{}
	if strings.TrimSpace(raw) == "" {
		return links, nil
	}
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("decoding socials: %w", err)
	}
	return links, nil
}

// Encode drops empty entries and returns the JSON stored in agents.socials.
func (s SocialLinks) Encode() string {
	clean := make(map[string]string, len(s))
	for k, v := range s {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			clean[k] = v
		}
	}
	b, _ := json.Marshal(clean)
	return string(b)
}
