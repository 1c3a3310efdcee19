// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Singleton homepage section keys.
const (
	SectionHero         = "hero"
	SectionAbout        = "about"
	SectionStatistics   = "statistics"
	SectionTestimonials = "testimonials"
	SectionAgents       = "agents"
	SectionFeatured     = "featured"
	SectionContact      = "contact"
	SectionMenu         = "menu"
	SectionFooter       = "footer"
)

// SectionKeys lists every section key.
var SectionKeys = []string{
	SectionHero, SectionAbout, SectionStatistics, SectionTestimonials,
	SectionAgents, SectionFeatured, SectionContact, SectionMenu, SectionFooter,
}

func IsValidSectionKey(v string) bool { return contains(SectionKeys, v) }

// MenuItem is one navigation link of the menu section.
type MenuItem struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// MenuSettings is the settings document of the menu section.
type MenuSettings struct {
	Items []MenuItem `json:"items"`
}

// ErrSettingsNotObject is returned when section settings are not a JSON object.
var ErrSettingsNotObject = errors.New("settings must be a JSON object")

// NormalizeSectionSettings validates raw settings for the section key and
// returns the canonical JSON to store. Menu items are checked and sorted by position.
func NormalizeSectionSettings(key string, raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		if key == SectionMenu {
			return `{"items":[]}`, nil
		}
		return "{}", nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return "", ErrSettingsNotObject
	}

	if key != SectionMenu {
		b, err := json.Marshal(obj)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	var menu MenuSettings
	if err := json.Unmarshal([]byte(trimmed), &menu); err != nil {
		return "", fmt.Errorf("invalid menu settings: %w", err)
	}
	for i, it := range menu.Items {
		if strings.TrimSpace(it.Label) == "" {
			return "", fmt.Errorf("menu item %d: label is required", i)
		}
		if !isMenuURL(it.URL) {
			return "", fmt.Errorf("menu item %d: url must be a path, an anchor or an http(s) URL", i)
		}
	}
	sort.SliceStable(menu.Items, func(i, j int) bool { return menu.Items[i].Position < menu.Items[j].Position })
	if menu.Items == nil {
		menu.Items = []MenuItem{}
	}
	b, err := json.Marshal(menu)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isMenuURL(u string) bool {
	switch {
	case strings.HasPrefix(u, "//"):
		return false
	case strings.HasPrefix(u, "/"), strings.HasPrefix(u, "#"):
		return true
	case strings.HasPrefix(u, "https://"), strings.HasPrefix(u, "http://"):
		return true
	}
	return false
}
