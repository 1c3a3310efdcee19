// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n holds the localized user-facing API messages and language
// negotiation helpers.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds the messages of every bundled language.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	defaultLang  string
	logger       *slog.Logger
}

var catalog *Catalog

// SupportedLanguages lists the bundled message catalogs.
var SupportedLanguages = []string{"en", "es", "ru"}

// DefaultLanguage is the fallback catalog.
const DefaultLanguage = "en"

// Init loads the embedded catalogs.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  DefaultLanguage,
		logger:       logger,
	}

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("loading language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		msgs[msg.ID] = msg.Translation
	}
	c.translations[lang] = msgs

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgs))
	}
	return nil
}

// T translates key into lang, falling back to the default language and
// then to the key itself. Args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	translation, ok := catalog.translations[baseLanguage(lang)][key]
	if !ok {
		translation, ok = catalog.translations[catalog.defaultLang][key]
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// baseLanguage reduces "es-AR" to "es".
func baseLanguage(lang string) string {
	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}

// TranslationCount returns the number of messages loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

// Match picks the best of the available language codes for an
// Accept-Language header or a bare language code. It returns fallback
// when nothing matches with at least low confidence.
func Match(acceptLang string, available []string, fallback string) string {
	if acceptLang == "" || len(available) == 0 {
		return fallback
	}

	tags := make([]language.Tag, 0, len(available))
	codes := make([]string, 0, len(available))
	for _, code := range available {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	if len(tags) == 0 {
		return fallback
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(desired) == 0 {
		return fallback
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(codes) {
		return fallback
	}
	return codes[idx]
}
