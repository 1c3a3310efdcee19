// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"

	"github.com/olegiv/orealty/internal/service"
)

// translationsFor loads the field translations of every entity of a type in
// lang. It returns nil for the default language or when loading fails, so
// callers fall back to the stored values.
func (h *Handler) translationsFor(ctx context.Context, entity, lang string, isDefault bool) map[int64]map[string]string {
	if isDefault {
		return nil
	}
	fields, err := h.translations.FieldsByType(ctx, entity, lang)
	if err != nil {
		h.logger.Warn("failed to load translations", "entity", entity, "lang", lang, "error", err)
		return nil
	}
	return fields
}

func localizeProperty(p *PropertyResponse, fields map[string]string) {
	service.Overlay(fields, map[string]*string{
		"title":       &p.Title,
		"description": &p.Description,
		"address":     &p.Address,
	})
}

func localizeCategory(c *CategoryResponse, fields map[string]string) {
	service.Overlay(fields, map[string]*string{
		"name":        &c.Name,
		"description": &c.Description,
	})
}

func localizeAgent(a *AgentResponse, fields map[string]string) {
	service.Overlay(fields, map[string]*string{
		"title": &a.Title,
		"bio":   &a.Bio,
	})
}

func localizeTestimonial(t *TestimonialResponse, fields map[string]string) {
	service.Overlay(fields, map[string]*string{
		"content":      &t.Content,
		"author_title": &t.AuthorTitle,
	})
}

func localizeSection(s *SectionResponse, fields map[string]string) {
	service.Overlay(fields, map[string]*string{
		"title":    &s.Title,
		"subtitle": &s.Subtitle,
	})
}

// localizePost overlays a post and re-renders a translated body.
func (h *Handler) localizePost(p *PostResponse, fields map[string]string) {
	service.Overlay(fields, map[string]*string{
		"title":   &p.Title,
		"excerpt": &p.Excerpt,
	})
	if body := fields["body"]; body != "" {
		html, err := h.renderer.Render(body)
		if err != nil {
			h.logger.Warn("failed to render translated post body", "post_id", p.ID, "error", err)
			return
		}
		p.Body = body
		p.BodyHTML = html
	}
}
