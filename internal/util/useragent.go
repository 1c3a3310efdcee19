// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mileusna/useragent"
)

// DescribeUserAgent condenses a User-Agent header into a short label such
// as "Chrome 120 on Windows (desktop)". Bots are labelled with their name.
func DescribeUserAgent(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}

	ua := useragent.Parse(header)
	if ua.Bot {
		if ua.Name != "" {
			return "bot: " + ua.Name
		}
		return "bot"
	}

	var b strings.Builder
	name := ua.Name
	if name == "" {
		name = "unknown browser"
	}
	b.WriteString(name)
	if major := majorVersion(ua.Version); major != "" {
		b.WriteString(" " + major)
	}
	if ua.OS != "" {
		b.WriteString(" on " + ua.OS)
	}

	switch {
	case ua.Mobile:
		b.WriteString(" (mobile)")
	case ua.Tablet:
		b.WriteString(" (tablet)")
	case ua.Desktop:
		b.WriteString(" (desktop)")
	}
	return b.String()
}

func majorVersion(v string) string {
	if i := strings.IndexByte(v, '.'); i > 0 {
		return v[:i]
	}
	return v
}
