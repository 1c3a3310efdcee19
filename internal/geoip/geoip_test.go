// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"
)

func TestLookupCountry_WithoutDatabase(t *testing.T) {
	g := NewLookup()
	if err := g.Init(""); err != nil {
		t.Fatalf("Init(\"\"): %v", err)
	}
	defer func() { _ = g.Close() }()

	tests := []struct {
		ip   string
		want string
	}{
		{"192.168.1.10", CountryLocal},
		{"10.0.0.1", CountryLocal},
		{"127.0.0.1", CountryLocal},
		{"::1", CountryLocal},
		{"8.8.8.8", ""},
		{"not-an-ip", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := g.LookupCountry(tt.ip); got != tt.want {
				t.Errorf("LookupCountry(%q) = %q, want %q", tt.ip, got, tt.want)
			}
		})
	}

	if g.IsEnabled() {
		t.Error("lookup without database must be disabled")
	}
}

func TestInit_MissingFile(t *testing.T) {
	g := NewLookup()
	if err := g.Init(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Fatal("expected error for missing database")
	}
	if g.IsEnabled() {
		t.Error("lookup must stay disabled")
	}
	if err := g.Reload(); err == nil {
		t.Error("Reload should report the missing file")
	}
}

func TestCountryName(t *testing.T) {
	tests := map[string]string{
		"ES":         "Spain",
		CountryLocal: "Local Network",
		"":           "Unknown",
		"ZZ":         "ZZ",
	}
	for code, want := range tests {
		if got := CountryName(code); got != want {
			t.Errorf("CountryName(%q) = %q, want %q", code, got, want)
		}
	}
}
