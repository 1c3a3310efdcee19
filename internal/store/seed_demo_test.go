// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"testing"
)

func TestSeedDemo(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	if err := Seed(ctx, db, SeedOptions{CreateAdmin: true}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if err := SeedDemo(ctx, db); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}

	admin, err := q.GetUserByEmail(ctx, DemoAdminEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail(%s): %v", DemoAdminEmail, err)
	}
	if admin.Role != "admin" {
		t.Errorf("admin.Role = %q, want %q", admin.Role, "admin")
	}

	editor, err := q.GetUserByEmail(ctx, DemoEditorEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail(%s): %v", DemoEditorEmail, err)
	}
	if editor.Role != "editor" {
		t.Errorf("editor.Role = %q, want %q", editor.Role, "editor")
	}

	catCount, err := q.CountCategories(ctx)
	if err != nil {
		t.Fatalf("CountCategories: %v", err)
	}
	if catCount != 4 {
		t.Errorf("category count = %d, want 4", catCount)
	}

	public, err := q.CountProperties(ctx, PropertyFilter{Visibility: "public"})
	if err != nil {
		t.Fatalf("CountProperties: %v", err)
	}
	private, err := q.CountProperties(ctx, PropertyFilter{Visibility: "private"})
	if err != nil {
		t.Fatalf("CountProperties: %v", err)
	}
	if public != 4 || private != 2 {
		t.Errorf("public/private = %d/%d, want 4/2", public, private)
	}

	posts, err := q.CountPublishedContents(ctx)
	if err != nil {
		t.Fatalf("CountPublishedContents: %v", err)
	}
	if posts != 1 {
		t.Errorf("published posts = %d, want 1", posts)
	}
}

func TestSeedDemo_Idempotent(t *testing.T) {
	db, cleanup, ctx, q := testSetup(t)
	defer cleanup()

	if err := Seed(ctx, db, SeedOptions{CreateAdmin: true}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := SeedDemo(ctx, db); err != nil {
			t.Fatalf("SeedDemo run %d: %v", i+1, err)
		}
	}

	users, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if users != 3 {
		t.Errorf("user count = %d, want 3", users)
	}

	props, err := q.CountProperties(ctx, PropertyFilter{})
	if err != nil {
		t.Fatalf("CountProperties: %v", err)
	}
	if props != int64(len(demoProperties())) {
		t.Errorf("property count = %d, want %d", props, len(demoProperties()))
	}
}
