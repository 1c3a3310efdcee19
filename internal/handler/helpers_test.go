// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestListAndCount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		items, total, err := ListAndCount(
			func() ([]string, error) { return []string{"villa", "loft"}, nil },
			func() (int64, error) { return 12, nil },
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 || total != 12 {
			t.Errorf("got %d items, total %d; want 2, 12", len(items), total)
		}
	})

	t.Run("list error skips count", func(t *testing.T) {
		counted := false
		_, _, err := ListAndCount(
			func() ([]string, error) { return nil, errors.New("list failed") },
			func() (int64, error) { counted = true; return 0, nil },
		)
		if err == nil {
			t.Fatal("expected error")
		}
		if counted {
			t.Error("count ran after a list error")
		}
	})

	t.Run("count error", func(t *testing.T) {
		_, _, err := ListAndCount(
			func() ([]string, error) { return []string{"villa"}, nil },
			func() (int64, error) { return 0, errors.New("count failed") },
		)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestBatchFetchOptional(t *testing.T) {
	type listing struct {
		agentID sql.NullInt64
	}
	items := []listing{
		{agentID: sql.NullInt64{Int64: 1, Valid: true}},
		{agentID: sql.NullInt64{Int64: 1, Valid: true}},
		{agentID: sql.NullInt64{Int64: 2, Valid: true}},
		{agentID: sql.NullInt64{Int64: 3, Valid: true}},
		{},
	}

	calls := 0
	fetch := func(_ context.Context, id int64) (string, error) {
		calls++
		switch id {
		case 1:
			return "Ana", nil
		case 2:
			return "", sql.ErrNoRows
		default:
			return "", errors.New("boom")
		}
	}

	got := BatchFetchOptional(context.Background(), items,
		func(l listing) sql.NullInt64 { return l.agentID }, fetch, "test")

	if calls != 3 {
		t.Errorf("fetch called %d times, want 3", calls)
	}
	if len(got) != 1 || got[1] != "Ana" {
		t.Errorf("result = %v, want map[1:Ana]", got)
	}
}
