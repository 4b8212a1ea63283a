package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUpsertPrincipal_Error_NoTable(t *testing.T) {
	db := newRepoDB(t, false)
	p, err := UpsertPrincipal(context.Background(), db, 42, nil, nil, time.Now().UTC())
	if err == nil || p != nil {
		t.Fatalf("expected error without table, got p=%v err=%v", p, err)
	}
}

func TestUpsertPrincipal_CreatesThenRefreshesMetadata(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	p, err := UpsertPrincipal(ctx, db, 42, strp("joe"), strp("Joe"), t1)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if p.ID != 42 || *p.Handle != "joe" || !p.CreatedAt.Equal(t1) {
		t.Fatalf("unexpected first upsert result: %+v", p)
	}

	p, err = UpsertPrincipal(ctx, db, 42, strp("joseph"), nil, t2)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if *p.Handle != "joseph" || p.DisplayName != nil {
		t.Fatalf("metadata not refreshed: %+v", p)
	}
	if !p.CreatedAt.Equal(t1) {
		t.Fatalf("CreatedAt must be set once, got %v", p.CreatedAt)
	}
	if !p.UpdatedAt.Equal(t2) {
		t.Fatalf("UpdatedAt not bumped, got %v", p.UpdatedAt)
	}

	n, err := CountPrincipals(ctx, db)
	if err != nil || n != 1 {
		t.Fatalf("expected exactly one principal, got n=%d err=%v", n, err)
	}
}

func TestUpsertPrincipal_NeverTouchesAllowList(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := UpsertPrincipal(ctx, db, 42, strp("joe"), nil, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := SetAuthorization(ctx, db, 42, true, nil, now); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := UpsertPrincipal(ctx, db, 42, strp("joseph"), nil, now.Add(time.Minute)); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	ok, err := IsAuthorized(ctx, db, 42)
	if err != nil || !ok {
		t.Fatalf("authorization must survive upsert, ok=%v err=%v", ok, err)
	}
}

func TestInsertPrincipalIfAbsent_KeepsExisting(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := UpsertPrincipal(ctx, db, 7, strp("seven"), nil, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := InsertPrincipalIfAbsent(ctx, db, 7, now.Add(time.Hour)); err != nil {
		t.Fatalf("InsertPrincipalIfAbsent: %v", err)
	}
	p, err := GetPrincipal(ctx, db, 7)
	if err != nil {
		t.Fatalf("GetPrincipal: %v", err)
	}
	if p.Handle == nil || *p.Handle != "seven" {
		t.Fatalf("existing row overwritten: %+v", p)
	}
}

func TestGetPrincipal_NotFound(t *testing.T) {
	db := newRepoDB(t, true)
	_, err := GetPrincipal(context.Background(), db, 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPrincipalByHandle_ExactAndMostRecent(t *testing.T) {
	db := newRepoDB(t, true)
	ctx := context.Background()
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := UpsertPrincipal(ctx, db, 1, strp("alice"), nil, t1); err != nil {
		t.Fatalf("seed 1: %v", err)
	}
	if _, err := UpsertPrincipal(ctx, db, 2, strp("alice"), nil, t1.Add(time.Hour)); err != nil {
		t.Fatalf("seed 2: %v", err)
	}

	p, err := GetPrincipalByHandle(ctx, db, "alice")
	if err != nil {
		t.Fatalf("GetPrincipalByHandle: %v", err)
	}
	if p.ID != 2 {
		t.Fatalf("expected most recently refreshed principal 2, got %d", p.ID)
	}

	if _, err := GetPrincipalByHandle(ctx, db, "Alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("handle match must be exact, got %v", err)
	}
}
