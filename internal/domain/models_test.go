package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// PRAGMAs are per connection; pin the pool to one so FKs stay on.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func strp(s string) *string { return &s }

func TestTableNames(t *testing.T) {
	if (Principal{}).TableName() != "principals" {
		t.Fatalf("Principal.TableName() = %q", (Principal{}).TableName())
	}
	if (AllowEntry{}).TableName() != "allow_list" {
		t.Fatalf("AllowEntry.TableName() = %q", (AllowEntry{}).TableName())
	}
	if (ProcessedUpdate{}).TableName() != "processed_updates" {
		t.Fatalf("ProcessedUpdate.TableName() = %q", (ProcessedUpdate{}).TableName())
	}
}

func TestMigrations_Indexes_AndCascade(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Principal{}, &AllowEntry{}, &ProcessedUpdate{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&Principal{}, &AllowEntry{}, &ProcessedUpdate{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&Principal{}, "idx_principals_handle") {
		t.Fatalf("expected index idx_principals_handle")
	}
	if !m.HasIndex(&AllowEntry{}, "idx_allow_list_authorized") {
		t.Fatalf("expected index idx_allow_list_authorized")
	}

	now := time.Now().UTC()
	p := &Principal{ID: 555, Handle: strp("alice"), CreatedAt: now, UpdatedAt: now}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert principal: %v", err)
	}
	if err := db.Create(&AllowEntry{PrincipalID: 555, IsAuthorized: true, UpdatedAt: now}).Error; err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	// Entry for an unknown principal violates the FK.
	if err := db.Create(&AllowEntry{PrincipalID: 999, IsAuthorized: true, UpdatedAt: now}).Error; err == nil {
		t.Fatalf("expected FK violation for orphan allow-list entry")
	}

	if err := db.Delete(&Principal{}, "identifier = ?", 555).Error; err != nil {
		t.Fatalf("delete principal: %v", err)
	}
	var n int64
	db.Model(&AllowEntry{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected cascade delete of allow-list entry, got %d rows", n)
	}
}

func TestPrincipal_Label(t *testing.T) {
	if got := (Principal{ID: 42, Handle: strp("joe")}).Label(); got != "@joe" {
		t.Fatalf("Label with handle = %q", got)
	}
	if got := (Principal{ID: 42}).Label(); got != "42" {
		t.Fatalf("Label without handle = %q", got)
	}
	if got := (Principal{ID: 42, Handle: strp("")}).Label(); got != "42" {
		t.Fatalf("Label with empty handle = %q", got)
	}
}

func TestStats_Unauthorized(t *testing.T) {
	if got := (Stats{TotalPrincipals: 5, AuthorizedCount: 2}).Unauthorized(); got != 3 {
		t.Fatalf("Unauthorized = %d; want 3", got)
	}
	if got := (Stats{TotalPrincipals: 1, AuthorizedCount: 2}).Unauthorized(); got != 0 {
		t.Fatalf("Unauthorized must not go negative, got %d", got)
	}
}

func TestInteraction_Command(t *testing.T) {
	cases := map[string]string{
		"/start":              "start",
		"  /Admin  ":          "admin",
		"/start@ai_trade_bot": "start",
		"/help extra words":   "help",
		"555":                 "",
		"@alice":              "",
		"":                    "",
	}
	for in, want := range cases {
		if got := (Interaction{Text: in}).Command(); got != want {
			t.Fatalf("Command(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestAction_Valid(t *testing.T) {
	for _, a := range []Action{ActionOpenAdd, ActionOpenRemove, ActionList, ActionStats, ActionBack, ActionClose} {
		if !a.Valid() {
			t.Fatalf("%q should be valid", a)
		}
	}
	if ActionNone.Valid() || Action("admin_add").Valid() {
		t.Fatalf("unexpected valid action")
	}
}

func TestPendingAction_String(t *testing.T) {
	if PendingNone.String() != "none" || PendingAdd.String() != "add" || PendingRemove.String() != "remove" {
		t.Fatalf("unexpected PendingAction strings")
	}
}
