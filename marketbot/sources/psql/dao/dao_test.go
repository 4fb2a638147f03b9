package dao

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketbot/marketbot/sources/psql/models"
	"marketbot/marketbot/utils/logging"
)

// --- Helpers ---
func setupTestDB(t *testing.T) *gorm.DB {
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}, &models.ReplyLog{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return db
}

func TestSettingSetGetRoundTrip(t *testing.T) {
	dao := NewSettingDAO(setupTestDB(t))
	ctx := context.Background()

	if got := dao.GetString(ctx, "webhookUrl", "fallback"); got != "fallback" {
		t.Errorf("missing key = %q, want fallback", got)
	}

	if err := dao.Set(ctx, "webhookUrl", "https://hook.example/a"); err != nil {
		t.Fatal(err)
	}
	if got := dao.GetString(ctx, "webhookUrl", "fallback"); got != "https://hook.example/a" {
		t.Errorf("got %q", got)
	}

	// Set is an upsert: same key, new value.
	if err := dao.Set(ctx, "webhookUrl", "https://hook.example/b"); err != nil {
		t.Fatal(err)
	}
	if got := dao.GetString(ctx, "webhookUrl", "fallback"); got != "https://hook.example/b" {
		t.Errorf("after upsert got %q", got)
	}
}

func TestSettingGetNumber(t *testing.T) {
	dao := NewSettingDAO(setupTestDB(t))
	ctx := context.Background()

	if got := dao.GetNumber(ctx, KeyChatLimit, DefaultChatLimit); got != DefaultChatLimit {
		t.Errorf("missing key = %d", got)
	}
	dao.Set(ctx, KeyChatLimit, "25")
	if got := dao.GetNumber(ctx, KeyChatLimit, DefaultChatLimit); got != 25 {
		t.Errorf("got %d, want 25", got)
	}
	dao.Set(ctx, KeyChatLimit, "not-a-number")
	if got := dao.GetNumber(ctx, KeyChatLimit, DefaultChatLimit); got != DefaultChatLimit {
		t.Errorf("unparseable value must fall back, got %d", got)
	}
}

func TestSettingGetBool(t *testing.T) {
	dao := NewSettingDAO(setupTestDB(t))
	ctx := context.Background()

	if dao.GetBool(ctx, KeyAutoResponder, false) {
		t.Error("missing key must use fallback")
	}
	dao.Set(ctx, KeyAutoResponder, "true")
	if !dao.GetBool(ctx, KeyAutoResponder, false) {
		t.Error("stored true not read back")
	}
	dao.Set(ctx, KeyAutoResponder, "false")
	if dao.GetBool(ctx, KeyAutoResponder, true) {
		t.Error("stored false not read back")
	}
}

func TestReplyLogRecordAndCount(t *testing.T) {
	dao := NewReplyLogDAO(setupTestDB(t))
	ctx := context.Background()

	entry, err := dao.Record(ctx, "run1", "111", "Maria · Bici", "text", "hola")
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID == uuid.Nil || entry.ChatID != "111" {
		t.Errorf("entry = %+v", entry)
	}
	dao.Record(ctx, "run1", "222", "Pedro · Sofá", "image", "https://img.example/a.png")

	count, err := dao.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestReplyLogRecent(t *testing.T) {
	dao := NewReplyLogDAO(setupTestDB(t))
	ctx := context.Background()

	for _, content := range []string{"uno", "dos", "tres"} {
		if _, err := dao.Record(ctx, "run1", "111", "Maria · Bici", "text", content); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := dao.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
}
