package conversations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:conversations_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Conversation{}); err != nil {
		t.Fatalf("migrate conversations: %v", err)
	}
	return db
}

func seedTurn(t *testing.T, db *gorm.DB, userID, message string, actor enums.ConversationActor, at time.Time) {
	t.Helper()
	turn := models.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Actor:     actor,
		CreatedAt: at,
	}
	if err := db.Create(&turn).Error; err != nil {
		t.Fatalf("seed turn: %v", err)
	}
}

func TestAppendWritesTurn(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	turn, err := repo.Append(ctx, "user-1", "hello", enums.ActorUser)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if turn.ID == uuid.Nil {
		t.Fatal("expected an assigned ID")
	}

	var count int64
	if err := db.Model(&models.Conversation{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

func TestRecentByUserReturnsChronologicalWindow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seedTurn(t, db, "user-1", "first", enums.ActorUser, base)
	seedTurn(t, db, "user-1", "second", enums.ActorAssistant, base.Add(time.Second))
	seedTurn(t, db, "user-1", "third", enums.ActorUser, base.Add(2*time.Second))
	seedTurn(t, db, "someone-else", "noise", enums.ActorUser, base.Add(3*time.Second))

	rows, err := repo.RecentByUser(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Message != "second" || rows[1].Message != "third" {
		t.Fatalf("expected latest two turns oldest first, got %q then %q", rows[0].Message, rows[1].Message)
	}
}

func TestRecentByUserIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, msg := range []string{"a", "b", "c"} {
		seedTurn(t, db, "user-1", msg, enums.ActorUser, base.Add(time.Duration(i)*time.Second))
	}

	first, err := repo.RecentByUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := repo.RecentByUser(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("length mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order differs at index %d", i)
		}
	}
}

func TestRecentByUserUnknownUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)

	rows, err := repo.RecentByUser(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
