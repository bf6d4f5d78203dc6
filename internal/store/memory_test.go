package store

import (
	"context"
	"errors"
	"testing"

	"citylink/internal/models"
)

func textItem(id string) *models.ContentItem {
	return &models.ContentItem{
		ID:        id,
		Kind:      models.KindText,
		CreatedBy: "u1",
		Reactions: []models.Reaction{},
		Text:      &models.TextPayload{Body: "hello"},
	}
}

func TestMemoryRoundtrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if _, _, err := st.Get(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.Insert(ctx, textItem("t1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	item, version, err := st.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.ID != "t1" || version != 1 {
		t.Errorf("got item %s version %d", item.ID, version)
	}

	if err := st.Insert(ctx, textItem("t1")); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate insert: got %v, want ErrExists", err)
	}
}

func TestMemoryConditionalPut(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.Insert(ctx, textItem("t1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	item, version, _ := st.Get(ctx, "t1")

	item.Views = 5
	if err := st.Put(ctx, "t1", item, version); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// 旧版本号写入必须被拒
	if err := st.Put(ctx, "t1", item, version); !errors.Is(err, ErrConflict) {
		t.Errorf("stale put: got %v, want ErrConflict", err)
	}

	got, newVersion, _ := st.Get(ctx, "t1")
	if got.Views != 5 {
		t.Errorf("views = %d, want 5", got.Views)
	}
	if newVersion != version+1 {
		t.Errorf("version = %d, want %d", newVersion, version+1)
	}

	if err := st.Put(ctx, "missing", item, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("put missing: got %v, want ErrNotFound", err)
	}
}

func TestMemoryReturnsSnapshots(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.Insert(ctx, textItem("t1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	item, _, _ := st.Get(ctx, "t1")
	item.Reactions = append(item.Reactions, models.Reaction{UserID: "u1", Type: "like"})
	item.Text.Body = "mutated"

	fresh, _, _ := st.Get(ctx, "t1")
	if len(fresh.Reactions) != 0 || fresh.Text.Body != "hello" {
		t.Error("mutating a returned item leaked into the store")
	}
}

func TestMemoryList(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := st.Insert(ctx, textItem(id)); err != nil {
			t.Fatalf("Insert %s: %v", id, err)
		}
	}
	items, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len(items) = %d, want 3", len(items))
	}
}

func TestMemoryContextCancelled(t *testing.T) {
	st := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := st.Get(ctx, "t1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get: got %v, want context.Canceled", err)
	}
	if err := st.Insert(ctx, textItem("t1")); !errors.Is(err, context.Canceled) {
		t.Errorf("Insert: got %v, want context.Canceled", err)
	}
}
