package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "clipster.db"))
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

var itemClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func textItem(payload string) *ClipboardItem {
	itemClock = itemClock.Add(time.Second)
	return &ClipboardItem{
		ID:        uuid.NewString(),
		Kind:      TypeText,
		Payload:   payload,
		CreatedAt: itemClock,
	}
}

func TestInsertAndGetItem(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := textItem("Hello, World!")
	item.SourceApp = "Test"
	if err := repo.InsertItem(ctx, item); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := repo.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Payload != "Hello, World!" || got.SourceApp != "Test" {
		t.Errorf("unexpected item: %+v", got)
	}

	if _, err := repo.GetItem(ctx, "no-such-id"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListHistoryNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, payload := range []string{"first", "second", "third"} {
		if err := repo.InsertItem(ctx, textItem(payload)); err != nil {
			t.Fatal(err)
		}
	}

	items, err := repo.ListHistory(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Payload != "third" || items[2].Payload != "first" {
		t.Errorf("history not newest-first: %s, %s, %s",
			items[0].Payload, items[1].Payload, items[2].Payload)
	}
}

func TestListHistoryExcludesPinned(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pb := &Pinboard{ID: uuid.NewString(), Name: "Work", Position: 0, CreatedAt: time.Now().UTC()}
	if err := repo.InsertPinboard(ctx, pb); err != nil {
		t.Fatal(err)
	}

	pinned := textItem("pinned")
	free := textItem("free")
	repo.InsertItem(ctx, pinned)
	repo.InsertItem(ctx, free)
	if err := repo.SetItemPinboard(ctx, pinned.ID, pb.ID); err != nil {
		t.Fatal(err)
	}

	items, err := repo.ListHistory(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Payload != "free" {
		t.Errorf("pinned item leaked into history: %+v", items)
	}

	count, err := repo.CountHistory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count should ignore pinned items, got %d", count)
	}
}

func TestSearchItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.InsertItem(ctx, textItem("Hello World"))
	repo.InsertItem(ctx, textItem("Goodbye World"))
	repo.InsertItem(ctx, textItem("Hello Go"))

	results, err := repo.SearchItems(ctx, "Hello", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results for Hello, got %d", len(results))
	}

	results, _ = repo.SearchItems(ctx, "World", 10)
	if len(results) != 2 {
		t.Errorf("expected 2 results for World, got %d", len(results))
	}

	// Substring match: "Goodbye" contains "Go" too.
	results, _ = repo.SearchItems(ctx, "Go", 10)
	if len(results) != 2 {
		t.Errorf("expected 2 results for Go, got %d", len(results))
	}
}

func TestPruneRetention(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 10; i++ {
		item := textItem("item")
		item.Payload = "item-" + item.ID[:8]
		ids = append(ids, item.ID)
		repo.InsertItem(ctx, item)
	}

	deleted, err := repo.PruneOldest(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 5 {
		t.Errorf("expected 5 deletions, got %d", deleted)
	}

	items, _ := repo.ListHistory(ctx, 100, 0)
	if len(items) != 5 {
		t.Fatalf("expected 5 survivors, got %d", len(items))
	}
	// The 5 newest inserts survive.
	for i, item := range items {
		wantID := ids[len(ids)-1-i]
		if item.ID != wantID {
			t.Errorf("survivor %d: got %s, want %s", i, item.ID, wantID)
		}
	}
}

func TestPrunePreservesFavorites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := textItem("old favorite")
	repo.InsertItem(ctx, old)
	for i := 0; i < 5; i++ {
		repo.InsertItem(ctx, textItem("newer"))
	}
	if _, err := repo.ToggleFavorite(ctx, old.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.PruneOldest(ctx, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetItem(ctx, old.ID); err != nil {
		t.Error("favorite should survive pruning regardless of age")
	}
}

func TestPrunePreservesPinned(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pb := &Pinboard{ID: uuid.NewString(), Name: "Keep", Position: 0, CreatedAt: time.Now().UTC()}
	repo.InsertPinboard(ctx, pb)

	pinned := textItem("pinned early")
	repo.InsertItem(ctx, pinned)
	repo.SetItemPinboard(ctx, pinned.ID, pb.ID)

	for i := 0; i < 8; i++ {
		repo.InsertItem(ctx, textItem("history"))
	}

	if _, err := repo.PruneOldest(ctx, 3); err != nil {
		t.Fatal(err)
	}

	count, _ := repo.CountHistory(ctx)
	if count != 3 {
		t.Errorf("expected 3 history items, got %d", count)
	}
	members, _ := repo.ListPinboardItems(ctx, pb.ID, 10)
	if len(members) != 1 {
		t.Errorf("pinned item should be untouched, got %d members", len(members))
	}
}

func TestDeleteUnpinnedByPayload(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := textItem("duplicate me")
	item.SourceApp = "Editor"
	item.SourceAppIcon = []byte{1, 2, 3}
	repo.InsertItem(ctx, item)

	replaced, err := repo.DeleteUnpinnedByPayload(ctx, "duplicate me")
	if err != nil {
		t.Fatal(err)
	}
	if replaced == nil {
		t.Fatal("expected a replaced item")
	}
	if replaced.ID != item.ID || replaced.SourceApp != "Editor" || len(replaced.SourceAppIcon) != 3 {
		t.Errorf("replaced item lost provenance: %+v", replaced)
	}

	if _, err := repo.GetItem(ctx, item.ID); err != ErrNotFound {
		t.Error("original row should be deleted")
	}

	if r, _ := repo.DeleteUnpinnedByPayload(ctx, "never stored"); r != nil {
		t.Error("expected nil for unknown payload")
	}
}

func TestDeleteUnpinnedByPayloadSparesPinnedAndFavorite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pb := &Pinboard{ID: uuid.NewString(), Name: "Board", Position: 0, CreatedAt: time.Now().UTC()}
	repo.InsertPinboard(ctx, pb)

	pinned := textItem("shared payload")
	repo.InsertItem(ctx, pinned)
	repo.SetItemPinboard(ctx, pinned.ID, pb.ID)

	favorite := textItem("shared payload")
	repo.InsertItem(ctx, favorite)
	repo.ToggleFavorite(ctx, favorite.ID)

	replaced, err := repo.DeleteUnpinnedByPayload(ctx, "shared payload")
	if err != nil {
		t.Fatal(err)
	}
	if replaced != nil {
		t.Errorf("pinned/favorited duplicates must not be replaced, got %+v", replaced)
	}
	if _, err := repo.GetItem(ctx, pinned.ID); err != nil {
		t.Error("pinned item should still exist")
	}
	if _, err := repo.GetItem(ctx, favorite.ID); err != nil {
		t.Error("favorite item should still exist")
	}
}

func TestDeletePinboardReleasesItems(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pb := &Pinboard{ID: uuid.NewString(), Name: "Temp", Position: 0, CreatedAt: time.Now().UTC()}
	repo.InsertPinboard(ctx, pb)

	item := textItem("member")
	repo.InsertItem(ctx, item)
	repo.SetItemPinboard(ctx, item.ID, pb.ID)

	if err := repo.DeletePinboard(ctx, pb.ID); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatal("item must survive pinboard deletion")
	}
	if got.PinboardID != "" {
		t.Errorf("pinboard_id should be cleared, got %q", got.PinboardID)
	}
}

func TestReorderPinboards(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []string
	for i, name := range []string{"a", "b", "c"} {
		pb := &Pinboard{ID: uuid.NewString(), Name: name, Position: i, CreatedAt: time.Now().UTC()}
		repo.InsertPinboard(ctx, pb)
		ids = append(ids, pb.ID)
	}

	// Reverse the order.
	if err := repo.ReorderPinboards(ctx, []string{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatal(err)
	}

	pinboards, _ := repo.ListPinboards(ctx)
	if pinboards[0].Name != "c" || pinboards[2].Name != "a" {
		t.Errorf("unexpected order: %s, %s, %s",
			pinboards[0].Name, pinboards[1].Name, pinboards[2].Name)
	}
}

func TestClearHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	keep := textItem("favorite")
	repo.InsertItem(ctx, keep)
	repo.ToggleFavorite(ctx, keep.ID)
	for i := 0; i < 4; i++ {
		repo.InsertItem(ctx, textItem("ephemeral"))
	}

	n, err := repo.ClearHistory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected 4 deletions, got %d", n)
	}
	if _, err := repo.GetItem(ctx, keep.ID); err != nil {
		t.Error("favorite should survive clear")
	}
}

func TestSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Seeded default
	value, err := repo.GetSetting(ctx, "history_limit")
	if err != nil {
		t.Fatal(err)
	}
	if value != "500" {
		t.Errorf("expected default 500, got %s", value)
	}
	if limit := repo.HistoryLimit(ctx); limit != 500 {
		t.Errorf("expected limit 500, got %d", limit)
	}

	if err := repo.SetSetting(ctx, "history_limit", "1000"); err != nil {
		t.Fatal(err)
	}
	if limit := repo.HistoryLimit(ctx); limit != 1000 {
		t.Errorf("expected limit 1000, got %d", limit)
	}

	// Malformed values fall back to the default.
	repo.SetSetting(ctx, "history_limit", "not-a-number")
	if limit := repo.HistoryLimit(ctx); limit != 500 {
		t.Errorf("expected fallback 500, got %d", limit)
	}

	if _, err := repo.GetSetting(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFilePathsRoundTrip(t *testing.T) {
	paths := []string{"/home/me/a.pdf", "C:\\docs\\b.pdf"}
	item := &ClipboardItem{
		ID:      uuid.NewString(),
		Kind:    TypeDocuments,
		Payload: EncodeFilePaths(paths),
	}

	got := item.FilePaths()
	if len(got) != 2 || got[0] != paths[0] || got[1] != paths[1] {
		t.Errorf("round trip failed: %v", got)
	}

	text := &ClipboardItem{Kind: TypeText, Payload: "[\"not\",\"files\"]"}
	if text.FilePaths() != nil {
		t.Error("text items have no file paths")
	}
}
