package storage

import (
	"bytes"
	"testing"
)

func TestFileStoreWriteReadRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("fake png bytes")
	path, err := store.Write("item-1", data)
	if err != nil {
		t.Fatal(err)
	}
	if path != store.Path("item-1") {
		t.Errorf("write returned %s, want %s", path, store.Path("item-1"))
	}
	if !store.Exists("item-1") {
		t.Error("file should exist after write")
	}

	got, err := store.Read("item-1")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("read returned different bytes")
	}

	removed, err := store.Remove("item-1")
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Error("remove should report the file existed")
	}
	if store.Exists("item-1") {
		t.Error("file should be gone")
	}

	removed, err = store.Remove("item-1")
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("second remove should report nothing deleted")
	}
}

func TestFileStoreTotalSize(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	store.Write("a", make([]byte, 100))
	store.Write("b", make([]byte, 250))

	total, err := store.TotalSize()
	if err != nil {
		t.Fatal(err)
	}
	if total != 350 {
		t.Errorf("expected 350 bytes, got %d", total)
	}
}

func TestFileStoreCleanupOrphans(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	store.Write("kept", []byte("k"))
	store.Write("orphan-1", []byte("o"))
	store.Write("orphan-2", []byte("o"))

	deleted, err := store.CleanupOrphans([]string{"kept", "also-valid-but-no-file"})
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 orphans removed, got %d", deleted)
	}
	if !store.Exists("kept") {
		t.Error("valid file should survive cleanup")
	}
	if store.Exists("orphan-1") || store.Exists("orphan-2") {
		t.Error("orphans should be removed")
	}
}
