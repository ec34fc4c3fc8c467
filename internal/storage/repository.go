package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// ErrNotFound is returned when an item or pinboard id does not exist.
var ErrNotFound = errors.New("not found")

const defaultHistoryLimit = 500

type Repository struct {
	db *bun.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The monitor goroutine and command handlers share this handle; a
	// single connection serializes them without sqlite busy errors.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	ctx := context.Background()

	models := []interface{}{
		(*Pinboard)(nil),
		(*ClipboardItem)(nil),
		(*Setting)(nil),
	}

	for _, model := range models {
		if _, err := r.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_clipboard_created_at ON clipboard_items(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_clipboard_content_type ON clipboard_items(content_type)",
		"CREATE INDEX IF NOT EXISTS idx_clipboard_pinboard ON clipboard_items(pinboard_id)",
	}

	for _, idx := range indexes {
		if _, err := r.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Seed default settings
	if _, err := r.db.Exec(
		"INSERT OR IGNORE INTO settings (key, value) VALUES ('history_limit', ?)",
		strconv.Itoa(defaultHistoryLimit),
	); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}

// ==================== CLIPBOARD ITEMS ====================

func (r *Repository) InsertItem(ctx context.Context, item *ClipboardItem) error {
	if _, err := r.db.NewInsert().Model(item).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert clipboard item: %w", err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (*ClipboardItem, error) {
	var item ClipboardItem
	err := r.db.NewSelect().
		Model(&item).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// ListHistory returns unpinned items, newest first. Pinned items live under
// their pinboard and never appear here.
func (r *Repository) ListHistory(ctx context.Context, limit, offset int) ([]*ClipboardItem, error) {
	var items []*ClipboardItem
	err := r.db.NewSelect().
		Model(&items).
		Where("pinboard_id IS NULL").
		OrderExpr("created_at DESC, rowid DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return items, nil
}

func (r *Repository) ListByType(ctx context.Context, kind ContentType, limit int) ([]*ClipboardItem, error) {
	var items []*ClipboardItem
	err := r.db.NewSelect().
		Model(&items).
		Where("content_type = ?", string(kind)).
		OrderExpr("created_at DESC, rowid DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items by type: %w", err)
	}
	return items, nil
}

func (r *Repository) SearchItems(ctx context.Context, query string, limit int) ([]*ClipboardItem, error) {
	var items []*ClipboardItem
	err := r.db.NewSelect().
		Model(&items).
		Where("payload LIKE ?", "%"+query+"%").
		OrderExpr("created_at DESC, rowid DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().
		Model((*ClipboardItem)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (r *Repository) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*ClipboardItem)(nil)).
		Set("is_favorite = NOT is_favorite").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ErrNotFound
	}

	item, err := r.GetItem(ctx, id)
	if err != nil {
		return false, err
	}
	return item.IsFavorite, nil
}

// SetItemPinboard assigns the item to a pinboard; an empty pinboardID
// returns it to live history.
func (r *Repository) SetItemPinboard(ctx context.Context, itemID, pinboardID string) error {
	q := r.db.NewUpdate().
		Model((*ClipboardItem)(nil)).
		Where("id = ?", itemID)
	if pinboardID == "" {
		q = q.Set("pinboard_id = NULL")
	} else {
		q = q.Set("pinboard_id = ?", pinboardID)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update item pinboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountHistory counts unpinned items only. Pinboard members are invisible
// to the retention mechanism.
func (r *Repository) CountHistory(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().
		Model((*ClipboardItem)(nil)).
		Where("pinboard_id IS NULL").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// PruneOldest keeps the keep newest unpinned non-favorite items and deletes
// the rest. Favorites and pinboard members are never touched.
func (r *Repository) PruneOldest(ctx context.Context, keep int) (int, error) {
	res, err := r.db.Exec(
		`DELETE FROM clipboard_items
		 WHERE id IN (
		     SELECT id FROM clipboard_items
		     WHERE is_favorite = 0 AND pinboard_id IS NULL
		     ORDER BY created_at DESC, rowid DESC
		     LIMIT -1 OFFSET ?
		 )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune items: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ClearHistory deletes all unpinned non-favorite items.
func (r *Repository) ClearHistory(ctx context.Context) (int, error) {
	res, err := r.db.NewDelete().
		Model((*ClipboardItem)(nil)).
		Where("is_favorite = 0 AND pinboard_id IS NULL").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ReplacedItem carries what move-to-top recovered from the row it deleted:
// the id for the outward event and the provenance of the original copy.
type ReplacedItem struct {
	ID            string
	SourceApp     string
	SourceAppIcon []byte
}

// DeleteUnpinnedByPayload removes unpinned rows with a byte-identical
// payload and reports the first one, for the move-to-top policy. Pinned and
// favorited duplicates are left alone: the same content may legitimately
// exist both in live history and frozen in a pinboard.
func (r *Repository) DeleteUnpinnedByPayload(ctx context.Context, payload string) (*ReplacedItem, error) {
	var existing ClipboardItem
	err := r.db.NewSelect().
		Model(&existing).
		Column("id", "source_app", "source_app_icon").
		Where("payload = ? AND pinboard_id IS NULL AND is_favorite = 0", payload).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up duplicate: %w", err)
	}

	_, err = r.db.NewDelete().
		Model((*ClipboardItem)(nil)).
		Where("payload = ? AND pinboard_id IS NULL AND is_favorite = 0", payload).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete duplicate: %w", err)
	}

	return &ReplacedItem{
		ID:            existing.ID,
		SourceApp:     existing.SourceApp,
		SourceAppIcon: existing.SourceAppIcon,
	}, nil
}

// ItemIDs returns every item id, for orphaned image cleanup.
func (r *Repository) ItemIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*ClipboardItem)(nil)).
		Column("id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list item ids: %w", err)
	}
	return ids, nil
}

// ==================== PINBOARDS ====================

func (r *Repository) InsertPinboard(ctx context.Context, pb *Pinboard) error {
	if _, err := r.db.NewInsert().Model(pb).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert pinboard: %w", err)
	}
	return nil
}

func (r *Repository) ListPinboards(ctx context.Context) ([]*Pinboard, error) {
	var pinboards []*Pinboard
	err := r.db.NewSelect().
		Model(&pinboards).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinboards: %w", err)
	}
	return pinboards, nil
}

func (r *Repository) GetPinboard(ctx context.Context, id string) (*Pinboard, error) {
	var pb Pinboard
	err := r.db.NewSelect().
		Model(&pb).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pinboard: %w", err)
	}
	return &pb, nil
}

func (r *Repository) ListPinboardItems(ctx context.Context, pinboardID string, limit int) ([]*ClipboardItem, error) {
	var items []*ClipboardItem
	err := r.db.NewSelect().
		Model(&items).
		Where("pinboard_id = ?", pinboardID).
		OrderExpr("created_at DESC, rowid DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinboard items: %w", err)
	}
	return items, nil
}

func (r *Repository) UpdatePinboard(ctx context.Context, id, name, icon string) error {
	res, err := r.db.NewUpdate().
		Model((*Pinboard)(nil)).
		Set("name = ?", name).
		Set("icon = ?", icon).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update pinboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePinboard removes the pinboard and returns its members to live
// history. Members are never deleted with their board.
func (r *Repository) DeletePinboard(ctx context.Context, id string) error {
	if _, err := r.db.NewUpdate().
		Model((*ClipboardItem)(nil)).
		Set("pinboard_id = NULL").
		Where("pinboard_id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to release pinboard items: %w", err)
	}

	res, err := r.db.NewDelete().
		Model((*Pinboard)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete pinboard: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderPinboards rewrites positions to match the given id order.
func (r *Repository) ReorderPinboards(ctx context.Context, ids []string) error {
	for position, id := range ids {
		if _, err := r.db.NewUpdate().
			Model((*Pinboard)(nil)).
			Set("position = ?", position).
			Where("id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update pinboard position: %w", err)
		}
	}
	return nil
}

// ==================== SETTINGS ====================

func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var s Setting
	err := r.db.NewSelect().
		Model(&s).
		Where("key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return s.Value, nil
}

func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	s := &Setting{Key: key, Value: value}
	_, err := r.db.NewInsert().
		Model(s).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// HistoryLimit reads the retention limit setting, falling back to the
// default on missing or malformed values.
func (r *Repository) HistoryLimit(ctx context.Context) int {
	value, err := r.GetSetting(ctx, "history_limit")
	if err != nil {
		return defaultHistoryLimit
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}
	return limit
}

func (r *Repository) Close() error {
	return r.db.Close()
}
