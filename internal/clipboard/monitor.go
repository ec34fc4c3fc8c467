package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HugoSbl/clipster/internal/ingest"
	"github.com/HugoSbl/clipster/internal/logger"
	"github.com/HugoSbl/clipster/internal/storage"
)

// Monitor drives the capture pipeline: adapter change signals in,
// classified, deduplicated, persisted items and outward events out.
// It is either Stopped or Running, with at most one background goroutine.
type Monitor struct {
	adapter  Adapter
	repo     *storage.Repository
	pipeline *ingest.Pipeline
	files    *storage.FileStore
	log      logger.Logger

	maxItemSize int

	gate      Gate
	eventChan chan Event

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewMonitor(
	adapter Adapter,
	repo *storage.Repository,
	pipeline *ingest.Pipeline,
	files *storage.FileStore,
	maxItemSize int,
	log logger.Logger,
) *Monitor {
	return &Monitor{
		adapter:     adapter,
		repo:        repo,
		pipeline:    pipeline,
		files:       files,
		log:         log,
		maxItemSize: maxItemSize,
		eventChan:   make(chan Event, 100),
	}
}

// Events delivers one event per accepted capture, after the row is durably
// inserted.
func (m *Monitor) Events() <-chan Event {
	return m.eventChan
}

// Start transitions to Running and spawns the capture loop. Calling Start
// while already Running is a no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	// Fingerprint whatever is on the clipboard now so pre-existing content
	// is not captured on startup.
	if content, err := m.adapter.Read(); err == nil && !content.Empty() {
		m.gate.Seed(contentFingerprint(content))
	}

	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.running = true

	go m.run(ctx, m.stopCh, m.doneCh)

	m.log.Info("clipboard monitor started")
	return nil
}

// Stop signals the loop and blocks until it has exited. Safe to call when
// already stopped.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	m.log.Info("clipboard monitor stopped")
}

// Running reports the monitor state.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(ctx context.Context, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	watch := m.adapter.Watch()
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-watch:
			// The stop flag is checked only at iteration boundaries; an
			// in-flight capture is never preempted.
			m.capture(ctx)
		}
	}
}

// capture runs one pass of the dispatch pipeline. Every fallible step is
// handled here; a single capture's failure never terminates the loop.
func (m *Monitor) capture(ctx context.Context) {
	content, err := m.adapter.Read()
	if err != nil {
		m.log.Warn("clipboard read failed", logger.Error(err))
		return
	}
	if content.Empty() {
		return
	}

	if m.maxItemSize > 0 && content.Size() > m.maxItemSize {
		m.log.Debugf("clipboard item too large: %d bytes (max: %d)", content.Size(), m.maxItemSize)
		return
	}

	switch content.Kind {
	case RawText:
		m.captureText(ctx, content.Text)
	case RawImage:
		m.captureImage(ctx, content.Image)
	case RawFiles:
		m.captureFiles(ctx, content.Files)
	}
}

func (m *Monitor) captureText(ctx context.Context, text string) {
	if !m.gate.Accept(FingerprintText(text)) {
		m.log.Debug("duplicate text capture skipped")
		return
	}

	m.insertWithMoveToTop(ctx, ClassifyText(text), text, nil)
}

func (m *Monitor) captureFiles(ctx context.Context, paths []string) {
	if !m.gate.Accept(FingerprintFiles(paths)) {
		m.log.Debug("duplicate files capture skipped")
		return
	}

	m.insertWithMoveToTop(ctx, ClassifyFiles(paths), storage.EncodeFilePaths(paths), nil)
}

// insertWithMoveToTop applies the move-to-top policy and inserts: an
// existing unpinned row with the same payload is deleted, its provenance
// carried over (so re-copying from this very application keeps the
// original source), and its id reported in the outward event.
func (m *Monitor) insertWithMoveToTop(ctx context.Context, kind storage.ContentType, payload string, thumbnail []byte) {
	replaced, err := m.repo.DeleteUnpinnedByPayload(ctx, payload)
	if err != nil {
		// Degraded: treat as a fresh insert rather than dropping the capture.
		m.log.Warn("move-to-top lookup failed", logger.Error(err))
		replaced = nil
	}

	var sourceApp string
	var sourceIcon []byte
	var replacedID string
	if replaced != nil {
		replacedID = replaced.ID
		sourceApp = replaced.SourceApp
		sourceIcon = replaced.SourceAppIcon
	} else {
		sourceApp, sourceIcon = m.adapter.SourceAppInfo()
	}

	item := &storage.ClipboardItem{
		ID:            uuid.NewString(),
		Kind:          kind,
		Payload:       payload,
		Thumbnail:     thumbnail,
		SourceApp:     sourceApp,
		SourceAppIcon: sourceIcon,
		CreatedAt:     time.Now().UTC(),
	}

	if err := m.repo.InsertItem(ctx, item); err != nil {
		m.log.Error("capture lost: insert failed",
			logger.String("kind", string(kind)), logger.Error(err))
		return
	}

	m.finishCapture(ctx, item, replacedID)
}

func (m *Monitor) captureImage(ctx context.Context, img *ImageData) {
	if !m.gate.Accept(FingerprintImage(img.Data)) {
		m.log.Debug("duplicate image capture skipped")
		return
	}

	id := uuid.NewString()

	// Images use only the hash-gate; a new image is always a fresh insert,
	// never a replacement of prior image history.
	result, err := m.pipeline.Ingest(id, img.Data)
	if err != nil {
		m.log.Error("capture lost: image persistence failed",
			logger.String("id", id), logger.Error(err))
		return
	}

	sourceApp, sourceIcon := m.adapter.SourceAppInfo()

	item := &storage.ClipboardItem{
		ID:            id,
		Kind:          storage.TypeImage,
		Thumbnail:     result.Thumbnail,
		ImagePath:     result.ImagePath,
		SourceApp:     sourceApp,
		SourceAppIcon: sourceIcon,
		CreatedAt:     time.Now().UTC(),
	}

	if err := m.repo.InsertItem(ctx, item); err != nil {
		m.log.Error("capture lost: insert failed",
			logger.String("id", id), logger.Error(err))
		// Don't strand the image file without its row.
		if _, rerr := m.files.Remove(id); rerr != nil {
			m.log.Warn("failed to remove image after insert failure", logger.Error(rerr))
		}
		return
	}

	m.finishCapture(ctx, item, "")
}

// finishCapture runs the non-fatal tail of a successful insert: retention
// pruning and the outward notification. Neither may unwind the capture.
func (m *Monitor) finishCapture(ctx context.Context, item *storage.ClipboardItem, replacedID string) {
	limit := m.repo.HistoryLimit(ctx)
	if _, err := m.repo.PruneOldest(ctx, limit); err != nil {
		m.log.Warn("history pruning failed", logger.Error(err))
	}

	select {
	case m.eventChan <- Event{Item: item, ReplacedID: replacedID}:
	default:
		m.log.Warn("event channel full, notification dropped",
			logger.String("id", item.ID))
	}

	m.log.Debug("captured clipboard item",
		logger.String("id", item.ID),
		logger.String("kind", string(item.Kind)),
		logger.String("replaced", replacedID))
}

// CopyItem writes a stored item back to the OS clipboard and seeds the
// dedup gate so our own write is not re-captured.
func (m *Monitor) CopyItem(ctx context.Context, id string) error {
	item, err := m.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}

	var content Content
	var fp string
	switch item.Kind {
	case storage.TypeImage:
		data, err := m.files.Read(item.ID)
		if err != nil {
			return err
		}
		content = Content{Kind: RawImage, Image: &ImageData{Data: data}}
		fp = FingerprintImage(data)
	case storage.TypeFiles, storage.TypeAudio, storage.TypeDocuments:
		paths := item.FilePaths()
		content = Content{Kind: RawFiles, Files: paths}
		fp = FingerprintFiles(paths)
	default:
		content = Content{Kind: RawText, Text: item.Payload}
		fp = FingerprintText(item.Payload)
	}

	if err := m.adapter.Write(content); err != nil {
		return err
	}
	m.gate.Seed(fp)
	return nil
}

// DeleteItem removes an item and its image file, for the command layer.
func (m *Monitor) DeleteItem(ctx context.Context, id string) error {
	if err := m.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	if _, err := m.files.Remove(id); err != nil {
		m.log.Warn("failed to remove image file", logger.String("id", id), logger.Error(err))
	}
	return nil
}

func contentFingerprint(c Content) string {
	switch c.Kind {
	case RawImage:
		return FingerprintImage(c.Image.Data)
	case RawFiles:
		return FingerprintFiles(c.Files)
	default:
		return FingerprintText(c.Text)
	}
}
