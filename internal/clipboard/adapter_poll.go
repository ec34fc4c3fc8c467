package clipboard

import (
	"bytes"
	"image"
	_ "image/png"
	"time"

	xclipboard "golang.design/x/clipboard"

	"github.com/HugoSbl/clipster/internal/logger"
)

// pollAdapter watches the clipboard by polling golang.design/x/clipboard.
// The library normalizes images to PNG on every platform, which is exactly
// the encoding the ingestion pipeline expects. File lists are not exposed
// by the library, so this adapter only ever reports text and images; the
// Files flow is exercised by native adapters and by tests.
type pollAdapter struct {
	watchCh chan struct{}
	done    chan struct{}
	log     logger.Logger

	interval time.Duration
	settle   time.Duration

	lastText []byte
	lastImg  []byte
}

// NewPollAdapter initializes the system clipboard and starts the poll
// loop. Returns an error when no display environment is present; callers
// typically fall back to NewHeadlessAdapter.
func NewPollAdapter(interval, settle time.Duration, log logger.Logger) (Adapter, error) {
	if err := xclipboard.Init(); err != nil {
		return nil, err
	}

	a := &pollAdapter{
		watchCh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		log:      log,
		interval: interval,
		settle:   settle,
	}

	// Prime with the current state so pre-existing clipboard content does
	// not fire a change on startup.
	a.lastText = xclipboard.Read(xclipboard.FmtText)
	a.lastImg = xclipboard.Read(xclipboard.FmtImage)

	go a.poll()
	return a, nil
}

func (a *pollAdapter) poll() {
	t := time.NewTicker(a.interval)
	defer t.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-t.C:
			text := xclipboard.Read(xclipboard.FmtText)
			img := xclipboard.Read(xclipboard.FmtImage)
			if bytes.Equal(text, a.lastText) && bytes.Equal(img, a.lastImg) {
				continue
			}
			a.lastText = text
			a.lastImg = img

			// Transient clears: some applications empty the clipboard
			// before writing the real formats. Skip empty states and let
			// the write itself trigger the next tick's signal.
			if len(text) == 0 && len(img) == 0 {
				continue
			}

			// Brief settle so slow writers finish publishing all formats
			// before the monitor reads.
			if a.settle > 0 {
				time.Sleep(a.settle)
			}

			select {
			case a.watchCh <- struct{}{}:
			default:
			}
		}
	}
}

func (a *pollAdapter) Read() (Content, error) {
	if img := xclipboard.Read(xclipboard.FmtImage); len(img) > 0 {
		data := ImageData{Data: img}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(img)); err == nil {
			data.Width = cfg.Width
			data.Height = cfg.Height
		}
		return Content{Kind: RawImage, Image: &data}, nil
	}
	if text := xclipboard.Read(xclipboard.FmtText); len(text) > 0 {
		return Content{Kind: RawText, Text: string(text)}, nil
	}
	return Content{Kind: RawEmpty}, nil
}

func (a *pollAdapter) Write(c Content) error {
	switch c.Kind {
	case RawText:
		xclipboard.Write(xclipboard.FmtText, []byte(c.Text))
	case RawImage:
		if c.Image != nil {
			xclipboard.Write(xclipboard.FmtImage, c.Image.Data)
		}
	}
	return nil
}

// SourceAppInfo is platform glue outside this adapter's reach; native
// adapters supply it where the OS exposes a clipboard owner.
func (a *pollAdapter) SourceAppInfo() (string, []byte) {
	return "", nil
}

func (a *pollAdapter) Watch() <-chan struct{} { return a.watchCh }

func (a *pollAdapter) Close() { close(a.done) }
