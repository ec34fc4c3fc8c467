package clipboard

// headlessAdapter is the fallback when no display environment is available
// (SSH session, container). It never reports content or changes, so the
// daemon can still serve history queries over HTTP and the CLI.
type headlessAdapter struct {
	watchCh chan struct{}
}

func NewHeadlessAdapter() Adapter {
	return &headlessAdapter{watchCh: make(chan struct{})}
}

func (a *headlessAdapter) Read() (Content, error) { return Content{Kind: RawEmpty}, nil }

func (a *headlessAdapter) Write(Content) error { return nil }

func (a *headlessAdapter) SourceAppInfo() (string, []byte) { return "", nil }

func (a *headlessAdapter) Watch() <-chan struct{} { return a.watchCh }

func (a *headlessAdapter) Close() {}
