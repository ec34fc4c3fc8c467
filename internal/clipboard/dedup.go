package clipboard

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// imageProbeSize bounds how much of an image is fingerprinted. Hashing the
// full bytes of a large screenshot on every poll tick is wasted work; the
// prefix distinguishes real captures just as well.
const imageProbeSize = 10 * 1024

// FingerprintText fingerprints a text capture over the full string.
func FingerprintText(text string) string {
	return fingerprint([]byte(text))
}

// FingerprintImage fingerprints an image capture over a bounded prefix of
// its raw bytes.
func FingerprintImage(data []byte) string {
	if len(data) > imageProbeSize {
		data = data[:imageProbeSize]
	}
	return fingerprint(data)
}

// FingerprintFiles fingerprints a file-list capture over the pipe-joined
// path list.
func FingerprintFiles(paths []string) string {
	return fingerprint([]byte(strings.Join(paths, "|")))
}

func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Gate suppresses adapter-level re-delivery of the same clipboard state by
// comparing each capture's fingerprint against the immediately preceding
// accepted one. The monitor loop is the main writer; copy-back seeds the
// gate from another goroutine, hence the lock.
type Gate struct {
	mu   sync.Mutex
	last string
}

// Accept reports whether the fingerprint differs from the previous
// accepted capture, recording it when it does.
func (g *Gate) Accept(fp string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if fp == g.last {
		return false
	}
	g.last = fp
	return true
}

// Seed records a fingerprint without an accept decision, so a clipboard
// write made by this application is not re-captured.
func (g *Gate) Seed(fp string) {
	g.mu.Lock()
	g.last = fp
	g.mu.Unlock()
}
