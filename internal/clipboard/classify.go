package clipboard

import (
	"strings"

	"github.com/HugoSbl/clipster/internal/storage"
)

var urlPrefixes = []string{"http://", "https://", "ftp://", "file://", "www."}

var audioExtensions = map[string]struct{}{
	"mp3": {}, "wav": {}, "flac": {}, "aac": {}, "ogg": {},
	"wma": {}, "m4a": {}, "aiff": {}, "alac": {}, "opus": {},
}

var documentExtensions = map[string]struct{}{
	"pdf": {},
	"doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	"odt": {}, "ods": {}, "odp": {},
	"pages": {}, "numbers": {}, "keynote": {},
	"rtf": {}, "txt": {}, "csv": {},
}

// ClassifyText decides whether a text capture is a plain Text item or a
// Link. A link is single-line, contains a dot and starts with a known
// scheme prefix or "www.".
func ClassifyText(text string) storage.ContentType {
	trimmed := strings.TrimSpace(text)
	if isURL(trimmed) {
		return storage.TypeLink
	}
	return storage.TypeText
}

func isURL(text string) bool {
	lower := strings.ToLower(text)
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return !strings.Contains(text, "\n") && strings.Contains(text, ".")
		}
	}
	return false
}

// ClassifyFiles refines a file-list capture: Audio when every path has an
// audio extension, Documents when every path has a document extension,
// plain Files otherwise. Callers guard against empty lists.
func ClassifyFiles(paths []string) storage.ContentType {
	if len(paths) == 0 {
		return storage.TypeFiles
	}
	if allHaveExtension(paths, audioExtensions) {
		return storage.TypeAudio
	}
	if allHaveExtension(paths, documentExtensions) {
		return storage.TypeDocuments
	}
	return storage.TypeFiles
}

func allHaveExtension(paths []string, set map[string]struct{}) bool {
	for _, path := range paths {
		lower := strings.ToLower(path)
		dot := strings.LastIndex(lower, ".")
		if dot < 0 || dot == len(lower)-1 {
			return false
		}
		if _, ok := set[lower[dot+1:]]; !ok {
			return false
		}
	}
	return true
}
