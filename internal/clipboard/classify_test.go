package clipboard

import (
	"testing"

	"github.com/HugoSbl/clipster/internal/storage"
)

func TestClassifyText(t *testing.T) {
	cases := []struct {
		text string
		want storage.ContentType
	}{
		{"https://example.com", storage.TypeLink},
		{"http://example.com", storage.TypeLink},
		{"ftp://host.example/file", storage.TypeLink},
		{"file:///tmp/notes.txt", storage.TypeLink},
		{"www.x.co", storage.TypeLink},
		{"WWW.EXAMPLE.COM", storage.TypeLink},
		{"Hello world", storage.TypeText},
		{"https://example.com\nmore", storage.TypeText}, // multi-line is never a link
		{"https://nodot", storage.TypeText},
		{"notaurl.com", storage.TypeText},
		{"  https://example.com  ", storage.TypeLink},
	}

	for _, tc := range cases {
		if got := ClassifyText(tc.text); got != tc.want {
			t.Errorf("ClassifyText(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestClassifyFiles(t *testing.T) {
	cases := []struct {
		paths []string
		want  storage.ContentType
	}{
		{[]string{"a.mp3"}, storage.TypeAudio},
		{[]string{"/music/track1.wav", "/music/track2.FLAC"}, storage.TypeAudio},
		{[]string{"a.pdf"}, storage.TypeDocuments},
		{[]string{"report.docx", "data.xlsx"}, storage.TypeDocuments},
		{[]string{"a.pdf", "a.mp3"}, storage.TypeFiles}, // mixed
		{[]string{"photo.jpg"}, storage.TypeFiles},
		{[]string{"noextension"}, storage.TypeFiles},
		{[]string{"C:\\Users\\me\\song.M4A"}, storage.TypeAudio},
	}

	for _, tc := range cases {
		if got := ClassifyFiles(tc.paths); got != tc.want {
			t.Errorf("ClassifyFiles(%v) = %s, want %s", tc.paths, got, tc.want)
		}
	}
}
