package fileutil

import (
	"regexp"
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2621440, "2.5 MB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		{1610612736, "1.5 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d): got %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestTypeForFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"notes.pdf", "PDF"},
		{"Notes.PDF", "PDF"},
		{"essay.doc", "Word Document"},
		{"essay.docx", "Word Document"},
		{"slides.ppt", "PowerPoint"},
		{"slides.pptx", "PowerPoint"},
		{"readme.txt", "Text File"},
		{"photo.jpg", "Image"},
		{"photo.jpeg", "Image"},
		{"diagram.png", "Image"},
		{"anim.gif", "Image"},
		{"lecture.mp4", "Video"},
		{"lecture.mp3", "Audio"},
		{"bundle.zip", "Archive"},
		{"bundle.rar", "Archive"},
		{"data.csv", "File"},
		{"noext", "File"},
	}
	for _, tt := range tests {
		if got := TypeForFilename(tt.name); got != tt.want {
			t.Errorf("TypeForFilename(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestStorageFilename(t *testing.T) {
	name := StorageFilename("file", "Lecture Notes.PDF")

	re := regexp.MustCompile(`^file-\d+-\d+\.pdf$`)
	if !re.MatchString(name) {
		t.Errorf("unexpected storage filename shape: %q", name)
	}
	if strings.Contains(name, " ") {
		t.Errorf("storage filename must not contain spaces: %q", name)
	}

	// Two calls should essentially never collide.
	if other := StorageFilename("file", "Lecture Notes.PDF"); other == name {
		t.Errorf("expected distinct filenames, got %q twice", name)
	}
}
