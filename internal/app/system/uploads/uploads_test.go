package uploads

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name        string
		filename    string
		contentType string
		wantErr     error
	}{
		{"pdf", "notes.pdf", "application/pdf", nil},
		{"docx", "assignment.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", nil},
		{"upper case extension", "NOTES.PDF", "application/pdf", nil},
		{"text wildcard mime", "readme.txt", "text/markdown", nil},
		{"mime with params", "notes.pdf", "application/pdf; charset=binary", nil},
		{"no declared mime", "notes.pdf", "", nil},
		{"executable", "virus.exe", "application/octet-stream", ErrUnsupportedType},
		{"no extension", "README", "text/plain", ErrUnsupportedType},
		{"good extension bad mime", "notes.pdf", "application/x-msdownload", ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Allowed(tc.filename, tc.contentType); err != tc.wantErr {
				t.Errorf("Allowed(%q, %q) = %v, want %v", tc.filename, tc.contentType, err, tc.wantErr)
			}
		})
	}
}

// fileHeader builds a *multipart.FileHeader the same way the HTTP stack
// hands one to a handler.
func fileHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="` + FieldName + `"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/api/content/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parsing form: %v", err)
	}
	return req.MultipartForm.File[FieldName][0]
}

func testSaver(t *testing.T) (*Saver, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocal(storage.LocalConfig{BasePath: dir, BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	return NewSaver(local, "", "/uploads", zap.NewNop()), dir
}

func TestSave(t *testing.T) {
	s, dir := testSaver(t)
	fh := fileHeader(t, "lecture one.pdf", "application/pdf", "%PDF-1.4 fake")

	res, err := s.Save(context.Background(), fh, "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(res.Path, FieldName+"-") || !strings.HasSuffix(res.Path, ".pdf") {
		t.Errorf("stored name %q does not follow field-timestamp-random.ext", res.Path)
	}
	if res.FileURL != "/uploads/"+res.Path {
		t.Errorf("file URL: got %q", res.FileURL)
	}
	if res.OriginalFileName != "lecture one.pdf" {
		t.Errorf("original name: got %q", res.OriginalFileName)
	}
	if res.Type != "PDF" {
		t.Errorf("type: got %q, want PDF", res.Type)
	}
	if res.SizeLabel == "" || res.SizeLabel == "Unknown size" {
		t.Errorf("size label: got %q", res.SizeLabel)
	}

	// What came in must be what lands on disk.
	stored, err := os.ReadFile(filepath.Join(dir, res.Path))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(stored) != "%PDF-1.4 fake" {
		t.Errorf("stored bytes: got %q, want the uploaded content", stored)
	}
}

func TestSave_FileURLFromRequestOrigin(t *testing.T) {
	s, _ := testSaver(t)
	fh := fileHeader(t, "notes.pdf", "application/pdf", "x")

	res, err := s.Save(context.Background(), fh, "http://eduhub.example.com")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if res.FileURL != "http://eduhub.example.com/uploads/"+res.Path {
		t.Errorf("file URL: got %q", res.FileURL)
	}
}

func TestSave_ConfiguredBaseOverridesRequestOrigin(t *testing.T) {
	local, err := storage.NewLocal(storage.LocalConfig{BasePath: t.TempDir(), BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	s := NewSaver(local, "https://cdn.example.com/", "/uploads", zap.NewNop())
	fh := fileHeader(t, "notes.pdf", "application/pdf", "x")

	res, err := s.Save(context.Background(), fh, "http://eduhub.example.com")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if res.FileURL != "https://cdn.example.com/uploads/"+res.Path {
		t.Errorf("file URL: got %q", res.FileURL)
	}
}

func TestSave_RejectsUnsupportedType(t *testing.T) {
	s, _ := testSaver(t)
	fh := fileHeader(t, "script.sh", "text/x-shellscript", "#!/bin/sh")

	if _, err := s.Save(context.Background(), fh, ""); err != ErrUnsupportedType {
		t.Errorf("got %v, want ErrUnsupportedType", err)
	}
}

func TestSave_RejectsOversized(t *testing.T) {
	s, _ := testSaver(t)
	fh := fileHeader(t, "big.zip", "application/zip", "zip")
	fh.Size = MaxFileSize + 1

	if _, err := s.Save(context.Background(), fh, ""); err != ErrTooLarge {
		t.Errorf("got %v, want ErrTooLarge", err)
	}
}

func TestSave_DistinctNamesForSameFile(t *testing.T) {
	s, _ := testSaver(t)
	ctx := context.Background()

	a, err := s.Save(ctx, fileHeader(t, "notes.pdf", "application/pdf", "one"), "")
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	b, err := s.Save(ctx, fileHeader(t, "notes.pdf", "application/pdf", "two"), "")
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if a.Path == b.Path {
		t.Errorf("expected distinct stored names, both were %q", a.Path)
	}
}
