// Package fileutil holds the pure helpers the upload pipeline is built on:
// collision-resistant storage filenames, human-readable size formatting,
// and the extension-to-content-kind mapping.
package fileutil

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

// StorageFilename generates a collision-resistant name for a stored upload:
// <field>-<unix-millis>-<random-int><original-extension>. The original
// filename contributes only its extension, so user-controlled names never
// reach the disk.
func StorageFilename(field, originalName string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Int63n(1_000_000_000))
	return field + "-" + suffix + strings.ToLower(filepath.Ext(originalName))
}

// FormatSize renders a byte count as a human-readable string using base-1024
// units with two decimal places, e.g. "2.50 MB". Sizes at or above 1 GB
// stay in GB.
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	// Trim trailing zeros the way %g would, but keep at most two decimals.
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + units[i]
}

// typeByExtension maps a lowercase extension (no dot) to the content kind
// shown to visitors.
var typeByExtension = map[string]string{
	"pdf":  "PDF",
	"doc":  "Word Document",
	"docx": "Word Document",
	"ppt":  "PowerPoint",
	"pptx": "PowerPoint",
	"txt":  "Text File",
	"jpg":  "Image",
	"jpeg": "Image",
	"png":  "Image",
	"gif":  "Image",
	"mp4":  "Video",
	"mp3":  "Audio",
	"zip":  "Archive",
	"rar":  "Archive",
}

// TypeForFilename derives the content kind from a filename's extension,
// falling back to "File" for anything unrecognized.
func TypeForFilename(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if t, ok := typeByExtension[ext]; ok {
		return t
	}
	return "File"
}
