package knowledge

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	maxImageSize = 15 * 1024 * 1024 // raw bytes; base64 inflation happens at the provider
	maxTextSize  = 500 * 1024
)

// imageExts maps file extensions to MIME types for supported image formats.
var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IngestText wraps manually entered text as a knowledge item.
func IngestText(name, text string) (Item, error) {
	if strings.TrimSpace(text) == "" {
		return Item{}, fmt.Errorf("empty text for %q", name)
	}
	return NewTextItem(name, text), nil
}

// IngestFile reads a file from disk and converts it into a knowledge item.
// Images keep their raw bytes and MIME type, PDFs have their text extracted,
// and anything that looks like text is taken verbatim.
func IngestFile(path string) (Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Item{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return Item{}, fmt.Errorf("%s is empty", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	name := filepath.Base(path)

	if mediaType, ok := imageExts[ext]; ok {
		if info.Size() > maxImageSize {
			return Item{}, fmt.Errorf("image %s too large: %.1f MB", name, float64(info.Size())/(1024*1024))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Item{}, fmt.Errorf("read image %s: %w", path, err)
		}
		return NewImageItem(name, data, mediaType), nil
	}

	if ext == ".pdf" {
		text, err := extractPDFText(path)
		if err != nil {
			return Item{}, fmt.Errorf("extract text from %s: %w", name, err)
		}
		if strings.TrimSpace(text) == "" {
			return Item{}, fmt.Errorf("%s contains no extractable text", name)
		}
		return NewTextItem(name, text), nil
	}

	if !isLikelyText(path) {
		return Item{}, fmt.Errorf("unsupported file type: %s", name)
	}
	if info.Size() > maxTextSize {
		return Item{}, fmt.Errorf("file %s too large: %.1f KB", name, float64(info.Size())/1024)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, fmt.Errorf("read %s: %w", path, err)
	}
	return NewTextItem(name, string(data)), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// isLikelyText sniffs the first 512 bytes to decide whether a file with an
// unrecognized extension can be treated as text.
func isLikelyText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return false
	}
	ct := http.DetectContentType(buf[:n])
	return strings.HasPrefix(ct, "text/") || ct == "application/json"
}
