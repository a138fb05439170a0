package assembly

import (
	"archive/zip"
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/goliatone/go-intake/pkg/document"
)

func TestPageOffsetFraction(t *testing.T) {
	// Every page of a five-page document lands at a distinct height.
	seen := map[float64]bool{}
	for page := 1; page <= 5; page++ {
		frac := pageOffsetFraction(page, 5)
		if frac < 0.10 || frac > 0.90 {
			t.Errorf("page %d: fraction %v outside [0.10, 0.90]", page, frac)
		}
		if seen[frac] {
			t.Errorf("page %d: fraction %v repeats", page, frac)
		}
		seen[frac] = true
	}

	// Middle page sits at mid-height.
	if got := pageOffsetFraction(3, 5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("pageOffsetFraction(3, 5) = %v, want 0.5", got)
	}

	// Long documents stay inside the margins without collapsing pages onto
	// the same offset.
	if got := pageOffsetFraction(1, 40); got != 0.10 {
		t.Errorf("pageOffsetFraction(1, 40) = %v, want 0.10", got)
	}
	if got := pageOffsetFraction(40, 40); math.Abs(got-0.90) > 1e-9 {
		t.Errorf("pageOffsetFraction(40, 40) = %v, want 0.90", got)
	}
	long := map[float64]bool{}
	for page := 1; page <= 40; page++ {
		frac := pageOffsetFraction(page, 40)
		if frac < 0.10 || frac > 0.90+1e-9 {
			t.Errorf("page %d of 40: fraction %v outside [0.10, 0.90]", page, frac)
		}
		if long[frac] {
			t.Errorf("page %d of 40: fraction %v repeats", page, frac)
		}
		long[frac] = true
	}

	// Single-page documents never divide by zero.
	if got := pageOffsetFraction(1, 1); got != 0.5 {
		t.Errorf("pageOffsetFraction(1, 1) = %v, want 0.5", got)
	}
}

func minimalDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   `<?xml version="1.0"?><w:document><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestWatermarkDOCX(t *testing.T) {
	original := minimalDOCX(t, `<w:p><w:r><w:t>Financial Disclosure</w:t></w:r></w:p>`)

	stamped, err := WatermarkUpload(document.Upload{
		Name:     "disclosure.docx",
		Content:  original,
		MimeType: document.MimeDOCX,
	})
	if err != nil {
		t.Fatalf("WatermarkUpload() error = %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(stamped), int64(len(stamped)))
	if err != nil {
		t.Fatalf("stamped output is not a zip archive: %v", err)
	}

	var doc string
	for _, entry := range reader.File {
		if entry.Name != "word/document.xml" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("opening document.xml: %v", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading document.xml: %v", err)
		}
		doc = string(data)
	}

	if !strings.Contains(doc, WatermarkText) {
		t.Error("stamped document.xml does not contain the watermark text")
	}
	if !strings.Contains(doc, "Financial Disclosure") {
		t.Error("stamping dropped the original body content")
	}
	if strings.Index(doc, WatermarkText) > strings.Index(doc, "Financial Disclosure") {
		t.Error("watermark paragraph should precede the original content")
	}
}

func TestWatermarkDOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("word/styles.xml")
	f.Write([]byte(`<w:styles/>`))
	w.Close()

	_, err := WatermarkUpload(document.Upload{
		Name:     "broken.docx",
		Content:  buf.Bytes(),
		MimeType: document.MimeDOCX,
	})
	if err == nil {
		t.Fatal("expected error for archive without word/document.xml")
	}
}

func TestWatermarkUnsupportedMime(t *testing.T) {
	_, err := WatermarkUpload(document.Upload{
		Name:     "photo.jpg",
		Content:  []byte{0xff, 0xd8},
		MimeType: "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected error for unsupported mime type")
	}
	if !strings.Contains(err.Error(), "photo.jpg") {
		t.Errorf("error %q does not name the document", err)
	}
}
