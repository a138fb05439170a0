package assembly

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/goliatone/go-intake/pkg/document"
)

// WatermarkText is stamped across every certified copy that leaves the
// assembler. Court clerks reject stamped copies submitted as originals.
const WatermarkText = "Certified Copy - Not for Official Use"

// WatermarkUpload returns a stamped copy of an uploaded document. Only PDF
// and DOCX payloads can carry the stamp; any other mime type is an error
// that names the offending document.
func WatermarkUpload(upload document.Upload) ([]byte, error) {
	switch upload.MimeType {
	case document.MimePDF:
		return watermarkPDF(upload.Content)
	case document.MimeDOCX:
		return watermarkDOCX(upload.Content)
	default:
		return nil, fmt.Errorf("assembly: cannot watermark %s: unsupported mime type %s", upload.Name, upload.MimeType)
	}
}

// pageOffsetFraction spreads the stamp vertically across the document so no
// two pages carry it at the same spot, whatever the page count. Pages are
// placed evenly through the 10% to 90% band of the page height, keeping the
// stamp off the margins.
func pageOffsetFraction(page, total int) float64 {
	if total <= 1 {
		return 0.5
	}
	const low, high = 0.10, 0.90
	return low + (high-low)*float64(page-1)/float64(total-1)
}

func watermarkPDF(content []byte) ([]byte, error) {
	rs := bytes.NewReader(content)
	conf := model.NewDefaultConfiguration()

	count, err := api.PageCount(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("assembly: counting pages: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	dims, err := api.PageDims(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("assembly: reading page dimensions: %w", err)
	}

	marks := make(map[int]*model.Watermark, count)
	for page := 1; page <= count; page++ {
		height := 792.0
		if page <= len(dims) {
			height = dims[page-1].Height
		}
		offset := pageOffsetFraction(page, count) * height
		desc := fmt.Sprintf("points:18, pos:bl, offset:40 %.0f, rot:45, op:0.4, fillc:#9a9a9a", offset)
		wm, err := api.TextWatermark(WatermarkText, desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("assembly: building watermark for page %d: %w", page, err)
		}
		marks[page] = wm
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := api.AddWatermarksMap(rs, &out, marks, conf); err != nil {
		return nil, fmt.Errorf("assembly: stamping pdf: %w", err)
	}
	return out.Bytes(), nil
}

// watermarkDOCX rewrites the document archive, injecting a stamp paragraph
// at the head of the body. Word lays watermarks out through headers
// normally, but a leading paragraph survives every viewer we target.
func watermarkDOCX(content []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("assembly: opening docx archive: %w", err)
	}

	stamp := fmt.Sprintf(
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:color w:val="9A9A9A"/><w:sz w:val="36"/></w:rPr><w:t>%s</w:t></w:r></w:p>`,
		WatermarkText,
	)

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	stamped := false
	for _, entry := range reader.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("assembly: reading %s: %w", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("assembly: reading %s: %w", entry.Name, err)
		}

		if entry.Name == "word/document.xml" {
			text := string(data)
			idx := strings.Index(text, "<w:body>")
			if idx < 0 {
				return nil, fmt.Errorf("assembly: %s has no document body", entry.Name)
			}
			insert := idx + len("<w:body>")
			data = []byte(text[:insert] + stamp + text[insert:])
			stamped = true
		}

		w, err := writer.Create(entry.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	if !stamped {
		return nil, fmt.Errorf("assembly: archive contains no word/document.xml")
	}
	return out.Bytes(), nil
}
