package intake

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-intake/pkg/analysis"
	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/assembly"
	"github.com/goliatone/go-intake/pkg/document"
)

const pathwayYAML = `
id: joint-divorce
title: Joint Petition for Divorce
steps: [documents, forms, review]
documentRequirements:
  - id: marriage-certificate
    title: Marriage Certificate
    maxSize: 5242880
formSections:
  - id: marriage
    title: Marriage Details
    fields:
      - id: marriageInfo.date
        label: Marriage Date
        type: date
        required: true
fieldMappings:
  MarriageDate: marriageInfo.date
templates:
  mainForm: divorce-petition
`

type stubRenderer struct {
	name        string
	contentType string
}

func (r stubRenderer) Name() string        { return r.name }
func (r stubRenderer) ContentType() string { return r.contentType }

func (r stubRenderer) Render(ctx context.Context, job assembly.Job) ([]byte, error) {
	return []byte(r.name), nil
}

func stubRegistry() *assembly.Registry {
	registry := assembly.NewRegistry()
	registry.MustRegister(stubRenderer{name: assembly.RendererPDFForm, contentType: document.MimePDF})
	registry.MustRegister(stubRenderer{name: assembly.RendererDOCXMerge, contentType: document.MimeDOCX})
	registry.MustRegister(stubRenderer{name: assembly.RendererHTML, contentType: document.MimeHTML})
	return registry
}

func docxFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating document.xml: %v", err)
	}
	if _, err := f.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>certificate</w:t></w:r></w:p></w:body></w:document>`)); err != nil {
		t.Fatalf("writing document.xml: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func testSession(t *testing.T, opts ...SessionOption) *Session {
	t.Helper()
	cfg, err := LoadPathway([]byte(pathwayYAML))
	if err != nil {
		t.Fatalf("LoadPathway() error = %v", err)
	}
	fsys := fstest.MapFS{
		"templates/divorce-petition.pdf": {Data: []byte("%PDF-1.7 petition")},
	}
	base := []SessionOption{
		WithTemplateDir(fsys, "templates"),
		WithRegistry(stubRegistry()),
	}
	return New(cfg, append(base, opts...)...)
}

func TestSessionLifecycle(t *testing.T) {
	session := testSession(t, WithAnalyzer(analysis.AnalyzerFunc(
		func(ctx context.Context, upload Upload) (document.ExtractionResult, error) {
			return document.ExtractionResult{
				Confidence:   0.92,
				DocumentType: "marriage-certificate",
				FormFields:   map[string]any{"marriageInfo.date": "2019-06-01"},
			}, nil
		})))

	ctx := context.Background()

	// Before any upload the checklist blocks submission.
	if status := session.Checklist()["marriage-certificate"]; status != document.StatusMissing {
		t.Fatalf("status = %q, want missing", status)
	}
	if _, err := session.GenerateDocuments(ctx); !errors.Is(err, ErrSubmissionInvalid) {
		t.Fatalf("GenerateDocuments() error = %v, want ErrSubmissionInvalid", err)
	}

	upload, err := session.AddUpload(ctx, Upload{
		Name:     "marriage-certificate.docx",
		Content:  docxFixture(t),
		MimeType: document.MimeDOCX,
	})
	if err != nil {
		t.Fatalf("AddUpload() error = %v", err)
	}
	if upload.Type != "marriage-certificate" {
		t.Errorf("upload.Type = %q, want marriage-certificate", upload.Type)
	}

	// Extraction pre-fills the form; an empty step still picks it up.
	merged := session.MergeAnswers(Model{})
	if got, _ := answers.Resolve(merged, "marriageInfo.date"); got != "2019-06-01" {
		t.Errorf("marriageInfo.date = %v, want extraction value", got)
	}

	// The filer corrects the extracted date; the edit wins.
	merged = session.MergeAnswers(Model{
		"marriageInfo": map[string]any{"date": "2019-06-02"},
	})
	if got, _ := answers.Resolve(merged, "marriageInfo.date"); got != "2019-06-02" {
		t.Errorf("marriageInfo.date = %v, want user edit", got)
	}

	result := session.Validate()
	if !result.Valid {
		t.Fatalf("Validate() errors = %v", result.Errors)
	}

	artifacts, err := session.GenerateDocuments(ctx)
	if err != nil {
		t.Fatalf("GenerateDocuments() error = %v", err)
	}
	// Main form, certified copy, review copy.
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}

	session.CleanupCache()
}

func TestEditSurvivesLaterExtraction(t *testing.T) {
	session := testSession(t, WithAnalyzer(analysis.AnalyzerFunc(
		func(ctx context.Context, upload Upload) (document.ExtractionResult, error) {
			return document.ExtractionResult{
				Confidence:   0.9,
				DocumentType: "marriage-certificate",
				FormFields:   map[string]any{"marriageInfo.date": "1999-12-31"},
			}, nil
		})))

	ctx := context.Background()

	// The filer types the date first, then uploads a certificate whose
	// extraction disagrees. The manual edit must stay on top even though
	// the auto-fill arrived afterwards.
	session.MergeAnswers(Model{
		"marriageInfo": map[string]any{"date": "2020-01-01"},
	})
	if _, err := session.AddUpload(ctx, Upload{
		Name:     "marriage-certificate.docx",
		Content:  docxFixture(t),
		MimeType: document.MimeDOCX,
	}); err != nil {
		t.Fatalf("AddUpload() error = %v", err)
	}

	merged := session.MergeAnswers(Model{})
	if got, _ := answers.Resolve(merged, "marriageInfo.date"); got != "2020-01-01" {
		t.Fatalf("marriageInfo.date = %v, want the earlier manual edit", got)
	}

	// Revisiting a later section must not re-apply extraction either.
	merged = session.MergeAnswers(Model{"description": "We agree on all terms."})
	if got, _ := answers.Resolve(merged, "marriageInfo.date"); got != "2020-01-01" {
		t.Fatalf("marriageInfo.date = %v after later step, want the manual edit", got)
	}
}

func TestSavedAnswersSitBelowExtraction(t *testing.T) {
	session := testSession(t,
		WithSavedAnswers(Model{
			"marriageInfo": map[string]any{"date": "1980-01-01"},
		}),
		WithAnalyzer(analysis.AnalyzerFunc(
			func(ctx context.Context, upload Upload) (document.ExtractionResult, error) {
				return document.ExtractionResult{
					Confidence:   0.9,
					DocumentType: "marriage-certificate",
					FormFields:   map[string]any{"marriageInfo.date": "2019-06-01"},
				}, nil
			})))

	if _, err := session.AddUpload(context.Background(), Upload{
		Name:     "marriage-certificate.docx",
		Content:  docxFixture(t),
		MimeType: document.MimeDOCX,
	}); err != nil {
		t.Fatalf("AddUpload() error = %v", err)
	}

	if got, _ := answers.Resolve(session.Answers(), "marriageInfo.date"); got != "2019-06-01" {
		t.Fatalf("marriageInfo.date = %v, want extraction over the saved baseline", got)
	}
}

func TestGenerateDocumentsWrapsPipelineFailure(t *testing.T) {
	cfg, err := LoadPathway([]byte(pathwayYAML))
	if err != nil {
		t.Fatalf("LoadPathway() error = %v", err)
	}
	// No template source: the pipeline fails at the template step.
	session := New(cfg, WithRegistry(stubRegistry()))
	session.MergeAnswers(Model{"marriageInfo": map[string]any{"date": "2019-06-01"}})
	if _, err := session.AddUpload(context.Background(), Upload{
		Name:     "marriage-certificate.pdf",
		Content:  []byte("scan"),
		MimeType: document.MimePDF,
	}); err != nil {
		t.Fatalf("AddUpload() error = %v", err)
	}

	_, err = session.GenerateDocuments(context.Background())
	if err == nil {
		t.Fatal("expected pipeline failure")
	}
	if !strings.Contains(err.Error(), "Failed to generate documents. Please check your inputs.") {
		t.Errorf("error %q lacks the user-facing message", err)
	}

	var assemblyErr *assembly.Error
	if !errors.As(err, &assemblyErr) {
		t.Errorf("typed cause is not preserved: %v", err)
	}
}

func TestAddUploadSurfacesAnalysisFailure(t *testing.T) {
	session := testSession(t, WithAnalyzer(analysis.AnalyzerFunc(
		func(ctx context.Context, upload Upload) (document.ExtractionResult, error) {
			return document.ExtractionResult{}, errors.New("unreadable scan")
		})))

	if _, err := session.AddUpload(context.Background(), Upload{Name: "blurry.pdf"}); err == nil {
		t.Fatal("expected analysis failure to surface")
	}
}
