// Package htmlpreview renders the read-only HTML review copy a filer checks
// before submitting.
package htmlpreview

import (
	"context"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/assembly"
	"github.com/goliatone/go-intake/pkg/condition"
	"github.com/goliatone/go-intake/pkg/document"
)

var previewTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; color: #1a1a1a; }
h1 { border-bottom: 2px solid #1a1a1a; padding-bottom: .5rem; }
h2 { margin-top: 2rem; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #ddd; }
th { width: 40%; font-weight: normal; color: #555; }
.stamp { color: #9a9a9a; font-size: .85rem; letter-spacing: .1em; text-transform: uppercase; }
.empty { color: #999; font-style: italic; }
</style>
</head>
<body>
<p class="stamp">{{ stamp }}</p>
<h1>{{ title }}</h1>
{% for section in sections %}
<section>
<h2>{{ section.Title }}</h2>
<table>
{% for field in section.Fields %}
<tr><th>{{ field.Label }}</th><td>{% if field.Value %}{{ field.Value }}{% else %}<span class="empty">not provided</span>{% endif %}</td></tr>
{% endfor %}
</table>
</section>
{% endfor %}
{% if uploads %}
<section>
<h2>Supporting Documents</h2>
<table>
{% for upload in uploads %}
<tr><th>{{ upload.Name }}</th><td>{{ upload.Status }}</td></tr>
{% endfor %}
</table>
</section>
{% endif %}
</body>
</html>
`))

type previewField struct {
	Label string
	Value string
}

type previewSection struct {
	Title  string
	Fields []previewField
}

type previewUpload struct {
	Name   string
	Status string
}

// Renderer builds the HTML review copy from the merged answers.
type Renderer struct{}

// New creates an HTML preview renderer.
func New() *Renderer { return &Renderer{} }

// Name implements assembly.FormRenderer.
func (r *Renderer) Name() string { return assembly.RendererHTML }

// ContentType implements assembly.FormRenderer.
func (r *Renderer) ContentType() string { return document.MimeHTML }

// Render walks the pathway's form sections in order, skipping fields whose
// visibility rule evaluates false, and renders every remaining answer the
// way it will appear on the filed documents.
func (r *Renderer) Render(ctx context.Context, job assembly.Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sections []previewSection
	for _, section := range job.Pathway.FormSections {
		var fields []previewField
		for _, field := range section.Fields {
			if !condition.Visible(field.VisibleWhen, job.Answers) {
				continue
			}
			value := ""
			if raw, ok := answers.Resolve(job.Answers, field.ID); ok {
				text, err := assembly.FormatValue(field.Type, raw)
				if err != nil {
					job.ReportWarning(field.ID, err.Error())
				} else {
					value = text
				}
			}
			fields = append(fields, previewField{Label: field.Label, Value: value})
		}
		if len(fields) > 0 {
			sections = append(sections, previewSection{Title: section.Title, Fields: fields})
		}
	}

	uploads := make([]previewUpload, 0, len(job.Uploads))
	for _, upload := range job.Uploads {
		uploads = append(uploads, previewUpload{
			Name:   upload.Name,
			Status: string(upload.Verification),
		})
	}

	out, err := previewTemplate.ExecuteBytes(pongo2.Context{
		"title":    job.Pathway.Title,
		"stamp":    assembly.WatermarkText,
		"sections": sections,
		"uploads":  uploads,
	})
	if err != nil {
		return nil, fmt.Errorf("htmlpreview: rendering review copy: %w", err)
	}
	return out, nil
}
