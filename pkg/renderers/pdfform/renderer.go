// Package pdfform fills AcroForm fields in a PDF court-form template from
// prepared answer values.
package pdfform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/goliatone/go-intake/pkg/assembly"
	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
)

// Renderer renders the pathway's main form by filling the PDF template's
// named fields.
type Renderer struct{}

// New creates a PDF form renderer.
func New() *Renderer { return &Renderer{} }

// Name implements assembly.FormRenderer.
func (r *Renderer) Name() string { return assembly.RendererPDFForm }

// ContentType implements assembly.FormRenderer.
func (r *Renderer) ContentType() string { return document.MimePDF }

// Render fills the template's form fields. A dropdown value that matches no
// declared option is reported and left untouched; the form still renders.
func (r *Renderer) Render(ctx context.Context, job assembly.Job) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(job.Template) == 0 {
		return nil, fmt.Errorf("pdfform: template is required")
	}

	payload, err := buildFormJSON(job)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	conf := model.NewDefaultConfiguration()
	if err := api.FillForm(bytes.NewReader(job.Template), bytes.NewReader(payload), &out, conf); err != nil {
		return nil, fmt.Errorf("pdfform: filling form: %w", err)
	}
	return out.Bytes(), nil
}

type textField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type checkBox struct {
	Name   string `json:"name"`
	Value  bool   `json:"value"`
	Locked bool   `json:"locked"`
}

type comboBox struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type form struct {
	TextFields []textField `json:"textfield,omitempty"`
	CheckBoxes []checkBox  `json:"checkbox,omitempty"`
	ComboBoxes []comboBox  `json:"combobox,omitempty"`
}

type formGroup struct {
	Forms []form `json:"forms"`
}

// buildFormJSON converts prepared values into the pdfcpu form-fill payload,
// dispatching on the declared widget kind of each mapped field.
func buildFormJSON(job assembly.Job) ([]byte, error) {
	names := make([]string, 0, len(job.Values))
	for name := range job.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	var f form
	for _, name := range names {
		prepared := job.Values[name]
		switch prepared.Field.Type {
		case pathway.FieldCheckbox:
			f.CheckBoxes = append(f.CheckBoxes, checkBox{Name: name, Value: prepared.Checked})
		case pathway.FieldDropdown:
			if !prepared.Field.HasOption(prepared.Text) {
				job.ReportWarning(name, fmt.Sprintf("%q is not an option of %s", prepared.Text, prepared.Field.ID))
				continue
			}
			f.ComboBoxes = append(f.ComboBoxes, comboBox{Name: name, Value: prepared.Text})
		default:
			f.TextFields = append(f.TextFields, textField{Name: name, Value: prepared.Text})
		}
	}

	payload, err := json.Marshal(formGroup{Forms: []form{f}})
	if err != nil {
		return nil, fmt.Errorf("pdfform: encoding form payload: %w", err)
	}
	return payload, nil
}
