package pdfform

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-intake/pkg/assembly"
	"github.com/goliatone/go-intake/pkg/pathway"
)

func TestBuildFormJSON(t *testing.T) {
	job := assembly.Job{
		Values: map[string]assembly.PreparedValue{
			"PetitionerName": {
				Field: pathway.Field{ID: "petitioner.name", Type: pathway.FieldText},
				Text:  "Jordan Smith",
			},
			"SharedAssets": {
				Field:   pathway.Field{ID: "marriageInfo.sharedAssets", Type: pathway.FieldCheckbox},
				Checked: true,
			},
			"FilingCounty": {
				Field: pathway.Field{
					ID:   "filing.county",
					Type: pathway.FieldDropdown,
					Options: []pathway.Option{
						{Value: "king", Label: "King County"},
						{Value: "pierce", Label: "Pierce County"},
					},
				},
				Text: "king",
			},
		},
	}

	payload, err := buildFormJSON(job)
	if err != nil {
		t.Fatalf("buildFormJSON() error = %v", err)
	}

	var got formGroup
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	want := formGroup{Forms: []form{{
		TextFields: []textField{{Name: "PetitionerName", Value: "Jordan Smith"}},
		CheckBoxes: []checkBox{{Name: "SharedAssets", Value: true}},
		ComboBoxes: []comboBox{{Name: "FilingCounty", Value: "king"}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("form payload mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFormJSONSkipsUnmatchedDropdown(t *testing.T) {
	var warned []string
	job := assembly.Job{
		Values: map[string]assembly.PreparedValue{
			"FilingCounty": {
				Field: pathway.Field{
					ID:      "filing.county",
					Type:    pathway.FieldDropdown,
					Options: []pathway.Option{{Value: "king", Label: "King County"}},
				},
				Text: "narnia",
			},
		},
		Warn: func(field, reason string) { warned = append(warned, field) },
	}

	payload, err := buildFormJSON(job)
	if err != nil {
		t.Fatalf("buildFormJSON() error = %v", err)
	}

	var got formGroup
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(got.Forms[0].ComboBoxes) != 0 {
		t.Errorf("unmatched dropdown was written: %+v", got.Forms[0].ComboBoxes)
	}
	if diff := cmp.Diff([]string{"FilingCounty"}, warned); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRequiresTemplate(t *testing.T) {
	renderer := New()
	if _, err := renderer.Render(context.Background(), assembly.Job{}); err == nil {
		t.Fatal("expected error for empty template")
	}
}
