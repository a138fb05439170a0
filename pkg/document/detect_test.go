package document

import (
	"testing"

	"github.com/goliatone/go-intake/pkg/pathway"
)

func TestDetectType_Keywords(t *testing.T) {
	reqs := []pathway.DocumentRequirement{
		{ID: "marriage-certificate", FileNameKeywords: []string{"marriage", "certificate"}},
		{ID: "proof-of-income", FileNameKeywords: []string{"income", "tax"}},
	}

	cases := []struct {
		name string
		want string
	}{
		{"Marriage_Certificate_2015.pdf", "marriage-certificate"},
		{"2023 tax return.pdf", "proof-of-income"},
		{"vacation-photos.zip", GenericType},
		{"", GenericType},
	}
	for _, tc := range cases {
		if got := DetectType(tc.name, reqs); got != tc.want {
			t.Errorf("DetectType(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDetectType_FallsBackToRequirementID(t *testing.T) {
	reqs := []pathway.DocumentRequirement{{ID: "property-document"}}

	if got := DetectType("property_deed.pdf", reqs); got != "property-document" {
		t.Fatalf("expected id-derived keyword match, got %q", got)
	}
}

func TestClassifyUpload_PrefersAnalysis(t *testing.T) {
	reqs := []pathway.DocumentRequirement{
		{ID: "marriage-certificate", FileNameKeywords: []string{"marriage"}},
	}
	upload := Upload{
		Name:     "marriage_scan.pdf",
		Analysis: &ExtractionResult{DocumentType: "birth-certificate"},
	}

	if got := ClassifyUpload(upload, reqs); got != "birth-certificate" {
		t.Fatalf("analysis output must win over filename heuristics, got %q", got)
	}

	upload.Analysis = nil
	if got := ClassifyUpload(upload, reqs); got != "marriage-certificate" {
		t.Fatalf("expected filename fallback, got %q", got)
	}
}
