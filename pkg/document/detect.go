package document

import (
	"strings"

	"github.com/goliatone/go-intake/pkg/pathway"
)

// DetectType guesses which requirement an upload satisfies when the
// extraction collaborator did not report a type. This is a best-effort
// fallback over filename keywords, never the primary classification path:
// callers must prefer ExtractionResult.DocumentType when present. Returns
// GenericType when nothing matches.
func DetectType(fileName string, requirements []pathway.DocumentRequirement) string {
	name := strings.ToLower(strings.TrimSpace(fileName))
	if name == "" {
		return GenericType
	}

	for _, requirement := range requirements {
		for _, keyword := range requirement.FileNameKeywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" && strings.Contains(name, keyword) {
				return requirement.ID
			}
		}
	}

	// Second pass: requirement ids themselves make usable keywords
	// ("marriage-certificate" matches "marriage_certificate_scan.pdf").
	for _, requirement := range requirements {
		for _, keyword := range strings.Split(requirement.ID, "-") {
			if len(keyword) < 4 {
				continue
			}
			if strings.Contains(name, keyword) {
				return requirement.ID
			}
		}
	}
	return GenericType
}

// ClassifyUpload resolves an upload's type from its analysis output first,
// falling back to DetectType on the filename.
func ClassifyUpload(upload Upload, requirements []pathway.DocumentRequirement) string {
	if upload.Analysis != nil && strings.TrimSpace(upload.Analysis.DocumentType) != "" {
		return upload.Analysis.DocumentType
	}
	return DetectType(upload.Name, requirements)
}
