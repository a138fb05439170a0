package pathway

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Load parses a single pathway configuration payload (JSON or YAML) and
// validates it. Every structural problem is collected; a failing load
// returns a *ValidationError carrying all of them at once so a pathway
// author sees the full list in one pass.
func Load(raw []byte) (Config, error) {
	doc, err := parseDocument(raw, "pathway")
	if err != nil {
		return Config{}, err
	}
	config, err := buildConfig(doc)
	if err != nil {
		return Config{}, err
	}
	if err := validateConfig(config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// LoadFile reads and parses one pathway configuration from disk.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pathway: read %s: %w", path, err)
	}
	return Load(raw)
}

// LoadFS walks the provided filesystem and loads every JSON/YAML pathway
// file, keyed by pathway id. Duplicate ids across files are an error.
func LoadFS(fsys fs.FS) (map[string]Config, error) {
	configs := make(map[string]Config)
	if fsys == nil {
		return configs, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}

		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("pathway: read %s: %w", path, err)
		}
		config, err := Load(raw)
		if err != nil {
			return fmt.Errorf("pathway: file %s: %w", path, err)
		}
		if _, exists := configs[config.ID]; exists {
			return fmt.Errorf("pathway: duplicate pathway %q (file %s)", config.ID, path)
		}
		configs[config.ID] = config
		return nil
	})
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

type documentFile struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	Description   string `json:"description" yaml:"description"`
	EstimatedTime string `json:"estimatedTime" yaml:"estimatedTime"`

	Steps []string `json:"steps" yaml:"steps"`

	DocumentRequirements []requirementFile `json:"documentRequirements" yaml:"documentRequirements"`
	FormSections         []sectionFile     `json:"formSections" yaml:"formSections"`
	FieldMappings        map[string]string `json:"fieldMappings" yaml:"fieldMappings"`

	Templates templatesFile `json:"templates" yaml:"templates"`

	ConfirmationRequirements []confirmationFile `json:"confirmationRequirements" yaml:"confirmationRequirements"`
	DescriptionRequirements  *descriptionFile   `json:"descriptionRequirements" yaml:"descriptionRequirements"`
	VerificationSteps        []string           `json:"verificationSteps" yaml:"verificationSteps"`
	SubmissionText           submissionFile     `json:"submissionText" yaml:"submissionText"`
}

type requirementFile struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Description      string   `json:"description" yaml:"description"`
	AcceptedFormats  []string `json:"acceptedFormats" yaml:"acceptedFormats"`
	MaxSize          int64    `json:"maxSize" yaml:"maxSize"`
	MinPages         int      `json:"minPages" yaml:"minPages"`
	Optional         bool     `json:"optional" yaml:"optional"`
	FileNameKeywords []string `json:"fileNameKeywords" yaml:"fileNameKeywords"`
}

type sectionFile struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	ID          string         `json:"id" yaml:"id"`
	Label       string         `json:"label" yaml:"label"`
	Type        string         `json:"type" yaml:"type"`
	Required    bool           `json:"required" yaml:"required"`
	Options     []optionFile   `json:"options" yaml:"options"`
	VisibleWhen string         `json:"visibleWhen" yaml:"visibleWhen"`
	Constraints map[string]any `json:"constraints" yaml:"constraints"`
}

type optionFile struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type templatesFile struct {
	MainForm                    string `json:"mainForm" yaml:"mainForm"`
	RequiresFinancialDisclosure bool   `json:"requiresFinancialDisclosure" yaml:"requiresFinancialDisclosure"`
	FinancialDisclosure         string `json:"financialDisclosure" yaml:"financialDisclosure"`
}

type confirmationFile struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

type descriptionFile struct {
	Path      string `json:"path" yaml:"path"`
	MinChars  int    `json:"minChars" yaml:"minChars"`
	CharLimit int    `json:"charLimit" yaml:"charLimit"`
	Optional  bool   `json:"optional" yaml:"optional"`
	Guidance  string `json:"guidance" yaml:"guidance"`
}

type submissionFile struct {
	Default    string `json:"default" yaml:"default"`
	Processing string `json:"processing" yaml:"processing"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("pathway: %s payload is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("pathway: parse %s: invalid JSON or YAML", source)
}

func buildConfig(doc documentFile) (Config, error) {
	config := Config{
		ID:            strings.TrimSpace(doc.ID),
		Title:         doc.Title,
		Description:   doc.Description,
		EstimatedTime: doc.EstimatedTime,
		Steps:         append([]string(nil), doc.Steps...),
		FieldMappings: make(map[string]string, len(doc.FieldMappings)),
		Templates: Templates{
			MainForm:                    strings.TrimSpace(doc.Templates.MainForm),
			RequiresFinancialDisclosure: doc.Templates.RequiresFinancialDisclosure,
			FinancialDisclosure:         strings.TrimSpace(doc.Templates.FinancialDisclosure),
		},
		VerificationSteps: append([]string(nil), doc.VerificationSteps...),
		SubmissionText: SubmissionText{
			Default:    doc.SubmissionText.Default,
			Processing: doc.SubmissionText.Processing,
		},
	}

	for name, path := range doc.FieldMappings {
		config.FieldMappings[strings.TrimSpace(name)] = strings.TrimSpace(path)
	}

	for _, req := range doc.DocumentRequirements {
		config.DocumentRequirements = append(config.DocumentRequirements, DocumentRequirement{
			ID:               strings.TrimSpace(req.ID),
			Title:            req.Title,
			Description:      req.Description,
			AcceptedFormats:  append([]string(nil), req.AcceptedFormats...),
			MaxSize:          req.MaxSize,
			MinPages:         req.MinPages,
			Optional:         req.Optional,
			FileNameKeywords: append([]string(nil), req.FileNameKeywords...),
		})
	}

	for _, sec := range doc.FormSections {
		section := FormSection{
			ID:          strings.TrimSpace(sec.ID),
			Title:       sec.Title,
			Description: sec.Description,
		}
		for _, f := range sec.Fields {
			field := Field{
				ID:          strings.TrimSpace(f.ID),
				Label:       f.Label,
				Type:        FieldType(strings.TrimSpace(f.Type)),
				Required:    f.Required,
				VisibleWhen: strings.TrimSpace(f.VisibleWhen),
			}
			if field.Type == "" {
				field.Type = FieldText
			}
			for _, opt := range f.Options {
				field.Options = append(field.Options, Option{Value: opt.Value, Label: opt.Label})
			}
			if len(f.Constraints) > 0 {
				schema, err := constraintSchema(f.Constraints)
				if err != nil {
					return Config{}, fmt.Errorf("pathway: field %q constraints: %w", field.ID, err)
				}
				field.Constraints = schema
			}
			section.Fields = append(section.Fields, field)
		}
		config.FormSections = append(config.FormSections, section)
	}

	for _, conf := range doc.ConfirmationRequirements {
		config.ConfirmationRequirements = append(config.ConfirmationRequirements, ConfirmationRequirement{
			ID:          strings.TrimSpace(conf.ID),
			Label:       conf.Label,
			Description: conf.Description,
		})
	}

	if doc.DescriptionRequirements != nil {
		desc := DescriptionRequirements{
			Path:      strings.TrimSpace(doc.DescriptionRequirements.Path),
			MinChars:  doc.DescriptionRequirements.MinChars,
			CharLimit: doc.DescriptionRequirements.CharLimit,
			Optional:  doc.DescriptionRequirements.Optional,
			Guidance:  doc.DescriptionRequirements.Guidance,
		}
		if desc.Path == "" {
			desc.Path = "description"
		}
		config.DescriptionRequirements = &desc
	}

	return config, nil
}

// constraintSchema converts the raw constraints mapping into a kin-openapi
// schema via a JSON round trip, so YAML and JSON configs share one code
// path.
func constraintSchema(raw map[string]any) (*openapi3.Schema, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var schema openapi3.Schema
	if err := schema.UnmarshalJSON(encoded); err != nil {
		return nil, err
	}
	return &schema, nil
}
