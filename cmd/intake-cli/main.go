package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"go.uber.org/zap"

	intake "github.com/goliatone/go-intake"
	"github.com/goliatone/go-intake/pkg/analysis"
	"github.com/goliatone/go-intake/pkg/answers"
	"github.com/goliatone/go-intake/pkg/condition"
	"github.com/goliatone/go-intake/pkg/document"
	"github.com/goliatone/go-intake/pkg/pathway"
)

func main() {
	configPath := flag.String("pathway", "", "pathway config file (JSON or YAML)")
	templateDir := flag.String("templates", "templates", "directory holding document templates")
	outputDir := flag.String("output", "out", "directory generated documents are written to")
	uploadList := flag.String("uploads", "", "comma-separated supporting document files")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("-pathway is required")
	}

	cfg, err := intake.LoadPathwayFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load pathway: %v", err)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to build logger: %v", err)
		}
		defer logger.Sync()
	}

	session := intake.New(cfg,
		intake.WithTemplateDir(os.DirFS(*templateDir), "."),
		intake.WithAnalyzer(analysis.WithTimeout(
			&analysis.KeywordAnalyzer{Requirements: cfg.DocumentRequirements},
			10*time.Second)),
		intake.WithLogger(logger),
	)
	defer session.CleanupCache()

	ctx := context.Background()

	fmt.Printf("%s\n%s\n\n", cfg.Title, cfg.Description)

	if err := attachUploads(ctx, session, *uploadList); err != nil {
		log.Fatalf("Failed to attach uploads: %v", err)
	}
	printChecklist(session)

	// session.Answers() already layers extraction output over the saved
	// baseline, so prompts default to auto-filled values while anything the
	// filer types stays on top.
	for _, section := range cfg.FormSections {
		stepAnswers, err := askSection(section, session.Answers())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		session.MergeAnswers(stepAnswers)
	}

	if err := askConfirmations(cfg, session); err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}

	result := session.Validate()
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	if !result.Valid {
		fmt.Println("\nThe submission is not ready:")
		for _, issue := range result.Errors {
			fmt.Printf("  - %s\n", issue)
		}
		os.Exit(1)
	}

	artifacts, err := session.GenerateDocuments(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	for _, artifact := range artifacts {
		target := filepath.Join(*outputDir, artifact.Name)
		if err := os.WriteFile(target, artifact.Content, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", artifact.Name, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", target, artifact.Size)
	}
}

func attachUploads(ctx context.Context, session *intake.Session, list string) error {
	for _, path := range strings.Split(list, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		upload, err := session.AddUpload(ctx, intake.Upload{
			Name:       filepath.Base(path),
			Content:    content,
			MimeType:   mime.TypeByExtension(filepath.Ext(path)),
			UploadedAt: time.Now(),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Attached %s as %s\n", upload.Name, upload.Type)
	}
	return nil
}

func printChecklist(session *intake.Session) {
	statuses := session.Checklist()
	fmt.Println("\nDocument checklist:")
	for _, requirement := range session.Pathway().DocumentRequirements {
		marker := " "
		if statuses[requirement.ID] != document.StatusMissing {
			marker = "x"
		}
		optional := ""
		if requirement.Optional {
			optional = " (optional)"
		}
		fmt.Printf("  [%s] %s%s\n", marker, requirement.Title, optional)
	}
	fmt.Println()
}

// askSection prompts for every currently visible field of one section and
// returns the answers as a step model. Visibility is re-evaluated per field
// against the answers gathered so far, so an earlier answer in the same
// section can reveal a later question.
func askSection(section pathway.FormSection, saved intake.Model) (intake.Model, error) {
	fmt.Printf("== %s ==\n", section.Title)

	step := intake.Model{}
	for _, field := range section.Fields {
		merged := answers.Merge(saved, step)
		if !condition.Visible(field.VisibleWhen, merged) {
			continue
		}

		value, err := askField(field, merged)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		step = answers.Set(step, field.ID, value)
	}
	return step, nil
}

func askField(field pathway.Field, merged intake.Model) (any, error) {
	current, _ := answers.Resolve(merged, field.ID)

	switch field.Type {
	case pathway.FieldCheckbox:
		confirmed := answers.Truthy(current)
		err := survey.AskOne(&survey.Confirm{Message: field.Label, Default: confirmed}, &confirmed)
		return confirmed, err

	case pathway.FieldDropdown:
		options := make([]string, 0, len(field.Options))
		for _, option := range field.Options {
			options = append(options, option.Value)
		}
		choice := ""
		err := survey.AskOne(&survey.Select{Message: field.Label, Options: options}, &choice)
		return choice, err

	case pathway.FieldTextarea:
		text := answers.CoerceString(current)
		err := survey.AskOne(&survey.Multiline{Message: field.Label, Default: text}, &text)
		return text, err

	case pathway.FieldNumber, pathway.FieldCurrency, pathway.FieldPercentage:
		text := answers.CoerceString(current)
		err := survey.AskOne(&survey.Input{Message: field.Label, Default: text}, &text)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		number, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return text, nil
		}
		return number, nil

	default:
		text := answers.CoerceString(current)
		err := survey.AskOne(&survey.Input{Message: field.Label, Default: text}, &text)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return text, nil
	}
}

func askConfirmations(cfg intake.Config, session *intake.Session) error {
	if len(cfg.ConfirmationRequirements) == 0 {
		return nil
	}
	fmt.Println("== Confirmations ==")
	step := intake.Model{}
	for _, confirmation := range cfg.ConfirmationRequirements {
		confirmed := false
		if err := survey.AskOne(&survey.Confirm{Message: confirmation.Label}, &confirmed); err != nil {
			return err
		}
		step = answers.Set(step, "confirmations."+confirmation.ID, confirmed)
	}
	session.MergeAnswers(step)
	return nil
}
